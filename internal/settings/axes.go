package settings

// B0B1Model selects the bottomside thickness/shape model.
type B0B1Model string

const (
	B0B1Bil2000      B0B1Model = "Bil-2000"
	B0B1ABT2009      B0B1Model = "ABT-2009"
	B0B1Gulyaeva1987 B0B1Model = "Gulayeva-1987"
)

// FoF2Model selects the F2 critical frequency coefficients.
type FoF2Model string

const (
	FoF2CCIR FoF2Model = "CCIR"
	FoF2URSI FoF2Model = "URSI"
)

// NiModel selects the ion composition model.
type NiModel string

const (
	NiDS95DY85   NiModel = "DS-95 & DY-85"
	NiRBV2010TBT NiModel = "RBV-2010 & TBT-2015"
)

// NeMode selects how the F1 region electron density is built.
type NeMode string

const (
	NeStandard    NeMode = "Standard"
	NeLayFunction NeMode = "Lay-function"
)

// MagField selects the geomagnetic field model.
type MagField string

const (
	MagFieldIGRF   MagField = "IGRF"
	MagFieldPOGO68 MagField = "POGO68"
)

// F1Model selects the F1 layer occurrence model.
type F1Model string

const (
	F1Probabilistic  F1Model = "Probabilistic"
	F1ProbabilisticL F1Model = "Probabilistic+L"
	F1Classic        F1Model = "Classic"
	F1None           F1Model = "None"
)

// TeTopModel selects the topside electron temperature model.
type TeTopModel string

const (
	TeTopBil1985 TeTopModel = "Bil-1985"
	TeTopTBT2012 TeTopModel = "TBT-2012"
)

// DRegionModel selects the D-region model.
type DRegionModel string

const (
	DRegionIRI90         DRegionModel = "IRI-90"
	DRegionFT2001DRS1995 DRegionModel = "FT-2001 & DRS-1995"
)

// TopsideModel selects the topside electron density model.
type TopsideModel string

const (
	TopsideIRI90   TopsideModel = "IRI-90"
	TopsideIRICor  TopsideModel = "IRICor"
	TopsideNeQuick TopsideModel = "NeQuick"
	TopsideIRICor2 TopsideModel = "IRICor2"
)

// HmF2Model selects the F2 peak height model.
type HmF2Model string

const (
	HmF2IRI90  HmF2Model = "IRI-90"
	HmF2AMTB   HmF2Model = "AMTB"
	HmF2Shubin HmF2Model = "Shubin"
	HmF2None   HmF2Model = "None"
)

// IonTempModel selects the ion temperature model.
type IonTempModel string

const (
	IonTempTru2021 IonTempModel = "Tru-2021"
	IonTempBil1981 IonTempModel = "Bil-1981"
)

// PlasmasphereModel selects the plasmasphere model.
type PlasmasphereModel string

const (
	PlasmasphereOzhogin   PlasmasphereModel = "Ozhogin"
	PlasmasphereGallagher PlasmasphereModel = "Gallagher"
)

// flagSet is a single (index, value) assignment into the switch array.
type flagSet struct {
	Index int
	Value bool
}

// variant is one row of a categorical axis table.
type variant[T ~string] struct {
	Value T
	Flags []flagSet
}

// axis is the closed translation table of one categorical setting.
type axis[T ~string] struct {
	Name string
	Rows []variant[T]
}

func (a axis[T]) lookup(v T) ([]flagSet, error) {
	for _, row := range a.Rows {
		if row.Value == v {
			return row.Flags, nil
		}
	}
	return nil, &VariantError{Axis: a.Name, Value: string(v)}
}

func (a axis[T]) values() []T {
	out := make([]T, len(a.Rows))
	for i, row := range a.Rows {
		out[i] = row.Value
	}
	return out
}

func on(i int) flagSet  { return flagSet{Index: i, Value: true} }
func off(i int) flagSet { return flagSet{Index: i, Value: false} }

var (
	b0b1Axis = axis[B0B1Model]{Name: "B0B1Model", Rows: []variant[B0B1Model]{
		{B0B1Bil2000, []flagSet{on(3), on(30)}},
		{B0B1ABT2009, []flagSet{off(3), on(30)}},
		{B0B1Gulyaeva1987, []flagSet{off(3), off(30)}},
	}}

	fof2Axis = axis[FoF2Model]{Name: "FoF2Model", Rows: []variant[FoF2Model]{
		{FoF2CCIR, []flagSet{on(4)}},
		{FoF2URSI, []flagSet{off(4)}},
	}}

	niAxis = axis[NiModel]{Name: "NiModel", Rows: []variant[NiModel]{
		{NiDS95DY85, []flagSet{on(5)}},
		{NiRBV2010TBT, []flagSet{off(5)}},
	}}

	neModeAxis = axis[NeMode]{Name: "NeMode", Rows: []variant[NeMode]{
		{NeStandard, []flagSet{on(10)}},
		{NeLayFunction, []flagSet{off(10)}},
	}}

	magFieldAxis = axis[MagField]{Name: "MagField", Rows: []variant[MagField]{
		{MagFieldIGRF, []flagSet{on(17)}},
		{MagFieldPOGO68, []flagSet{off(17)}},
	}}

	f1Axis = axis[F1Model]{Name: "F1Model", Rows: []variant[F1Model]{
		{F1Probabilistic, []flagSet{on(18), on(19)}},
		{F1ProbabilisticL, []flagSet{on(18), off(19)}},
		{F1Classic, []flagSet{off(18), on(19)}},
		{F1None, []flagSet{off(18), off(19)}},
	}}

	teTopAxis = axis[TeTopModel]{Name: "TeTopModel", Rows: []variant[TeTopModel]{
		{TeTopBil1985, []flagSet{on(22)}},
		{TeTopTBT2012, []flagSet{off(22)}},
	}}

	dRegionAxis = axis[DRegionModel]{Name: "DRegionModel", Rows: []variant[DRegionModel]{
		{DRegionIRI90, []flagSet{on(23)}},
		{DRegionFT2001DRS1995, []flagSet{off(23)}},
	}}

	topsideAxis = axis[TopsideModel]{Name: "TopsideModel", Rows: []variant[TopsideModel]{
		{TopsideIRI90, []flagSet{on(28), on(29)}},
		{TopsideIRICor, []flagSet{off(28), on(29)}},
		{TopsideNeQuick, []flagSet{off(28), off(29)}},
		{TopsideIRICor2, []flagSet{on(28), off(29)}},
	}}

	hmF2Axis = axis[HmF2Model]{Name: "HmF2Model", Rows: []variant[HmF2Model]{
		{HmF2IRI90, []flagSet{on(38), on(39)}},
		{HmF2AMTB, []flagSet{off(38), on(39)}},
		{HmF2Shubin, []flagSet{off(38), off(39)}},
		{HmF2None, []flagSet{on(38), off(39)}},
	}}

	ionTempAxis = axis[IonTempModel]{Name: "IonTempModel", Rows: []variant[IonTempModel]{
		{IonTempTru2021, []flagSet{on(47)}},
		{IonTempBil1981, []flagSet{off(47)}},
	}}

	plasmasphereAxis = axis[PlasmasphereModel]{Name: "PlasmasphereModel", Rows: []variant[PlasmasphereModel]{
		{PlasmasphereOzhogin, []flagSet{on(48)}},
		{PlasmasphereGallagher, []flagSet{off(48)}},
	}}
)

// Variants lists the legal values of every categorical setting, keyed by axis name.
func Variants() map[string][]string {
	return map[string][]string{
		b0b1Axis.Name:         toStrings(b0b1Axis.values()),
		fof2Axis.Name:         toStrings(fof2Axis.values()),
		niAxis.Name:           toStrings(niAxis.values()),
		neModeAxis.Name:       toStrings(neModeAxis.values()),
		magFieldAxis.Name:     toStrings(magFieldAxis.values()),
		f1Axis.Name:           toStrings(f1Axis.values()),
		teTopAxis.Name:        toStrings(teTopAxis.values()),
		dRegionAxis.Name:      toStrings(dRegionAxis.values()),
		topsideAxis.Name:      toStrings(topsideAxis.values()),
		hmF2Axis.Name:         toStrings(hmF2Axis.values()),
		ionTempAxis.Name:      toStrings(ionTempAxis.values()),
		plasmasphereAxis.Name: toStrings(plasmasphereAxis.values()),
	}
}

func toStrings[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
