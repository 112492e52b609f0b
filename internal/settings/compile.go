package settings

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"iri2020/internal/native"
)

// Fixed switch indices that never depend on user input.
const (
	flagLogRouting   = 11 // false: messages go to the logfile unit
	flagLogEnabled   = 33 // true: open the logfile unit
	flagIonsPerCubic = 21 // false: ion densities in m^-3
	flagQuietIRIFLIP = 37 // true: suppress IRIFLIP diagnostic writes
)

// Compiled is the native-call-ready translation of a Settings record. It is
// immutable after Compile returns and safe to share between goroutines.
type Compiled struct {
	flags     [native.NumFlags]bool
	overrides [native.NumOverrides]float32
	logFile   string
	source    Settings
}

// Source is anything a query can take its settings from: a Settings record
// (compiled on use) or a previously compiled record (reused as is).
type Source interface {
	Compile() (*Compiled, error)
}

// Compile translates s into switch and override arrays. It fails with
// ErrInvalidInput for unknown categorical values and with a *fs.PathError
// wrapping ErrIsDirectory when the logfile names a directory.
func (s Settings) Compile() (*Compiled, error) {
	var flags [native.NumFlags]bool
	var oarr [native.NumOverrides]float32
	for i := range flags {
		flags[i] = true
	}
	for i := range oarr {
		oarr[i] = native.Unset
	}

	flags[flagLogRouting] = false
	flags[flagLogEnabled] = true
	flags[flagIonsPerCubic] = false
	flags[flagQuietIRIFLIP] = true

	// Toggles
	flags[6] = s.NeF107Limit
	flags[20] = s.IonDrift
	flags[25] = s.FoF2StormModel
	flags[27] = s.SpreadFProbability
	flags[32] = s.AuroralBoundary
	flags[34] = s.FoEStorm
	flags[35] = s.HmF2WithFoF2Storm
	flags[36] = s.TopsideWithoutFoF2Storm
	flags[40] = s.CovSource
	flags[41] = s.TeWithF107Dependency
	flags[44] = s.EsOccProb
	flags[45] = s.EsProbNoSolar
	flags[46] = s.CGMCompute
	flags[49] = s.Plasmapause

	// Overrides
	override(&flags, &oarr, 7, 0, s.FoF2)
	override(&flags, &oarr, 8, 1, s.HmF2)
	override(&flags, &oarr, 12, 2, s.FoF1)
	override(&flags, &oarr, 13, 3, s.HmF1)
	override(&flags, &oarr, 14, 4, s.FoE)
	override(&flags, &oarr, 15, 5, s.HmE)
	override(&flags, &oarr, 16, 32, s.Rz12)
	override(&flags, &oarr, 26, 38, s.IG12)
	override(&flags, &oarr, 42, 9, s.B0)
	override(&flags, &oarr, 43, 35, s.B1)
	if s.TeMode != nil {
		flags[9] = false
		oarr[14] = float32(s.TeMode.NeLower)
		oarr[15] = float32(s.TeMode.NeUpper)
	}
	if s.F107 != nil {
		flags[24] = false
		flags[31] = false
		oarr[40] = float32(s.F107.Daily)
		oarr[45] = float32(s.F107.Mean81)
	}

	categorical, err := s.categoricalFlags()
	if err != nil {
		return nil, err
	}
	for _, f := range categorical {
		flags[f.Index] = f.Value
	}

	logFile, err := resolveLogFile(s.LogFile)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		flags:     flags,
		overrides: oarr,
		logFile:   logFile,
		source:    s.Clone(),
	}, nil
}

// categoricalFlags collects the assignments of every categorical axis.
func (s Settings) categoricalFlags() ([]flagSet, error) {
	lookups := []func() ([]flagSet, error){
		func() ([]flagSet, error) { return b0b1Axis.lookup(s.B0B1Model) },
		func() ([]flagSet, error) { return fof2Axis.lookup(s.FoF2Model) },
		func() ([]flagSet, error) { return niAxis.lookup(s.NiModel) },
		func() ([]flagSet, error) { return neModeAxis.lookup(s.NeMode) },
		func() ([]flagSet, error) { return magFieldAxis.lookup(s.MagField) },
		func() ([]flagSet, error) { return f1Axis.lookup(s.F1Model) },
		func() ([]flagSet, error) { return teTopAxis.lookup(s.TeTopside) },
		func() ([]flagSet, error) { return dRegionAxis.lookup(s.DRegion) },
		func() ([]flagSet, error) { return topsideAxis.lookup(s.TopsideModel) },
		func() ([]flagSet, error) { return hmF2Axis.lookup(s.HmF2Model) },
		func() ([]flagSet, error) { return ionTempAxis.lookup(s.IonTempModel) },
		func() ([]flagSet, error) { return plasmasphereAxis.lookup(s.Plasmasphere) },
	}
	var out []flagSet
	for _, lookup := range lookups {
		set, err := lookup()
		if err != nil {
			return nil, err
		}
		out = append(out, set...)
	}
	return out, nil
}

func override(flags *[native.NumFlags]bool, oarr *[native.NumOverrides]float32, flag, slot int, v *float64) {
	if v == nil {
		return
	}
	flags[flag] = false
	oarr[slot] = float32(*v)
}

// resolveLogFile maps an empty path to the null device and rejects directories.
func resolveLogFile(path string) (string, error) {
	if path == "" {
		return os.DevNull, nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", &fs.PathError{Op: "logfile", Path: path, Err: ErrIsDirectory}
	}
	return path, nil
}

// Compile returns c itself so a compiled record can be passed wherever a
// Source is accepted. A nil record is rejected.
func (c *Compiled) Compile() (*Compiled, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil compiled settings", ErrInvalidInput)
	}
	return c, nil
}

// Flags returns a copy of the switch array.
func (c *Compiled) Flags() [native.NumFlags]bool {
	return c.flags
}

// Overrides returns a copy of the override array.
func (c *Compiled) Overrides() [native.NumOverrides]float32 {
	return c.overrides
}

// LogFile is the resolved log destination.
func (c *Compiled) LogFile() string {
	return c.logFile
}

// Settings returns a copy of the record this was compiled from.
func (c *Compiled) Settings() Settings {
	return c.source.Clone()
}

// Equal reports whether two compiled records drive the native model identically.
func (c *Compiled) Equal(o *Compiled) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.flags == o.flags && c.overrides == o.overrides && c.logFile == o.logFile
}

type compiledJSON struct {
	Settings  Settings                     `json:"settings"`
	Flags     [native.NumFlags]bool        `json:"flags"`
	Overrides [native.NumOverrides]float32 `json:"overrides"`
	LogFile   string                       `json:"logfile"`
}

// MarshalJSON serializes the record for provenance.
func (c *Compiled) MarshalJSON() ([]byte, error) {
	return json.Marshal(compiledJSON{
		Settings:  c.source,
		Flags:     c.flags,
		Overrides: c.overrides,
		LogFile:   c.logFile,
	})
}
