// Package assembler turns raw IRI-2020 output buffers into a labeled,
// unit-tagged QueryResult.
package assembler

import (
	"time"

	"github.com/google/uuid"

	"iri2020/internal/models"
	"iri2020/internal/native"
	"iri2020/internal/settings"
)

// Description is attached to every result.
const Description = "IRI 2020 model output"

// ShapeError is the panic value for output buffers that do not match the
// altitude grid.
type ShapeError = native.ShapeError

// Profiles builds the density and temperature series. It panics with a
// *ShapeError when a channel length differs from len(alts).
func Profiles(out *native.Output, alts []float64) (densities, temperatures []models.Profile) {
	if err := out.Validate(len(alts)); err != nil {
		panic(err)
	}
	densities = make([]models.Profile, 0, len(densityChannels))
	for _, ch := range densityChannels {
		densities = append(densities, profile(ch, unitsDensity, out.Profiles[ch.row], DensityScale))
	}
	temperatures = make([]models.Profile, 0, len(temperatureChannels))
	for _, ch := range temperatureChannels {
		temperatures = append(temperatures, profile(ch, unitsKelvin, out.Profiles[ch.row], 1))
	}
	return densities, temperatures
}

func profile(ch channel, units string, row []float32, scale float64) models.Profile {
	values := make([]float64, len(row))
	for i, v := range row {
		values[i] = float64(v) * scale
	}
	return models.Profile{
		Field:  models.Field{Name: ch.name, Units: units, LongName: ch.longName, Slot: ch.row},
		Values: values,
	}
}

// Scalars labels every mapped override slot, in slot order.
func Scalars(oarr [native.NumOverrides]float32) []models.Scalar {
	out := make([]models.Scalar, 0, len(scalarTable))
	for _, def := range scalarTable {
		out = append(out, models.Scalar{
			Field: def.field(),
			Value: float64(oarr[def.slot]) * def.scale,
		})
	}
	return out
}

// Unmapped lists the slots that are produced but not labeled.
func Unmapped() []models.Field {
	out := make([]models.Field, 0, len(unmappedTable))
	for _, def := range unmappedTable {
		out = append(out, def.field())
	}
	return out
}

func (d scalarDef) field() models.Field {
	return models.Field{
		Name:        d.name,
		Units:       d.units,
		LongName:    d.longName,
		Description: d.description,
		Slot:        d.slot,
	}
}

// Assemble builds the complete result. date may be nil for queries that
// bypass timestamp conversion. It panics with a *ShapeError on a malformed
// output matrix.
func Assemble(out *native.Output, alts []float64, c *settings.Compiled, date *time.Time) *models.QueryResult {
	densities, temperatures := Profiles(out, alts)
	return Result(alts, densities, temperatures, Scalars(out.Overrides), c, date)
}

// Result packages already labeled series and scalars with their provenance.
func Result(alts []float64, densities, temperatures []models.Profile, scalars []models.Scalar, c *settings.Compiled, date *time.Time) *models.QueryResult {
	return &models.QueryResult{
		ID:           uuid.New(),
		Description:  Description,
		Date:         date,
		Altitude:     append([]float64(nil), alts...),
		Densities:    densities,
		Temperatures: temperatures,
		Scalars:      scalars,
		Unmapped:     Unmapped(),
		Settings:     c,
	}
}
