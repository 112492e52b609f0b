package iri

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iri2020/internal/settings"
)

func TestAltGrid(t *testing.T) {
	grid, err := AltGrid(100, 300, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200, 300}, grid)

	_, err = AltGrid(100, 300, 1)
	assert.ErrorIs(t, err, settings.ErrInvalidInput)
	_, err = AltGrid(300, 100, 5)
	assert.ErrorIs(t, err, settings.ErrInvalidInput)

	def := DefaultAltGrid()
	require.Len(t, def, DefaultAltitudes)
	assert.Equal(t, DefaultMinAltitude, def[0])
	assert.Equal(t, DefaultMaxAltitude, def[len(def)-1])
	assert.InDelta(t, 10, def[1]-def[0], 1e-9)
}

func TestIRIDate(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		year int
		day  int
		ut   float64
	}{
		{"new year", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 2020, 1, 0},
		{"leap day", time.Date(2020, 12, 31, 23, 59, 59, 500e6, time.UTC), 2020, 366, 86399.5},
		{"equinox noon", time.Date(2022, 3, 21, 12, 0, 0, 0, time.UTC), 2022, 80, 43200},
		{"offset zone", time.Date(2022, 3, 21, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)), 2022, 79, 79200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, day, ut := IRIDate(tt.t)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.day, day)
			assert.InDelta(t, tt.ut, ut, 1e-9)
		})
	}
}

func TestNormalizeLongitude(t *testing.T) {
	for in, want := range map[float64]float64{
		-10:  350,
		0:    0,
		105:  105,
		360:  0,
		725:  5,
		-360: 0,
		-370: 350,
	} {
		assert.InDelta(t, want, NormalizeLongitude(in), 1e-9, "lon %v", in)
	}
}
