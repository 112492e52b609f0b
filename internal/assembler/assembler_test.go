package assembler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iri2020/internal/native"
	"iri2020/internal/settings"
)

func syntheticOutput(n int) *native.Output {
	out := native.NewOutput(n)
	for ch := range out.Profiles {
		for i := range out.Profiles[ch] {
			out.Profiles[ch][i] = float32((ch+1)*1000 + i)
		}
	}
	for i := range out.Overrides {
		out.Overrides[i] = float32(i) + 0.5
	}
	return out
}

func TestAssemble_Fields(t *testing.T) {
	alts := []float64{100, 200, 300}
	c, err := settings.Default().Compile()
	require.NoError(t, err)
	date := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	res := Assemble(syntheticOutput(len(alts)), alts, c, &date)

	assert.Equal(t, Description, res.Description)
	assert.Equal(t, alts, res.Altitude)
	assert.Same(t, c, res.Settings)
	require.NotNil(t, res.Date)
	assert.True(t, date.Equal(*res.Date))
	assert.Len(t, res.Densities, 8)
	assert.Len(t, res.Temperatures, 3)

	wantDensities := map[string]int{"Ne": 0, "O+": 4, "H+": 5, "He+": 6, "O2+": 7, "NO+": 8, "Cluster": 9, "N+": 10}
	for name, row := range wantDensities {
		p, ok := res.Profile(name)
		require.True(t, ok, name)
		assert.Equal(t, "cm^-3", p.Units)
		assert.Equal(t, row, p.Slot)
		require.Len(t, p.Values, 3)
		for i, v := range p.Values {
			assert.InDelta(t, float64((row+1)*1000+i)*1e-6, v, 1e-12, "%s[%d]", name, i)
		}
	}

	wantTemps := map[string]struct {
		row      int
		longName string
	}{
		"Tn": {1, "Neutral Temperature"},
		"Te": {3, "Electron Temperature"},
		"Ti": {2, "Ion Temperature"},
	}
	for name, want := range wantTemps {
		p, ok := res.Profile(name)
		require.True(t, ok, name)
		assert.Equal(t, "K", p.Units)
		assert.Equal(t, want.longName, p.LongName)
		assert.Equal(t, float64((want.row+1)*1000), p.Values[0])
	}

	ne, _ := res.Profile("Ne")
	assert.Equal(t, "Electron Density", ne.LongName)
}

func TestScalars_Table(t *testing.T) {
	var oarr [native.NumOverrides]float32
	for i := range oarr {
		oarr[i] = float32(i) + 0.5
	}
	scalars := Scalars(oarr)

	// 91 slots minus the two unmapped TEC slots
	assert.Len(t, scalars, 89)

	seen := map[int]bool{}
	prev := -1
	for _, s := range scalars {
		assert.Greater(t, s.Slot, prev, "slot order")
		prev = s.Slot
		assert.False(t, seen[s.Slot], "slot %d mapped twice", s.Slot)
		seen[s.Slot] = true
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.LongName)
	}
	assert.False(t, seen[36])
	assert.False(t, seen[37])
	for slot := 91; slot < native.NumOverrides; slot++ {
		assert.False(t, seen[slot], "slot %d", slot)
	}

	tests := []struct {
		name  string
		value float64
		units string
	}{
		{"nmF2", 0.5e-6, "cm^-3"},
		{"hmF2", 1.5, "km"},
		{"nmF1", 2.5e-6, "cm^-3"},
		{"nmE", 4.5e-6, "cm^-3"},
		{"nmD", 6.5e-6, "cm^-3"},
		{"valley_base", 10.5e-6, "cm^-3"},
		{"Te-MOD(1400km)", 17.5, "K"},
		{"season", 30.5, ""},
		{"B1", 34.5, ""},
		{"M(3000)F2", 35.5, "MHz"},
		{"IG12", 38.5, ""},
		{"F10.7_81", 45.5, "sfu"},
		{"cgm_lat_mlt_00", 58.5, "degrees"},
		{"cgm_lat_mlt_23", 81.5, "degrees"},
		{"dipole-moment", 85.5, "Unknown"},
		{"es_occ_prob", 90.5, "%"},
	}
	byName := map[string]float64{}
	units := map[string]string{}
	for _, s := range scalars {
		byName[s.Name] = s.Value
		units[s.Name] = s.Units
	}
	for _, tt := range tests {
		v, ok := byName[tt.name]
		require.True(t, ok, tt.name)
		assert.InDelta(t, tt.value, v, 1e-9, tt.name)
		assert.Equal(t, tt.units, units[tt.name], tt.name)
	}
}

func TestUnmapped(t *testing.T) {
	fields := Unmapped()
	require.Len(t, fields, 2)
	assert.Equal(t, "TEC", fields[0].Name)
	assert.Equal(t, 36, fields[0].Slot)
	assert.Equal(t, "TEC_top", fields[1].Name)
	assert.Equal(t, 37, fields[1].Slot)
}

func TestAssemble_Pure(t *testing.T) {
	alts := []float64{100, 150, 200, 250}
	c, err := settings.Default().Compile()
	require.NoError(t, err)

	a := Assemble(syntheticOutput(len(alts)), alts, c, nil)
	b := Assemble(syntheticOutput(len(alts)), alts, c, nil)

	assert.Equal(t, a.Densities, b.Densities)
	assert.Equal(t, a.Temperatures, b.Temperatures)
	assert.Equal(t, a.Scalars, b.Scalars)
	assert.Equal(t, a.Unmapped, b.Unmapped)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.Date)
}

func TestAssemble_ShapeMismatch(t *testing.T) {
	out := native.NewOutput(2)
	assert.PanicsWithError(t, "native output channel 0 has 2 samples, want 3", func() {
		Assemble(out, []float64{1, 2, 3}, nil, nil)
	})
}

func TestAssemble_CopiesAltitudes(t *testing.T) {
	alts := []float64{100, 200}
	res := Assemble(syntheticOutput(2), alts, nil, nil)
	alts[0] = -1
	assert.Equal(t, 100.0, res.Altitude[0])
}
