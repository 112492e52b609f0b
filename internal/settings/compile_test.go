package settings

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iri2020/internal/native"
)

type axisCase struct {
	name    string
	indices []int
	apply   func(*Settings, string)
	rows    map[string][]bool
}

func axisCases() []axisCase {
	return []axisCase{
		{
			name:    "B0B1Model",
			indices: []int{3, 30},
			apply:   func(s *Settings, v string) { s.B0B1Model = B0B1Model(v) },
			rows: map[string][]bool{
				"Bil-2000":      {true, true},
				"ABT-2009":      {false, true},
				"Gulayeva-1987": {false, false},
			},
		},
		{
			name:    "FoF2Model",
			indices: []int{4},
			apply:   func(s *Settings, v string) { s.FoF2Model = FoF2Model(v) },
			rows:    map[string][]bool{"CCIR": {true}, "URSI": {false}},
		},
		{
			name:    "NiModel",
			indices: []int{5},
			apply:   func(s *Settings, v string) { s.NiModel = NiModel(v) },
			rows:    map[string][]bool{"DS-95 & DY-85": {true}, "RBV-2010 & TBT-2015": {false}},
		},
		{
			name:    "NeMode",
			indices: []int{10},
			apply:   func(s *Settings, v string) { s.NeMode = NeMode(v) },
			rows:    map[string][]bool{"Standard": {true}, "Lay-function": {false}},
		},
		{
			name:    "MagField",
			indices: []int{17},
			apply:   func(s *Settings, v string) { s.MagField = MagField(v) },
			rows:    map[string][]bool{"IGRF": {true}, "POGO68": {false}},
		},
		{
			name:    "F1Model",
			indices: []int{18, 19},
			apply:   func(s *Settings, v string) { s.F1Model = F1Model(v) },
			rows: map[string][]bool{
				"Probabilistic":   {true, true},
				"Probabilistic+L": {true, false},
				"Classic":         {false, true},
				"None":            {false, false},
			},
		},
		{
			name:    "TeTopModel",
			indices: []int{22},
			apply:   func(s *Settings, v string) { s.TeTopside = TeTopModel(v) },
			rows:    map[string][]bool{"Bil-1985": {true}, "TBT-2012": {false}},
		},
		{
			name:    "DRegionModel",
			indices: []int{23},
			apply:   func(s *Settings, v string) { s.DRegion = DRegionModel(v) },
			rows:    map[string][]bool{"IRI-90": {true}, "FT-2001 & DRS-1995": {false}},
		},
		{
			name:    "TopsideModel",
			indices: []int{28, 29},
			apply:   func(s *Settings, v string) { s.TopsideModel = TopsideModel(v) },
			rows: map[string][]bool{
				"IRI-90":  {true, true},
				"IRICor":  {false, true},
				"NeQuick": {false, false},
				"IRICor2": {true, false},
			},
		},
		{
			name:    "HmF2Model",
			indices: []int{38, 39},
			apply:   func(s *Settings, v string) { s.HmF2Model = HmF2Model(v) },
			rows: map[string][]bool{
				"IRI-90": {true, true},
				"AMTB":   {false, true},
				"Shubin": {false, false},
				"None":   {true, false},
			},
		},
		{
			name:    "IonTempModel",
			indices: []int{47},
			apply:   func(s *Settings, v string) { s.IonTempModel = IonTempModel(v) },
			rows:    map[string][]bool{"Tru-2021": {true}, "Bil-1981": {false}},
		},
		{
			name:    "PlasmasphereModel",
			indices: []int{48},
			apply:   func(s *Settings, v string) { s.Plasmasphere = PlasmasphereModel(v) },
			rows:    map[string][]bool{"Ozhogin": {true}, "Gallagher": {false}},
		},
	}
}

func TestCompile_AxisTruthTables(t *testing.T) {
	base, err := Default().Compile()
	require.NoError(t, err)
	baseFlags := base.Flags()

	for _, tc := range axisCases() {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, keys(tc.rows), Variants()[tc.name], "table must cover every variant")

			for variant, want := range tc.rows {
				s := Default()
				tc.apply(&s, variant)
				c, err := s.Compile()
				require.NoError(t, err, variant)
				flags := c.Flags()

				for i, idx := range tc.indices {
					assert.Equal(t, want[i], flags[idx], "%s flag %d", variant, idx)
				}
				for idx := range flags {
					if contains(tc.indices, idx) {
						continue
					}
					assert.Equal(t, baseFlags[idx], flags[idx], "%s touched flag %d", variant, idx)
				}
			}
		})
	}
}

func TestCompile_ForcedFlags(t *testing.T) {
	c, err := Default().Compile()
	require.NoError(t, err)
	flags := c.Flags()

	assert.False(t, flags[11])
	assert.True(t, flags[33])
	assert.False(t, flags[21])
	assert.True(t, flags[37])
}

func TestCompile_DefaultOverridesUnset(t *testing.T) {
	c, err := Default().Compile()
	require.NoError(t, err)

	for i, v := range c.Overrides() {
		assert.Equal(t, native.Unset, v, "slot %d", i)
	}
	flags := c.Flags()
	for _, idx := range []int{7, 8, 9, 12, 13, 14, 15, 16, 24, 26, 31, 42, 43} {
		assert.True(t, flags[idx], "auto-compute flag %d", idx)
	}
}

func TestCompile_Toggles(t *testing.T) {
	toggles := map[int]func(*Settings, bool){
		6:  func(s *Settings, v bool) { s.NeF107Limit = v },
		20: func(s *Settings, v bool) { s.IonDrift = v },
		25: func(s *Settings, v bool) { s.FoF2StormModel = v },
		27: func(s *Settings, v bool) { s.SpreadFProbability = v },
		32: func(s *Settings, v bool) { s.AuroralBoundary = v },
		34: func(s *Settings, v bool) { s.FoEStorm = v },
		35: func(s *Settings, v bool) { s.HmF2WithFoF2Storm = v },
		36: func(s *Settings, v bool) { s.TopsideWithoutFoF2Storm = v },
		40: func(s *Settings, v bool) { s.CovSource = v },
		41: func(s *Settings, v bool) { s.TeWithF107Dependency = v },
		44: func(s *Settings, v bool) { s.EsOccProb = v },
		45: func(s *Settings, v bool) { s.EsProbNoSolar = v },
		46: func(s *Settings, v bool) { s.CGMCompute = v },
		49: func(s *Settings, v bool) { s.Plasmapause = v },
	}
	for idx, set := range toggles {
		for _, v := range []bool{true, false} {
			s := Default()
			set(&s, v)
			c, err := s.Compile()
			require.NoError(t, err)
			flags := c.Flags()
			assert.Equal(t, v, flags[idx], "flag %d", idx)
		}
	}
}

func TestCompile_Overrides(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Settings)
		flags []int
		slots map[int]float32
	}{
		{"foF2", func(s *Settings) { s.FoF2 = Float(7.5) }, []int{7}, map[int]float32{0: 7.5}},
		{"hmF2", func(s *Settings) { s.HmF2 = Float(300) }, []int{8}, map[int]float32{1: 300}},
		{"foF1", func(s *Settings) { s.FoF1 = Float(4.25) }, []int{12}, map[int]float32{2: 4.25}},
		{"hmF1", func(s *Settings) { s.HmF1 = Float(180) }, []int{13}, map[int]float32{3: 180}},
		{"foE", func(s *Settings) { s.FoE = Float(3) }, []int{14}, map[int]float32{4: 3}},
		{"hmE", func(s *Settings) { s.HmE = Float(110) }, []int{15}, map[int]float32{5: 110}},
		{"rz12", func(s *Settings) { s.Rz12 = Float(80) }, []int{16}, map[int]float32{32: 80}},
		{"ig12", func(s *Settings) { s.IG12 = Float(95) }, []int{26}, map[int]float32{38: 95}},
		{"b0", func(s *Settings) { s.B0 = Float(120) }, []int{42}, map[int]float32{9: 120}},
		{"b1", func(s *Settings) { s.B1 = Float(2.5) }, []int{43}, map[int]float32{35: 2.5}},
		{
			"te_mode",
			func(s *Settings) { s.TeMode = &TeNeCorrelation{NeLower: 1e11, NeUpper: 5e10} },
			[]int{9},
			map[int]float32{14: 1e11, 15: 5e10},
		},
		{
			"f107",
			func(s *Settings) { s.F107 = &SolarFlux{Daily: 150, Mean81: 140} },
			[]int{24, 31},
			map[int]float32{40: 150, 45: 140},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.apply(&s)
			c, err := s.Compile()
			require.NoError(t, err)

			flags := c.Flags()
			for _, idx := range tt.flags {
				assert.False(t, flags[idx], "flag %d", idx)
			}
			oarr := c.Overrides()
			for i, v := range oarr {
				if want, ok := tt.slots[i]; ok {
					assert.Equal(t, want, v, "slot %d", i)
				} else {
					assert.Equal(t, native.Unset, v, "slot %d", i)
				}
			}
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	s := Default()
	s.FoF2 = Float(8)
	s.TopsideModel = TopsideNeQuick

	a, err := s.Compile()
	require.NoError(t, err)
	b, err := s.Compile()
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Flags(), b.Flags())
	assert.Equal(t, a.Overrides(), b.Overrides())

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
}

func TestCompile_UnknownVariant(t *testing.T) {
	for _, tc := range axisCases() {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.apply(&s, "NotAModel")

			c, err := s.Compile()
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var verr *VariantError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.name, verr.Axis)
			assert.Equal(t, "NotAModel", verr.Value)
		})
	}
}

func TestCompile_LogFile(t *testing.T) {
	t.Run("empty discards", func(t *testing.T) {
		c, err := Default().Compile()
		require.NoError(t, err)
		assert.Equal(t, os.DevNull, c.LogFile())
	})

	t.Run("path kept", func(t *testing.T) {
		s := Default()
		s.LogFile = filepath.Join(t.TempDir(), "iri.log")
		c, err := s.Compile()
		require.NoError(t, err)
		assert.Equal(t, s.LogFile, c.LogFile())
	})

	t.Run("directory rejected", func(t *testing.T) {
		s := Default()
		s.LogFile = t.TempDir()
		c, err := s.Compile()
		require.Error(t, err)
		assert.Nil(t, c)
		assert.True(t, errors.Is(err, ErrIsDirectory))

		var perr *fs.PathError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, s.LogFile, perr.Path)
	})
}

func TestCompiled_Immutable(t *testing.T) {
	s := Default()
	s.FoF2 = Float(6)
	c, err := s.Compile()
	require.NoError(t, err)

	*s.FoF2 = 9
	got := c.Settings()
	assert.Equal(t, 6.0, *got.FoF2)

	*got.FoF2 = 11
	assert.Equal(t, 6.0, *c.Settings().FoF2)

	flags := c.Flags()
	flags[0] = false
	assert.True(t, c.Flags()[0])
}

func TestCompiled_Source(t *testing.T) {
	c, err := Default().Compile()
	require.NoError(t, err)

	same, err := c.Compile()
	require.NoError(t, err)
	assert.Same(t, c, same)

	var nilCompiled *Compiled
	_, err = nilCompiled.Compile()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettings_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "logfile")
	assert.Nil(t, m["logfile"])
	assert.Equal(t, "URSI", m["fof2_model"])
	assert.NotContains(t, m, "foF2")

	s := Default()
	s.LogFile = "/tmp/iri.log"
	data, err = json.Marshal(s)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "/tmp/iri.log", m["logfile"])
}

func keys(m map[string][]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
