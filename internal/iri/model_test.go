package iri

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iri2020/internal/mocks"
	"iri2020/internal/native"
	"iri2020/internal/settings"
)

func newModel(t *testing.T) (*Model, *mocks.MockSolver) {
	t.Helper()
	solver := mocks.NewMockSolver()
	m := New(solver, Options{DataDir: "/srv/iri/data"})
	require.NoError(t, m.Init())
	t.Cleanup(func() { _ = m.Close() })
	return m, solver
}

func TestEvaluate_EndToEnd(t *testing.T) {
	m, solver := newModel(t)
	when := time.Date(2022, 3, 21, 12, 0, 0, 0, time.UTC)

	c, res, err := m.Evaluate(context.Background(), when, 40, 105, []float64{100, 200, 300}, settings.Default())
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, res)

	assert.Len(t, res.Densities, 8)
	assert.Len(t, res.Temperatures, 3)
	assert.Equal(t, 3, res.Len())
	for _, group := range [][]string{{"Ne", "O+", "H+", "He+", "O2+", "NO+", "Cluster", "N+"}, {"Tn", "Te", "Ti"}} {
		for _, name := range group {
			p, ok := res.Profile(name)
			require.True(t, ok, name)
			require.Len(t, p.Values, 3, name)
			for _, v := range p.Values {
				assert.False(t, math.IsNaN(v), name)
			}
		}
	}
	require.NotNil(t, res.Date)
	assert.True(t, when.Equal(*res.Date))
	assert.Same(t, c, res.Settings)

	in := solver.LastInput()
	assert.Equal(t, 2022, in.Year)
	assert.Equal(t, -80, in.MMDD)
	assert.InDelta(t, 37.0, in.DHour, 1e-6)
	assert.Equal(t, native.GeographicCoords, in.JMag)
	assert.Equal(t, "/srv/iri/data", in.DataDir)
	assert.Equal(t, c.Flags(), in.Flags)
}

func TestEvaluate_ConvertsToUTC(t *testing.T) {
	m, solver := newModel(t)
	zone := time.FixedZone("UTC-7", -7*3600)
	local := time.Date(2022, 12, 31, 20, 30, 0, 0, zone)

	_, res, err := m.Evaluate(context.Background(), local, 40, 105, []float64{300}, nil)
	require.NoError(t, err)

	in := solver.LastInput()
	assert.Equal(t, 2023, in.Year)
	assert.Equal(t, -1, in.MMDD)
	assert.InDelta(t, 3.5+native.HourOffset, in.DHour, 1e-5)
	require.NotNil(t, res.Date)
	assert.Equal(t, time.UTC, res.Date.Location())
}

func TestEvaluate_LongitudeWrap(t *testing.T) {
	m, _ := newModel(t)
	when := time.Date(2022, 3, 21, 12, 0, 0, 0, time.UTC)
	alts := []float64{100, 200, 300}

	c, west, err := m.Evaluate(context.Background(), when, 40, -10, alts, nil)
	require.NoError(t, err)
	_, east, err := m.Evaluate(context.Background(), when, 40, 350, alts, c)
	require.NoError(t, err)

	assert.Equal(t, west.Densities, east.Densities)
	assert.Equal(t, west.Temperatures, east.Temperatures)
	lon, ok := west.Scalar("lon")
	require.True(t, ok)
	assert.InDelta(t, 350, lon.Value, 1e-4)
}

func TestLowLevel(t *testing.T) {
	m, solver := newModel(t)

	_, res, err := m.LowLevel(context.Background(), 40, 105, []float64{100, 200}, 2020, 172, 43200, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Date)

	in := solver.LastInput()
	assert.Equal(t, 2020, in.Year)
	assert.Equal(t, -172, in.MMDD)
	assert.InDelta(t, 12.0+native.HourOffset, in.DHour, 1e-6)
	assert.Equal(t, []float32{100, 200}, in.Altitudes)
}

func TestCompiledReuse(t *testing.T) {
	m, solver := newModel(t)
	when := time.Date(2022, 3, 21, 0, 0, 0, 0, time.UTC)

	s := settings.Default()
	s.HmF2 = settings.Float(350)
	c, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, s)
	require.NoError(t, err)

	again, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, c)
	require.NoError(t, err)
	assert.Same(t, c, again, "a compiled record is reused, not recompiled")

	assert.Equal(t, float32(350), solver.LastInput().Overrides[1])
	assert.Equal(t, native.Unset, c.Overrides()[0], "native output never leaks into the compiled record")
}

func TestLastUsedSettings(t *testing.T) {
	m, solver := newModel(t)
	when := time.Date(2022, 3, 21, 0, 0, 0, 0, time.UTC)

	first, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, nil)
	require.NoError(t, err)
	assert.True(t, first.Equal(mustCompile(t, settings.Default())))

	s := settings.Default()
	s.MagField = settings.MagFieldPOGO68
	c, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, s)
	require.NoError(t, err)
	assert.Equal(t, settings.MagFieldPOGO68, m.LastSettings().MagField)

	next, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, nil)
	require.NoError(t, err)
	assert.Same(t, c, next)
	assert.False(t, solver.LastInput().Flags[17])

	// passing a compiled record does not replace the last used settings
	_, _, err = m.Evaluate(context.Background(), when, 40, 105, []float64{300}, first)
	require.NoError(t, err)
	assert.Equal(t, settings.MagFieldPOGO68, m.LastSettings().MagField)
}

func mustCompile(t *testing.T, s settings.Settings) *settings.Compiled {
	t.Helper()
	c, err := s.Compile()
	require.NoError(t, err)
	return c
}

func TestEvaluate_Errors(t *testing.T) {
	when := time.Date(2022, 3, 21, 0, 0, 0, 0, time.UTC)

	t.Run("logfile directory rejected before native call", func(t *testing.T) {
		m, solver := newModel(t)
		s := settings.Default()
		s.LogFile = t.TempDir()

		_, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, s)
		require.Error(t, err)
		var pe *fs.PathError
		assert.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, settings.ErrIsDirectory)
		assert.Zero(t, solver.Calls())
	})

	t.Run("unknown variant", func(t *testing.T) {
		m, solver := newModel(t)
		s := settings.Default()
		s.FoF2Model = "SAMI"
		_, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, s)
		assert.ErrorIs(t, err, settings.ErrInvalidInput)
		assert.Zero(t, solver.Calls())
		assert.Equal(t, settings.FoF2URSI, m.LastSettings().FoF2Model, "failed settings are not remembered")
	})

	t.Run("nil compiled", func(t *testing.T) {
		m, solver := newModel(t)
		var c *settings.Compiled
		_, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, c)
		assert.ErrorIs(t, err, settings.ErrInvalidInput)
		assert.Zero(t, solver.Calls())
	})

	t.Run("no altitudes", func(t *testing.T) {
		m, _ := newModel(t)
		_, _, err := m.Evaluate(context.Background(), when, 40, 105, nil, nil)
		assert.ErrorIs(t, err, settings.ErrInvalidInput)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		m, _ := newModel(t)
		_, _, err := m.Evaluate(context.Background(), when, 91, 105, []float64{300}, nil)
		assert.ErrorIs(t, err, settings.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		m, solver := newModel(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := m.Evaluate(ctx, when, 40, 105, []float64{300}, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, solver.Calls())
	})

	t.Run("not initialized", func(t *testing.T) {
		m := New(mocks.NewMockSolver(), Options{})
		_, _, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, nil)
		assert.ErrorIs(t, err, ErrNotInitialized)
	})

	t.Run("native failure", func(t *testing.T) {
		m, solver := newModel(t)
		boom := errors.New("IRI_SUB aborted")
		solver.EvalErr = boom
		_, res, err := m.Evaluate(context.Background(), when, 40, 105, []float64{300}, nil)
		assert.ErrorIs(t, err, ErrNative)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, res)
	})

	t.Run("malformed output", func(t *testing.T) {
		m, solver := newModel(t)
		solver.Shrink = 1
		c, res, err := m.Evaluate(context.Background(), when, 40, 105, []float64{100, 200}, nil)
		assert.ErrorIs(t, err, ErrMalformedOutput)
		assert.Nil(t, res)
		assert.Nil(t, c)
	})
}

func TestInitClose(t *testing.T) {
	solver := mocks.NewMockSolver()
	m := New(solver, Options{DataDir: "data"})
	require.NoError(t, m.Init())
	require.NoError(t, m.Init())
	assert.Equal(t, "data", solver.DataDir())

	require.NoError(t, m.Close())
	assert.True(t, solver.Closed())
	_, _, err := m.LowLevel(context.Background(), 0, 0, []float64{300}, 2020, 1, 0, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestConcurrentQueriesAreSerialized(t *testing.T) {
	m, solver := newModel(t)
	c := mustCompile(t, settings.Default())
	alts := DefaultAltGrid()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := m.LowLevel(context.Background(), float64(i), 105, alts, 2020, 1+i, 3600, c)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, solver.Calls())
	assert.Zero(t, solver.Overlaps())
}

func TestBenchmark(t *testing.T) {
	m, _ := newModel(t)
	assert.Nil(t, m.Benchmark(), "disabled")

	m.SetBenchmark(true)
	assert.True(t, m.BenchmarkEnabled())
	assert.Nil(t, m.Benchmark(), "no calls yet")

	for i := 0; i < 3; i++ {
		_, _, err := m.LowLevel(context.Background(), 40, 105, []float64{100, 200, 300}, 2020, 1, 0, nil)
		require.NoError(t, err)
	}
	b := m.Benchmark()
	require.NotNil(t, b)
	assert.Equal(t, 3, b.Calls)
	assert.GreaterOrEqual(t, b.Total, b.Native)
	assert.GreaterOrEqual(t, b.Total, b.Setup+b.Native+b.Build+b.Attributes+b.Settings-time.Microsecond)

	m.SetBenchmark(true)
	assert.Equal(t, 3, m.Benchmark().Calls, "unchanged state keeps timings")

	m.SetBenchmark(false)
	assert.Nil(t, m.Benchmark())
	m.SetBenchmark(true)
	assert.Nil(t, m.Benchmark(), "toggling resets")
}
