// Package iri is the caller-owned handle around the IRI-2020 native model.
// A Model compiles settings, serializes native calls and assembles their
// output into labeled results.
package iri

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"iri2020/internal/assembler"
	"iri2020/internal/logger"
	"iri2020/internal/metrics"
	"iri2020/internal/models"
	"iri2020/internal/native"
	"iri2020/internal/settings"
)

var (
	// ErrNotInitialized is returned by queries before Init or after Close
	ErrNotInitialized = errors.New("iri model not initialized")
	// ErrMalformedOutput reports a native output matrix that does not match the query
	ErrMalformedOutput = errors.New("native model returned malformed output")
	// ErrNative wraps failures reported by the native call itself
	ErrNative = errors.New("native model call failed")
)

// Options configures a Model
type Options struct {
	// DataDir holds apf107.dat, ig_rz.dat and the model coefficient files
	DataDir string
	// Settings are used when a query passes no settings. Zero value means Default().
	Settings *settings.Settings
	// Benchmark enables stage timing from the first call
	Benchmark bool
}

// Model is an explicit IRI-2020 handle. It is safe for concurrent use;
// native calls are serialized.
type Model struct {
	solver  native.Solver
	dataDir string
	log     *logger.Logger

	mu           sync.Mutex
	initialized  bool
	last         settings.Settings
	lastCompiled *settings.Compiled
	bench        benchmark
}

// New creates a model around solver. Call Init before querying.
func New(solver native.Solver, opts Options) *Model {
	last := settings.Default()
	if opts.Settings != nil {
		last = opts.Settings.Clone()
	}
	return &Model{
		solver:  solver,
		dataDir: opts.DataDir,
		log:     logger.GetGlobalLogger().WithComponent("iri"),
		last:    last,
		bench:   benchmark{enabled: opts.Benchmark},
	}
}

// Init loads the native model from the data directory. Repeated calls are no-ops.
func (m *Model) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return nil
	}
	if err := m.solver.Init(m.dataDir); err != nil {
		return fmt.Errorf("failed to initialize native model: %w", err)
	}
	m.initialized = true
	m.log.Info("Native model initialized", map[string]interface{}{"data_dir": m.dataDir})
	return nil
}

// Close releases the native model.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil
	}
	m.initialized = false
	return m.solver.Close()
}

// DataDir is the directory the native model reads from
func (m *Model) DataDir() string {
	return m.dataDir
}

// LastSettings returns a copy of the settings used when a query passes none.
func (m *Model) LastSettings() settings.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last.Clone()
}

// Evaluate runs the model at time t. t is converted to UTC and lon is
// wrapped into [0, 360). src may be a settings.Settings (compiled and
// remembered), a *settings.Compiled (reused) or nil (last used settings).
func (m *Model) Evaluate(ctx context.Context, t time.Time, lat, lon float64, alts []float64, src settings.Source) (*settings.Compiled, *models.QueryResult, error) {
	utc := t.UTC()
	year, day, ut := IRIDate(utc)
	return m.query(ctx, query{
		lat:  lat,
		lon:  NormalizeLongitude(lon),
		alts: alts,
		year: year,
		day:  day,
		ut:   ut,
		date: &utc,
	}, src)
}

// LowLevel runs the model with an explicit year, day of year and UT seconds.
// No date is attached to the result and lon is passed through unchanged.
func (m *Model) LowLevel(ctx context.Context, lat, lon float64, alts []float64, year, day int, utSeconds float64, src settings.Source) (*settings.Compiled, *models.QueryResult, error) {
	return m.query(ctx, query{
		lat:  lat,
		lon:  lon,
		alts: alts,
		year: year,
		day:  day,
		ut:   utSeconds,
	}, src)
}

type query struct {
	lat, lon  float64
	alts      []float64
	year, day int
	ut        float64
	date      *time.Time
}

func (q query) validate() error {
	if len(q.alts) == 0 {
		return fmt.Errorf("%w: at least one altitude is required", settings.ErrInvalidInput)
	}
	if math.IsNaN(q.lat) || q.lat < -90 || q.lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", settings.ErrInvalidInput, q.lat)
	}
	if math.IsNaN(q.lon) || math.IsInf(q.lon, 0) {
		return fmt.Errorf("%w: longitude %v", settings.ErrInvalidInput, q.lon)
	}
	if q.day < 1 || q.day > 366 {
		return fmt.Errorf("%w: day of year %d out of range", settings.ErrInvalidInput, q.day)
	}
	if q.ut < 0 || q.ut > 86400 {
		return fmt.Errorf("%w: UT seconds %v out of range", settings.ErrInvalidInput, q.ut)
	}
	return nil
}

func (m *Model) query(ctx context.Context, q query, src settings.Source) (c *settings.Compiled, res *models.QueryResult, err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.EvaluationsTotal.WithLabelValues(status).Inc()
	}()

	if err := q.validate(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sw := newStopwatch()

	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return nil, nil, ErrNotInitialized
	}
	c, err = m.resolve(src)
	if err != nil {
		m.mu.Unlock()
		return nil, nil, err
	}

	in := &native.Input{
		Flags:     c.Flags(),
		JMag:      native.GeographicCoords,
		Lat:       float32(q.lat),
		Lon:       float32(q.lon),
		Year:      q.year,
		MMDD:      -q.day,
		DHour:     float32(q.ut/3600 + native.HourOffset),
		Altitudes: make([]float32, len(q.alts)),
		Overrides: c.Overrides(),
		DataDir:   m.dataDir,
		LogFile:   c.LogFile(),
	}
	for i, a := range q.alts {
		in.Altitudes[i] = float32(a)
	}
	out := native.NewOutput(len(q.alts))
	sw.lap(StageSetup)

	evalErr := m.solver.Eval(in, out)
	sw.lap(StageNative)
	m.mu.Unlock()

	if evalErr != nil {
		m.log.Error("Native call failed", evalErr, map[string]interface{}{
			"lat": q.lat, "lon": q.lon, "year": q.year, "day": q.day,
		})
		return nil, nil, fmt.Errorf("%w: %w", ErrNative, evalErr)
	}

	res, err = m.assemble(out, q, c, sw)
	if err != nil {
		m.log.Error("Discarding native output", err, map[string]interface{}{"altitudes": len(q.alts)})
		return nil, nil, err
	}

	m.record(sw)
	m.log.Debug("Evaluation finished", map[string]interface{}{
		"lat":       q.lat,
		"lon":       q.lon,
		"year":      q.year,
		"day":       q.day,
		"ut":        q.ut,
		"altitudes": len(q.alts),
		"elapsed":   sw.total().String(),
	})
	return c, res, nil
}

// resolve picks the compiled settings for a query. Callers hold mu.
func (m *Model) resolve(src settings.Source) (*settings.Compiled, error) {
	switch s := src.(type) {
	case nil:
		if m.lastCompiled == nil {
			c, err := m.last.Compile()
			if err != nil {
				return nil, err
			}
			metrics.SettingsCompilations.Inc()
			m.lastCompiled = c
		}
		return m.lastCompiled, nil
	case *settings.Compiled:
		return s.Compile()
	case settings.Settings:
		c, err := s.Compile()
		if err != nil {
			return nil, err
		}
		metrics.SettingsCompilations.Inc()
		m.last = s.Clone()
		m.lastCompiled = c
		return c, nil
	case *settings.Settings:
		if s == nil {
			return nil, fmt.Errorf("%w: nil settings", settings.ErrInvalidInput)
		}
		return m.resolve(*s)
	default:
		return src.Compile()
	}
}

// assemble labels the raw output, turning a shape violation into an error.
func (m *Model) assemble(out *native.Output, q query, c *settings.Compiled, sw *stopwatch) (res *models.QueryResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*assembler.ShapeError)
			if !ok {
				panic(r)
			}
			res, err = nil, fmt.Errorf("%w: %v", ErrMalformedOutput, se)
		}
	}()

	densities, temperatures := assembler.Profiles(out, q.alts)
	sw.lap(StageBuild)
	scalars := assembler.Scalars(out.Overrides)
	sw.lap(StageAttributes)
	res = assembler.Result(q.alts, densities, temperatures, scalars, c, q.date)
	sw.lap(StageSettings)
	return res, nil
}
