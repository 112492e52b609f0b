package iri

import (
	"time"

	"iri2020/internal/metrics"
)

// Evaluation stages, in call order.
const (
	StageSetup      = "setup"
	StageNative     = "native"
	StageBuild      = "build"
	StageAttributes = "attributes"
	StageSettings   = "settings"
	StageTotal      = "total"
)

// Benchmark holds average stage durations over Calls evaluations.
type Benchmark struct {
	Calls      int           `json:"calls"`
	Setup      time.Duration `json:"setup"`
	Native     time.Duration `json:"native"`
	Build      time.Duration `json:"build"`
	Attributes time.Duration `json:"attributes"`
	Settings   time.Duration `json:"settings"`
	Total      time.Duration `json:"total"`
}

type benchmark struct {
	enabled bool
	calls   int
	sums    map[string]time.Duration
}

type stopwatch struct {
	start  time.Time
	prev   time.Time
	stages map[string]time.Duration
}

func newStopwatch() *stopwatch {
	now := time.Now()
	return &stopwatch{start: now, prev: now, stages: make(map[string]time.Duration, 6)}
}

func (s *stopwatch) lap(stage string) {
	now := time.Now()
	s.stages[stage] = now.Sub(s.prev)
	s.prev = now
}

func (s *stopwatch) total() time.Duration {
	return s.prev.Sub(s.start)
}

// record exports the stage timings and, when enabled, accumulates them.
func (m *Model) record(sw *stopwatch) {
	for stage, d := range sw.stages {
		metrics.ObserveStage(stage, d)
	}
	metrics.ObserveStage(StageTotal, sw.total())

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.bench.enabled {
		return
	}
	if m.bench.sums == nil {
		m.bench.sums = make(map[string]time.Duration, 6)
	}
	m.bench.calls++
	for stage, d := range sw.stages {
		m.bench.sums[stage] += d
	}
	m.bench.sums[StageTotal] += sw.total()
}

// SetBenchmark turns stage timing on or off. Changing the state discards
// the accumulated timings.
func (m *Model) SetBenchmark(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if enabled != m.bench.enabled {
		m.bench = benchmark{}
	}
	m.bench.enabled = enabled
}

// BenchmarkEnabled reports whether stage timing is on
func (m *Model) BenchmarkEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bench.enabled
}

// Benchmark returns the average stage timings, or nil when timing is off
// or no evaluation has completed since it was turned on.
func (m *Model) Benchmark() *Benchmark {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.bench.enabled || m.bench.calls == 0 {
		return nil
	}
	n := time.Duration(m.bench.calls)
	return &Benchmark{
		Calls:      m.bench.calls,
		Setup:      m.bench.sums[StageSetup] / n,
		Native:     m.bench.sums[StageNative] / n,
		Build:      m.bench.sums[StageBuild] / n,
		Attributes: m.bench.sums[StageAttributes] / n,
		Settings:   m.bench.sums[StageSettings] / n,
		Total:      m.bench.sums[StageTotal] / n,
	}
}
