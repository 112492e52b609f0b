// Package mocks provides a deterministic stand-in for the native IRI-2020
// library, used by tests and by the service in mockup mode.
package mocks

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"iri2020/internal/native"
)

// ErrNotInitialized is returned by Eval before Init.
var ErrNotInitialized = errors.New("mock solver not initialized")

// MockSolver produces smooth synthetic profiles: a Chapman layer for the
// electron density, fixed ion fractions and exponential temperature
// profiles. Forced override slots are echoed back unchanged.
type MockSolver struct {
	// EvalErr, when set, is returned by every Eval call
	EvalErr error
	// Shrink drops this many samples from each output channel to simulate a
	// misbehaving library
	Shrink int
	// Force overwrites these output slots after the synthetic fill
	Force map[int]float32

	mu       sync.Mutex
	dataDir  string
	inited   bool
	closed   bool
	calls    int
	last     native.Input
	inFlight int32
	overlaps int32
}

// NewMockSolver creates an uninitialized mock
func NewMockSolver() *MockSolver {
	return &MockSolver{}
}

// Init records the data directory
func (m *MockSolver) Init(dataDir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dataDir = dataDir
	m.inited = true
	m.closed = false
	return nil
}

// Close marks the solver closed
func (m *MockSolver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Eval fills out from in
func (m *MockSolver) Eval(in *native.Input, out *native.Output) error {
	if atomic.AddInt32(&m.inFlight, 1) > 1 {
		atomic.AddInt32(&m.overlaps, 1)
	}
	defer atomic.AddInt32(&m.inFlight, -1)

	m.mu.Lock()
	inited := m.inited && !m.closed
	m.calls++
	m.last = *in
	m.last.Altitudes = append([]float32(nil), in.Altitudes...)
	err := m.EvalErr
	shrink := m.Shrink
	force := m.Force
	m.mu.Unlock()

	if !inited {
		return ErrNotInitialized
	}
	if err != nil {
		return err
	}

	out.Overrides = in.Overrides
	fillScalars(in, &out.Overrides)
	for slot, v := range force {
		out.Overrides[slot] = v
	}

	nmF2 := float64(out.Overrides[0])
	hmF2 := float64(out.Overrides[1])
	for i, alt := range in.Altitudes {
		if i >= len(in.Altitudes)-shrink {
			break
		}
		h := float64(alt)
		ne := chapman(nmF2, hmF2, 55, h)
		tn := 1000 - 800*math.Exp(-math.Max(h-90, 0)/45)
		te := tn + 1500*(1-math.Exp(-math.Max(h-120, 0)/150))
		ti := tn + 0.4*(te-tn)

		out.Profiles[0][i] = float32(ne)
		out.Profiles[1][i] = float32(tn)
		out.Profiles[2][i] = float32(ti)
		out.Profiles[3][i] = float32(te)

		oFrac := 1 / (1 + math.Exp(-(h-250)/40))
		hFrac := 0.05 / (1 + math.Exp(-(h-600)/80))
		molFrac := 1 - oFrac
		out.Profiles[4][i] = float32(ne * oFrac * (1 - hFrac))
		out.Profiles[5][i] = float32(ne * hFrac)
		out.Profiles[6][i] = float32(ne * hFrac * 0.1)
		out.Profiles[7][i] = float32(ne * molFrac * 0.4)
		out.Profiles[8][i] = float32(ne * molFrac * 0.6)
		out.Profiles[9][i] = 0
		out.Profiles[10][i] = float32(ne * oFrac * 0.01)
	}
	if shrink > 0 {
		for ch := range out.Profiles {
			if n := len(out.Profiles[ch]) - shrink; n >= 0 {
				out.Profiles[ch] = out.Profiles[ch][:n]
			}
		}
	}
	return nil
}

// chapman is an alpha-Chapman layer with peak nm at hm and scale height sh.
func chapman(nm, hm, sh, h float64) float64 {
	z := (h - hm) / sh
	return nm * math.Exp(0.5*(1-z-math.Exp(-z)))
}

// fillScalars writes synthetic values into every unforced output slot.
func fillScalars(in *native.Input, oarr *[native.NumOverrides]float32) {
	lat := float64(in.Lat)
	cosLat := math.Cos(lat * math.Pi / 180)
	set := func(slot int, v float64) {
		if oarr[slot] == native.Unset {
			oarr[slot] = float32(v)
		}
	}

	set(0, 1e12*(0.6+0.4*cosLat)) // NmF2, m^-3
	set(1, 300+20*cosLat)         // hmF2
	set(2, 2.5e11)
	set(3, 180)
	set(4, 1.2e11)
	set(5, 110)
	set(6, 1e9)
	set(7, 81)
	set(8, 240)
	set(9, 120)
	set(10, 4e10)
	set(11, 130)
	set(12, 2500)
	set(13, 350)
	for i := 14; i <= 21; i++ {
		set(i, 1000+float64(i-14)*150)
	}
	set(22, math.Abs(lat-23))
	set(23, 0)
	set(24, lat*1.2)
	set(25, lat*0.9)
	set(26, lat*0.9)
	set(27, lat)
	set(28, 6)
	set(29, 18)
	set(30, 1)
	set(31, float64(in.Lon))
	set(32, 80)
	set(33, 120)
	set(34, 2.2)
	set(35, 3.1)
	set(36, 25)
	set(37, 18)
	set(38, 95)
	set(39, 0.5)
	set(40, 150)
	set(41, 0.1)
	set(42, float64(-in.MMDD))
	set(43, 5)
	set(44, 1)
	set(45, 145)
	set(46, 1)
	set(47, 0.1)
	for i := 48; i <= 90; i++ {
		set(i, float64(i))
	}
}

// Calls is the number of Eval invocations
func (m *MockSolver) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastInput returns a copy of the most recent Eval input
func (m *MockSolver) LastInput() native.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := m.last
	in.Altitudes = append([]float32(nil), m.last.Altitudes...)
	return in
}

// DataDir is the directory passed to Init
func (m *MockSolver) DataDir() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dataDir
}

// Closed reports whether Close was called after the last Init
func (m *MockSolver) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Overlaps counts Eval calls that started while another was running
func (m *MockSolver) Overlaps() int {
	return int(atomic.LoadInt32(&m.overlaps))
}
