// Package native defines the call contract of the IRI-2020 native library.
//
// The layout mirrors the IRI_SUB entry point: a 50-element switch array, a
// 100-element override array that doubles as the scalar output channel, and
// a 20-row profile matrix with one column per altitude sample.
package native

import (
	"errors"
	"fmt"
)

const (
	// NumFlags is the length of the JF switch array.
	NumFlags = 50
	// NumOverrides is the length of the OARR in/out array.
	NumOverrides = 100
	// NumChannels is the number of profile rows in OUTF.
	NumChannels = 20
	// Unset marks an override slot the model should compute itself.
	Unset float32 = -1
	// HourOffset is added to UT hours to tell IRI the time is universal time.
	HourOffset = 25
	// GeographicCoords selects geographic (not geomagnetic) lat/lon input.
	GeographicCoords = 0
)

// ErrNotAvailable is returned by solvers that were built without the native library.
var ErrNotAvailable = errors.New("native IRI library not available")

// Input is one native evaluation request.
type Input struct {
	Flags     [NumFlags]bool
	JMag      int
	Lat       float32
	Lon       float32
	Year      int
	MMDD      int // negative values carry the day of year
	DHour     float32
	Altitudes []float32
	Overrides [NumOverrides]float32
	DataDir   string
	LogFile   string
}

// Output receives the native results. Overrides holds the OARR array after the call.
type Output struct {
	Profiles  [NumChannels][]float32
	Overrides [NumOverrides]float32
}

// NewOutput allocates an output matrix for n altitude samples.
func NewOutput(n int) *Output {
	out := &Output{}
	for i := range out.Profiles {
		out.Profiles[i] = make([]float32, n)
	}
	return out
}

// ShapeError reports an output matrix that does not match the altitude grid.
type ShapeError struct {
	Channel int
	Got     int
	Want    int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("native output channel %d has %d samples, want %d", e.Channel, e.Got, e.Want)
}

// Validate checks the matrix shape against the altitude count. A mismatch
// is a *ShapeError.
func (o *Output) Validate(n int) error {
	for i, row := range o.Profiles {
		if len(row) != n {
			return &ShapeError{Channel: i, Got: len(row), Want: n}
		}
	}
	return nil
}

// Solver is the opaque native model. Implementations are not assumed to be
// reentrant; callers serialize Eval.
type Solver interface {
	Init(dataDir string) error
	Eval(in *Input, out *Output) error
	Close() error
}
