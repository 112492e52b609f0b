//go:build !(cgo && iri_native)

package iri

import (
	"iri2020/internal/native"
)

// Ensure Solver implements the interface.
var _ native.Solver = (*Solver)(nil)

// Solver is a stub for builds without the native IRI-2020 library.
type Solver struct{}

// New creates a stub solver.
func New() *Solver {
	return &Solver{}
}

// Init reports that the native library is missing.
func (s *Solver) Init(_ string) error {
	return native.ErrNotAvailable
}

// Eval reports that the native library is missing.
func (s *Solver) Eval(_ *native.Input, _ *native.Output) error {
	return native.ErrNotAvailable
}

// Close releases resources.
func (s *Solver) Close() error {
	return nil
}
