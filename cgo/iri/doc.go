// Package iri provides CGO bindings for the IRI-2020 Fortran model.
// It implements the native.Solver interface.
//
// Build requires:
//   - libiri20, the IRI-2020 sources compiled with the iri20 C shim
//   - gfortran runtime (libgfortran)
//   - the iri_native build tag: go build -tags iri_native
//
// Without the tag, or without CGO, Solver reports native.ErrNotAvailable.
package iri
