// Package cgo provides CGO bindings for native libraries.
// This package isolates all CGO code from the pure Go core.
//
// Sub-packages:
//   - iri: IRI-2020 Fortran model bindings
package cgo
