//go:build cgo && iri_native

package iri

/*
#cgo LDFLAGS: -liri20 -lgfortran -lm

#include "iri20.h"
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"iri2020/internal/native"
)

// Ensure Solver implements the interface.
var _ native.Solver = (*Solver)(nil)

// Solver calls IRI_SUB through the iri20 shim. The Fortran model keeps
// global state, so every call holds a process-wide lock.
type Solver struct {
	dataDir string
	inited  bool
}

var callMu sync.Mutex

// New creates an uninitialized solver.
func New() *Solver {
	return &Solver{}
}

// Init loads the model coefficients from dataDir.
func (s *Solver) Init(dataDir string) error {
	callMu.Lock()
	defer callMu.Unlock()

	cdir := C.CString(dataDir)
	defer C.free(unsafe.Pointer(cdir))

	if rc := C.iri20_init(cdir); rc != 0 {
		return fmt.Errorf("iri: init failed with code %d", int(rc))
	}
	s.dataDir = dataDir
	s.inited = true
	return nil
}

// Eval runs one IRI_SUB call.
func (s *Solver) Eval(in *native.Input, out *native.Output) error {
	if !s.inited {
		return errors.New("iri: solver not initialized")
	}
	n := len(in.Altitudes)
	if n == 0 {
		return errors.New("iri: no altitudes")
	}

	var jf [native.NumFlags]C.int
	for i, f := range in.Flags {
		if f {
			jf[i] = 1
		}
	}
	oarr := in.Overrides
	outf := make([]float32, native.NumChannels*n)

	cdir := C.CString(in.DataDir)
	defer C.free(unsafe.Pointer(cdir))
	clog := C.CString(in.LogFile)
	defer C.free(unsafe.Pointer(clog))

	callMu.Lock()
	rc := C.iri20_eval(
		&jf[0],
		C.int(in.JMag),
		C.float(in.Lat),
		C.float(in.Lon),
		C.int(in.Year),
		C.int(in.MMDD),
		C.float(in.DHour),
		(*C.float)(unsafe.Pointer(&in.Altitudes[0])),
		C.int(n),
		(*C.float)(unsafe.Pointer(&outf[0])),
		(*C.float)(unsafe.Pointer(&oarr[0])),
		cdir,
		clog,
	)
	callMu.Unlock()
	if rc != 0 {
		return fmt.Errorf("iri: IRI_SUB failed with code %d", int(rc))
	}

	// column-major 20 x n
	for ch := 0; ch < native.NumChannels; ch++ {
		row := make([]float32, n)
		for i := 0; i < n; i++ {
			row[i] = outf[ch+native.NumChannels*i]
		}
		out.Profiles[ch] = row
	}
	out.Overrides = oarr
	return nil
}

// Close releases the model.
func (s *Solver) Close() error {
	callMu.Lock()
	defer callMu.Unlock()
	if s.inited {
		C.iri20_close()
		s.inited = false
	}
	return nil
}
