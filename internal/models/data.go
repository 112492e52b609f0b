package models

import (
	"time"

	"github.com/google/uuid"

	"iri2020/internal/settings"
)

// QueryResult is the labeled output of one IRI evaluation
type QueryResult struct {
	ID           uuid.UUID          `json:"id"`
	Description  string             `json:"description"`
	Date         *time.Time         `json:"date,omitempty"` // nil for low-level queries
	Altitude     []float64          `json:"altitude"`       // km
	Densities    []Profile          `json:"densities"`      // cm^-3
	Temperatures []Profile          `json:"temperatures"`   // K
	Scalars      []Scalar           `json:"scalars"`        // in override slot order
	Unmapped     []Field            `json:"unmapped"`       // slots with no assigned meaning yet
	Settings     *settings.Compiled `json:"settings"`       // provenance
}

// Field describes a named output quantity
type Field struct {
	Name        string `json:"name"`
	Units       string `json:"units,omitempty"`
	LongName    string `json:"long_name,omitempty"`
	Description string `json:"description,omitempty"`
	Slot        int    `json:"slot"` // OUTF row for profiles, OARR index for scalars
}

// Profile is one per-altitude series
type Profile struct {
	Field
	Values []float64 `json:"values"`
}

// Scalar is one derived quantity from the override array
type Scalar struct {
	Field
	Value float64 `json:"value"`
}

// Profile finds a density or temperature series by name
func (r *QueryResult) Profile(name string) (Profile, bool) {
	for _, group := range [][]Profile{r.Densities, r.Temperatures} {
		for _, p := range group {
			if p.Name == name {
				return p, true
			}
		}
	}
	return Profile{}, false
}

// Scalar finds a derived quantity by name
func (r *QueryResult) Scalar(name string) (Scalar, bool) {
	for _, s := range r.Scalars {
		if s.Name == name {
			return s, true
		}
	}
	return Scalar{}, false
}

// Len is the number of altitude samples
func (r *QueryResult) Len() int {
	return len(r.Altitude)
}
