package iri

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"iri2020/internal/settings"
)

// Default altitude grid, 10 km steps through the D, E and F regions.
const (
	DefaultMinAltitude = 60.0
	DefaultMaxAltitude = 1000.0
	DefaultAltitudes   = 95
)

// AltGrid returns n evenly spaced altitudes in km from min to max inclusive.
func AltGrid(min, max float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: altitude grid needs at least 2 points, got %d", settings.ErrInvalidInput, n)
	}
	if !(max > min) {
		return nil, fmt.Errorf("%w: altitude grid max %v must exceed min %v", settings.ErrInvalidInput, max, min)
	}
	return floats.Span(make([]float64, n), min, max), nil
}

// DefaultAltGrid is 60 to 1000 km in 10 km steps.
func DefaultAltGrid() []float64 {
	grid, _ := AltGrid(DefaultMinAltitude, DefaultMaxAltitude, DefaultAltitudes)
	return grid
}

// IRIDate splits t, in UTC, into year, day of year and seconds since midnight.
func IRIDate(t time.Time) (year, day int, utSeconds float64) {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return t.Year(), t.YearDay(), t.Sub(midnight).Seconds()
}

// NormalizeLongitude wraps lon into [0, 360).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon = 0
	}
	return lon
}
