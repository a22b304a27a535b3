// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/fantasy-optimizer/pkg/constants"
)

// Round rounds a value to the display precision. Used for reporting credits
// and ROI.
func Round(val float64) float64 {
	return RoundTo(val, constants.DisplayPrecision)
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(val float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Selected reports whether a relaxed decision value counts as picked.
func Selected(val float64) bool {
	return val > constants.SelectionThreshold
}

// Integral reports whether val is within tol of an integer.
func Integral(val, tol float64) bool {
	return math.Abs(val-math.Round(val)) <= tol
}

// Fractionality is the distance from val to the nearest integer.
func Fractionality(val float64) float64 {
	return math.Abs(val - math.Round(val))
}

// Finite reports whether val is neither NaN nor infinite.
func Finite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}
