package drift

import (
	"math"
	"strconv"
	"strings"
)

// Magnitudes in [minFixed, maxFixed) print in positional notation.
const (
	minFixed = 1e-4
	maxFixed = 1e16
)

// FormatFloat renders f with the shortest digits that round-trip, always
// keeping a fractional part: 0 prints as "0.0", 1.5 as "1.5" and very small
// or very large magnitudes as "1.0e-05" or "1.0e+16".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs == 0 || (abs >= minFixed && abs < maxFixed) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	return mant + "e" + exp
}
