// Package coerce converts loosely typed textual input into typed values.
// Every helper is total: unusable input yields ok=false, never an error.
package coerce

import (
	"math"
	"strconv"
	"strings"
)

// Float parses a finite decimal number. Surrounding whitespace is ignored.
func Float(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Int parses a base-10 integer.
func Int(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// PositiveInt parses an integer strictly greater than zero.
func PositiveInt(raw string) (int, bool) {
	v, ok := Int(raw)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// True reports whether raw is the literal "true". Nothing else is truthy.
func True(raw string) bool {
	return raw == "true"
}

// Text trims whitespace and reports whether anything is left.
func Text(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}
