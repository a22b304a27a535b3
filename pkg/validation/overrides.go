package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePositiveInt parses a user-supplied override that must be a whole
// number of at least 1. An empty value returns 0 and no error.
func ParsePositiveInt(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", field, value)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %d", field, n)
	}
	return n, nil
}

// ParsePositiveFloat parses a user-supplied override that must be a finite
// number above zero. An empty value returns 0 and no error.
func ParsePositiveFloat(field, value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a number, got %q", field, value)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %g", field, f)
	}
	return f, nil
}
