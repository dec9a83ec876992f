// Package common holds small helpers shared across the module.
package common

// UnknownStr is the fallback name for enum values outside their defined range.
const UnknownStr = "unknown"

// Map applies fn to every element of s and returns the results in order.
func Map[S ~[]E, E, R any](s S, fn func(E) R) []R {
	if len(s) == 0 {
		return nil
	}

	out := make([]R, len(s))
	for i, e := range s {
		out[i] = fn(e)
	}

	return out
}
