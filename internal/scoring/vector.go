// Package scoring turns answer selections into per-measurement score vectors
// and aggregates them across submissions. Every function is pure: inputs are
// never mutated and nothing is cached between calls.
package scoring

import (
	"errors"
	"strconv"
)

var (
	ErrShapeMismatch       = errors.New("score vector shape mismatch")
	ErrInsufficientHistory = errors.New("insufficient answer history")
)

// ScoreVector holds one score per measurement in canonical measurement order.
type ScoreVector []float64

// Zero returns an all-zero vector of length n.
func Zero(n int) ScoreVector {
	if n < 0 {
		n = 0
	}
	return make(ScoreVector, n)
}

// Display formats every entry with one decimal, the precision used by charts.
func (v ScoreVector) Display() []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = strconv.FormatFloat(x, 'f', 1, 64)
	}
	return out
}
