package mathhelp

import (
	"math"

	"golang.org/x/exp/constraints"
)

// BetweenInc reports whether f lies between p and q, both inclusive, in either order.
func BetweenInc[T constraints.Integer | constraints.Float](f, p, q T) bool {
	if p <= q {
		return p <= f && f <= q
	}
	return q <= f && f <= p
}

func Bool2int(b bool) int {
	if b {
		return 1
	}
	return 0
}

func EuclidianMod(d, m int) int {
	r := d % m
	if (r < 0 && m > 0) || (r > 0 && m < 0) {
		return r + m
	}
	return r
}

// IsOdd also works for negative numbers.
func IsOdd(i int) bool {
	return EuclidianMod(i, 2) == 1
}

// IsFinite is false for NaN and both infinities.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MinMax returns the smallest and the largest of the values. It returns zeros for no values.
func MinMax[T constraints.Integer | constraints.Float](values ...T) (lo, hi T) {
	for i, v := range values {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}
