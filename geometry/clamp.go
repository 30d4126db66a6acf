package geometry

import "golang.org/x/exp/constraints"

// Clamp restricts v to the closed interval [lo, hi]. It is shared by the
// speed clamp, the clearance cap, and the arc evaluator's guards on its
// acos/asin arguments.
func Clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
