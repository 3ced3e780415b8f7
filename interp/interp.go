// Package interp maps elapsed fractions to progress fractions and
// interpolates values with them.
package interp

// Func maps a normalized elapsed fraction to a normalized progress fraction.
// Neither input nor output is required to stay within [0, 1].
type Func func(x float64) float64

// Interpolate computes the value between start and end at the given elapsed
// fraction, eased by f. The fraction is not bounds checked.
func Interpolate(start float64, end float64, fraction float64, f Func) float64 {
	return start + (end-start)*f(fraction)
}

// InterpolateRange maps in from the [startIn, endIn] range onto
// [startOut, endOut], eased by f.
//
// A zero-length input range divides by zero and yields NaN or Inf.
func InterpolateRange(startIn float64, startOut float64, endIn float64, endOut float64,
	in float64, f Func) float64 {

	fraction := (in - startIn) / (endIn - startIn)
	return Interpolate(startOut, endOut, fraction, f)
}

// Linear returns x unchanged.
func Linear(x float64) float64 {
	return x
}

// Accelerating starts slowly and speeds up.
func Accelerating(x float64) float64 {
	return x * x
}

// Decelerating starts quickly and slows down.
var Decelerating = Mirror(Accelerating)
