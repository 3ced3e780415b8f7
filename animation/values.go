package animation

import (
	"math"

	"github.com/matt-g-everett/animtx/interp"
)

// New creates an animation from start to end that computes intermediate
// values with lerp. Unless overridden by opts, it lasts DefaultDuration, eases
// linearly and runs on the Default scheduler.
func New[T any](start T, end T, lerp Lerp[T], opts ...Option) *Animation[T] {
	o := buildOptions(opts)
	return newAnimation[T](newTween(start, end, o.duration, o.interpolator, lerp), o)
}

// NewFloat creates an animation of a float64 value.
func NewFloat(start float64, end float64, opts ...Option) *Animation[float64] {
	return New(start, end, LerpFloat, opts...)
}

// NewInt creates an animation of an int value, rounded to the nearest integer.
func NewInt(start int, end int, opts ...Option) *Animation[int] {
	return New(start, end, LerpInt, opts...)
}

// LerpFloat interpolates float64 values.
func LerpFloat(start float64, end float64, fraction float64, f interp.Func) float64 {
	return interp.Interpolate(start, end, fraction, f)
}

// LerpInt interpolates int values, rounding to the nearest integer.
func LerpInt(start int, end int, fraction float64, f interp.Func) int {
	return int(math.Round(interp.Interpolate(float64(start), float64(end), fraction, f)))
}
