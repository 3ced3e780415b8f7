package interp

import "math"

// Table samples f at n+1 evenly spaced points over [0, 1] and returns a
// look-up based interpolator that linearly joins the samples. Inputs outside
// [0, 1] extrapolate from the nearest segment.
//
// Tables trade precision for speed on expensive curves that are evaluated for
// every pixel of every frame.
func Table(f Func, n int) Func {
	if n < 1 {
		n = 1
	}

	lut := make([]float64, n+1)
	increment := 1.0 / float64(n)
	for i := range lut {
		lut[i] = f(float64(i) * increment)
	}

	return func(x float64) float64 {
		pos := x * float64(n)
		i := int(math.Floor(pos))
		i = min(max(i, 0), n-1)
		return InterpolateRange(float64(i), lut[i], float64(i+1), lut[i+1], pos, Linear)
	}
}
