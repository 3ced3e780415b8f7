package interp

// Mirror flips the easing direction of f: the result at x is 1 - f(1-x).
func Mirror(f Func) Func {
	return func(x float64) float64 {
		return 1 - f(1-x)
	}
}

// Reverse plays f backwards.
func Reverse(f Func) Func {
	return func(x float64) float64 {
		return f(1 - x)
	}
}

// Compose applies fs right to left, so Compose(f, g)(x) is f(g(x)).
// Compose with no arguments is Linear.
func Compose(fs ...Func) Func {
	if len(fs) == 0 {
		return Linear
	}
	return func(x float64) float64 {
		for i := len(fs) - 1; i >= 0; i-- {
			x = fs[i](x)
		}
		return x
	}
}

// Chain applies fs left to right, so Chain(f, g)(x) is g(f(x)).
func Chain(fs ...Func) Func {
	reversed := make([]Func, len(fs))
	for i, f := range fs {
		reversed[len(fs)-1-i] = f
	}
	return Compose(reversed...)
}

// Clamp limits the output of f to [0, 1], removing any overshoot.
func Clamp(f Func) Func {
	return func(x float64) float64 {
		return min(max(f(x), 0), 1)
	}
}

// PingPong runs f forwards over the first half of the range and backwards
// over the second half, so the result rises and falls back.
func PingPong(f Func) Func {
	return func(x float64) float64 {
		if x <= 0.5 {
			return f(x * 2)
		}
		return f((1 - x) * 2)
	}
}
