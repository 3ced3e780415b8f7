package stream

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/animtx/animation"
	"github.com/matt-g-everett/animtx/interp"
)

// LerpColour blends between two colours in HCL space.
func LerpColour(start, end colorful.Color, fraction float64, f interp.Func) colorful.Color {
	switch p := f(fraction); p {
	case 0:
		return start
	case 1:
		return end
	default:
		return start.BlendHcl(end, p).Clamped()
	}
}

// LerpPixels blends two equal length pixel lists. Pixels missing from end
// keep their start colour.
func LerpPixels(start, end []colorful.Color, fraction float64, f interp.Func) []colorful.Color {
	out := make([]colorful.Color, len(start))
	for i := range start {
		if i < len(end) {
			out[i] = LerpColour(start[i], end[i], fraction, f)
		} else {
			out[i] = start[i]
		}
	}
	return out
}

// NewFade creates an animation from one colour to another.
func NewFade(start, end colorful.Color, opts ...animation.Option) *animation.Animation[colorful.Color] {
	return animation.New(start, end, LerpColour, opts...)
}
