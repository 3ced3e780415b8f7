package stream

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientStop is a hue at a position along a gradient.
type GradientStop struct {
	Hue float64
	Pos float64
}

// GradientTable stores a look-up table of colours interpolated by hue.
type GradientTable []GradientStop

// RainbowGradient wraps around the hue circle.
var RainbowGradient = GradientTable{
	{0.0, 0.0},
	{6.0, 0.04},   // Pink
	{87.0, 0.14},  // Red
	{88.0, 0.28},  // Orange
	{98.0, 0.42},  // Yellow
	{180.0, 0.56}, // Green
	{190.0, 0.70}, // Turquoise
	{320.0, 0.84}, // Blue
	{328.0, 0.91}, // Violet
	{360.0, 1.0},  // Pink wrap
}

// GetColor gets a colour at the specified point on the look-up table.
func (g GradientTable) GetColor(t, s, l float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			// We are in between c1 and c2. Go blend them!
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, s, l).Clamped()
		}
	}

	// Nothing found? Means we're at (or past) the last gradient keypoint.
	return colorful.Hcl(g[len(g)-1].Hue, s, l).Clamped()
}

// Render paints the gradient along the frame as a repeating trail of
// trailLength pixels, shifted by phase (a fraction of the trail).
func (g GradientTable) Render(f *Frame, phase float64, trailLength int, s, l float64) {
	trail := float64(max(trailLength, 1))
	n := f.Len()
	for i := 0; i < n; i++ {
		pos := math.Mod(float64(i+n)-phase*trail, trail)
		if pos < 0 {
			pos += trail
		}
		f.pixels[i] = g.GetColor(pos/trail, s, l)
	}
}
