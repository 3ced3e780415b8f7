package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultPixels is the length of the tree strip.
	DefaultPixels = 500
	// MaxPixels is the most pixels a frame header can describe.
	MaxPixels = math.MaxUint16
)

// ErrShortFrame is returned when decoding truncated frame data.
var ErrShortFrame = errors.New("short frame")

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a new black Frame of n pixels.
func NewFrame(n int) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, n)
	return f
}

// Len is the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// At returns the colour of pixel i.
func (f *Frame) At(i int) colorful.Color {
	return f.pixels[i]
}

// Set changes the colour of pixel i.
func (f *Frame) Set(i int, c colorful.Color) {
	f.pixels[i] = c
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c colorful.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// Pixels returns a copy of the pixel colours.
func (f *Frame) Pixels() []colorful.Color {
	return append([]colorful.Color(nil), f.pixels...)
}

// Clone copies the frame.
func (f *Frame) Clone() *Frame {
	out := new(Frame)
	out.pixels = f.Pixels()
	return out
}

// InterpolateFrame blends two frames of equal length in HCL space.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame(len(f.pixels))
	for i := range f.pixels {
		out.pixels[i] = f.pixels[i].BlendHcl(f2.pixels[i], transitionPoint).Clamped()
	}

	return out
}

// MarshalBinary converts a Frame into binary data: a little endian pixel
// count followed by three bytes per pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	if len(f.pixels) > MaxPixels {
		return nil, fmt.Errorf("frame of %d pixels exceeds %d", len(f.pixels), MaxPixels)
	}

	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary. It is the
// receiving end of the stream codec: the strip itself only encodes, while
// frame consumers on the other side of the broker decode with it.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return ErrShortFrame
	}
	n := int(binary.LittleEndian.Uint16(data))
	if len(data) < 2+n*3 {
		return fmt.Errorf("%w: %d bytes for %d pixels", ErrShortFrame, len(data), n)
	}

	f.pixels = make([]colorful.Color, n)
	for i := range f.pixels {
		rgb := data[2+i*3:]
		f.pixels[i] = colorful.Color{
			R: float64(rgb[0]) / 255,
			G: float64(rgb[1]) / 255,
			B: float64(rgb[2]) / 255,
		}
	}
	return nil
}
