package stream_test

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/animtx/stream"
)

func TestFrame_MarshalBinary(t *testing.T) {
	f := stream.NewFrame(2)
	f.Set(0, colorful.Color{R: 1})
	f.Set(1, colorful.Color{R: 1.5, G: -0.2, B: 0.5})

	data, err := f.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 255, 0, 0, 255, 0, 128}, data)
}

func TestFrame_MarshalBinaryEmpty(t *testing.T) {
	data, err := stream.NewFrame(0).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, data)
}

func TestFrame_MarshalBinaryTooLong(t *testing.T) {
	_, err := stream.NewFrame(stream.MaxPixels + 1).MarshalBinary()
	assert.Error(t, err)
}

func TestFrame_UnmarshalBinary(t *testing.T) {
	f := new(stream.Frame)
	require.NoError(t, f.UnmarshalBinary([]byte{1, 0, 255, 0, 51}))
	require.Equal(t, 1, f.Len())
	assert.Equal(t, colorful.Color{R: 1, B: 0.2}, f.At(0))

	assert.ErrorIs(t, f.UnmarshalBinary([]byte{1}), stream.ErrShortFrame)
	assert.ErrorIs(t, f.UnmarshalBinary([]byte{2, 0, 1, 2, 3}), stream.ErrShortFrame)
}

func TestFrame_FillAndClone(t *testing.T) {
	f := stream.NewFrame(3)
	assert.Equal(t, colorful.Color{}, f.At(2))

	grey := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	f.Fill(grey)
	clone := f.Clone()
	f.Set(0, colorful.Color{})

	assert.Equal(t, []colorful.Color{grey, grey, grey}, clone.Pixels())
	assert.Equal(t, colorful.Color{}, f.At(0))
}

func TestFrame_InterpolateFrame(t *testing.T) {
	red := colorful.Color{R: 1}
	blue := colorful.Color{B: 1}

	f1 := stream.NewFrame(2)
	f1.Fill(red)
	f2 := stream.NewFrame(2)
	f2.Fill(blue)

	start := f1.InterpolateFrame(f2, 0)
	end := f1.InterpolateFrame(f2, 1)
	middle := f1.InterpolateFrame(f2, 0.5)
	for i := 0; i < 2; i++ {
		assert.True(t, start.At(i).AlmostEqualRgb(red), "pixel %d: %v", i, start.At(i))
		assert.True(t, end.At(i).AlmostEqualRgb(blue), "pixel %d: %v", i, end.At(i))
		assert.Equal(t, red.BlendHcl(blue, 0.5).Clamped(), middle.At(i))
	}
}
