package stream_test

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/animtx/stream"
)

func TestController_CycleAnimation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, _ := newStrip(4, 100*time.Millisecond)
		c := stream.NewController(s, []colorful.Color{red, green}, 100*time.Millisecond, 0)
		assert.Empty(t, c.Current())

		for _, want := range append(stream.Programs, stream.ProgramTwinkle) {
			require.NoError(t, c.CycleAnimation())
			assert.Equal(t, want, c.Current())
			assert.Equal(t, 1, s.Len())
		}

		s.Stop()
		assert.Equal(t, 0, s.Len())
	})
}

func TestController_CrossFadesBetweenPrograms(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, _ := newStrip(4, 100*time.Millisecond)
		c := stream.NewController(s, []colorful.Color{red, green}, 100*time.Millisecond, 50*time.Millisecond)

		require.NoError(t, c.CycleAnimation())
		require.NoError(t, c.CycleAnimation())
		assert.Equal(t, stream.ProgramSweep, c.Current())
		assert.Equal(t, 2, s.Len())

		time.Sleep(70 * time.Millisecond)
		assert.Equal(t, 1, s.Len())

		s.Stop()
		assert.Equal(t, 0, s.Len())
	})
}

func TestController_Run(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, frames := newStrip(4, 100*time.Millisecond)
		c := stream.NewController(s, []colorful.Color{red, green}, 100*time.Millisecond, 0)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			done <- c.Run(ctx)
		}()

		time.Sleep(250 * time.Millisecond)
		assert.Equal(t, stream.ProgramFade, c.Current())
		assert.Positive(t, frames.count())

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
		assert.Equal(t, 0, s.Len())
	})
}
