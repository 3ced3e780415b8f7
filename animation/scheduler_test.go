package animation_test

import (
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/animtx/animation"
)

// fakeStepper records every delta it is advanced by.
type fakeStepper struct {
	mu       sync.Mutex
	duration time.Duration
	elapsed  time.Duration
	deltas   []time.Duration
	err      error

	// work is how long each advance takes.
	work time.Duration
}

func (f *fakeStepper) Advance(delta time.Duration) error {
	time.Sleep(f.work)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deltas = append(f.deltas, delta)
	f.elapsed = min(f.elapsed+delta, f.duration)
	return nil
}

func (f *fakeStepper) Ended() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.elapsed == f.duration
}

func (f *fakeStepper) Deltas() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.deltas...)
}

func TestDefault_IsSingleton(t *testing.T) {
	assert.Same(t, animation.Default(), animation.Default())
	assert.Equal(t, animation.DefaultFramerate, animation.Default().Framerate())
}

func TestScheduler_Framerate(t *testing.T) {
	s := animation.NewScheduler(0)
	assert.Equal(t, 60, s.Framerate())
	assert.Equal(t, time.Second/60, s.FrameDuration())

	require.NoError(t, s.SetFramerate(10))
	assert.Equal(t, 10, s.Framerate())
	assert.Equal(t, 100*time.Millisecond, s.FrameDuration())

	assert.ErrorIs(t, s.SetFramerate(0), animation.ErrInvalidArgument)
	assert.ErrorIs(t, s.SetFramerate(-5), animation.ErrInvalidArgument)
	assert.Equal(t, 10, s.Framerate())
}

func TestScheduler_IdleRunningIdle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := animation.NewScheduler(50)
		assert.False(t, s.Running())

		st := &fakeStepper{duration: 100 * time.Millisecond}
		assert.True(t, s.Register(st))
		assert.False(t, s.Register(st))
		assert.True(t, s.Running())
		assert.True(t, s.Contains(st))
		assert.Equal(t, 1, s.Len())

		time.Sleep(200 * time.Millisecond)
		assert.True(t, st.Ended())
		assert.False(t, s.Running())
		assert.Zero(t, s.Len())
		assert.False(t, s.Contains(st))

		// Registering again wakes the scheduler up.
		st2 := &fakeStepper{duration: 40 * time.Millisecond}
		assert.True(t, s.Register(st2))
		assert.True(t, s.Running())
		time.Sleep(100 * time.Millisecond)
		assert.True(t, st2.Ended())
		assert.False(t, s.Running())
	})
}

func TestScheduler_AdvancesByFrameDuration(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := animation.NewScheduler(20)
		st := &fakeStepper{duration: 200 * time.Millisecond}
		s.Register(st)

		time.Sleep(time.Second)
		assert.Equal(t, []time.Duration{
			50 * time.Millisecond,
			50 * time.Millisecond,
			50 * time.Millisecond,
			50 * time.Millisecond,
		}, st.Deltas())
	})
}

func TestScheduler_SubtractsProcessingTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := animation.NewScheduler(20)
		st := &fakeStepper{duration: 200 * time.Millisecond, work: 30 * time.Millisecond}
		s.Register(st)

		time.Sleep(time.Second)
		assert.Equal(t, []time.Duration{
			50 * time.Millisecond,
			50 * time.Millisecond,
			50 * time.Millisecond,
			50 * time.Millisecond,
		}, st.Deltas())
	})
}

func TestScheduler_SlowFramesStretchInsteadOfDropping(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := animation.NewScheduler(20)
		st := &fakeStepper{duration: 290 * time.Millisecond, work: 80 * time.Millisecond}
		s.Register(st)

		time.Sleep(time.Second)
		assert.Equal(t, []time.Duration{
			50 * time.Millisecond,
			80 * time.Millisecond,
			80 * time.Millisecond,
			80 * time.Millisecond,
		}, st.Deltas())
		assert.True(t, st.Ended())
		assert.False(t, s.Running())
	})
}

func TestScheduler_Deregister(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := animation.NewScheduler(10)
		st := &fakeStepper{duration: time.Second}
		assert.False(t, s.Deregister(st))

		s.Register(st)
		time.Sleep(250 * time.Millisecond)
		assert.True(t, s.Deregister(st))
		assert.False(t, s.Deregister(st))

		advanced := len(st.Deltas())
		time.Sleep(time.Second)
		assert.Len(t, st.Deltas(), advanced)
		assert.False(t, s.Running())
	})
}

func TestScheduler_DropsFailingStepper(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := animation.NewScheduler(10)
		bad := &fakeStepper{duration: time.Second, err: errors.New("boom")}
		good := &fakeStepper{duration: 300 * time.Millisecond}
		s.Register(bad)
		s.Register(good)

		time.Sleep(150 * time.Millisecond)
		assert.False(t, s.Contains(bad))
		assert.True(t, s.Contains(good))

		time.Sleep(time.Second)
		assert.True(t, good.Ended())
		assert.False(t, s.Running())
	})
}

func TestScheduler_RegistrationOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := animation.NewScheduler(30)
		opts := []animation.Option{
			animation.WithDuration(200 * time.Millisecond),
			animation.WithScheduler(s),
		}
		a := animation.NewFloat(0, 1, opts...)
		b := animation.NewFloat(0, 1, opts...)
		c := animation.NewFloat(0, 1, opts...)

		var mu sync.Mutex
		var order []string
		note := func(name string) animation.Listener {
			return func(animation.Event) {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
			}
		}
		a.On(animation.PostIncrement, note("a"))
		b.On(animation.PostIncrement, note("b"))
		c.On(animation.PostIncrement, note("c"))

		// The last animation sees its siblings' values for the same frame.
		c.On(animation.Incremented, func(animation.Event) {
			assert.Equal(t, c.Elapsed(), a.Elapsed())
			assert.Equal(t, c.Elapsed(), b.Elapsed())
		})

		require.NoError(t, a.Start())
		require.NoError(t, b.Start())
		require.NoError(t, c.Start())
		require.NoError(t, c.Await(0))

		mu.Lock()
		defer mu.Unlock()
		require.NotEmpty(t, order)
		require.Zero(t, len(order)%3)
		for i := 0; i < len(order); i += 3 {
			assert.Equal(t, []string{"a", "b", "c"}, order[i:i+3])
		}
	})
}

func TestScheduler_FramerateChangeKeepsDuration(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := newFloat(0, 1, time.Second)
		s := a.Scheduler()

		var increments int
		a.On(animation.Incremented, func(animation.Event) { increments++ })

		begin := time.Now()
		require.NoError(t, a.Start())
		time.Sleep(500 * time.Millisecond)
		require.NoError(t, s.SetFramerate(10))
		require.NoError(t, a.Await(0))
		took := time.Since(begin)

		frame := s.FrameDuration()
		assert.Equal(t, 100*time.Millisecond, frame)
		assert.GreaterOrEqual(t, took, time.Second-frame)
		assert.LessOrEqual(t, took, time.Second+frame)
		assert.Equal(t, time.Second, a.Elapsed())
		// 30 frames at 60fps, then roughly 5 at 10fps.
		assert.Less(t, increments, 40)
	})
}

func TestScheduler_ListenersMayStopAndStart(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := animation.NewScheduler(0)
		first := animation.NewFloat(0, 1, animation.WithDuration(100*time.Millisecond), animation.WithScheduler(s))
		second := animation.NewFloat(0, 1, animation.WithDuration(100*time.Millisecond), animation.WithScheduler(s))
		doomed := animation.NewFloat(0, 1, animation.WithDuration(time.Hour), animation.WithScheduler(s))

		first.On(animation.Ended, func(animation.Event) {
			assert.NoError(t, second.Start())
		})
		doomed.On(animation.Incremented, func(animation.Event) {
			assert.NoError(t, doomed.Stop())
		})

		require.NoError(t, doomed.Start())
		require.NoError(t, first.Start())
		require.NoError(t, first.Await(0))
		require.NoError(t, second.Await(0))

		assert.False(t, doomed.Ended())
		assert.ErrorIs(t, doomed.Await(0), animation.ErrStopped)
	})
}

func TestScheduler_Instrument(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		reg := prometheus.NewRegistry()
		s := animation.NewScheduler(50)
		require.NoError(t, s.Instrument(reg, "test"))

		a := animation.NewFloat(0, 1, animation.WithDuration(100*time.Millisecond), animation.WithScheduler(s))
		require.NoError(t, a.Start())
		require.NoError(t, a.Await(0))
		// Let the frame goroutine record the final frame and exit.
		synctest.Wait()

		families, err := reg.Gather()
		require.NoError(t, err)

		values := make(map[string]float64)
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				switch {
				case m.GetCounter() != nil:
					values[mf.GetName()] = m.GetCounter().GetValue()
				case m.GetGauge() != nil:
					values[mf.GetName()] = m.GetGauge().GetValue()
				case m.GetHistogram() != nil:
					values[mf.GetName()] = float64(m.GetHistogram().GetSampleCount())
				}
			}
		}

		assert.Equal(t, 5.0, values["animtx_scheduler_frames_total"])
		assert.Equal(t, 0.0, values["animtx_scheduler_active_animations"])
		assert.Equal(t, 5.0, values["animtx_scheduler_frame_advance_seconds"])
		assert.Equal(t, 5.0, values["animtx_scheduler_oversleep_seconds"])
		assert.False(t, s.Running())

		assert.Error(t, s.Instrument(reg, "test"))
	})
}

func TestScheduler_RealTimeAccuracy(t *testing.T) {
	if testing.Short() {
		t.Skip("real-time timing test")
	}

	a := newFloat(0, 1, 300*time.Millisecond)
	frame := a.Scheduler().FrameDuration()

	var mu sync.Mutex
	var frames int
	a.On(animation.Incremented, func(animation.Event) {
		mu.Lock()
		frames++
		mu.Unlock()
	})

	begin := time.Now()
	require.NoError(t, a.Start())
	require.NoError(t, a.Await(0))
	took := time.Since(begin)

	// Allow for a loaded test machine on top of the one frame bound.
	assert.GreaterOrEqual(t, took, 300*time.Millisecond-frame)
	assert.LessOrEqual(t, took, 300*time.Millisecond+frame+50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.InDelta(t, 18, frames, 4)
}
