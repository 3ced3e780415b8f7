package animation_test

import (
	"sync"
	"time"

	"github.com/matt-g-everett/animtx/animation"
)

// recorder collects events from every lifecycle point of an animation.
type recorder struct {
	mu     sync.Mutex
	events []animation.Event
}

var allEvents = []animation.Event{
	animation.Started,
	animation.PreIncrement,
	animation.Incremented,
	animation.PostIncrement,
	animation.Ended,
	animation.Stopped,
}

func record[T any](a *animation.Animation[T]) *recorder {
	r := new(recorder)
	for _, e := range allEvents {
		a.On(e, r.add)
	}
	return r
}

func (r *recorder) add(e animation.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// take returns the events recorded so far and clears them.
func (r *recorder) take() []animation.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

func (r *recorder) count(e animation.Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.events {
		if got == e {
			n++
		}
	}
	return n
}

// newFloat creates a float animation on its own scheduler, so tests never
// share the process-wide one.
func newFloat(start float64, end float64, d time.Duration, opts ...animation.Option) *animation.Animation[float64] {
	opts = append([]animation.Option{
		animation.WithDuration(d),
		animation.WithScheduler(animation.NewScheduler(animation.DefaultFramerate)),
	}, opts...)
	return animation.NewFloat(start, end, opts...)
}
