package animation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/matt-g-everett/animtx/interp"
)

// Lifecycle is the part of an animation a Coordinator drives, independent of
// the animated value type.
type Lifecycle interface {
	Start() error
	Stop() error
	Finish() error
	Ended() bool
	On(e Event, fn Listener) (cancel func())
}

type owned struct {
	a      Lifecycle
	cancel func()
}

// Coordinator tracks the animations owned by one entity, such as a strip of
// lights or a widget. Tracked animations are released when they end. It also
// holds the defaults the entity uses for new animations.
type Coordinator struct {
	mu           sync.Mutex
	owned        []owned
	duration     time.Duration
	interpolator interp.Func
	scheduler    *Scheduler
	dispatcher   Dispatcher
	onStopped    func()
	onFinished   func()

	// stops counts calls to Stop so waiters can tell a stop from an end.
	stops  uint64
	signal chan struct{}
}

// NewCoordinator creates a Coordinator whose defaults come from opts.
func NewCoordinator(opts ...Option) *Coordinator {
	o := buildOptions(opts)

	c := new(Coordinator)
	c.duration = o.duration
	c.interpolator = o.interpolator
	c.scheduler = o.scheduler
	c.dispatcher = o.dispatcher
	c.signal = make(chan struct{})
	return c
}

// DefaultDuration is the duration given to animations built from Options.
func (c *Coordinator) DefaultDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// SetDefaultDuration changes the duration given to new animations.
func (c *Coordinator) SetDefaultDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: negative duration %v", ErrInvalidArgument, d)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = d
	return nil
}

// DefaultInterpolator is the easing curve given to animations built from
// Options.
func (c *Coordinator) DefaultInterpolator() interp.Func {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interpolator
}

// SetDefaultInterpolator changes the easing curve given to new animations.
func (c *Coordinator) SetDefaultInterpolator(f interp.Func) {
	if f == nil {
		f = interp.Linear
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interpolator = f
}

// Options returns the coordinator's defaults as animation options.
func (c *Coordinator) Options() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return []Option{
		WithDuration(c.duration),
		WithInterpolator(c.interpolator),
		WithScheduler(c.scheduler),
		WithDispatcher(c.dispatcher),
	}
}

// OnStopped sets a hook that runs after Stop.
func (c *Coordinator) OnStopped(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStopped = fn
}

// OnFinished sets a hook that runs after Finish.
func (c *Coordinator) OnFinished(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFinished = fn
}

// Track takes ownership of a until it ends. Animations that have already
// ended are released straight away.
func (c *Coordinator) Track(a Lifecycle) {
	c.mu.Lock()
	if c.indexOf(a) >= 0 {
		c.mu.Unlock()
		return
	}
	cancel := a.On(Ended, func(Event) {
		c.release(a)
	})
	c.owned = append(c.owned, owned{a: a, cancel: cancel})
	c.mu.Unlock()

	// The final frame may have notified Ended before the listener was added.
	if a.Ended() {
		c.release(a)
	}
}

// Owned lists the animations currently tracked, oldest first.
func (c *Coordinator) Owned() []Lifecycle {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]Lifecycle, len(c.owned))
	for i, o := range c.owned {
		list[i] = o.a
	}
	return list
}

// Len is the number of animations currently tracked.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.owned)
}

// Stop stops every owned animation, releases them and runs the OnStopped
// hook. Goroutines blocked in Await fail with ErrStopped.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	list := c.owned
	c.owned = nil
	c.stops++
	hook := c.onStopped
	c.broadcast()
	c.mu.Unlock()

	for _, o := range list {
		o.cancel()
		if err := o.a.Stop(); err != nil && !errors.Is(err, ErrEnded) {
			log.Printf("Failed to stop animation: %v", err)
		}
	}

	if hook != nil {
		hook()
	}
}

// Finish completes every owned animation immediately and runs the OnFinished
// hook.
func (c *Coordinator) Finish() {
	c.mu.Lock()
	list := slices.Clone(c.owned)
	hook := c.onFinished
	c.mu.Unlock()

	for _, o := range list {
		if err := o.a.Finish(); err != nil && !errors.Is(err, ErrEnded) {
			log.Printf("Failed to finish animation: %v", err)
		}
	}

	if hook != nil {
		hook()
	}
}

// Await blocks until every owned animation has ended and then sleeps for
// extra. It fails with ErrStopped if Stop is called while waiting.
func (c *Coordinator) Await(extra time.Duration) error {
	return c.AwaitContext(context.Background(), extra)
}

// AwaitContext is Await with cancellation.
func (c *Coordinator) AwaitContext(ctx context.Context, extra time.Duration) error {
	if extra < 0 {
		return fmt.Errorf("%w: negative await delay %v", ErrInvalidArgument, extra)
	}
	if err := c.wait(ctx, true); err != nil {
		return err
	}
	return sleep(ctx, extra)
}

// Then runs fn on its own goroutine once the coordinator owns no animations,
// whether they ended or were stopped.
func (c *Coordinator) Then(fn func()) {
	go func() {
		if err := c.wait(context.Background(), false); err == nil {
			fn()
		}
	}()
}

func (c *Coordinator) wait(ctx context.Context, failOnStop bool) error {
	c.mu.Lock()
	stops := c.stops
	c.mu.Unlock()

	for {
		c.mu.Lock()
		if failOnStop && c.stops != stops {
			c.mu.Unlock()
			return ErrStopped
		}
		if len(c.owned) == 0 {
			c.mu.Unlock()
			return nil
		}
		signal := c.signal
		c.mu.Unlock()

		select {
		case <-signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Coordinator) release(a Lifecycle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(a)
	if i < 0 {
		return
	}
	c.owned[i].cancel()
	c.owned = slices.Delete(c.owned, i, i+1)

	if len(c.owned) == 0 {
		c.broadcast()
	}
}

// indexOf finds a in the owned list. Callers hold mu.
func (c *Coordinator) indexOf(a Lifecycle) int {
	return slices.IndexFunc(c.owned, func(o owned) bool {
		return o.a == a
	})
}

// broadcast wakes every waiter. Callers hold mu.
func (c *Coordinator) broadcast() {
	close(c.signal)
	c.signal = make(chan struct{})
}
