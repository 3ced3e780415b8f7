// Package animation advances values over time on a shared frame clock.
//
// An Animation interpolates between a start and an end value over a fixed
// duration. Starting it registers it with a Scheduler, whose goroutine
// advances every active animation once per frame and notifies listeners in
// a fixed order: Started (first advance only), PreIncrement, Incremented,
// PostIncrement and, once the duration is reached, Ended. Listeners read
// CurrentValue and apply it wherever they need it.
//
// Listeners run with the animation's advance lock held, so they must not call
// Advance, Finish or Reset on the animation that notified them. Stop is safe.
package animation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matt-g-everett/animtx/interp"
)

// DefaultDuration is the duration of animations created without WithDuration.
const DefaultDuration = 400 * time.Millisecond

type options struct {
	duration     time.Duration
	interpolator interp.Func
	scheduler    *Scheduler
	dispatcher   Dispatcher
}

// An Option configures a new animation.
type Option func(*options)

// WithDuration sets the animation's duration. Negative durations are treated
// as zero.
func WithDuration(d time.Duration) Option {
	return func(o *options) {
		o.duration = max(d, 0)
	}
}

// WithInterpolator sets the easing curve. A nil interpolator means Linear.
func WithInterpolator(f interp.Func) Option {
	return func(o *options) {
		if f == nil {
			f = interp.Linear
		}
		o.interpolator = f
	}
}

// WithScheduler sets the scheduler the animation registers with when
// started. The default is the process-wide scheduler returned by Default.
func WithScheduler(s *Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithDispatcher routes the animation's notifications through d.
func WithDispatcher(d Dispatcher) Option {
	return func(o *options) {
		if d == nil {
			d = Synchronous
		}
		o.dispatcher = d
	}
}

// ResolveDuration returns the duration an animation created with opts would
// have.
func ResolveDuration(opts ...Option) time.Duration {
	o := options{duration: DefaultDuration}
	for _, opt := range opts {
		opt(&o)
	}
	return o.duration
}

func buildOptions(opts []Option) options {
	o := options{
		duration:     DefaultDuration,
		interpolator: interp.Linear,
		dispatcher:   Synchronous,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scheduler == nil {
		o.scheduler = Default()
	}
	return o
}

// Animation is a time-based animation of a value of type T.
type Animation[T any] struct {
	id         uuid.UUID
	track      track[T]
	scheduler  *Scheduler
	dispatcher Dispatcher
	listeners  listeners

	// mu serializes Advance and Reset.
	mu    sync.Mutex
	began bool

	// sigMu guards the state waiters observe. signal is closed and replaced
	// whenever the animation ends or is stopped.
	sigMu    sync.Mutex
	finished bool
	stopped  bool
	signal   chan struct{}
}

func newAnimation[T any](tr track[T], o options) *Animation[T] {
	a := new(Animation[T])
	a.id = uuid.New()
	a.track = tr
	a.scheduler = o.scheduler
	a.dispatcher = o.dispatcher
	a.signal = make(chan struct{})
	return a
}

// ID uniquely identifies the animation.
func (a *Animation[T]) ID() uuid.UUID {
	return a.id
}

// Duration is the total length of the animation.
func (a *Animation[T]) Duration() time.Duration {
	return a.track.duration()
}

// Elapsed is how far the animation has progressed.
func (a *Animation[T]) Elapsed() time.Duration {
	return a.track.elapsed()
}

// Started reports whether any time has elapsed.
func (a *Animation[T]) Started() bool {
	return a.track.elapsed() > 0
}

// Ended reports whether the elapsed time has reached the duration.
func (a *Animation[T]) Ended() bool {
	return a.track.elapsed() == a.track.duration()
}

// Running reports whether the animation is registered with its scheduler.
func (a *Animation[T]) Running() bool {
	return a.scheduler.Contains(a)
}

// Scheduler returns the scheduler the animation registers with.
func (a *Animation[T]) Scheduler() *Scheduler {
	return a.scheduler
}

// StartValue is the value at zero elapsed time.
func (a *Animation[T]) StartValue() T {
	return a.track.startValue()
}

// EndValue is the value once the animation has ended.
func (a *Animation[T]) EndValue() T {
	return a.track.endValue()
}

// CurrentValue is the value at the current elapsed time.
func (a *Animation[T]) CurrentValue() T {
	return a.track.currentValue()
}

// On registers fn to be notified of e and returns a function that removes it.
func (a *Animation[T]) On(e Event, fn Listener) (cancel func()) {
	return a.listeners.add(e, fn)
}

// Advance moves the animation forward by delta, clamped to the duration, and
// notifies listeners.
func (a *Animation[T]) Advance(delta time.Duration) error {
	if delta < 0 {
		return fmt.Errorf("%w: negative advance %v", ErrInvalidArgument, delta)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Ended() {
		return ErrEnded
	}

	if !a.began {
		a.began = true
		a.emit(Started)
	}
	a.emit(PreIncrement)

	to := min(a.track.elapsed()+delta, a.track.duration())
	if err := a.track.seek(to); err != nil {
		return err
	}

	a.emit(Incremented)
	a.emit(PostIncrement)

	if a.Ended() {
		a.emit(Ended)
		a.markFinished()
	}

	return nil
}

// Start registers the animation with its scheduler. A stopped animation
// resumes from its elapsed time.
//
// An animation with zero duration is complete as soon as it starts: Start
// notifies Ended and returns without registering.
func (a *Animation[T]) Start() error {
	if a.track.duration() == 0 {
		return a.completeInstantly()
	}
	if a.Ended() {
		return ErrEnded
	}

	a.sigMu.Lock()
	a.stopped = false
	a.sigMu.Unlock()

	if !a.scheduler.Register(a) {
		return ErrRunning
	}
	return nil
}

// Stop removes the animation from its scheduler without completing it and
// wakes any goroutines blocked in Await, which then fail with ErrStopped.
func (a *Animation[T]) Stop() error {
	if a.Ended() {
		return ErrEnded
	}

	a.scheduler.Deregister(a)
	a.emit(Stopped)

	a.sigMu.Lock()
	a.stopped = true
	a.broadcast()
	a.sigMu.Unlock()

	return nil
}

// Finish stops the animation and immediately advances it to the end, so
// listeners see the final increment and Ended exactly once.
func (a *Animation[T]) Finish() error {
	if a.track.duration() == 0 {
		return a.completeInstantly()
	}
	if a.Ended() {
		return ErrEnded
	}

	a.scheduler.Deregister(a)
	a.emit(Stopped)

	remaining := a.track.duration() - a.track.elapsed()
	if remaining <= 0 {
		return nil
	}

	err := a.Advance(remaining)
	if errors.Is(err, ErrEnded) {
		// A frame already in flight got there first.
		return nil
	}
	return err
}

// Reset rewinds the elapsed time to zero. It neither notifies listeners nor
// changes scheduler registration.
func (a *Animation[T]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.track.rewind()
	a.began = false

	a.sigMu.Lock()
	a.finished = false
	a.sigMu.Unlock()
}

// Await blocks until the animation ends and then sleeps for extra. It fails
// with ErrStopped if the animation is stopped before it ends.
func (a *Animation[T]) Await(extra time.Duration) error {
	return a.AwaitContext(context.Background(), extra)
}

// AwaitContext is Await with cancellation.
func (a *Animation[T]) AwaitContext(ctx context.Context, extra time.Duration) error {
	if extra < 0 {
		return fmt.Errorf("%w: negative await delay %v", ErrInvalidArgument, extra)
	}
	if err := a.wait(ctx, true); err != nil {
		return err
	}
	return sleep(ctx, extra)
}

// Then runs fn on its own goroutine once the animation ends. A stopped
// animation keeps fn pending until it is restarted and ends.
func (a *Animation[T]) Then(fn func()) {
	go func() {
		if err := a.wait(context.Background(), false); err == nil {
			fn()
		}
	}()
}

func (a *Animation[T]) completeInstantly() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sigMu.Lock()
	finished := a.finished
	a.sigMu.Unlock()
	if finished {
		return ErrEnded
	}

	a.emit(Ended)
	a.markFinished()
	return nil
}

func (a *Animation[T]) wait(ctx context.Context, failOnStop bool) error {
	for {
		a.sigMu.Lock()
		if a.finished {
			a.sigMu.Unlock()
			return nil
		}
		if failOnStop && a.stopped {
			a.sigMu.Unlock()
			return ErrStopped
		}
		signal := a.signal
		a.sigMu.Unlock()

		select {
		case <-signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *Animation[T]) markFinished() {
	a.sigMu.Lock()
	defer a.sigMu.Unlock()

	a.finished = true
	a.broadcast()
}

// broadcast wakes every waiter. Callers hold sigMu.
func (a *Animation[T]) broadcast() {
	close(a.signal)
	a.signal = make(chan struct{})
}

func (a *Animation[T]) emit(e Event) {
	fns := a.listeners.snapshot(e)
	if len(fns) == 0 {
		return
	}
	a.dispatcher.Dispatch(func() {
		for _, fn := range fns {
			fn(e)
		}
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
