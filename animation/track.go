package animation

import (
	"sync/atomic"
	"time"

	"github.com/matt-g-everett/animtx/interp"
)

// A Lerp computes the value between start and end at the given elapsed
// fraction, eased by f.
type Lerp[T any] func(start T, end T, fraction float64, f interp.Func) T

// track supplies the timeline and values behind an Animation. seek and rewind
// are only called with the animation's lock held.
type track[T any] interface {
	duration() time.Duration
	elapsed() time.Duration
	seek(to time.Duration) error
	rewind()

	startValue() T
	endValue() T
	currentValue() T
}

// tween is the track of a single animation between two values.
type tween[T any] struct {
	start  T
	end    T
	length time.Duration
	pos    atomic.Int64
	ease   interp.Func
	lerp   Lerp[T]
}

func newTween[T any](start T, end T, length time.Duration, ease interp.Func, lerp Lerp[T]) *tween[T] {
	tw := new(tween[T])
	tw.start = start
	tw.end = end
	tw.length = length
	tw.ease = ease
	tw.lerp = lerp
	return tw
}

func (tw *tween[T]) duration() time.Duration {
	return tw.length
}

func (tw *tween[T]) elapsed() time.Duration {
	return time.Duration(tw.pos.Load())
}

func (tw *tween[T]) seek(to time.Duration) error {
	tw.pos.Store(int64(to))
	return nil
}

func (tw *tween[T]) rewind() {
	tw.pos.Store(0)
}

func (tw *tween[T]) startValue() T {
	return tw.start
}

func (tw *tween[T]) endValue() T {
	return tw.end
}

// currentValue is computed from the elapsed time on every call. A zero
// length tween is always complete.
func (tw *tween[T]) currentValue() T {
	fraction := 1.0
	if tw.length > 0 {
		fraction = float64(tw.pos.Load()) / float64(tw.length)
	}
	return tw.lerp(tw.start, tw.end, fraction, tw.ease)
}
