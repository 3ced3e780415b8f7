package animation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a negative duration passed to Advance or Await,
	// or a malformed composite.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState reports an operation that the animation's current state
	// does not allow.
	ErrInvalidState = errors.New("invalid state")

	// ErrEnded is returned when operating on an animation that has ended.
	ErrEnded = fmt.Errorf("%w: animation has ended", ErrInvalidState)

	// ErrRunning is returned when starting an animation that is already
	// registered with its scheduler.
	ErrRunning = fmt.Errorf("%w: animation is already running", ErrInvalidState)

	// ErrStopped is returned by Await when the animation was stopped before it
	// ended.
	ErrStopped = fmt.Errorf("%w: animation was stopped", ErrInvalidState)
)
