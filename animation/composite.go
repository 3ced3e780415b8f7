package animation

import (
	"fmt"
	"time"
)

// group is the track of a composite. Its elapsed time is the furthest any
// member has progressed, and seeking moves every member that has not yet
// ended up to the same point.
type group[T any] struct {
	members []*Animation[T]
	length  time.Duration
}

// Composite combines members into a single animation whose duration is the
// longest member duration. Advancing the composite advances every member in
// lockstep; a member that reaches its own end holds its end value while the
// others continue. The composite's values list each member's value in order.
//
// Members are owned by the composite: they must not be started, stopped or
// advanced on their own afterwards. The members' own options apply to their
// values and notifications; opts apply to the composite.
func Composite[T any](members []*Animation[T], opts ...Option) (*Animation[[]T], error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: composite needs at least one member", ErrInvalidArgument)
	}

	g := new(group[T])
	g.members = make([]*Animation[T], len(members))
	for i, m := range members {
		if m == nil {
			return nil, fmt.Errorf("%w: composite member %d is nil", ErrInvalidArgument, i)
		}
		if m.Running() {
			return nil, fmt.Errorf("%w: composite member %d is already running", ErrInvalidState, i)
		}
		g.members[i] = m
		g.length = max(g.length, m.Duration())
	}

	return newAnimation[[]T](g, buildOptions(opts)), nil
}

func (g *group[T]) duration() time.Duration {
	return g.length
}

func (g *group[T]) elapsed() time.Duration {
	var furthest time.Duration
	for _, m := range g.members {
		furthest = max(furthest, m.Elapsed())
	}
	return furthest
}

func (g *group[T]) seek(to time.Duration) error {
	for _, m := range g.members {
		if m.Ended() {
			continue
		}
		delta := to - m.Elapsed()
		if delta < 0 {
			continue
		}
		if err := m.Advance(delta); err != nil {
			return err
		}
	}
	return nil
}

func (g *group[T]) rewind() {
	for _, m := range g.members {
		m.Reset()
	}
}

func (g *group[T]) startValue() []T {
	return g.collect((*Animation[T]).StartValue)
}

func (g *group[T]) endValue() []T {
	return g.collect((*Animation[T]).EndValue)
}

func (g *group[T]) currentValue() []T {
	return g.collect((*Animation[T]).CurrentValue)
}

func (g *group[T]) collect(value func(*Animation[T]) T) []T {
	values := make([]T, len(g.members))
	for i, m := range g.members {
		values[i] = value(m)
	}
	return values
}
