package animation

import (
	"fmt"
	"sync"
)

// Event identifies a point in an animation's lifecycle.
type Event int

const (
	// Started fires on the first advance after creation or reset.
	Started Event = iota
	// PreIncrement fires on every advance before elapsed time changes.
	PreIncrement
	// Incremented fires on every advance once elapsed time has changed.
	Incremented
	// PostIncrement fires on every advance after Incremented.
	PostIncrement
	// Ended fires once elapsed time reaches the duration.
	Ended
	// Stopped fires when the animation is stopped.
	Stopped
)

func (e Event) String() string {
	switch e {
	case Started:
		return "started"
	case PreIncrement:
		return "pre-increment"
	case Incremented:
		return "incremented"
	case PostIncrement:
		return "post-increment"
	case Ended:
		return "ended"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// A Listener is notified of lifecycle events.
type Listener func(e Event)

// listeners is a per-event registry of callbacks. Callbacks run in the order
// they were added.
type listeners struct {
	mu      sync.RWMutex
	nextID  int
	byEvent map[Event][]entry
}

type entry struct {
	id int
	fn Listener
}

func (l *listeners) add(e Event, fn Listener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.byEvent == nil {
		l.byEvent = make(map[Event][]entry)
	}
	id := l.nextID
	l.nextID++
	l.byEvent[e] = append(l.byEvent[e], entry{id: id, fn: fn})

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		entries := l.byEvent[e]
		for i, en := range entries {
			if en.id == id {
				l.byEvent[e] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners) snapshot(e Event) []Listener {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.byEvent[e]
	if len(entries) == 0 {
		return nil
	}
	fns := make([]Listener, len(entries))
	for i, en := range entries {
		fns[i] = en.fn
	}
	return fns
}
