package animation

import "sync"

// A Dispatcher delivers notifications. Animations hand every batch of
// listener calls to their dispatcher; the default runs them synchronously on
// the goroutine that caused the event. A GUI adapter supplies a Dispatcher
// that posts onto its own thread.
//
// Dispatchers must run functions in the order they were dispatched for the
// lifecycle ordering of an animation's events to hold.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

// Dispatch calls d(fn).
func (d DispatcherFunc) Dispatch(fn func()) {
	d(fn)
}

// Synchronous runs notifications immediately on the calling goroutine.
var Synchronous Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// Loop is a Dispatcher that runs notifications one at a time on a dedicated
// goroutine, in dispatch order.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	closed  bool
	stopped sync.WaitGroup
}

// NewLoop creates a Loop and starts its goroutine.
func NewLoop() *Loop {
	l := new(Loop)
	l.wake = make(chan struct{}, 1)
	l.done = make(chan struct{})

	l.stopped.Add(1)
	go l.run()

	return l
}

// Dispatch queues fn. Functions dispatched after Close are dropped.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Close drains the queue and stops the goroutine. It blocks until every
// function dispatched before Close has run.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	close(l.done)
	l.stopped.Wait()
}

func (l *Loop) run() {
	defer l.stopped.Done()

	for {
		l.drain()

		select {
		case <-l.wake:
		case <-l.done:
			l.drain()
			return
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}
