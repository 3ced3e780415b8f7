package animation

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultFramerate is the framerate of schedulers created without one.
const DefaultFramerate = 60

// A Stepper is anything a Scheduler can drive. Animations are Steppers.
type Stepper interface {
	Advance(delta time.Duration) error
	Ended() bool
}

// Scheduler advances every registered Stepper once per frame on a single
// goroutine. The goroutine starts when the first Stepper is registered and
// exits after the frame in which the last one ends or is removed.
//
// Steppers are advanced in the order they were registered, so a Stepper
// registered after its siblings sees their values for the current frame.
type Scheduler struct {
	mu      sync.Mutex
	active  []Stepper
	members map[Stepper]struct{}
	running bool

	framerate atomic.Int64
	metrics   atomic.Pointer[metrics]

	// sleep pauses the frame goroutine. It may overshoot.
	sleep func(d time.Duration)
}

var defaultScheduler = sync.OnceValue(func() *Scheduler {
	return NewScheduler(DefaultFramerate)
})

// Default returns the process-wide scheduler, creating it on first use.
func Default() *Scheduler {
	return defaultScheduler()
}

// NewScheduler creates an idle scheduler. A framerate that is not positive
// means DefaultFramerate.
func NewScheduler(framerate int) *Scheduler {
	s := new(Scheduler)
	s.members = make(map[Stepper]struct{})
	s.sleep = time.Sleep
	if framerate <= 0 {
		framerate = DefaultFramerate
	}
	s.framerate.Store(int64(framerate))
	return s
}

// Framerate is the number of frames per second the scheduler aims for.
func (s *Scheduler) Framerate() int {
	return int(s.framerate.Load())
}

// SetFramerate changes the frame cadence. Running animations keep their
// durations; only the number and size of their increments change.
func (s *Scheduler) SetFramerate(framerate int) error {
	if framerate <= 0 {
		return fmt.Errorf("%w: framerate %d", ErrInvalidArgument, framerate)
	}
	s.framerate.Store(int64(framerate))
	return nil
}

// FrameDuration is the target time between frames.
func (s *Scheduler) FrameDuration() time.Duration {
	return time.Second / time.Duration(s.framerate.Load())
}

// Register adds st to the active set, starting the frame goroutine if the
// scheduler is idle. It returns false if st is already registered.
func (s *Scheduler) Register(st Stepper) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[st]; ok {
		return false
	}
	s.members[st] = struct{}{}
	s.active = append(s.active, st)
	s.metrics.Load().setActive(len(s.active))

	if !s.running {
		s.running = true
		go s.run()
	}
	return true
}

// Deregister removes st from the active set. It returns false if st was not
// registered. A frame already advancing st may complete after Deregister
// returns.
func (s *Scheduler) Deregister(st Stepper) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[st]; !ok {
		return false
	}
	delete(s.members, st)
	s.active = slices.DeleteFunc(s.active, func(other Stepper) bool {
		return other == st
	})
	s.metrics.Load().setActive(len(s.active))
	return true
}

// Contains reports whether st is registered.
func (s *Scheduler) Contains(st Stepper) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.members[st]
	return ok
}

// Len is the number of registered Steppers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Running reports whether the frame goroutine is alive.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run is the frame loop. Each cycle sleeps for what is left of the frame
// after the previous frame's processing time and the previous sleep's
// overshoot. When nothing is left to sleep the frame is not dropped: the
// next advance covers the real time that has passed.
func (s *Scheduler) run() {
	var oversleep, processing time.Duration
	last := time.Now()

	for {
		sleepFor := s.FrameDuration() - processing - oversleep
		if sleepFor <= 0 {
			oversleep = 0
		} else {
			before := time.Now()
			s.sleep(sleepFor)
			oversleep = max(time.Since(before)-sleepFor, 0)
		}

		now := time.Now()
		delta := now.Sub(last)
		last = now

		more := s.tick(delta)
		s.metrics.Load().observeFrame(delta, oversleep)
		if !more {
			return
		}
		processing = time.Since(now)
	}
}

// tick advances every active Stepper by delta in registration order and
// reports whether any remain.
func (s *Scheduler) tick(delta time.Duration) bool {
	s.mu.Lock()
	frame := slices.Clone(s.active)
	s.mu.Unlock()

	for _, st := range frame {
		if !s.Contains(st) {
			continue
		}

		if !st.Ended() {
			err := st.Advance(delta)
			if err != nil && !errors.Is(err, ErrEnded) {
				log.Printf("Dropping animation %s after failed advance: %v", stepperName(st), err)
				s.Deregister(st)
				continue
			}
		}

		if st.Ended() {
			s.Deregister(st)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.active) == 0 {
		s.running = false
		return false
	}
	return true
}

// stepperName identifies st in logs by its ID when it has one.
func stepperName(st Stepper) string {
	if id, ok := st.(interface{ ID() uuid.UUID }); ok {
		return id.ID().String()
	}
	return fmt.Sprintf("%T", st)
}
