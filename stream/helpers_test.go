package stream_test

import (
	"sync"
	"time"

	"github.com/matt-g-everett/animtx/animation"
	"github.com/matt-g-everett/animtx/stream"
)

// frameLog records every frame a strip publishes.
type frameLog struct {
	mu     sync.Mutex
	frames []*stream.Frame
}

func (l *frameLog) Publish(payload []byte) error {
	f := new(stream.Frame)
	if err := f.UnmarshalBinary(payload); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, f)
	return nil
}

func (l *frameLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

func (l *frameLog) last() *stream.Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.frames) == 0 {
		return nil
	}
	return l.frames[len(l.frames)-1]
}

// newStrip creates a strip on its own 50 fps scheduler.
func newStrip(n int, d time.Duration) (*stream.Strip, *frameLog) {
	log := new(frameLog)
	s := stream.NewStrip(n, log,
		animation.WithDuration(d),
		animation.WithScheduler(animation.NewScheduler(50)))
	return s, log
}
