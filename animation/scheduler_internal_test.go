package animation

import (
	"bytes"
	"errors"
	"log"
	"os"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStepper struct {
	mu       sync.Mutex
	duration time.Duration
	elapsed  time.Duration
	deltas   []time.Duration
}

func (r *recordingStepper) Advance(delta time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deltas = append(r.deltas, delta)
	r.elapsed = min(r.elapsed+delta, r.duration)
	return nil
}

func (r *recordingStepper) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed == r.duration
}

type brokenStepper struct {
	id uuid.UUID
}

func (b *brokenStepper) Advance(time.Duration) error { return errors.New("broken") }
func (b *brokenStepper) Ended() bool { return false }
func (b *brokenStepper) ID() uuid.UUID { return b.id }

func TestRun_CarriesOversleepIntoNextFrame(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := NewScheduler(20)
		s.sleep = func(d time.Duration) {
			time.Sleep(d + 5*time.Millisecond)
		}

		st := &recordingStepper{duration: 205 * time.Millisecond}
		require.True(t, s.Register(st))
		time.Sleep(300 * time.Millisecond)

		st.mu.Lock()
		defer st.mu.Unlock()
		ms := time.Millisecond
		assert.Equal(t, []time.Duration{55 * ms, 50 * ms, 50 * ms, 50 * ms}, st.deltas)
		assert.False(t, s.Running())
	})
}

func TestTick_LogsDroppedStepperID(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	s := NewScheduler(0)
	st := &brokenStepper{id: uuid.New()}
	s.members[st] = struct{}{}
	s.active = append(s.active, st)

	assert.False(t, s.tick(time.Millisecond))
	assert.False(t, s.Contains(st))
	assert.Contains(t, buf.String(), st.id.String())
	assert.Contains(t, buf.String(), "broken")
}

func TestStepperName(t *testing.T) {
	a := NewFloat(0, 1, WithScheduler(NewScheduler(0)))
	assert.Equal(t, a.ID().String(), stepperName(a))
	assert.Equal(t, "*animation.recordingStepper", stepperName(&recordingStepper{}))
}
