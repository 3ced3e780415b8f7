package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/animtx/animation"
)

// Program names the controller cycles through.
const (
	ProgramTwinkle = "twinkle"
	ProgramSweep   = "sweep"
	ProgramFade    = "fade"
	ProgramPulse   = "pulse"
)

// Programs is the order the controller plays programs in.
var Programs = []string{ProgramTwinkle, ProgramSweep, ProgramFade, ProgramPulse}

const (
	twinkleParticles = 400
	sweepTrail       = 180
)

// Controller that manages animations.
type Controller struct {
	strip      *Strip
	palette    []colorful.Color
	cycle      time.Duration
	transition time.Duration

	mu      sync.Mutex
	next    int
	colour  int
	current string
}

// NewController creates an instance of a Controller. The palette must not be
// empty. Each program cross-fades in from the last over transition; zero cuts
// straight to it.
func NewController(strip *Strip, palette []colorful.Color, cycle, transition time.Duration) *Controller {
	c := new(Controller)
	c.strip = strip
	c.palette = palette
	c.cycle = cycle
	c.transition = transition

	return c
}

// Current is the name of the program last started.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CycleAnimation starts the next program on the strip.
func (c *Controller) CycleAnimation() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := Programs[c.next%len(Programs)]
	c.next++
	log.Printf("Cycling to %s", name)

	err := c.strip.CrossFade(c.transition, func() (err error) {
		switch name {
		case ProgramTwinkle:
			_, err = c.strip.Twinkle(twinkleParticles, c.pick(), c.palette[0], c.programDuration())
		case ProgramSweep:
			_, err = c.strip.Sweep(RainbowGradient, sweepTrail, c.programDuration())
		case ProgramFade:
			_, err = c.strip.FadeTo(c.pick())
		case ProgramPulse:
			_, err = c.strip.Pulse(c.pick(), c.programDuration())
		}
		return err
	})
	if err != nil {
		return err
	}

	c.current = name
	return nil
}

// Run causes the Controller to cycle through programs until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.CycleAnimation(); err != nil {
		return err
	}

	cycleTimer := time.NewTicker(c.cycle)
	defer cycleTimer.Stop()
	for {
		select {
		case <-cycleTimer.C:
			if err := c.CycleAnimation(); err != nil {
				log.Printf("Failed to cycle animation: %v", err)
			}
		case <-ctx.Done():
			c.strip.Stop()
			c.strip.Flush()
			return ctx.Err()
		}
	}
}

// pick returns the next palette colour.
func (c *Controller) pick() colorful.Color {
	colour := c.palette[c.colour%len(c.palette)]
	c.colour++
	return colour
}

func (c *Controller) programDuration() animation.Option {
	return animation.WithDuration(c.cycle)
}
