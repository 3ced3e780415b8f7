package stream

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/animtx/animation"
	"github.com/matt-g-everett/animtx/interp"
)

const (
	sweepSaturation = 1.0
	sweepLuminance  = 0.05
	pulseSamples    = 64
)

// pulseCurve rises and falls once.
var pulseCurve = interp.Table(interp.PingPong(interp.Func(ease.InOutQuad)), pulseSamples)

// A Strip is a frame of pixels driven by animations. Every frame an animation
// renders is published. Starting a program stops whatever the strip was
// playing, leaving the pixels where they were.
//
// Frames are handed to a single sending goroutine so a slow publisher never
// holds up the frame clock. If the publisher falls behind, frames it has not
// picked up yet are replaced by newer ones; the last frame is always sent.
type Strip struct {
	*animation.Coordinator

	mu        sync.Mutex
	frame     *Frame
	publisher Publisher

	// While blendFrom is set the strip shows it blended into frame by blend.
	blendFrom *Frame
	blend     float64

	outMu   sync.Mutex
	outDone *sync.Cond
	pending []byte
	sending bool
}

// NewStrip creates a black strip of n pixels. opts become the defaults for
// every program the strip plays.
func NewStrip(n int, publisher Publisher, opts ...animation.Option) *Strip {
	s := new(Strip)
	s.Coordinator = animation.NewCoordinator(opts...)
	s.frame = NewFrame(n)
	s.publisher = publisher
	s.outDone = sync.NewCond(&s.outMu)

	return s
}

// Size is the number of pixels.
func (s *Strip) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.Len()
}

// Frame returns a copy of the frame on show.
func (s *Strip) Frame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output()
}

// output must be called with mu held.
func (s *Strip) output() *Frame {
	if s.blendFrom == nil {
		return s.frame.Clone()
	}
	return s.blendFrom.InterpolateFrame(s.frame, s.blend)
}

// Stop stops the program and any cross-fade into it.
func (s *Strip) Stop() {
	s.Coordinator.Stop()

	s.mu.Lock()
	s.blendFrom = nil
	s.mu.Unlock()
}

// CrossFade runs program, then blends from the frame that was on show into
// the program's frames over d.
func (s *Strip) CrossFade(d time.Duration, program func() error) error {
	from := s.Frame()
	if err := program(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	s.mu.Lock()
	s.blendFrom = from
	s.blend = 0
	s.mu.Unlock()

	opts := append(s.Options(), animation.WithDuration(d), animation.WithInterpolator(interp.Linear))
	_, err := play(s, animation.NewFloat(0, 1, opts...), func(v float64) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.blend = v
		if v >= 1 {
			s.blendFrom = nil
		}
	})
	return err
}

// Pixels is the strip's colours as a property.
func (s *Strip) Pixels() animation.Property[[]colorful.Color] {
	return animation.Accessor[[]colorful.Color]{
		GetFunc: func() []colorful.Color {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.frame.Pixels()
		},
		SetFunc: func(v []colorful.Color) {
			s.mu.Lock()
			defer s.mu.Unlock()
			copy(s.frame.pixels, v)
		},
	}
}

// FadeTo fades every pixel to target.
func (s *Strip) FadeTo(target colorful.Color, opts ...animation.Option) (*animation.Animation[[]colorful.Color], error) {
	s.Stop()

	end := make([]colorful.Color, s.Size())
	for i := range end {
		end[i] = target
	}

	a := animation.New(s.Pixels().Get(), end, LerpPixels, append(s.Options(), opts...)...)
	return play(s, a, s.Pixels().Set)
}

// Sweep moves gradient along the strip by one trail length.
func (s *Strip) Sweep(gradient GradientTable, trailLength int, opts ...animation.Option) (*animation.Animation[float64], error) {
	s.Stop()

	opts = append(append(s.Options(), animation.WithInterpolator(interp.Linear)), opts...)
	a := animation.NewFloat(0, 1, opts...)
	return play(s, a, func(phase float64) {
		s.mu.Lock()
		defer s.mu.Unlock()
		gradient.Render(s.frame, phase, trailLength, sweepSaturation, sweepLuminance)
	})
}

// Pulse swells every pixel towards colour and back again.
func (s *Strip) Pulse(colour colorful.Color, opts ...animation.Option) (*animation.Animation[float64], error) {
	s.Stop()

	base := s.Frame()
	opts = append(append(s.Options(), animation.WithInterpolator(pulseCurve)), opts...)
	a := animation.NewFloat(0, 1, opts...)
	return play(s, a, func(gain float64) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.frame.pixels {
			s.frame.pixels[i] = LerpColour(base.pixels[i], colour, gain, interp.Linear)
		}
	})
}

// Twinkle lights up to particles random pixels against back. Each particle
// swells to fore and fades again over its own share of the duration.
func (s *Strip) Twinkle(particles int, fore, back colorful.Color, opts ...animation.Option) (*animation.Animation[[]colorful.Color], error) {
	s.Stop()

	n := s.Size()
	chosen := make(map[int]bool)
	for range min(particles, n) {
		chosen[rand.IntN(n)] = true
	}

	base := append(s.Options(), opts...)
	full := animation.ResolveDuration(base...)

	indices := make([]int, 0, len(chosen))
	members := make([]*animation.Animation[colorful.Color], 0, len(chosen))
	for i := range chosen {
		d := full/2 + rand.N(full/2+1)
		indices = append(indices, i)
		members = append(members, NewFade(back, fore,
			append(base, animation.WithDuration(d), animation.WithInterpolator(pulseCurve))...))
	}
	if len(members) == 0 {
		members = append(members, NewFade(back, back, base...))
		indices = append(indices, -1)
	}

	a, err := animation.Composite(members, base...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.frame.Fill(back)
	s.mu.Unlock()

	return play(s, a, func(v []colorful.Color) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for k, i := range indices {
			if i >= 0 {
				s.frame.pixels[i] = v[k]
			}
		}
	})
}

// play binds a to the strip through set, publishes every frame it renders and
// starts it under the strip's coordinator.
func play[T any](s *Strip, a *animation.Animation[T], set func(T)) (*animation.Animation[T], error) {
	animation.Bind(a, animation.Accessor[T]{GetFunc: a.CurrentValue, SetFunc: set})
	a.On(animation.PostIncrement, func(animation.Event) {
		s.publish()
	})

	s.Track(a)
	if err := a.Start(); err != nil {
		s.Stop()
		return nil, err
	}
	if a.Duration() == 0 {
		s.publish()
	}
	return a, nil
}

// Publish sends the current frame.
func (s *Strip) Publish() error {
	s.mu.Lock()
	data, err := s.output().MarshalBinary()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(data)
}

// Flush blocks until every frame handed off by a program has been published.
func (s *Strip) Flush() {
	s.outMu.Lock()
	for s.sending {
		s.outDone.Wait()
	}
	s.outMu.Unlock()
}

// publish hands the current frame to the sending goroutine, starting it if
// it is idle.
func (s *Strip) publish() {
	if s.publisher == nil {
		return
	}

	s.mu.Lock()
	data, err := s.output().MarshalBinary()
	s.mu.Unlock()
	if err != nil {
		log.Printf("Failed to encode frame: %v", err)
		return
	}

	s.outMu.Lock()
	s.pending = data
	if !s.sending {
		s.sending = true
		go s.send()
	}
	s.outMu.Unlock()
}

func (s *Strip) send() {
	for {
		s.outMu.Lock()
		data := s.pending
		s.pending = nil
		if data == nil {
			s.sending = false
			s.outDone.Broadcast()
			s.outMu.Unlock()
			return
		}
		s.outMu.Unlock()

		if err := s.publisher.Publish(data); err != nil {
			log.Printf("Failed to publish frame: %v", err)
		}
	}
}
