package animation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	frames    prometheus.Counter
	active    prometheus.Gauge
	advance   prometheus.Histogram
	oversleep prometheus.Histogram
}

// Instrument registers the scheduler's frame metrics with reg, labelled with
// name.
func (s *Scheduler) Instrument(reg prometheus.Registerer, name string) error {
	labels := prometheus.Labels{"scheduler": name}
	buckets := prometheus.ExponentialBuckets(0.001, 2, 10)

	m := &metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "animtx",
			Subsystem:   "scheduler",
			Name:        "frames_total",
			Help:        "Number of frames the scheduler has run.",
			ConstLabels: labels,
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "animtx",
			Subsystem:   "scheduler",
			Name:        "active_animations",
			Help:        "Number of animations registered with the scheduler.",
			ConstLabels: labels,
		}),
		advance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "animtx",
			Subsystem:   "scheduler",
			Name:        "frame_advance_seconds",
			Help:        "Time each frame advanced its animations by.",
			ConstLabels: labels,
			Buckets:     buckets,
		}),
		oversleep: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "animtx",
			Subsystem:   "scheduler",
			Name:        "oversleep_seconds",
			Help:        "Amount by which frame sleeps overshot their target.",
			ConstLabels: labels,
			Buckets:     buckets,
		}),
	}

	for _, c := range []prometheus.Collector{m.frames, m.active, m.advance, m.oversleep} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	m.setActive(s.Len())
	s.metrics.Store(m)
	return nil
}

func (m *metrics) setActive(n int) {
	if m == nil {
		return
	}
	m.active.Set(float64(n))
}

func (m *metrics) observeFrame(advance time.Duration, oversleep time.Duration) {
	if m == nil {
		return
	}
	m.frames.Inc()
	m.advance.Observe(advance.Seconds())
	m.oversleep.Observe(oversleep.Seconds())
}
