package stream

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/animtx/animation"
	"github.com/matt-g-everett/animtx/interp"
)

// Config for the animtx daemon.
type Config struct {
	Mqtt struct {
		URL      string  `yaml:"url"`
		Username string  `yaml:"username"`
		Password string  `yaml:"password"`
		ClientID string  `yaml:"clientID"`
		QoS      byte    `yaml:"qos"`
		MaxFps   float64 `yaml:"maxFps"`
		Topics   struct {
			Stream string `yaml:"stream"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Scheduler struct {
		Framerate int `yaml:"framerate"`
	} `yaml:"scheduler"`
	Animation struct {
		DurationMs int64  `yaml:"durationMs"`
		Easing     string `yaml:"easing"`
	} `yaml:"animation"`
	Strip struct {
		Pixels            int      `yaml:"pixels"`
		CycleSeconds      float64  `yaml:"cycleSeconds"`
		TransitionSeconds float64  `yaml:"transitionSeconds"`
		Palette           []string `yaml:"palette"`
	} `yaml:"strip"`
	API struct {
		Listen string `yaml:"listen"`
		Static string `yaml:"static"`
	} `yaml:"api"`
}

// DefaultPalette is used when the config does not name any colours.
var DefaultPalette = []string{"#000005", "#808080", "#100505", "#051005"}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	var c Config

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&c); err != nil {
		return c, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return c, c.Validate()
}

// ParseConfig decodes and validates YAML config data.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Validate fills in defaults and reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "animtx"
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = "home/xmastree/stream"
	}
	if c.Mqtt.QoS > 2 {
		errs = append(errs, fmt.Errorf("mqtt qos %d is not 0, 1 or 2", c.Mqtt.QoS))
	}
	if c.Mqtt.MaxFps < 0 {
		errs = append(errs, fmt.Errorf("mqtt maxFps %v is negative", c.Mqtt.MaxFps))
	}

	if c.Scheduler.Framerate == 0 {
		c.Scheduler.Framerate = animation.DefaultFramerate
	} else if c.Scheduler.Framerate < 0 {
		errs = append(errs, fmt.Errorf("scheduler framerate %d is negative", c.Scheduler.Framerate))
	}

	if c.Animation.DurationMs == 0 {
		c.Animation.DurationMs = animation.DefaultDuration.Milliseconds()
	} else if c.Animation.DurationMs < 0 {
		errs = append(errs, fmt.Errorf("animation durationMs %d is negative", c.Animation.DurationMs))
	}
	if _, err := interp.Lookup(c.Animation.Easing); err != nil {
		errs = append(errs, err)
	}

	if c.Strip.Pixels == 0 {
		c.Strip.Pixels = DefaultPixels
	} else if c.Strip.Pixels < 0 || c.Strip.Pixels > MaxPixels {
		errs = append(errs, fmt.Errorf("strip pixels %d is outside 1..%d", c.Strip.Pixels, MaxPixels))
	}
	if c.Strip.CycleSeconds == 0 {
		c.Strip.CycleSeconds = 60
	} else if c.Strip.CycleSeconds < 0 {
		errs = append(errs, fmt.Errorf("strip cycleSeconds %v is negative", c.Strip.CycleSeconds))
	}
	if c.Strip.TransitionSeconds == 0 {
		c.Strip.TransitionSeconds = 5
	} else if c.Strip.TransitionSeconds < 0 {
		errs = append(errs, fmt.Errorf("strip transitionSeconds %v is negative", c.Strip.TransitionSeconds))
	}
	if len(c.Strip.Palette) == 0 {
		c.Strip.Palette = DefaultPalette
	}
	if _, err := c.Colours(); err != nil {
		errs = append(errs, err)
	}

	if c.API.Listen == "" {
		c.API.Listen = ":3000"
	}

	return errors.Join(errs...)
}

// Duration is the default animation duration.
func (c Config) Duration() time.Duration {
	return time.Duration(c.Animation.DurationMs) * time.Millisecond
}

// Interpolator is the default easing curve.
func (c Config) Interpolator() interp.Func {
	f, err := interp.Lookup(c.Animation.Easing)
	if err != nil {
		return interp.Linear
	}
	return f
}

// Cycle is how long the controller runs each program.
func (c Config) Cycle() time.Duration {
	return time.Duration(c.Strip.CycleSeconds * float64(time.Second))
}

// Transition is how long the controller cross-fades between programs.
func (c Config) Transition() time.Duration {
	return time.Duration(c.Strip.TransitionSeconds * float64(time.Second))
}

// Colours parses the palette.
func (c Config) Colours() ([]colorful.Color, error) {
	colours := make([]colorful.Color, len(c.Strip.Palette))
	for i, hex := range c.Strip.Palette {
		colour, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("palette colour %q: %w", hex, err)
		}
		colours[i] = colour
	}
	return colours, nil
}
