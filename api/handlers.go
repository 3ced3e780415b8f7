package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/animtx/animation"
	"github.com/matt-g-everett/animtx/interp"
	"github.com/matt-g-everett/animtx/stream"
)

const defaultTrailLength = 180

// handleHealth reports liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   HealthStatus{Uptime: time.Since(s.startTime).Round(time.Second).String()},
	})
}

// handleEasings lists the named easing curves.
func (s *Server) handleEasings(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   interp.Names(),
	})
}

// handleScheduler reports scheduler state.
func (s *Server) handleScheduler(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   s.schedulerStatus(),
	})
}

// handleSetFramerate changes the framerate for subsequent frames.
func (s *Server) handleSetFramerate(c *gin.Context) {
	var req FramerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid framerate request: "+err.Error())
		return
	}

	if err := s.scheduler.SetFramerate(req.Framerate); err != nil {
		badRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: fmt.Sprintf("framerate set to %d", req.Framerate),
		Data:    s.schedulerStatus(),
	})
}

// handleStrip reports the strip's frame and program.
func (s *Server) handleStrip(c *gin.Context) {
	frame := s.strip.Frame()
	status := StripStatus{
		Pixels: frame.Len(),
		Owned:  s.strip.Len(),
		Frame:  make([]string, frame.Len()),
	}
	for i := range status.Frame {
		status.Frame[i] = frame.At(i).Hex()
	}
	if s.controller != nil {
		status.Program = s.controller.Current()
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   status,
	})
}

// handleFade fades every pixel to a colour.
func (s *Server) handleFade(c *gin.Context) {
	var req FadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid fade request: "+err.Error())
		return
	}

	colour, opts, ok := parseColourTiming(c, req.Colour, req.TimingRequest)
	if !ok {
		return
	}

	a, err := s.strip.FadeTo(colour, opts...)
	started(c, a, err)
}

// handlePulse swells every pixel towards a colour and back.
func (s *Server) handlePulse(c *gin.Context) {
	var req PulseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid pulse request: "+err.Error())
		return
	}

	colour, opts, ok := parseColourTiming(c, req.Colour, req.TimingRequest)
	if !ok {
		return
	}

	a, err := s.strip.Pulse(colour, opts...)
	started(c, a, err)
}

// handleSweep moves the rainbow gradient along the strip.
func (s *Server) handleSweep(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid sweep request: "+err.Error())
		return
	}

	opts, err := timingOptions(req.TimingRequest)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	trail := req.TrailLength
	if trail == 0 {
		trail = defaultTrailLength
	}

	a, err := s.strip.Sweep(stream.RainbowGradient, trail, opts...)
	started(c, a, err)
}

// handleTwinkle lights random particles.
func (s *Server) handleTwinkle(c *gin.Context) {
	var req TwinkleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid twinkle request: "+err.Error())
		return
	}

	fore, opts, ok := parseColourTiming(c, req.Fore, req.TimingRequest)
	if !ok {
		return
	}
	back, err := colorful.Hex(req.Back)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid colour %q", req.Back))
		return
	}

	a, err := s.strip.Twinkle(req.Particles, fore, back, opts...)
	started(c, a, err)
}

// handleCycle moves the controller on to its next program.
func (s *Server) handleCycle(c *gin.Context) {
	if s.controller == nil {
		c.JSON(http.StatusNotFound, ApiResponse{
			Status: "error",
			Error:  "no controller is running",
		})
		return
	}

	if err := s.controller.CycleAnimation(); err != nil {
		c.JSON(http.StatusInternalServerError, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: "cycled to " + s.controller.Current(),
	})
}

// handleStop halts whatever the strip is playing.
func (s *Server) handleStop(c *gin.Context) {
	stopped := s.strip.Len()
	s.strip.Stop()

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: fmt.Sprintf("stopped %d animations", stopped),
	})
}

// handleFinish jumps whatever the strip is playing to its end.
func (s *Server) handleFinish(c *gin.Context) {
	finished := s.strip.Len()
	s.strip.Finish()

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: fmt.Sprintf("finished %d animations", finished),
	})
}

func (s *Server) schedulerStatus() SchedulerStatus {
	return SchedulerStatus{
		Framerate:       s.scheduler.Framerate(),
		FrameDurationMs: float64(s.scheduler.FrameDuration()) / float64(time.Millisecond),
		Active:          s.scheduler.Len(),
		Running:         s.scheduler.Running(),
	}
}

// timingOptions converts a request's duration and easing into options.
func timingOptions(req TimingRequest) ([]animation.Option, error) {
	var opts []animation.Option
	if req.DurationMs != nil {
		opts = append(opts, animation.WithDuration(time.Duration(*req.DurationMs)*time.Millisecond))
	}
	if req.Easing != "" {
		f, err := interp.Lookup(req.Easing)
		if err != nil {
			return nil, err
		}
		opts = append(opts, animation.WithInterpolator(f))
	}
	return opts, nil
}

// parseColourTiming writes a bad request response and returns false when
// either the colour or the timing is invalid.
func parseColourTiming(c *gin.Context, hex string, timing TimingRequest) (colorful.Color, []animation.Option, bool) {
	colour, err := colorful.Hex(hex)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid colour %q", hex))
		return colour, nil, false
	}

	opts, err := timingOptions(timing)
	if err != nil {
		badRequest(c, err.Error())
		return colour, nil, false
	}
	return colour, opts, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ApiResponse{
		Status: "error",
		Error:  msg,
	})
}

// animationHandle is the part of a started animation the API reports.
type animationHandle interface {
	ID() uuid.UUID
	Duration() time.Duration
}

func started(c *gin.Context, a animationHandle, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, animation.ErrInvalidArgument) || errors.Is(err, animation.ErrInvalidState) {
			status = http.StatusConflict
		}
		c.JSON(status, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: AnimationInfo{
			ID:         a.ID().String(),
			DurationMs: a.Duration().Milliseconds(),
		},
	})
}
