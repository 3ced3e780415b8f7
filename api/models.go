package api

// ApiResponse is the envelope of every JSON response.
type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// TimingRequest overrides a program's duration and easing.
type TimingRequest struct {
	DurationMs *int64 `json:"durationMs" binding:"omitempty,gte=0"`
	Easing     string `json:"easing"`
}

// FramerateRequest changes the scheduler framerate.
type FramerateRequest struct {
	Framerate int `json:"framerate" binding:"required,gt=0"`
}

// FadeRequest fades the strip to a colour.
type FadeRequest struct {
	TimingRequest
	Colour string `json:"colour" binding:"required"`
}

// PulseRequest swells the strip towards a colour and back.
type PulseRequest struct {
	TimingRequest
	Colour string `json:"colour" binding:"required"`
}

// SweepRequest moves the rainbow gradient along the strip.
type SweepRequest struct {
	TimingRequest
	TrailLength int `json:"trailLength" binding:"omitempty,gt=0"`
}

// TwinkleRequest lights random particles.
type TwinkleRequest struct {
	TimingRequest
	Particles int    `json:"particles" binding:"required,gt=0"`
	Fore      string `json:"fore" binding:"required"`
	Back      string `json:"back" binding:"required"`
}

// SchedulerStatus describes the frame scheduler.
type SchedulerStatus struct {
	Framerate       int     `json:"framerate"`
	FrameDurationMs float64 `json:"frameDurationMs"`
	Active          int     `json:"active"`
	Running         bool    `json:"running"`
}

// StripStatus describes the strip and what it is playing.
type StripStatus struct {
	Pixels  int      `json:"pixels"`
	Owned   int      `json:"owned"`
	Program string   `json:"program,omitempty"`
	Frame   []string `json:"frame"`
}

// AnimationInfo identifies a started animation.
type AnimationInfo struct {
	ID         string `json:"id"`
	DurationMs int64  `json:"durationMs"`
}

// HealthStatus is returned by the health check.
type HealthStatus struct {
	Uptime string `json:"uptime"`
}
