package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matt-g-everett/animtx/animation"
	"github.com/matt-g-everett/animtx/stream"
)

// ShutdownTimeout bounds how long Run waits for open requests.
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP control surface of the strip.
type Server struct {
	strip      *stream.Strip
	controller *stream.Controller
	scheduler  *animation.Scheduler
	gatherer   prometheus.Gatherer
	staticDir  string
	startTime  time.Time
}

// NewServer creates a Server. controller and gatherer may be nil. Files
// under staticDir are served for paths that match no route.
func NewServer(strip *stream.Strip, controller *stream.Controller, scheduler *animation.Scheduler,
	gatherer prometheus.Gatherer, staticDir string) *Server {

	return &Server{
		strip:      strip,
		controller: controller,
		scheduler:  scheduler,
		gatherer:   gatherer,
		staticDir:  staticDir,
		startTime:  time.Now(),
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/healthz", s.handleHealth)
	r.GET("/easings", s.handleEasings)

	scheduler := r.Group("/scheduler")
	{
		scheduler.GET("", s.handleScheduler)
		scheduler.PUT("/framerate", s.handleSetFramerate)
	}

	strip := r.Group("/strip")
	{
		strip.GET("", s.handleStrip)
		strip.POST("/fade", s.handleFade)
		strip.POST("/pulse", s.handlePulse)
		strip.POST("/sweep", s.handleSweep)
		strip.POST("/twinkle", s.handleTwinkle)
		strip.POST("/cycle", s.handleCycle)
		strip.POST("/stop", s.handleStop)
		strip.POST("/finish", s.handleFinish)
	}

	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err == nil {
			r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.staticDir))))
		}
	}

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
