// Package server serves plots of user-supplied expressions over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/fnplot"
	"github.com/zephyrtronium/fnplot/internal/config"
	"github.com/zephyrtronium/fnplot/internal/metrics"
	"github.com/zephyrtronium/fnplot/internal/render"
)

// Server is the HTTP front end to the sampler and renderer.
type Server struct {
	cfg      *config.Config
	log      *logrus.Logger
	metrics  *metrics.Metrics
	renderer render.Renderer
	sampler  fnplot.Sampler
	opts     []fnplot.ParseOption
	validate *validator.Validate
	engine   *gin.Engine
}

// New creates a server. m may be nil to disable metrics.
func New(cfg *config.Config, log *logrus.Logger, m *metrics.Metrics) *Server {
	gin.SetMode(cfg.Server.Mode)
	s := &Server{
		cfg:      cfg,
		log:      log,
		metrics:  m,
		renderer: render.New(cfg.Render.Width, cfg.Render.Height),
		sampler:  cfg.Sampler(),
		opts:     cfg.ParseOptions(),
		validate: newValidator(),
		engine:   gin.New(),
	}
	s.engine.Use(s.recovery(), requestID(), s.accessLog(), s.instrument())
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", s.healthz)
	api := r.Group("/api")
	{
		api.GET("/plot", s.plot)
		// The web UI requests plots from this path.
		api.GET("/plot.py", s.plot)
		api.GET("/sample", s.sample)
	}
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	r.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, CodeNotFound, "no such endpoint", nil)
	})
}

// Handler returns the server's routes as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is canceled, then shuts
// down gracefully, waiting up to the shutdown timeout for requests in
// flight.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server forced to shut down: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	s.log.Info("server exited")
	return nil
}
