// SPDX-License-Identifier: MIT

// Package api serves the guide as a read-only JSON and XMLTV HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ManuGH/tvguide/internal/api/middleware"
	"github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 2 * time.Minute
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 15 * time.Second
)

// Guide is the query surface the server needs; *source.Source implements it.
type Guide interface {
	Key() string
	HasChannelIcons() bool
	ChannelList(ctx context.Context) ([]model.Channel, error)
	ChannelByID(ctx context.Context, id string) (model.Channel, error)
	ProgramList(ctx context.Context, ch model.Channel) ([]model.Program, error)
	CurrentProgram(ctx context.Context, ch model.Channel) (model.Program, bool, error)
	Guide(ctx context.Context, concurrency int) ([]model.Channel, []model.Program, error)
}

// Config configures the HTTP server.
type Config struct {
	ListenAddr string
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int
	Version   string
}

// Server is the guide HTTP API.
type Server struct {
	cfg    Config
	guide  Guide
	router chi.Router
	logger zerolog.Logger
}

// New builds the server and its routes.
func New(cfg Config, guide Guide) *Server {
	s := &Server{
		cfg:    cfg,
		guide:  guide,
		logger: log.WithComponent("api"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        "tvguide/api",
		EnableLogging:         true,
	})

	// Probes stay outside the rate limit.
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(middleware.APIRateLimit(s.cfg.RateLimit))
		}
		r.Get("/xmltv.xml", s.handleXMLTV)
		r.Route("/api/v1/channels", func(r chi.Router) {
			r.Get("/", s.handleChannels)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleChannel)
				r.Get("/programs", s.handlePrograms)
				r.Get("/now", s.handleNow)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorCode(w, r, http.StatusNotFound, codeNotFound, "no such route")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe listens on the configured address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str(log.FieldEvent, "api.listening").
			Str("addr", ln.Addr().String()).
			Str(log.FieldProvider, s.guide.Key()).
			Msg("guide API listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error().Err(err).Str(log.FieldEvent, "api.server.failed").Msg("guide API failed")
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
		s.logger.Info().Str(log.FieldEvent, "api.shutdown").Msg("shutting down guide API")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}
