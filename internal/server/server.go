// Package server exposes the HTTP API: prediction submission,
// leaderboards, the admin scoring trigger and the live update socket.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/f1cal"
	"github.com/yourusername/pitwall/internal/health"
	"github.com/yourusername/pitwall/internal/leaderboard"
	"github.com/yourusername/pitwall/internal/live"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/predictions"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/scoring"
	"github.com/yourusername/pitwall/internal/tracing"
)

// Services bundles everything the HTTP layer fronts
type Services struct {
	Scoring      *scoring.Service
	Predictions  *predictions.Service
	Leaderboards *leaderboard.Service
	CalendarSync *f1cal.Syncer
	Hub          *live.Hub
	Health       *health.Checker
	Repos        *repository.Repositories
}

// Server is the API HTTP server
type Server struct {
	cfg      *config.Config
	logger   *logrus.Logger
	services *Services
	http     *http.Server
}

// New creates an API server with all routes mounted
func New(cfg *config.Config, services *Services, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		services: services,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = s.withMiddleware(mux)
	if cfg.Tracing.Enabled {
		handler = tracing.Middleware(cfg.App.Name, handler)
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/predictions", s.requireUser(s.handleSubmitPrediction))
	mux.HandleFunc("POST /api/predictions/season", s.requireUser(s.handleSubmitSeasonPrediction))
	mux.HandleFunc("GET /api/races", s.handleListRaces)
	mux.HandleFunc("GET /api/races/next", s.handleNextRace)
	mux.HandleFunc("GET /api/leaderboard/season", s.handleSeasonLeaderboard)
	mux.HandleFunc("GET /api/leaderboard/race", s.handleRaceLeaderboard)

	mux.HandleFunc("POST /api/admin/score-race", s.requireAdmin(s.handleScoreRace))
	mux.HandleFunc("POST /api/admin/sync-calendar", s.requireAdmin(s.handleSyncCalendar))

	if s.services.Hub != nil {
		mux.Handle("GET /api/live", s.services.Hub)
	}

	if s.services.Health != nil {
		s.services.Health.Register(mux)
	}

	if s.cfg.Metrics.Enabled {
		mux.Handle("GET "+s.cfg.Metrics.Path, metrics.Handler())
	}
}

// Start serves until the context is cancelled, then drains connections
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.WithField("addr", s.http.Addr).Info("API server starting")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		if s.services.Health != nil {
			s.services.Health.SetReady(false)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		s.logger.Info("API server shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}
