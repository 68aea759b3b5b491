// Package main provides the entry point for the Pitwall API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/f1cal"
	"github.com/yourusername/pitwall/internal/health"
	"github.com/yourusername/pitwall/internal/leaderboard"
	"github.com/yourusername/pitwall/internal/live"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/predictions"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/scheduler"
	"github.com/yourusername/pitwall/internal/scoring"
	"github.com/yourusername/pitwall/internal/server"
	"github.com/yourusername/pitwall/internal/tracing"
)

// Version is set via ldflags
var Version = "dev"

func main() {
	configPath := os.Getenv("PITWALL_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Pitwall API server starting")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	if err := tracing.Initialize(&cfg.Tracing, appLog); err != nil {
		appLog.WithError(err).Fatal("Failed to initialize tracing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	scoringSvc := scoring.NewService(repos, appLog)
	predictionsSvc := predictions.NewService(repos, appLog)
	leaderboardSvc := leaderboard.NewService(repos,
		time.Duration(cfg.Leaderboard.CacheTTLSeconds)*time.Second, appLog)

	var hub *live.Hub
	if cfg.Features.LiveUpdatesEnabled {
		hub = live.NewHub(appLog)
	}
	scoringSvc.SetNotifier(server.NewScoringNotifier(leaderboardSvc, hub))

	var calendarSync *f1cal.Syncer
	var calendarClient *f1cal.Client
	if cfg.Calendar.Enabled {
		calendarClient = f1cal.NewClient(&cfg.Calendar, appLog)
		calendarSync = f1cal.NewSyncer(calendarClient, repos, appLog)
		defer calendarClient.Close()
	}

	checker := health.NewChecker(cfg.App.Name, Version, db)

	apiServer := server.New(cfg, &server.Services{
		Scoring:      scoringSvc,
		Predictions:  predictionsSvc,
		Leaderboards: leaderboardSvc,
		CalendarSync: calendarSync,
		Hub:          hub,
		Health:       checker,
		Repos:        repos,
	}, appLog)

	sched := scheduler.NewScheduler(appLog)
	if cfg.Features.AutoRescoringEnabled {
		window := time.Duration(cfg.Scoring.RescoreWindowDays) * 24 * time.Hour
		if err := sched.ScheduleRescore(cfg.Scoring.RescoreCron, scoringSvc, window); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule rescore job")
		}
	}
	if cfg.Features.CalendarSyncEnabled && calendarSync != nil {
		if err := sched.ScheduleCalendarSync(cfg.Calendar.SyncCron, calendarSync, cfg.Calendar.SeasonYear); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule calendar sync job")
		}
	}
	if sched.JobCount() > 0 {
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Error("Failed to stop scheduler")
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start(ctx)
	}()

	checker.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"port":          cfg.Server.Port,
		"live_updates":  cfg.Features.LiveUpdatesEnabled,
		"calendar_sync": cfg.Features.CalendarSyncEnabled,
		"auto_rescore":  cfg.Features.AutoRescoringEnabled,
	}).Info("Pitwall is running")

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
		cancel()
		if err := <-serverErr; err != nil {
			appLog.WithError(err).Error("Server shutdown error")
		}
	case err := <-serverErr:
		if err != nil {
			appLog.WithError(err).Fatal("Server failed")
		}
	}

	appLog.Info("Pitwall stopped")
}
