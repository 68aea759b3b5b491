// Package main provides the pitwall-admin CLI for operational tasks:
// triggering race scoring and syncing the race calendar.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/f1cal"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/scoring"
)

// Version is set via ldflags
var Version = "dev"

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	scoreRaceCmd.Flags().String("race-id", "", "Race id to score (required)")
	_ = scoreRaceCmd.MarkFlagRequired("race-id")

	syncCalendarCmd.Flags().Int("year", 0, "Season year to sync (defaults to the configured year)")

	rootCmd.AddCommand(scoreRaceCmd)
	rootCmd.AddCommand(syncCalendarCmd)
}

var rootCmd = &cobra.Command{
	Use:     "pitwall-admin",
	Short:   "Operational tasks for the Pitwall predictions service",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

		db, err = database.NewDB(cmd.Context(), &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		repos, err = repository.NewRepositories(db)
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var scoreRaceCmd = &cobra.Command{
	Use:   "score-race",
	Short: "Recompute scores for one race",
	Long: `Recomputes per-user race scores from submitted predictions and
published answer keys, then refreshes the season totals. Safe to run
repeatedly as more answer keys get published.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("race-id")
		raceID, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("race-id must be a valid uuid: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		svc := scoring.NewService(repos, appLog)
		result, err := svc.ScoreRace(ctx, raceID)
		if err != nil {
			return err
		}

		fmt.Printf("Race:                  %s\n", result.RaceID)
		fmt.Printf("Season:                %s\n", result.SeasonID)
		fmt.Printf("Prediction sets:       %d\n", result.PredictionSetsScored)
		fmt.Printf("Questions with results: %d\n", result.QuestionsWithResults)
		if result.Message != "" {
			fmt.Printf("Note:                  %s\n", result.Message)
		}

		return nil
	},
}

var syncCalendarCmd = &cobra.Command{
	Use:   "sync-calendar",
	Short: "Sync the race calendar from the external API",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = cfg.Calendar.SeasonYear
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		client := f1cal.NewClient(&cfg.Calendar, appLog)
		defer client.Close()

		syncer := f1cal.NewSyncer(client, repos, appLog)
		if err := syncer.SyncSeason(ctx, year); err != nil {
			return err
		}

		fmt.Printf("Calendar synced for %d\n", year)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
