// Package scheduler runs the recurring background jobs: periodic
// re-scoring of recent races and race calendar synchronization.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Rescorer re-runs scoring for races inside the trailing window
type Rescorer interface {
	RescoreRecent(ctx context.Context, window time.Duration) error
}

// CalendarSyncer mirrors the external race calendar for one year
type CalendarSyncer interface {
	SyncSeason(ctx context.Context, year int) error
}

// Scheduler manages the cron jobs. Jobs are added before Start; adding
// while running is an error.
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler running in UTC
func NewScheduler(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRescore schedules periodic re-scoring of races run within the
// trailing window. Re-scoring picks up answer keys published between runs.
func (s *Scheduler) ScheduleRescore(cronExpression string, rescorer Rescorer, window time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		s.logger.WithField("window", window.String()).Info("Starting scheduled rescore")

		if err := s.rescoreWithRecover(ctx, rescorer, window); err != nil {
			s.logger.WithError(err).Error("Scheduled rescore failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add rescore job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled rescore job")

	return nil
}

// ScheduleCalendarSync schedules periodic calendar synchronization for
// one season year.
func (s *Scheduler) ScheduleCalendarSync(cronExpression string, syncer CalendarSyncer, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := syncer.SyncSeason(ctx, year); err != nil {
			s.logger.WithError(err).WithField("year", year).Error("Scheduled calendar sync failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add calendar sync job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron": cronExpression,
		"year": year,
	}).Info("Scheduled calendar sync job")

	return nil
}

func (s *Scheduler) rescoreWithRecover(ctx context.Context, rescorer Rescorer, window time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rescore panicked: %v", r)
		}
	}()
	return rescorer.RescoreRecent(ctx, window)
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs up to
// the graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}

	s.isRunning = false
	return nil
}

// IsRunning reports whether the scheduler has been started
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// JobCount returns the number of scheduled jobs
func (s *Scheduler) JobCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobIDs)
}
