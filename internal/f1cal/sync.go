package f1cal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/repository"
)

// CalendarSource fetches the season calendar. Satisfied by *Client.
type CalendarSource interface {
	FetchSeason(ctx context.Context, year int) ([]CalendarRace, error)
}

// Syncer mirrors the external race calendar into the database. Races
// are matched on (season, round), so re-running a sync updates names,
// dates and session times in place.
type Syncer struct {
	source  CalendarSource
	seasons repository.SeasonRepository
	races   repository.RaceRepository
	logger  *logrus.Logger
	now     func() time.Time
}

// NewSyncer creates a calendar syncer
func NewSyncer(source CalendarSource, repos *repository.Repositories, logger *logrus.Logger) *Syncer {
	return &Syncer{
		source:  source,
		seasons: repos.Season,
		races:   repos.Race,
		logger:  logger,
		now:     time.Now,
	}
}

// SyncSeason fetches the calendar for one year and upserts its races
// and session start times. The season row itself must already exist.
func (s *Syncer) SyncSeason(ctx context.Context, year int) error {
	start := s.now()

	season, err := s.seasons.GetByYear(ctx, year)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("season %d not found, create it before syncing", year)
		}
		return fmt.Errorf("failed to load season: %w", err)
	}

	calendar, err := s.source.FetchSeason(ctx, year)
	if err != nil {
		return err
	}

	synced := 0
	for i := range calendar {
		if err := s.syncRace(ctx, season.ID, &calendar[i]); err != nil {
			return fmt.Errorf("failed to sync round %d: %w", calendar[i].Round, err)
		}
		synced++
	}

	s.logger.WithFields(logrus.Fields{
		"year":     year,
		"races":    synced,
		"duration": s.now().Sub(start).String(),
	}).Info("Calendar synced")

	metrics.RecordCalendarSync(s.now().Sub(start).Seconds())

	return nil
}

func (s *Syncer) syncRace(ctx context.Context, seasonID uuid.UUID, cal *CalendarRace) error {
	round := cal.Round
	raceDate := cal.Date
	race := &models.Race{
		ID:       uuid.New(),
		SeasonID: seasonID,
		Round:    &round,
		Name:     cal.Name,
		RaceDate: &raceDate,
	}

	// parse everything before the first write so a bad feed value
	// cannot leave the race half-synced
	sessions := make([]*models.RaceSession, 0, len(cal.Sessions))
	for kind, raw := range cal.Sessions {
		session, ok := parseSessionKind(kind)
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"race":    cal.Name,
				"session": kind,
			}).Warn("Skipping unknown session kind")
			continue
		}

		startsAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid %s start time %q: %w", kind, raw, err)
		}

		sessions = append(sessions, &models.RaceSession{
			Session:  session,
			StartsAt: &startsAt,
		})
	}

	return s.races.UpsertWithSessions(ctx, race, sessions)
}

func parseSessionKind(kind string) (models.SessionKind, bool) {
	switch models.SessionKind(kind) {
	case models.SessionFP1, models.SessionFP2, models.SessionFP3,
		models.SessionSprint, models.SessionQualifying, models.SessionRace:
		return models.SessionKind(kind), true
	default:
		return "", false
	}
}
