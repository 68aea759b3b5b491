// Package predictions handles prediction set submission: race resolution,
// the FP1 lock, podium validation and persistence of the answer rows.
package predictions

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

// EntityAnswer names either a driver or a team, never both
type EntityAnswer struct {
	DriverID *uuid.UUID `json:"driver_id"`
	TeamID   *uuid.UUID `json:"team_id"`
}

func (a *EntityAnswer) valid() bool {
	return (a.DriverID != nil) != (a.TeamID != nil)
}

func (a *EntityAnswer) equal(b *EntityAnswer) bool {
	if a.DriverID != nil && b.DriverID != nil {
		return *a.DriverID == *b.DriverID
	}
	if a.TeamID != nil && b.TeamID != nil {
		return *a.TeamID == *b.TeamID
	}
	return false
}

// SubmitRequest carries one full prediction set. RaceID is optional;
// when absent the next upcoming race of the active season is used.
type SubmitRequest struct {
	RaceID       *uuid.UUID   `json:"race_id"`
	Winner       uuid.UUID    `json:"p1_winner"`
	P2           uuid.UUID    `json:"p2"`
	P3           uuid.UUID    `json:"p3"`
	GoodSurprise EntityAnswer `json:"good_surprise"`
	BigFlop      EntityAnswer `json:"big_flop"`
}

// SubmitResult reports where the prediction set landed and when
// predictions for that race close
type SubmitResult struct {
	SetID    uuid.UUID `json:"set_id"`
	RaceID   uuid.UUID `json:"race_id"`
	RaceName string    `json:"race_name"`
	LocksAt  time.Time `json:"locks_at"`
}

// Service validates and persists prediction sets
type Service struct {
	seasons           repository.SeasonRepository
	races             repository.RaceRepository
	questions         repository.QuestionRepository
	predictions       repository.PredictionRepository
	seasonPredictions repository.SeasonPredictionRepository
	logger            *logrus.Logger
	now               func() time.Time
}

// NewService creates a new predictions service
func NewService(repos *repository.Repositories, logger *logrus.Logger) *Service {
	return &Service{
		seasons:           repos.Season,
		races:             repos.Race,
		questions:         repos.Question,
		predictions:       repos.Prediction,
		seasonPredictions: repos.SeasonPrediction,
		logger:            logger,
		now:               time.Now,
	}
}

// Submit validates the request, resolves the target race, enforces the
// FP1 lock and overwrites the user's prediction set for that race.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req *SubmitRequest) (*SubmitResult, error) {
	if req.Winner == req.P2 || req.Winner == req.P3 || req.P2 == req.P3 {
		metrics.RecordPredictionRejected("duplicate_podium")
		return nil, models.ErrDuplicatePodium
	}

	if !req.GoodSurprise.valid() || !req.BigFlop.valid() {
		metrics.RecordPredictionRejected("invalid_choice")
		return nil, models.ErrChoiceInvalid
	}

	race, err := s.resolveRace(ctx, req.RaceID)
	if err != nil {
		metrics.RecordPredictionRejected("race_not_found")
		return nil, err
	}

	locksAt, err := s.checkLock(ctx, race.ID)
	if err != nil {
		if errors.Is(err, models.ErrPredictionsLocked) {
			metrics.RecordPredictionRejected("locked")
		} else if errors.Is(err, models.ErrLockNotConfigured) {
			metrics.RecordPredictionRejected("lock_not_configured")
		}
		return nil, err
	}

	questions, err := s.questions.GetByKeys(ctx, race.SeasonID, models.RaceQuestionKeys())
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	questionByKey := make(map[string]uuid.UUID, len(questions))
	for _, q := range questions {
		questionByKey[q.Key] = q.ID
	}
	for _, key := range models.RaceQuestionKeys() {
		if _, ok := questionByKey[key]; !ok {
			metrics.RecordPredictionRejected("questions_missing")
			return nil, models.ErrQuestionsMissing
		}
	}

	submittedAt := s.now().UTC()
	setID, err := s.predictions.UpsertSet(ctx, &models.PredictionSet{
		ID:          uuid.New(),
		UserID:      userID,
		RaceID:      race.ID,
		Status:      models.PredictionSetSubmitted,
		SubmittedAt: &submittedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert prediction set: %w", err)
	}

	rows := []*models.Prediction{
		{PredictionSetID: setID, QuestionID: questionByKey[models.QuestionKeyWinner], AnswerDriverID: &req.Winner},
		{PredictionSetID: setID, QuestionID: questionByKey[models.QuestionKeyP2], AnswerDriverID: &req.P2},
		{PredictionSetID: setID, QuestionID: questionByKey[models.QuestionKeyP3], AnswerDriverID: &req.P3},
		{
			PredictionSetID: setID,
			QuestionID:      questionByKey[models.QuestionKeyGoodSurprise],
			AnswerDriverID:  req.GoodSurprise.DriverID,
			AnswerTeamID:    req.GoodSurprise.TeamID,
		},
		{
			PredictionSetID: setID,
			QuestionID:      questionByKey[models.QuestionKeyBigFlop],
			AnswerDriverID:  req.BigFlop.DriverID,
			AnswerTeamID:    req.BigFlop.TeamID,
		},
	}

	if err := s.predictions.UpsertPredictions(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to upsert predictions: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"race_id": race.ID,
		"set_id":  setID,
	}).Info("Prediction set submitted")

	metrics.RecordPredictionSubmitted()

	return &SubmitResult{
		SetID:    setID,
		RaceID:   race.ID,
		RaceName: race.Name,
		LocksAt:  locksAt,
	}, nil
}

// resolveRace returns the explicitly requested race, or the next
// upcoming race of the active season when none was named.
func (s *Service) resolveRace(ctx context.Context, raceID *uuid.UUID) (*models.Race, error) {
	if raceID != nil {
		race, err := s.races.GetByID(ctx, *raceID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.ErrRaceNotFound
			}
			return nil, fmt.Errorf("failed to load race: %w", err)
		}
		return race, nil
	}

	race, err := s.races.GetNextInActiveSeason(ctx, s.now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoUpcomingRace
		}
		return nil, fmt.Errorf("failed to find upcoming race: %w", err)
	}
	return race, nil
}

// checkLock enforces the FP1 cutoff and returns the lock time.
// Predictions close the moment the first practice session starts; a race
// without a configured FP1 start never accepts predictions at all.
func (s *Service) checkLock(ctx context.Context, raceID uuid.UUID) (time.Time, error) {
	session, err := s.races.GetSession(ctx, raceID, models.SessionFP1)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return time.Time{}, models.ErrLockNotConfigured
		}
		return time.Time{}, fmt.Errorf("failed to load fp1 session: %w", err)
	}

	if session.StartsAt == nil {
		return time.Time{}, models.ErrLockNotConfigured
	}

	if session.HasStarted(s.now()) {
		return time.Time{}, models.ErrPredictionsLocked
	}

	return *session.StartsAt, nil
}

// SubmitSeasonRequest carries one full set of season-long picks
type SubmitSeasonRequest struct {
	GoodSurprise         EntityAnswer `json:"good_surprise"`
	BigFlop              EntityAnswer `json:"big_flop"`
	FirstTimeWinner      uuid.UUID    `json:"first_time_winner"`
	ConstructorsChampion uuid.UUID    `json:"constructors_champion"`
	WorldChampion        uuid.UUID    `json:"world_champion"`
}

// SubmitSeasonResult reports where the season prediction set landed
type SubmitSeasonResult struct {
	SetID    uuid.UUID `json:"set_id"`
	SeasonID uuid.UUID `json:"season_id"`
	LocksAt  time.Time `json:"locks_at"`
}

// SubmitSeason validates the season-long picks and overwrites the user's
// season prediction set for the active season. Season predictions close
// when the season's opening race weekend begins.
func (s *Service) SubmitSeason(ctx context.Context, userID uuid.UUID, req *SubmitSeasonRequest) (*SubmitSeasonResult, error) {
	if !req.GoodSurprise.valid() || !req.BigFlop.valid() {
		metrics.RecordPredictionRejected("invalid_choice")
		return nil, models.ErrChoiceInvalid
	}

	if req.GoodSurprise.equal(&req.BigFlop) {
		metrics.RecordPredictionRejected("duplicate_season_pick")
		return nil, models.ErrDuplicateSeasonPick
	}

	if req.FirstTimeWinner == uuid.Nil || req.ConstructorsChampion == uuid.Nil || req.WorldChampion == uuid.Nil {
		metrics.RecordPredictionRejected("invalid_choice")
		return nil, models.ErrChoiceInvalid
	}

	season, err := s.seasons.GetActive(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoActiveSeason
		}
		return nil, fmt.Errorf("failed to load active season: %w", err)
	}

	locksAt, err := s.checkSeasonLock(ctx, season.ID)
	if err != nil {
		if errors.Is(err, models.ErrPredictionsLocked) {
			metrics.RecordPredictionRejected("locked")
		} else if errors.Is(err, models.ErrLockNotConfigured) {
			metrics.RecordPredictionRejected("lock_not_configured")
		}
		return nil, err
	}

	questions, err := s.questions.GetByKeys(ctx, season.ID, models.SeasonQuestionKeys())
	if err != nil {
		return nil, fmt.Errorf("failed to load season questions: %w", err)
	}

	questionByKey := make(map[string]uuid.UUID, len(questions))
	for _, q := range questions {
		questionByKey[q.Key] = q.ID
	}
	for _, key := range models.SeasonQuestionKeys() {
		if _, ok := questionByKey[key]; !ok {
			metrics.RecordPredictionRejected("questions_missing")
			return nil, models.ErrQuestionsMissing
		}
	}

	submittedAt := s.now().UTC()
	setID, err := s.seasonPredictions.UpsertSet(ctx, &models.SeasonPredictionSet{
		ID:          uuid.New(),
		UserID:      userID,
		SeasonID:    season.ID,
		Status:      models.PredictionSetSubmitted,
		SubmittedAt: &submittedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert season prediction set: %w", err)
	}

	rows := []*models.SeasonPrediction{
		{
			SeasonPredictionSetID: setID,
			QuestionID:            questionByKey[models.QuestionKeySeasonGoodSurprise],
			AnswerDriverID:        req.GoodSurprise.DriverID,
			AnswerTeamID:          req.GoodSurprise.TeamID,
		},
		{
			SeasonPredictionSetID: setID,
			QuestionID:            questionByKey[models.QuestionKeySeasonBigFlop],
			AnswerDriverID:        req.BigFlop.DriverID,
			AnswerTeamID:          req.BigFlop.TeamID,
		},
		{
			SeasonPredictionSetID: setID,
			QuestionID:            questionByKey[models.QuestionKeySeasonFirstWinner],
			AnswerDriverID:        &req.FirstTimeWinner,
		},
		{
			SeasonPredictionSetID: setID,
			QuestionID:            questionByKey[models.QuestionKeySeasonConstructors],
			AnswerTeamID:          &req.ConstructorsChampion,
		},
		{
			SeasonPredictionSetID: setID,
			QuestionID:            questionByKey[models.QuestionKeySeasonWorldChamp],
			AnswerDriverID:        &req.WorldChampion,
		},
	}

	if err := s.seasonPredictions.UpsertPredictions(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to upsert season predictions: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"season_id": season.ID,
		"set_id":    setID,
	}).Info("Season prediction set submitted")

	metrics.RecordPredictionSubmitted()

	return &SubmitSeasonResult{
		SetID:    setID,
		SeasonID: season.ID,
		LocksAt:  locksAt,
	}, nil
}

// checkSeasonLock enforces the season-picks cutoff: the FP1 start of the
// season's opening round. A season without races, or whose opener has no
// FP1 time, never accepts season predictions.
func (s *Service) checkSeasonLock(ctx context.Context, seasonID uuid.UUID) (time.Time, error) {
	races, err := s.races.GetBySeasonID(ctx, seasonID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load season races: %w", err)
	}
	if len(races) == 0 {
		return time.Time{}, models.ErrLockNotConfigured
	}

	return s.checkLock(ctx, races[0].ID)
}
