// Package scoring implements the race scoring aggregator: it recomputes
// per-user point totals for a race from submitted predictions and published
// answer keys, then rolls them up into season totals.
package scoring

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

// Messages for benign no-op outcomes. These are successes, not errors:
// a race without published results is the expected steady state early in
// a race weekend.
const (
	MsgNoPublishedResults = "no published results for this race yet"
	MsgNoPredictionSets   = "no prediction sets for this race"
)

// Result reports the outcome of one scoring run
type Result struct {
	RaceID               uuid.UUID `json:"race_id"`
	SeasonID             uuid.UUID `json:"season_id"`
	PredictionSetsScored int       `json:"prediction_sets_scored"`
	QuestionsWithResults int       `json:"questions_with_published_results"`
	Message              string    `json:"message,omitempty"`
}

// Notifier receives a callback after scores for a race have been persisted.
// The server uses it to invalidate leaderboard caches and push live updates.
type Notifier interface {
	RaceScored(raceID, seasonID uuid.UUID)
}

// Service computes and persists race and season scores
type Service struct {
	races       repository.RaceRepository
	questions   repository.QuestionRepository
	answerKeys  repository.AnswerKeyRepository
	predictions repository.PredictionRepository
	scores      repository.ScoreRepository
	notifier    Notifier
	logger      *logrus.Logger
	now         func() time.Time
}

// NewService creates a new scoring service
func NewService(repos *repository.Repositories, logger *logrus.Logger) *Service {
	return &Service{
		races:       repos.Race,
		questions:   repos.Question,
		answerKeys:  repos.AnswerKey,
		predictions: repos.Prediction,
		scores:      repos.Score,
		logger:      logger,
		now:         time.Now,
	}
}

// SetNotifier registers a post-scoring callback. Pass nil to disable.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// ScoreRace recomputes point totals for one race and refreshes the season
// totals derived from them. All reads happen before any write; a failed
// race-score upsert aborts before the season recompute stage. The run is
// idempotent and safe to repeat as more answer keys get published.
func (s *Service) ScoreRace(ctx context.Context, raceID uuid.UUID) (*Result, error) {
	start := s.now()

	// Stage 1: resolve the race and its season
	race, err := s.races.GetByID(ctx, raceID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrRaceNotFound
		}
		return nil, fmt.Errorf("failed to load race: %w", err)
	}

	// Stage 2: season scoring rules, question id -> point values.
	// A question without a rule is non-scorable and silently skipped.
	rules, err := s.questions.GetScoringRules(ctx, race.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring rules: %w", err)
	}

	ruleByQuestion := make(map[uuid.UUID]*models.ScoringRule, len(rules))
	for _, rule := range rules {
		ruleByQuestion[rule.QuestionID] = rule
	}

	// Stage 3: published answer keys only
	keys, err := s.answerKeys.GetPublishedByRaceID(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer keys: %w", err)
	}

	if len(keys) == 0 {
		return &Result{
			RaceID:   race.ID,
			SeasonID: race.SeasonID,
			Message:  MsgNoPublishedResults,
		}, nil
	}

	questionByKeyID := make(map[uuid.UUID]uuid.UUID, len(keys))
	publishedQuestions := make(map[uuid.UUID]bool, len(keys))
	keyIDs := make([]uuid.UUID, 0, len(keys))
	for _, key := range keys {
		questionByKeyID[key.ID] = key.QuestionID
		publishedQuestions[key.QuestionID] = true
		keyIDs = append(keyIDs, key.ID)
	}

	// Stage 4: correct driver/team sets per question. A key may carry
	// several correct choices; any of them scores full points.
	choices, err := s.answerKeys.GetCorrectChoices(ctx, keyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load correct choices: %w", err)
	}

	correctDrivers := make(map[uuid.UUID]map[uuid.UUID]bool)
	correctTeams := make(map[uuid.UUID]map[uuid.UUID]bool)
	for qid := range publishedQuestions {
		correctDrivers[qid] = make(map[uuid.UUID]bool)
		correctTeams[qid] = make(map[uuid.UUID]bool)
	}

	for _, choice := range choices {
		qid, ok := questionByKeyID[choice.AnswerKeyID]
		if !ok {
			continue
		}
		switch {
		case choice.ChoiceKind == models.ChoiceKindDriver && choice.DriverID != nil:
			correctDrivers[qid][*choice.DriverID] = true
		case choice.ChoiceKind == models.ChoiceKindTeam && choice.TeamID != nil:
			correctTeams[qid][*choice.TeamID] = true
		}
	}

	// Stage 5: every prediction set for the race and its answer rows
	sets, err := s.predictions.GetSetsByRaceID(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction sets: %w", err)
	}

	if len(sets) == 0 {
		return &Result{
			RaceID:               race.ID,
			SeasonID:             race.SeasonID,
			QuestionsWithResults: len(keys),
			Message:              MsgNoPredictionSets,
		}, nil
	}

	userBySet := make(map[uuid.UUID]uuid.UUID, len(sets))
	setIDs := make([]uuid.UUID, 0, len(sets))
	for _, set := range sets {
		userBySet[set.ID] = set.UserID
		setIDs = append(setIDs, set.ID)
	}

	predictions, err := s.predictions.GetBySetIDs(ctx, setIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}

	// Stage 6: award points. Driver answers check the correct-driver set
	// at driver point value; team answers the correct-team set at team
	// point value. Text and integer answers earn nothing here.
	totalByUser := make(map[uuid.UUID]int)
	for _, p := range predictions {
		userID, ok := userBySet[p.PredictionSetID]
		if !ok {
			continue
		}

		if !publishedQuestions[p.QuestionID] {
			continue
		}

		rule, ok := ruleByQuestion[p.QuestionID]
		if !ok {
			continue
		}

		earned := 0
		if p.AnswerDriverID != nil {
			if correctDrivers[p.QuestionID][*p.AnswerDriverID] {
				earned = rule.PointsDriver
			}
		} else if p.AnswerTeamID != nil {
			if correctTeams[p.QuestionID][*p.AnswerTeamID] {
				earned = rule.PointsTeam
			}
		}

		totalByUser[userID] += earned
	}

	// Stage 7: one race-score row per prediction-set owner, zero floor
	computedAt := s.now().UTC()
	raceScores := make([]*models.UserRaceScore, 0, len(sets))
	for _, set := range sets {
		raceScores = append(raceScores, &models.UserRaceScore{
			UserID:      set.UserID,
			RaceID:      raceID,
			TotalPoints: totalByUser[set.UserID],
			ComputedAt:  computedAt,
		})
	}

	if err := s.scores.UpsertRaceScores(ctx, raceScores); err != nil {
		// Season totals must never be recomputed from race scores that
		// failed to persist, so stop here.
		return nil, fmt.Errorf("failed to upsert race scores: %w", err)
	}

	// Stage 8: full season re-sum from the race-score table
	if err := s.recomputeSeasonScores(ctx, race.SeasonID, computedAt); err != nil {
		return nil, err
	}

	result := &Result{
		RaceID:               race.ID,
		SeasonID:             race.SeasonID,
		PredictionSetsScored: len(sets),
		QuestionsWithResults: len(keys),
	}

	s.logger.WithFields(logrus.Fields{
		"race_id":         race.ID,
		"season_id":       race.SeasonID,
		"prediction_sets": result.PredictionSetsScored,
		"questions":       result.QuestionsWithResults,
		"duration":        s.now().Sub(start).String(),
	}).Info("Race scored")

	metrics.RecordRaceScored(s.now().Sub(start).Seconds())

	if s.notifier != nil {
		s.notifier.RaceScored(race.ID, race.SeasonID)
	}

	return result, nil
}

// recomputeSeasonScores re-sums every race score of the season per user.
// It is a full recomputation rather than an incremental delta, so it is
// safe to run after any subset of races has been rescored.
func (s *Service) recomputeSeasonScores(ctx context.Context, seasonID uuid.UUID, computedAt time.Time) error {
	seasonRaces, err := s.races.GetBySeasonID(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("failed to load season races: %w", err)
	}

	if len(seasonRaces) == 0 {
		return nil
	}

	raceIDs := make([]uuid.UUID, 0, len(seasonRaces))
	for _, race := range seasonRaces {
		raceIDs = append(raceIDs, race.ID)
	}

	raceScores, err := s.scores.GetRaceScoresByRaceIDs(ctx, raceIDs)
	if err != nil {
		return fmt.Errorf("failed to load race scores for season: %w", err)
	}

	totalByUser := make(map[uuid.UUID]int)
	for _, score := range raceScores {
		totalByUser[score.UserID] += score.TotalPoints
	}

	seasonScores := make([]*models.UserSeasonScore, 0, len(totalByUser))
	for userID, total := range totalByUser {
		seasonScores = append(seasonScores, &models.UserSeasonScore{
			UserID:      userID,
			SeasonID:    seasonID,
			TotalPoints: total,
			ComputedAt:  computedAt,
		})
	}

	if err := s.scores.UpsertSeasonScores(ctx, seasonScores); err != nil {
		return fmt.Errorf("failed to upsert season scores: %w", err)
	}

	return nil
}

// RescoreRecent re-runs the aggregator for every race whose date falls
// within the trailing window. Races that fail keep the loop going; the
// first error is returned after all races were attempted.
func (s *Service) RescoreRecent(ctx context.Context, window time.Duration) error {
	now := s.now()
	races, err := s.races.GetFinishedSince(ctx, now.Add(-window), now)
	if err != nil {
		return fmt.Errorf("failed to list recent races: %w", err)
	}

	var firstErr error
	for _, race := range races {
		if _, err := s.ScoreRace(ctx, race.ID); err != nil {
			s.logger.WithError(err).WithField("race_id", race.ID).Error("Rescore failed")
			metrics.RecordScoringFailure()
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
