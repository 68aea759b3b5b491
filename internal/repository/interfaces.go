package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/pitwall/internal/models"
)

// SeasonRepository defines the interface for season data access
type SeasonRepository interface {
	GetActive(ctx context.Context) (*models.Season, error)
	GetByYear(ctx context.Context, year int) (*models.Season, error)
}

// RaceRepository defines the interface for race and session data access
type RaceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error)
	GetBySeasonID(ctx context.Context, seasonID uuid.UUID) ([]*models.Race, error)
	GetNextInActiveSeason(ctx context.Context, from time.Time) (*models.Race, error)
	GetFinishedSince(ctx context.Context, since time.Time, now time.Time) ([]*models.Race, error)
	UpsertWithSessions(ctx context.Context, race *models.Race, sessions []*models.RaceSession) error
	GetSession(ctx context.Context, raceID uuid.UUID, session models.SessionKind) (*models.RaceSession, error)
}

// QuestionRepository defines the interface for question and scoring rule access
type QuestionRepository interface {
	GetByKeys(ctx context.Context, seasonID uuid.UUID, keys []string) ([]*models.Question, error)
	GetScoringRules(ctx context.Context, seasonID uuid.UUID) ([]*models.ScoringRule, error)
}

// AnswerKeyRepository defines the interface for published answer key access
type AnswerKeyRepository interface {
	GetPublishedByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.AnswerKey, error)
	GetCorrectChoices(ctx context.Context, answerKeyIDs []uuid.UUID) ([]*models.CorrectChoice, error)
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	GetSetsByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.PredictionSet, error)
	GetBySetIDs(ctx context.Context, setIDs []uuid.UUID) ([]*models.Prediction, error)
	UpsertSet(ctx context.Context, set *models.PredictionSet) (uuid.UUID, error)
	UpsertPredictions(ctx context.Context, predictions []*models.Prediction) error
}

// SeasonPredictionRepository defines the interface for season-long prediction data access
type SeasonPredictionRepository interface {
	UpsertSet(ctx context.Context, set *models.SeasonPredictionSet) (uuid.UUID, error)
	UpsertPredictions(ctx context.Context, predictions []*models.SeasonPrediction) error
}

// ScoreRepository defines the interface for computed score access
type ScoreRepository interface {
	UpsertRaceScores(ctx context.Context, scores []*models.UserRaceScore) error
	GetRaceScoresByRaceIDs(ctx context.Context, raceIDs []uuid.UUID) ([]*models.UserRaceScore, error)
	UpsertSeasonScores(ctx context.Context, scores []*models.UserSeasonScore) error
	GetRaceLeaderboard(ctx context.Context, raceID uuid.UUID) ([]*models.LeaderboardEntry, error)
	GetSeasonLeaderboard(ctx context.Context, seasonID uuid.UUID) ([]*models.LeaderboardEntry, error)
}
