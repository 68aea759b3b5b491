package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/pitwall/internal/models"
)

type MockSeasonRepository struct {
	mock.Mock
}

func (m *MockSeasonRepository) GetActive(ctx context.Context) (*models.Season, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Season), args.Error(1)
}

func (m *MockSeasonRepository) GetByYear(ctx context.Context, year int) (*models.Season, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Season), args.Error(1)
}

type MockRaceRepository struct {
	mock.Mock
}

func (m *MockRaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetBySeasonID(ctx context.Context, seasonID uuid.UUID) ([]*models.Race, error) {
	args := m.Called(ctx, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetNextInActiveSeason(ctx context.Context, from time.Time) (*models.Race, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetFinishedSince(ctx context.Context, since time.Time, now time.Time) ([]*models.Race, error) {
	args := m.Called(ctx, since, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Race), args.Error(1)
}

func (m *MockRaceRepository) UpsertWithSessions(ctx context.Context, race *models.Race, sessions []*models.RaceSession) error {
	args := m.Called(ctx, race, sessions)
	return args.Error(0)
}

func (m *MockRaceRepository) GetSession(ctx context.Context, raceID uuid.UUID, session models.SessionKind) (*models.RaceSession, error) {
	args := m.Called(ctx, raceID, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RaceSession), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByKeys(ctx context.Context, seasonID uuid.UUID, keys []string) ([]*models.Question, error) {
	args := m.Called(ctx, seasonID, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetScoringRules(ctx context.Context, seasonID uuid.UUID) ([]*models.ScoringRule, error) {
	args := m.Called(ctx, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScoringRule), args.Error(1)
}

type MockAnswerKeyRepository struct {
	mock.Mock
}

func (m *MockAnswerKeyRepository) GetPublishedByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.AnswerKey, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AnswerKey), args.Error(1)
}

func (m *MockAnswerKeyRepository) GetCorrectChoices(ctx context.Context, answerKeyIDs []uuid.UUID) ([]*models.CorrectChoice, error) {
	args := m.Called(ctx, answerKeyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CorrectChoice), args.Error(1)
}

type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) GetSetsByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.PredictionSet, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PredictionSet), args.Error(1)
}

func (m *MockPredictionRepository) GetBySetIDs(ctx context.Context, setIDs []uuid.UUID) ([]*models.Prediction, error) {
	args := m.Called(ctx, setIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) UpsertSet(ctx context.Context, set *models.PredictionSet) (uuid.UUID, error) {
	args := m.Called(ctx, set)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockPredictionRepository) UpsertPredictions(ctx context.Context, predictions []*models.Prediction) error {
	args := m.Called(ctx, predictions)
	return args.Error(0)
}

type MockSeasonPredictionRepository struct {
	mock.Mock
}

func (m *MockSeasonPredictionRepository) UpsertSet(ctx context.Context, set *models.SeasonPredictionSet) (uuid.UUID, error) {
	args := m.Called(ctx, set)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSeasonPredictionRepository) UpsertPredictions(ctx context.Context, predictions []*models.SeasonPrediction) error {
	args := m.Called(ctx, predictions)
	return args.Error(0)
}

type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) UpsertRaceScores(ctx context.Context, scores []*models.UserRaceScore) error {
	args := m.Called(ctx, scores)
	return args.Error(0)
}

func (m *MockScoreRepository) GetRaceScoresByRaceIDs(ctx context.Context, raceIDs []uuid.UUID) ([]*models.UserRaceScore, error) {
	args := m.Called(ctx, raceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserRaceScore), args.Error(1)
}

func (m *MockScoreRepository) UpsertSeasonScores(ctx context.Context, scores []*models.UserSeasonScore) error {
	args := m.Called(ctx, scores)
	return args.Error(0)
}

func (m *MockScoreRepository) GetRaceLeaderboard(ctx context.Context, raceID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockScoreRepository) GetSeasonLeaderboard(ctx context.Context, seasonID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}
