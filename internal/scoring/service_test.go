package scoring

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/repository"
)

// MockRaceRepository mocks race repository
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

// MockQuestionRepository mocks question repository
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

// MockAnswerKeyRepository mocks answer key repository
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

// MockPredictionRepository mocks prediction repository
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

// MockScoreRepository mocks score repository
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
	if fn, ok := args.Get(0).(func(context.Context, []uuid.UUID) []*models.UserRaceScore); ok {
		return fn(ctx, raceIDs), args.Error(1)
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

// MockSeasonRepository mocks season repository
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

// scoringFixture bundles the mocks behind a wired service
type scoringFixture struct {
	races       *MockRaceRepository
	questions   *MockQuestionRepository
	answerKeys  *MockAnswerKeyRepository
	predictions *MockPredictionRepository
	scores      *MockScoreRepository
	service     *Service
}

func newScoringFixture() *scoringFixture {
	f := &scoringFixture{
		races:       &MockRaceRepository{},
		questions:   &MockQuestionRepository{},
		answerKeys:  &MockAnswerKeyRepository{},
		predictions: &MockPredictionRepository{},
		scores:      &MockScoreRepository{},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	f.service = NewService(&repository.Repositories{
		Season:     &MockSeasonRepository{},
		Race:       f.races,
		Question:   f.questions,
		AnswerKey:  f.answerKeys,
		Prediction: f.predictions,
		Score:      f.scores,
	}, log)

	return f
}

func driverPtr(id uuid.UUID) *uuid.UUID { return &id }

func publishedKey(raceID, questionID uuid.UUID) *models.AnswerKey {
	published := time.Now()
	return &models.AnswerKey{
		ID:          uuid.New(),
		RaceID:      raceID,
		QuestionID:  questionID,
		PublishedAt: &published,
	}
}

func TestScoreRaceNotFound(t *testing.T) {
	f := newScoringFixture()
	raceID := uuid.New()
	f.races.On("GetByID", mock.Anything, raceID).Return(nil, models.ErrNotFound)

	_, err := f.service.ScoreRace(context.Background(), raceID)
	assert.ErrorIs(t, err, models.ErrRaceNotFound)
	f.scores.AssertNotCalled(t, "UpsertRaceScores", mock.Anything, mock.Anything)
}

func TestScoreRaceNoPublishedKeys(t *testing.T) {
	f := newScoringFixture()
	raceID := uuid.New()
	seasonID := uuid.New()

	f.races.On("GetByID", mock.Anything, raceID).Return(&models.Race{ID: raceID, SeasonID: seasonID}, nil)
	f.questions.On("GetScoringRules", mock.Anything, seasonID).Return([]*models.ScoringRule{}, nil)
	f.answerKeys.On("GetPublishedByRaceID", mock.Anything, raceID).Return([]*models.AnswerKey{}, nil)

	result, err := f.service.ScoreRace(context.Background(), raceID)
	require.NoError(t, err)
	assert.Equal(t, MsgNoPublishedResults, result.Message)
	assert.Equal(t, 0, result.PredictionSetsScored)

	// A race with no published results writes nothing.
	f.scores.AssertNotCalled(t, "UpsertRaceScores", mock.Anything, mock.Anything)
	f.scores.AssertNotCalled(t, "UpsertSeasonScores", mock.Anything, mock.Anything)
}

func TestScoreRaceNoPredictionSets(t *testing.T) {
	f := newScoringFixture()
	raceID := uuid.New()
	seasonID := uuid.New()
	questionID := uuid.New()
	key := publishedKey(raceID, questionID)

	f.races.On("GetByID", mock.Anything, raceID).Return(&models.Race{ID: raceID, SeasonID: seasonID}, nil)
	f.questions.On("GetScoringRules", mock.Anything, seasonID).Return([]*models.ScoringRule{
		{SeasonID: seasonID, QuestionID: questionID, PointsDriver: 1},
	}, nil)
	f.answerKeys.On("GetPublishedByRaceID", mock.Anything, raceID).Return([]*models.AnswerKey{key}, nil)
	f.answerKeys.On("GetCorrectChoices", mock.Anything, mock.Anything).Return([]*models.CorrectChoice{}, nil)
	f.predictions.On("GetSetsByRaceID", mock.Anything, raceID).Return([]*models.PredictionSet{}, nil)

	result, err := f.service.ScoreRace(context.Background(), raceID)
	require.NoError(t, err)
	assert.Equal(t, MsgNoPredictionSets, result.Message)
	assert.Equal(t, 1, result.QuestionsWithResults)
	f.scores.AssertNotCalled(t, "UpsertRaceScores", mock.Anything, mock.Anything)
}

// raceScenario wires a one-question race with two users. The returned
// capture slices fill in when the service persists scores.
type raceScenario struct {
	raceID     uuid.UUID
	seasonID   uuid.UUID
	questionID uuid.UUID
	userA      uuid.UUID
	userB      uuid.UUID
	raceRows   []*models.UserRaceScore
	seasonRows []*models.UserSeasonScore
}

func setupRaceScenario(f *scoringFixture, rule *models.ScoringRule, choices []*models.CorrectChoice, predictions func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction) *raceScenario {
	s := &raceScenario{
		raceID:     uuid.New(),
		seasonID:   uuid.New(),
		questionID: uuid.New(),
		userA:      uuid.New(),
		userB:      uuid.New(),
	}
	rule.SeasonID = s.seasonID
	rule.QuestionID = s.questionID

	key := publishedKey(s.raceID, s.questionID)
	for _, c := range choices {
		c.AnswerKeyID = key.ID
	}

	setA := uuid.New()
	setB := uuid.New()

	f.races.On("GetByID", mock.Anything, s.raceID).Return(&models.Race{ID: s.raceID, SeasonID: s.seasonID}, nil)
	f.questions.On("GetScoringRules", mock.Anything, s.seasonID).Return([]*models.ScoringRule{rule}, nil)
	f.answerKeys.On("GetPublishedByRaceID", mock.Anything, s.raceID).Return([]*models.AnswerKey{key}, nil)
	f.answerKeys.On("GetCorrectChoices", mock.Anything, mock.Anything).Return(choices, nil)
	f.predictions.On("GetSetsByRaceID", mock.Anything, s.raceID).Return([]*models.PredictionSet{
		{ID: setA, UserID: s.userA, RaceID: s.raceID, Status: models.PredictionSetSubmitted},
		{ID: setB, UserID: s.userB, RaceID: s.raceID, Status: models.PredictionSetSubmitted},
	}, nil)
	f.predictions.On("GetBySetIDs", mock.Anything, mock.Anything).Return(predictions(s, setA, setB), nil)

	f.scores.On("UpsertRaceScores", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		s.raceRows = args.Get(1).([]*models.UserRaceScore)
	}).Return(nil)
	f.races.On("GetBySeasonID", mock.Anything, s.seasonID).Return([]*models.Race{{ID: s.raceID, SeasonID: s.seasonID}}, nil)
	f.scores.On("GetRaceScoresByRaceIDs", mock.Anything, mock.Anything).Return(func(ctx context.Context, ids []uuid.UUID) []*models.UserRaceScore {
		return s.raceRows
	}, nil)
	f.scores.On("UpsertSeasonScores", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		s.seasonRows = args.Get(1).([]*models.UserSeasonScore)
	}).Return(nil)

	return s
}

func pointsFor(rows []*models.UserRaceScore, userID uuid.UUID) (int, bool) {
	for _, row := range rows {
		if row.UserID == userID {
			return row.TotalPoints, true
		}
	}
	return 0, false
}

func TestScoreRaceDriverPointsAndZeroFloor(t *testing.T) {
	f := newScoringFixture()
	correctDriver := uuid.New()
	wrongDriver := uuid.New()

	s := setupRaceScenario(f,
		&models.ScoringRule{PointsDriver: 1, PointsTeam: 0},
		[]*models.CorrectChoice{{ChoiceKind: models.ChoiceKindDriver, DriverID: driverPtr(correctDriver)}},
		func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction {
			return []*models.Prediction{
				{PredictionSetID: setA, QuestionID: s.questionID, AnswerDriverID: driverPtr(correctDriver)},
				{PredictionSetID: setB, QuestionID: s.questionID, AnswerDriverID: driverPtr(wrongDriver)},
			}
		})

	result, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PredictionSetsScored)

	require.Len(t, s.raceRows, 2, "every prediction-set owner gets a row")

	got, ok := pointsFor(s.raceRows, s.userA)
	require.True(t, ok)
	assert.Equal(t, 1, got)

	got, ok = pointsFor(s.raceRows, s.userB)
	require.True(t, ok, "incorrect user still gets a zero row")
	assert.Equal(t, 0, got)
}

func TestScoreRaceTeamAnswerUsesTeamPoints(t *testing.T) {
	f := newScoringFixture()
	correctTeam := uuid.New()

	s := setupRaceScenario(f,
		// good_surprise style rule: team picks pay more than driver picks
		&models.ScoringRule{PointsDriver: 1, PointsTeam: 2},
		[]*models.CorrectChoice{{ChoiceKind: models.ChoiceKindTeam, TeamID: driverPtr(correctTeam)}},
		func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction {
			return []*models.Prediction{
				{PredictionSetID: setA, QuestionID: s.questionID, AnswerTeamID: driverPtr(correctTeam)},
				// a driver answer naming the team's id must not score
				{PredictionSetID: setB, QuestionID: s.questionID, AnswerDriverID: driverPtr(correctTeam)},
			}
		})

	_, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)

	got, _ := pointsFor(s.raceRows, s.userA)
	assert.Equal(t, 2, got, "team answer earns the team point value")

	got, _ = pointsFor(s.raceRows, s.userB)
	assert.Equal(t, 0, got, "driver answer is never checked against the team set")
}

func TestScoreRaceMultipleCorrectChoices(t *testing.T) {
	f := newScoringFixture()
	driver1 := uuid.New()
	driver2 := uuid.New()

	s := setupRaceScenario(f,
		&models.ScoringRule{PointsDriver: 3, PointsTeam: 0},
		[]*models.CorrectChoice{
			{ChoiceKind: models.ChoiceKindDriver, DriverID: driverPtr(driver1)},
			{ChoiceKind: models.ChoiceKindDriver, DriverID: driverPtr(driver2)},
		},
		func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction {
			return []*models.Prediction{
				{PredictionSetID: setA, QuestionID: s.questionID, AnswerDriverID: driverPtr(driver1)},
				{PredictionSetID: setB, QuestionID: s.questionID, AnswerDriverID: driverPtr(driver2)},
			}
		})

	_, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)

	got, _ := pointsFor(s.raceRows, s.userA)
	assert.Equal(t, 3, got)
	got, _ = pointsFor(s.raceRows, s.userB)
	assert.Equal(t, 3, got, "either listed choice scores full points")
}

func TestScoreRaceSkipsUnpublishedQuestion(t *testing.T) {
	f := newScoringFixture()
	correctDriver := uuid.New()
	unpublishedQuestion := uuid.New()

	s := setupRaceScenario(f,
		&models.ScoringRule{PointsDriver: 1, PointsTeam: 0},
		[]*models.CorrectChoice{{ChoiceKind: models.ChoiceKindDriver, DriverID: driverPtr(correctDriver)}},
		func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction {
			return []*models.Prediction{
				{PredictionSetID: setA, QuestionID: s.questionID, AnswerDriverID: driverPtr(correctDriver)},
				// question without a published key contributes nothing
				{PredictionSetID: setA, QuestionID: unpublishedQuestion, AnswerDriverID: driverPtr(correctDriver)},
			}
		})

	_, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)

	got, _ := pointsFor(s.raceRows, s.userA)
	assert.Equal(t, 1, got)
}

func TestScoreRaceTextAnswerEarnsZero(t *testing.T) {
	f := newScoringFixture()
	text := "hamilton wins it"

	s := setupRaceScenario(f,
		&models.ScoringRule{PointsDriver: 1, PointsTeam: 1},
		[]*models.CorrectChoice{{ChoiceKind: models.ChoiceKindDriver, DriverID: driverPtr(uuid.New())}},
		func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction {
			return []*models.Prediction{
				{PredictionSetID: setA, QuestionID: s.questionID, AnswerText: &text},
			}
		})

	_, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)

	got, _ := pointsFor(s.raceRows, s.userA)
	assert.Equal(t, 0, got)
}

func TestScoreRaceSeasonTotals(t *testing.T) {
	f := newScoringFixture()
	correctDriver := uuid.New()

	s := setupRaceScenario(f,
		&models.ScoringRule{PointsDriver: 1, PointsTeam: 0},
		[]*models.CorrectChoice{{ChoiceKind: models.ChoiceKindDriver, DriverID: driverPtr(correctDriver)}},
		func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction {
			return []*models.Prediction{
				{PredictionSetID: setA, QuestionID: s.questionID, AnswerDriverID: driverPtr(correctDriver)},
			}
		})

	_, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)

	require.NotEmpty(t, s.seasonRows)
	for _, row := range s.seasonRows {
		racePoints, ok := pointsFor(s.raceRows, row.UserID)
		require.True(t, ok)
		assert.Equal(t, racePoints, row.TotalPoints, "season total equals sum of race scores")
		assert.Equal(t, s.seasonID, row.SeasonID)
	}
}

func TestScoreRaceIdempotent(t *testing.T) {
	f := newScoringFixture()
	correctDriver := uuid.New()

	s := setupRaceScenario(f,
		&models.ScoringRule{PointsDriver: 1, PointsTeam: 0},
		[]*models.CorrectChoice{{ChoiceKind: models.ChoiceKindDriver, DriverID: driverPtr(correctDriver)}},
		func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction {
			return []*models.Prediction{
				{PredictionSetID: setA, QuestionID: s.questionID, AnswerDriverID: driverPtr(correctDriver)},
			}
		})

	first, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)
	firstRows := s.raceRows

	second, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)

	assert.Equal(t, first.PredictionSetsScored, second.PredictionSetsScored)
	require.Len(t, s.raceRows, len(firstRows))
	for i, row := range s.raceRows {
		assert.Equal(t, firstRows[i].UserID, row.UserID)
		assert.Equal(t, firstRows[i].TotalPoints, row.TotalPoints)
	}
}

func TestScoreRaceReadFailureAborts(t *testing.T) {
	f := newScoringFixture()
	raceID := uuid.New()
	seasonID := uuid.New()

	f.races.On("GetByID", mock.Anything, raceID).Return(&models.Race{ID: raceID, SeasonID: seasonID}, nil)
	f.questions.On("GetScoringRules", mock.Anything, seasonID).Return(nil, errors.New("connection reset"))

	_, err := f.service.ScoreRace(context.Background(), raceID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	f.scores.AssertNotCalled(t, "UpsertRaceScores", mock.Anything, mock.Anything)
}

func TestScoreRaceUpsertFailureStopsSeasonStage(t *testing.T) {
	f := newScoringFixture()
	raceID := uuid.New()
	seasonID := uuid.New()
	questionID := uuid.New()
	userID := uuid.New()
	setID := uuid.New()
	key := publishedKey(raceID, questionID)

	f.races.On("GetByID", mock.Anything, raceID).Return(&models.Race{ID: raceID, SeasonID: seasonID}, nil)
	f.questions.On("GetScoringRules", mock.Anything, seasonID).Return([]*models.ScoringRule{
		{SeasonID: seasonID, QuestionID: questionID, PointsDriver: 1},
	}, nil)
	f.answerKeys.On("GetPublishedByRaceID", mock.Anything, raceID).Return([]*models.AnswerKey{key}, nil)
	f.answerKeys.On("GetCorrectChoices", mock.Anything, mock.Anything).Return([]*models.CorrectChoice{}, nil)
	f.predictions.On("GetSetsByRaceID", mock.Anything, raceID).Return([]*models.PredictionSet{
		{ID: setID, UserID: userID, RaceID: raceID},
	}, nil)
	f.predictions.On("GetBySetIDs", mock.Anything, mock.Anything).Return([]*models.Prediction{}, nil)
	f.scores.On("UpsertRaceScores", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.service.ScoreRace(context.Background(), raceID)
	require.Error(t, err)

	// Season totals must not be recomputed from race scores that failed
	// to persist.
	f.races.AssertNotCalled(t, "GetBySeasonID", mock.Anything, mock.Anything)
	f.scores.AssertNotCalled(t, "UpsertSeasonScores", mock.Anything, mock.Anything)
}

type recordingNotifier struct {
	raceIDs   []uuid.UUID
	seasonIDs []uuid.UUID
}

func (n *recordingNotifier) RaceScored(raceID, seasonID uuid.UUID) {
	n.raceIDs = append(n.raceIDs, raceID)
	n.seasonIDs = append(n.seasonIDs, seasonID)
}

func TestScoreRaceNotifiesAfterPersist(t *testing.T) {
	f := newScoringFixture()
	correctDriver := uuid.New()
	notifier := &recordingNotifier{}
	f.service.SetNotifier(notifier)

	s := setupRaceScenario(f,
		&models.ScoringRule{PointsDriver: 1, PointsTeam: 0},
		[]*models.CorrectChoice{{ChoiceKind: models.ChoiceKindDriver, DriverID: driverPtr(correctDriver)}},
		func(s *raceScenario, setA, setB uuid.UUID) []*models.Prediction {
			return []*models.Prediction{
				{PredictionSetID: setA, QuestionID: s.questionID, AnswerDriverID: driverPtr(correctDriver)},
			}
		})

	_, err := f.service.ScoreRace(context.Background(), s.raceID)
	require.NoError(t, err)

	require.Len(t, notifier.raceIDs, 1)
	assert.Equal(t, s.raceID, notifier.raceIDs[0])
	assert.Equal(t, s.seasonID, notifier.seasonIDs[0])
}

func TestScoreRaceNoPublishedKeysDoesNotNotify(t *testing.T) {
	f := newScoringFixture()
	raceID := uuid.New()
	seasonID := uuid.New()
	notifier := &recordingNotifier{}
	f.service.SetNotifier(notifier)

	f.races.On("GetByID", mock.Anything, raceID).Return(&models.Race{ID: raceID, SeasonID: seasonID}, nil)
	f.questions.On("GetScoringRules", mock.Anything, seasonID).Return([]*models.ScoringRule{}, nil)
	f.answerKeys.On("GetPublishedByRaceID", mock.Anything, raceID).Return([]*models.AnswerKey{}, nil)

	_, err := f.service.ScoreRace(context.Background(), raceID)
	require.NoError(t, err)
	assert.Empty(t, notifier.raceIDs)
}

func TestRescoreRecent(t *testing.T) {
	f := newScoringFixture()
	seasonID := uuid.New()
	race1 := uuid.New()
	race2 := uuid.New()

	f.races.On("GetFinishedSince", mock.Anything, mock.Anything, mock.Anything).Return([]*models.Race{
		{ID: race1, SeasonID: seasonID},
		{ID: race2, SeasonID: seasonID},
	}, nil)

	// race1 scores cleanly with nothing published, race2 is unknown
	f.races.On("GetByID", mock.Anything, race1).Return(&models.Race{ID: race1, SeasonID: seasonID}, nil)
	f.questions.On("GetScoringRules", mock.Anything, seasonID).Return([]*models.ScoringRule{}, nil)
	f.answerKeys.On("GetPublishedByRaceID", mock.Anything, race1).Return([]*models.AnswerKey{}, nil)
	f.races.On("GetByID", mock.Anything, race2).Return(nil, models.ErrNotFound)

	err := f.service.RescoreRecent(context.Background(), 7*24*time.Hour)
	assert.ErrorIs(t, err, models.ErrRaceNotFound)

	f.races.AssertCalled(t, "GetByID", mock.Anything, race1)
	f.races.AssertCalled(t, "GetByID", mock.Anything, race2)
}
