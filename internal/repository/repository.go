package repository

import (
	"fmt"

	"github.com/yourusername/pitwall/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Season           SeasonRepository
	Race             RaceRepository
	Question         QuestionRepository
	AnswerKey        AnswerKeyRepository
	Prediction       PredictionRepository
	SeasonPrediction SeasonPredictionRepository
	Score            ScoreRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Season:           NewPostgresSeasonRepository(db),
		Race:             NewPostgresRaceRepository(db),
		Question:         NewPostgresQuestionRepository(db),
		AnswerKey:        NewPostgresAnswerKeyRepository(db),
		Prediction:       NewPostgresPredictionRepository(db),
		SeasonPrediction: NewPostgresSeasonPredictionRepository(db),
		Score:            NewPostgresScoreRepository(db),
	}, nil
}
