package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionSetStatus represents the lifecycle state of a prediction set
type PredictionSetStatus string

const (
	PredictionSetDraft     PredictionSetStatus = "draft"
	PredictionSetSubmitted PredictionSetStatus = "submitted"
)

// PredictionSet is a user's bundle of answers for one race.
// Exactly one exists per (user, race); resubmission overwrites.
type PredictionSet struct {
	ID          uuid.UUID           `db:"id" json:"id" validate:"required,uuid4"`
	UserID      uuid.UUID           `db:"user_id" json:"user_id" validate:"required,uuid4"`
	RaceID      uuid.UUID           `db:"race_id" json:"race_id" validate:"required,uuid4"`
	Status      PredictionSetStatus `db:"status" json:"status" validate:"required,oneof=draft submitted"`
	SubmittedAt *time.Time          `db:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
}

// Prediction is a user's single answer to one question, recorded as
// either a driver or a team identifier, never both. AnswerInt and
// AnswerText carry question types the scoring routine does not award
// points for.
type Prediction struct {
	PredictionSetID uuid.UUID  `db:"prediction_set_id" json:"prediction_set_id" validate:"required,uuid4"`
	QuestionID      uuid.UUID  `db:"question_id" json:"question_id" validate:"required,uuid4"`
	AnswerDriverID  *uuid.UUID `db:"answer_driver_id" json:"answer_driver_id"`
	AnswerTeamID    *uuid.UUID `db:"answer_team_id" json:"answer_team_id"`
	AnswerInt       *int       `db:"answer_int" json:"answer_int"`
	AnswerText      *string    `db:"answer_text" json:"answer_text"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// IsScorable reports whether the answer names a driver or a team
func (p *Prediction) IsScorable() bool {
	return p.AnswerDriverID != nil || p.AnswerTeamID != nil
}

// SeasonPredictionSet is a user's bundle of season-long answers.
// Exactly one exists per (user, season); resubmission overwrites.
type SeasonPredictionSet struct {
	ID          uuid.UUID           `db:"id" json:"id" validate:"required,uuid4"`
	UserID      uuid.UUID           `db:"user_id" json:"user_id" validate:"required,uuid4"`
	SeasonID    uuid.UUID           `db:"season_id" json:"season_id" validate:"required,uuid4"`
	Status      PredictionSetStatus `db:"status" json:"status" validate:"required,oneof=draft submitted"`
	SubmittedAt *time.Time          `db:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
}

// SeasonPrediction is a user's single answer to one season question
type SeasonPrediction struct {
	SeasonPredictionSetID uuid.UUID  `db:"season_prediction_set_id" json:"season_prediction_set_id" validate:"required,uuid4"`
	QuestionID            uuid.UUID  `db:"question_id" json:"question_id" validate:"required,uuid4"`
	AnswerDriverID        *uuid.UUID `db:"answer_driver_id" json:"answer_driver_id"`
	AnswerTeamID          *uuid.UUID `db:"answer_team_id" json:"answer_team_id"`
	AnswerInt             *int       `db:"answer_int" json:"answer_int"`
	AnswerText            *string    `db:"answer_text" json:"answer_text"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}
