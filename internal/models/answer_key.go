package models

import (
	"time"

	"github.com/google/uuid"
)

// ChoiceKind distinguishes driver from team correct choices
type ChoiceKind string

const (
	ChoiceKindDriver ChoiceKind = "driver"
	ChoiceKindTeam   ChoiceKind = "team"
)

// AnswerKey is the admin-maintained correct-answer record for one
// (race, question) pair. It only becomes usable for scoring once
// PublishedAt is set.
type AnswerKey struct {
	ID          uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	RaceID      uuid.UUID  `db:"race_id" json:"race_id" validate:"required,uuid4"`
	QuestionID  uuid.UUID  `db:"question_id" json:"question_id" validate:"required,uuid4"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// IsPublished reports whether the key is finalized for scoring
func (k *AnswerKey) IsPublished() bool {
	return k.PublishedAt != nil
}

// CorrectChoice is one acceptable answer attached to an answer key.
// A key may carry several choices (ambiguous or tied race outcomes);
// any of them scores full points.
type CorrectChoice struct {
	AnswerKeyID uuid.UUID  `db:"answer_key_id" json:"answer_key_id" validate:"required,uuid4"`
	ChoiceKind  ChoiceKind `db:"choice_kind" json:"choice_kind" validate:"required,oneof=driver team"`
	DriverID    *uuid.UUID `db:"driver_id" json:"driver_id"`
	TeamID      *uuid.UUID `db:"team_id" json:"team_id"`
}
