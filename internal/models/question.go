package models

import (
	"time"

	"github.com/google/uuid"
)

// Question keys currently asked for every race weekend
const (
	QuestionKeyWinner       = "p1_winner"
	QuestionKeyP2           = "p2"
	QuestionKeyP3           = "p3"
	QuestionKeyGoodSurprise = "good_surprise"
	QuestionKeyBigFlop      = "big_flop"
)

// RaceQuestionKeys returns the question keys that make up one race prediction set
func RaceQuestionKeys() []string {
	return []string{
		QuestionKeyWinner,
		QuestionKeyP2,
		QuestionKeyP3,
		QuestionKeyGoodSurprise,
		QuestionKeyBigFlop,
	}
}

// Question keys asked once per season, answered before the first race
const (
	QuestionKeySeasonGoodSurprise = "season_good_surprise"
	QuestionKeySeasonBigFlop      = "season_big_flop"
	QuestionKeySeasonFirstWinner  = "season_first_time_winner"
	QuestionKeySeasonConstructors = "season_constructors_champion"
	QuestionKeySeasonWorldChamp   = "season_world_champion"
)

// SeasonQuestionKeys returns the question keys that make up one season prediction set
func SeasonQuestionKeys() []string {
	return []string{
		QuestionKeySeasonGoodSurprise,
		QuestionKeySeasonBigFlop,
		QuestionKeySeasonFirstWinner,
		QuestionKeySeasonConstructors,
		QuestionKeySeasonWorldChamp,
	}
}

// Question represents a season-scoped prediction question
type Question struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	SeasonID  uuid.UUID `db:"season_id" json:"season_id" validate:"required,uuid4"`
	Key       string    `db:"key" json:"key" validate:"required"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScoringRule holds the per-season point values for a question.
// A correct driver answer and a correct team answer may be worth
// different amounts (e.g. good_surprise pays more for a team pick).
type ScoringRule struct {
	SeasonID     uuid.UUID `db:"season_id" json:"season_id" validate:"required,uuid4"`
	QuestionID   uuid.UUID `db:"question_id" json:"question_id" validate:"required,uuid4"`
	PointsDriver int       `db:"points_driver" json:"points_driver" validate:"gte=0"`
	PointsTeam   int       `db:"points_team" json:"points_team" validate:"gte=0"`
}
