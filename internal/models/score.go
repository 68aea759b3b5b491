package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRaceScore is one user's point total for one race. Rows are
// created and overwritten solely by the scoring aggregator; the
// (user, race) pair is unique.
type UserRaceScore struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id" validate:"required,uuid4"`
	RaceID      uuid.UUID `db:"race_id" json:"race_id" validate:"required,uuid4"`
	TotalPoints int       `db:"total_points" json:"total_points" validate:"gte=0"`
	ComputedAt  time.Time `db:"computed_at" json:"computed_at"`
}

// UserSeasonScore is the sum of a user's race scores across a season,
// unique on (user, season) and maintained by the aggregator's season
// recompute stage.
type UserSeasonScore struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id" validate:"required,uuid4"`
	SeasonID    uuid.UUID `db:"season_id" json:"season_id" validate:"required,uuid4"`
	TotalPoints int       `db:"total_points" json:"total_points" validate:"gte=0"`
	ComputedAt  time.Time `db:"computed_at" json:"computed_at"`
}
