package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionKind identifies a race weekend session
type SessionKind string

const (
	SessionFP1        SessionKind = "fp1"
	SessionFP2        SessionKind = "fp2"
	SessionFP3        SessionKind = "fp3"
	SessionSprint     SessionKind = "sprint"
	SessionQualifying SessionKind = "qualifying"
	SessionRace       SessionKind = "race"
)

// Race represents one round of a season
type Race struct {
	ID        uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	SeasonID  uuid.UUID  `db:"season_id" json:"season_id" validate:"required,uuid4"`
	Round     *int       `db:"round" json:"round"`
	Name      string     `db:"name" json:"name" validate:"required"`
	RaceDate  *time.Time `db:"race_date" json:"race_date"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// IsUpcoming checks if the race date is still in the future
func (r *Race) IsUpcoming(now time.Time) bool {
	return r.RaceDate != nil && r.RaceDate.After(now)
}

// RaceSession represents a single session of a race weekend
type RaceSession struct {
	RaceID   uuid.UUID   `db:"race_id" json:"race_id" validate:"required,uuid4"`
	Session  SessionKind `db:"session" json:"session" validate:"required,oneof=fp1 fp2 fp3 sprint qualifying race"`
	StartsAt *time.Time  `db:"starts_at" json:"starts_at"`
}

// HasStarted reports whether the session start time has passed.
// A session without a configured start time has not started.
func (s *RaceSession) HasStarted(now time.Time) bool {
	return s.StartsAt != nil && !now.Before(*s.StartsAt)
}
