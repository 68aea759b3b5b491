package models

import (
	"time"

	"github.com/google/uuid"
)

// Season represents one championship season
type Season struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Year      int       `db:"year" json:"year" validate:"required,gt=1949"`
	Name      string    `db:"name" json:"name" validate:"required"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
