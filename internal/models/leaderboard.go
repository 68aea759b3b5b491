package models

import "github.com/google/uuid"

// LeaderboardEntry is one ranked row of a race or season leaderboard.
// Rank is dense: tied point totals share a rank and the next distinct
// total takes the following integer.
type LeaderboardEntry struct {
	Rank        int       `db:"-" json:"rank"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	DisplayName *string   `db:"display_name" json:"display_name"`
	Points      int       `db:"points" json:"points"`
}
