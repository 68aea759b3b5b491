package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresScoreRepository implements ScoreRepository for PostgreSQL
type PostgresScoreRepository struct {
	db *database.DB
}

// NewPostgresScoreRepository creates a new score repository
func NewPostgresScoreRepository(db *database.DB) ScoreRepository {
	return &PostgresScoreRepository{db: db}
}

// UpsertRaceScores writes one race-score row per user in a single
// transaction, overwriting prior totals on (user_id, race_id)
func (r *PostgresScoreRepository) UpsertRaceScores(ctx context.Context, scores []*models.UserRaceScore) error {
	if len(scores) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_race_scores (user_id, race_id, total_points, computed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, race_id) DO UPDATE SET
			total_points = EXCLUDED.total_points,
			computed_at = EXCLUDED.computed_at
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, score := range scores {
			_, err := tx.Exec(ctx, query,
				score.UserID, score.RaceID, score.TotalPoints, score.ComputedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert race score: %w", err)
			}
		}
		return nil
	})
}

// GetRaceScoresByRaceIDs retrieves every race-score row for the given races
func (r *PostgresScoreRepository) GetRaceScoresByRaceIDs(ctx context.Context, raceIDs []uuid.UUID) ([]*models.UserRaceScore, error) {
	if len(raceIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT user_id, race_id, total_points, computed_at
		FROM user_race_scores
		WHERE race_id = ANY($1)
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query race scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.UserRaceScore
	for rows.Next() {
		score := &models.UserRaceScore{}
		err := rows.Scan(&score.UserID, &score.RaceID, &score.TotalPoints, &score.ComputedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan race score: %w", err)
		}
		scores = append(scores, score)
	}

	return scores, rows.Err()
}

// UpsertSeasonScores writes one season-score row per user in a single
// transaction, overwriting prior totals on (user_id, season_id)
func (r *PostgresScoreRepository) UpsertSeasonScores(ctx context.Context, scores []*models.UserSeasonScore) error {
	if len(scores) == 0 {
		return nil
	}

	query := `
		INSERT INTO user_season_scores (user_id, season_id, total_points, computed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, season_id) DO UPDATE SET
			total_points = EXCLUDED.total_points,
			computed_at = EXCLUDED.computed_at
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, score := range scores {
			_, err := tx.Exec(ctx, query,
				score.UserID, score.SeasonID, score.TotalPoints, score.ComputedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert season score: %w", err)
			}
		}
		return nil
	})
}

// GetRaceLeaderboard retrieves race scores joined with display names,
// highest total first. Ranks are assigned by the leaderboard service.
func (r *PostgresScoreRepository) GetRaceLeaderboard(ctx context.Context, raceID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT s.user_id, p.display_name, s.total_points
		FROM user_race_scores s
		LEFT JOIN profiles p ON p.user_id = s.user_id
		WHERE s.race_id = $1
		ORDER BY s.total_points DESC, s.user_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query race leaderboard: %w", err)
	}
	defer rows.Close()

	return scanLeaderboard(rows)
}

// GetSeasonLeaderboard retrieves season scores joined with display names,
// highest total first
func (r *PostgresScoreRepository) GetSeasonLeaderboard(ctx context.Context, seasonID uuid.UUID) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT s.user_id, p.display_name, s.total_points
		FROM user_season_scores s
		LEFT JOIN profiles p ON p.user_id = s.user_id
		WHERE s.season_id = $1
		ORDER BY s.total_points DESC, s.user_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query season leaderboard: %w", err)
	}
	defer rows.Close()

	return scanLeaderboard(rows)
}

func scanLeaderboard(rows pgx.Rows) ([]*models.LeaderboardEntry, error) {
	var entries []*models.LeaderboardEntry
	for rows.Next() {
		entry := &models.LeaderboardEntry{}
		if err := rows.Scan(&entry.UserID, &entry.DisplayName, &entry.Points); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
