package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresSeasonPredictionRepository implements SeasonPredictionRepository for PostgreSQL
type PostgresSeasonPredictionRepository struct {
	db *database.DB
}

// NewPostgresSeasonPredictionRepository creates a new season prediction repository
func NewPostgresSeasonPredictionRepository(db *database.DB) SeasonPredictionRepository {
	return &PostgresSeasonPredictionRepository{db: db}
}

// UpsertSet inserts or updates the user's season prediction set and
// returns its id. The (user_id, season_id) pair is unique; resubmission
// overwrites the existing row.
func (r *PostgresSeasonPredictionRepository) UpsertSet(ctx context.Context, set *models.SeasonPredictionSet) (uuid.UUID, error) {
	query := `
		INSERT INTO season_prediction_sets (id, user_id, season_id, status, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, season_id) DO UPDATE SET
			status = EXCLUDED.status,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.GetPool().QueryRow(ctx, query,
		set.ID, set.UserID, set.SeasonID, set.Status, set.SubmittedAt, set.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert season prediction set: %w", err)
	}

	return id, nil
}

// UpsertPredictions inserts or updates the answer rows of a season
// prediction set in a single transaction, one row per question
func (r *PostgresSeasonPredictionRepository) UpsertPredictions(ctx context.Context, predictions []*models.SeasonPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	query := `
		INSERT INTO season_predictions (season_prediction_set_id, question_id, answer_driver_id,
		                                answer_team_id, answer_int, answer_text, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (season_prediction_set_id, question_id) DO UPDATE SET
			answer_driver_id = EXCLUDED.answer_driver_id,
			answer_team_id = EXCLUDED.answer_team_id,
			answer_int = EXCLUDED.answer_int,
			answer_text = EXCLUDED.answer_text,
			updated_at = EXCLUDED.updated_at
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, p := range predictions {
			_, err := tx.Exec(ctx, query,
				p.SeasonPredictionSetID, p.QuestionID, p.AnswerDriverID,
				p.AnswerTeamID, p.AnswerInt, p.AnswerText, p.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert season prediction: %w", err)
			}
		}
		return nil
	})
}
