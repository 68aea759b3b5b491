package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// GetSetsByRaceID retrieves every prediction set submitted for a race
func (r *PostgresPredictionRepository) GetSetsByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.PredictionSet, error) {
	query := `
		SELECT id, user_id, race_id, status, submitted_at, updated_at
		FROM prediction_sets
		WHERE race_id = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.PredictionSet
	for rows.Next() {
		set := &models.PredictionSet{}
		err := rows.Scan(&set.ID, &set.UserID, &set.RaceID, &set.Status, &set.SubmittedAt, &set.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction set: %w", err)
		}
		sets = append(sets, set)
	}

	return sets, rows.Err()
}

// GetBySetIDs retrieves every prediction row belonging to the given sets
func (r *PostgresPredictionRepository) GetBySetIDs(ctx context.Context, setIDs []uuid.UUID) ([]*models.Prediction, error) {
	if len(setIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT prediction_set_id, question_id, answer_driver_id, answer_team_id,
		       answer_int, answer_text, updated_at
		FROM predictions
		WHERE prediction_set_id = ANY($1)
	`

	rows, err := r.db.GetPool().Query(ctx, query, setIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p := &models.Prediction{}
		err := rows.Scan(
			&p.PredictionSetID, &p.QuestionID, &p.AnswerDriverID, &p.AnswerTeamID,
			&p.AnswerInt, &p.AnswerText, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

// UpsertSet inserts or updates the user's prediction set for a race and
// returns its id. The (user_id, race_id) pair is unique; resubmission
// overwrites the existing row.
func (r *PostgresPredictionRepository) UpsertSet(ctx context.Context, set *models.PredictionSet) (uuid.UUID, error) {
	query := `
		INSERT INTO prediction_sets (id, user_id, race_id, status, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, race_id) DO UPDATE SET
			status = EXCLUDED.status,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.GetPool().QueryRow(ctx, query,
		set.ID, set.UserID, set.RaceID, set.Status, set.SubmittedAt, set.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert prediction set: %w", err)
	}

	return id, nil
}

// UpsertPredictions inserts or updates the answer rows of a prediction set
// in a single transaction, one row per question
func (r *PostgresPredictionRepository) UpsertPredictions(ctx context.Context, predictions []*models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	query := `
		INSERT INTO predictions (prediction_set_id, question_id, answer_driver_id,
		                         answer_team_id, answer_int, answer_text, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (prediction_set_id, question_id) DO UPDATE SET
			answer_driver_id = EXCLUDED.answer_driver_id,
			answer_team_id = EXCLUDED.answer_team_id,
			answer_int = EXCLUDED.answer_int,
			answer_text = EXCLUDED.answer_text,
			updated_at = EXCLUDED.updated_at
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, p := range predictions {
			_, err := tx.Exec(ctx, query,
				p.PredictionSetID, p.QuestionID, p.AnswerDriverID,
				p.AnswerTeamID, p.AnswerInt, p.AnswerText, p.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert prediction: %w", err)
			}
		}
		return nil
	})
}
