package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresAnswerKeyRepository implements AnswerKeyRepository for PostgreSQL
type PostgresAnswerKeyRepository struct {
	db *database.DB
}

// NewPostgresAnswerKeyRepository creates a new answer key repository
func NewPostgresAnswerKeyRepository(db *database.DB) AnswerKeyRepository {
	return &PostgresAnswerKeyRepository{db: db}
}

// GetPublishedByRaceID retrieves the race's answer keys that carry a
// publish timestamp. Unpublished keys are never returned; they must not
// take part in scoring.
func (r *PostgresAnswerKeyRepository) GetPublishedByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.AnswerKey, error) {
	query := `
		SELECT id, race_id, question_id, published_at, created_at
		FROM race_question_answer_keys
		WHERE race_id = $1 AND published_at IS NOT NULL
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query published answer keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.AnswerKey
	for rows.Next() {
		key := &models.AnswerKey{}
		err := rows.Scan(&key.ID, &key.RaceID, &key.QuestionID, &key.PublishedAt, &key.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// GetCorrectChoices retrieves every correct choice attached to the given
// answer keys
func (r *PostgresAnswerKeyRepository) GetCorrectChoices(ctx context.Context, answerKeyIDs []uuid.UUID) ([]*models.CorrectChoice, error) {
	if len(answerKeyIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT answer_key_id, choice_kind, driver_id, team_id
		FROM race_question_correct_choices
		WHERE answer_key_id = ANY($1)
	`

	rows, err := r.db.GetPool().Query(ctx, query, answerKeyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query correct choices: %w", err)
	}
	defer rows.Close()

	var choices []*models.CorrectChoice
	for rows.Next() {
		choice := &models.CorrectChoice{}
		err := rows.Scan(&choice.AnswerKeyID, &choice.ChoiceKind, &choice.DriverID, &choice.TeamID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correct choice: %w", err)
		}
		choices = append(choices, choice)
	}

	return choices, rows.Err()
}
