package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresQuestionRepository implements QuestionRepository for PostgreSQL
type PostgresQuestionRepository struct {
	db *database.DB
}

// NewPostgresQuestionRepository creates a new question repository
func NewPostgresQuestionRepository(db *database.DB) QuestionRepository {
	return &PostgresQuestionRepository{db: db}
}

// GetByKeys retrieves the season's questions matching the given keys
func (r *PostgresQuestionRepository) GetByKeys(ctx context.Context, seasonID uuid.UUID, keys []string) ([]*models.Question, error) {
	query := `
		SELECT id, season_id, key, created_at
		FROM questions
		WHERE season_id = $1 AND key = ANY($2)
	`

	rows, err := r.db.GetPool().Query(ctx, query, seasonID, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions by keys: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q := &models.Question{}
		if err := rows.Scan(&q.ID, &q.SeasonID, &q.Key, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// GetScoringRules retrieves all scoring rules configured for a season
func (r *PostgresQuestionRepository) GetScoringRules(ctx context.Context, seasonID uuid.UUID) ([]*models.ScoringRule, error) {
	query := `
		SELECT season_id, question_id, points_driver, points_team
		FROM question_scoring
		WHERE season_id = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.ScoringRule
	for rows.Next() {
		rule := &models.ScoringRule{}
		if err := rows.Scan(&rule.SeasonID, &rule.QuestionID, &rule.PointsDriver, &rule.PointsTeam); err != nil {
			return nil, fmt.Errorf("failed to scan scoring rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}
