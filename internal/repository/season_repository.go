package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresSeasonRepository implements SeasonRepository for PostgreSQL
type PostgresSeasonRepository struct {
	db *database.DB
}

// NewPostgresSeasonRepository creates a new season repository
func NewPostgresSeasonRepository(db *database.DB) SeasonRepository {
	return &PostgresSeasonRepository{db: db}
}

// GetActive retrieves the currently active season
func (r *PostgresSeasonRepository) GetActive(ctx context.Context) (*models.Season, error) {
	query := `
		SELECT id, year, name, is_active, created_at, updated_at
		FROM seasons WHERE is_active = true
		LIMIT 1
	`

	season := &models.Season{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&season.ID, &season.Year, &season.Name, &season.IsActive,
		&season.CreatedAt, &season.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active season: %w", err)
	}

	return season, nil
}

// GetByYear retrieves a season by its year
func (r *PostgresSeasonRepository) GetByYear(ctx context.Context, year int) (*models.Season, error) {
	query := `
		SELECT id, year, name, is_active, created_at, updated_at
		FROM seasons WHERE year = $1
	`

	season := &models.Season{}
	err := r.db.GetPool().QueryRow(ctx, query, year).Scan(
		&season.ID, &season.Year, &season.Name, &season.IsActive,
		&season.CreatedAt, &season.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season by year: %w", err)
	}

	return season, nil
}
