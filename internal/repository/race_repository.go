package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

const errScanRace = "failed to scan race: %w"

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) RaceRepository {
	return &PostgresRaceRepository{db: db}
}

// GetByID retrieves a race by ID
func (r *PostgresRaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	query := `
		SELECT id, season_id, round, name, race_date, created_at, updated_at
		FROM races WHERE id = $1
	`

	race := &models.Race{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&race.ID, &race.SeasonID, &race.Round, &race.Name, &race.RaceDate,
		&race.CreatedAt, &race.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}

	return race, nil
}

// GetBySeasonID retrieves all races of a season ordered by round
func (r *PostgresRaceRepository) GetBySeasonID(ctx context.Context, seasonID uuid.UUID) ([]*models.Race, error) {
	query := `
		SELECT id, season_id, round, name, race_date, created_at, updated_at
		FROM races
		WHERE season_id = $1
		ORDER BY round ASC NULLS LAST, race_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query races by season: %w", err)
	}
	defer rows.Close()

	return scanRaces(rows)
}

// GetNextInActiveSeason retrieves the next race on or after the given date
// within the active season
func (r *PostgresRaceRepository) GetNextInActiveSeason(ctx context.Context, from time.Time) (*models.Race, error) {
	query := `
		SELECT r.id, r.season_id, r.round, r.name, r.race_date, r.created_at, r.updated_at
		FROM races r
		JOIN seasons s ON s.id = r.season_id
		WHERE s.is_active = true AND r.race_date >= $1
		ORDER BY r.race_date ASC
		LIMIT 1
	`

	race := &models.Race{}
	err := r.db.GetPool().QueryRow(ctx, query, from).Scan(
		&race.ID, &race.SeasonID, &race.Round, &race.Name, &race.RaceDate,
		&race.CreatedAt, &race.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next race: %w", err)
	}

	return race, nil
}

// GetFinishedSince retrieves races whose date falls between since and now,
// newest first. Used by the re-scoring job to pick up recently run races.
func (r *PostgresRaceRepository) GetFinishedSince(ctx context.Context, since time.Time, now time.Time) ([]*models.Race, error) {
	query := `
		SELECT id, season_id, round, name, race_date, created_at, updated_at
		FROM races
		WHERE race_date >= $1 AND race_date <= $2
		ORDER BY race_date DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, since, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query finished races: %w", err)
	}
	defer rows.Close()

	return scanRaces(rows)
}

// UpsertWithSessions inserts or updates a race on its (season_id, round)
// identity together with its session start times, in one transaction so a
// session failure never leaves the race row half-synced. race.ID is
// overwritten with the id of the surviving row, which on conflict is the
// pre-existing one.
func (r *PostgresRaceRepository) UpsertWithSessions(ctx context.Context, race *models.Race, sessions []*models.RaceSession) error {
	raceQuery := `
		INSERT INTO races (id, season_id, round, name, race_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (season_id, round) DO UPDATE SET
			name = EXCLUDED.name,
			race_date = EXCLUDED.race_date,
			updated_at = NOW()
		RETURNING id
	`

	sessionQuery := `
		INSERT INTO race_sessions (race_id, session, starts_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (race_id, session) DO UPDATE SET
			starts_at = EXCLUDED.starts_at
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, raceQuery,
			race.ID, race.SeasonID, race.Round, race.Name, race.RaceDate,
		).Scan(&race.ID)
		if err != nil {
			return fmt.Errorf("failed to upsert race: %w", err)
		}

		for _, session := range sessions {
			session.RaceID = race.ID
			_, err := tx.Exec(ctx, sessionQuery, session.RaceID, session.Session, session.StartsAt)
			if err != nil {
				return fmt.Errorf("failed to upsert race session: %w", err)
			}
		}

		return nil
	})
}

// GetSession retrieves one session of a race weekend
func (r *PostgresRaceRepository) GetSession(ctx context.Context, raceID uuid.UUID, session models.SessionKind) (*models.RaceSession, error) {
	query := `
		SELECT race_id, session, starts_at
		FROM race_sessions
		WHERE race_id = $1 AND session = $2
	`

	s := &models.RaceSession{}
	err := r.db.GetPool().QueryRow(ctx, query, raceID, session).Scan(
		&s.RaceID, &s.Session, &s.StartsAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race session: %w", err)
	}

	return s, nil
}

func scanRaces(rows pgx.Rows) ([]*models.Race, error) {
	var races []*models.Race
	for rows.Next() {
		race := &models.Race{}
		err := rows.Scan(
			&race.ID, &race.SeasonID, &race.Round, &race.Name, &race.RaceDate,
			&race.CreatedAt, &race.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanRace, err)
		}
		races = append(races, race)
	}

	return races, rows.Err()
}
