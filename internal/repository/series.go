package repository

import (
	"context"
	"fmt"

	"raceseries/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// SeriesRepository handles competition-period database operations
type SeriesRepository struct {
	db *Database
}

// GetOrCreate looks a series up by name and year, creating it when absent.
// The name+year pair is the idempotence key.
func (r *SeriesRepository) GetOrCreate(ctx context.Context, name string, year int) (*models.Series, error) {
	query := `
		INSERT INTO series (name, year)
		VALUES ($1, $2)
		ON CONFLICT (name, year) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, year, created_at
	`

	var s models.Series
	err := r.db.Pool.QueryRow(ctx, query, name, year).Scan(
		&s.ID, &s.Name, &s.Year, &s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create series: %w", err)
	}

	log.Debug().
		Int("id", s.ID).
		Str("name", s.Name).
		Int("year", s.Year).
		Msg("Series resolved")

	return &s, nil
}

// GetByID retrieves a series by its database ID
func (r *SeriesRepository) GetByID(ctx context.Context, id int) (*models.Series, error) {
	query := `SELECT id, name, year, created_at FROM series WHERE id = $1`

	var s models.Series
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Year, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("series not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}

	return &s, nil
}
