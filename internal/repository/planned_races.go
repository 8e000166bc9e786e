package repository

import (
	"context"
	"fmt"

	"raceseries/internal/models"

	"github.com/rs/zerolog/log"
)

// PlannedRaceRepository handles planned-race database operations
type PlannedRaceRepository struct {
	db *Database
}

// Create inserts a planned race
func (r *PlannedRaceRepository) Create(ctx context.Context, p *models.PlannedRace) error {
	query := `
		INSERT INTO planned_races (series_id, name, estimated_date, estimated_miles, status, established_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		p.SeriesID, p.Name, p.EstimatedDate, p.EstimatedMiles, p.Status, p.EstablishedYear,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create planned race: %w", err)
	}

	return nil
}

// ListOpen retrieves planned races still awaiting results for a series
func (r *PlannedRaceRepository) ListOpen(ctx context.Context, seriesID int) ([]*models.PlannedRace, error) {
	query := `
		SELECT id, series_id, name, estimated_date, estimated_miles, status, established_year,
		       created_at, updated_at
		FROM planned_races
		WHERE series_id = $1 AND status = $2
		ORDER BY estimated_date
	`

	rows, err := r.db.Pool.Query(ctx, query, seriesID, models.PlannedStatusPlanned)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned races: %w", err)
	}
	defer rows.Close()

	var planned []*models.PlannedRace
	for rows.Next() {
		var p models.PlannedRace
		err := rows.Scan(
			&p.ID, &p.SeriesID, &p.Name, &p.EstimatedDate, &p.EstimatedMiles,
			&p.Status, &p.EstablishedYear, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planned race: %w", err)
		}
		planned = append(planned, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating planned races: %w", err)
	}

	return planned, nil
}

// CountOpen returns the number of planned races not yet scraped or
// cancelled. Standings Q-calculation counts these alongside completed races.
func (r *PlannedRaceRepository) CountOpen(ctx context.Context, seriesID int) (int, error) {
	query := `SELECT COUNT(*) FROM planned_races WHERE series_id = $1 AND status = $2`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, seriesID, models.PlannedStatusPlanned).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count planned races: %w", err)
	}
	return count, nil
}

// MarkScraped flips a planned race to scraped once a completed race is linked
func (r *PlannedRaceRepository) MarkScraped(ctx context.Context, plannedID int) error {
	query := `UPDATE planned_races SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.Pool.Exec(ctx, query, models.PlannedStatusScraped, plannedID)
	if err != nil {
		return fmt.Errorf("failed to mark planned race scraped: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("planned race not found: id=%d", plannedID)
	}

	log.Debug().Int("planned_race_id", plannedID).Msg("Planned race marked scraped")
	return nil
}
