package repository

import (
	"context"
	"fmt"
	"time"

	"raceseries/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// RaceRepository handles completed-race database operations
type RaceRepository struct {
	db *Database
}

const raceColumns = `
	id, series_id, name, race_date, year, miles, location, source_url,
	planned_race_id, results_scraped_at, created_at, updated_at
	`

func scanRace(row pgx.Row) (*models.Race, error) {
	var race models.Race
	err := row.Scan(
		&race.ID, &race.SeriesID, &race.Name, &race.RaceDate, &race.Year,
		&race.Miles, &race.Location, &race.SourceURL,
		&race.PlannedRaceID, &race.ResultsScrapedAt, &race.CreatedAt, &race.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &race, nil
}

// Create inserts a new race
func (r *RaceRepository) Create(ctx context.Context, race *models.Race) error {
	query := `
		INSERT INTO races (series_id, name, race_date, year, miles, location, source_url, planned_race_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		race.SeriesID, race.Name, race.RaceDate, race.Year,
		race.Miles, race.Location, race.SourceURL, race.PlannedRaceID,
	).Scan(&race.ID, &race.CreatedAt, &race.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create race: %w", err)
	}

	log.Debug().
		Int("id", race.ID).
		Str("name", race.Name).
		Str("url", race.SourceURL).
		Msg("Race created")

	return nil
}

// Update rewrites a race's mutable metadata after a re-scrape
func (r *RaceRepository) Update(ctx context.Context, race *models.Race) error {
	query := `
		UPDATE races
		SET name = $1, race_date = $2, year = $3, miles = $4, location = $5,
		    source_url = $6, planned_race_id = $7, updated_at = NOW()
		WHERE id = $8
	`

	result, err := r.db.Pool.Exec(ctx, query,
		race.Name, race.RaceDate, race.Year, race.Miles, race.Location,
		race.SourceURL, race.PlannedRaceID, race.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update race: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("race not found: id=%d", race.ID)
	}

	return nil
}

// MarkScraped stamps the time results were last scraped for a race
func (r *RaceRepository) MarkScraped(ctx context.Context, raceID int, at time.Time) error {
	query := `UPDATE races SET results_scraped_at = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.db.Pool.Exec(ctx, query, at, raceID); err != nil {
		return fmt.Errorf("failed to mark race scraped: %w", err)
	}
	return nil
}

// FindBySourceURL locates a race by its canonical source URL within a series.
// Returns nil without error when no race matches.
func (r *RaceRepository) FindBySourceURL(ctx context.Context, seriesID int, url string) (*models.Race, error) {
	query := `SELECT` + raceColumns + `FROM races WHERE series_id = $1 AND source_url = $2`

	race, err := scanRace(r.db.Pool.QueryRow(ctx, query, seriesID, url))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find race by url: %w", err)
	}
	return race, nil
}

// FindByNameDate locates a race by exact name and date within a series.
// Returns nil without error when no race matches.
func (r *RaceRepository) FindByNameDate(ctx context.Context, seriesID int, name string, date time.Time) (*models.Race, error) {
	query := `SELECT` + raceColumns + `FROM races WHERE series_id = $1 AND name = $2 AND race_date = $3`

	race, err := scanRace(r.db.Pool.QueryRow(ctx, query, seriesID, name, date))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find race by name and date: %w", err)
	}
	return race, nil
}

// ListBySeriesYear retrieves all races in a series for a year, date order
func (r *RaceRepository) ListBySeriesYear(ctx context.Context, seriesID, year int) ([]*models.Race, error) {
	query := `SELECT` + raceColumns + `FROM races WHERE series_id = $1 AND year = $2 ORDER BY race_date`

	rows, err := r.db.Pool.Query(ctx, query, seriesID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	defer rows.Close()

	var races []*models.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan race: %w", err)
		}
		races = append(races, race)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating races: %w", err)
	}

	return races, nil
}

// Count returns the total number of races in a series
func (r *RaceRepository) Count(ctx context.Context, seriesID int) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM races WHERE series_id = $1`, seriesID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count races: %w", err)
	}
	return count, nil
}
