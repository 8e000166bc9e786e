package repository

import (
	"context"
	"fmt"

	"raceseries/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// StandingRepository handles computed-standings database operations.
// Standings are a materialized view: every run deletes and rewrites the
// series year wholesale, never patches it.
type StandingRepository struct {
	db *Database
}

// DeleteBySeriesYear clears prior standings ahead of a full recompute
func (r *StandingRepository) DeleteBySeriesYear(ctx context.Context, seriesID, year int) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM standings WHERE series_id = $1 AND year = $2`, seriesID, year)
	if err != nil {
		return fmt.Errorf("failed to delete standings: %w", err)
	}
	return nil
}

// InsertBatch writes computed standings in one round trip
func (r *StandingRepository) InsertBatch(ctx context.Context, standings []*models.Standing) error {
	if len(standings) == 0 {
		return nil
	}

	query := `
		INSERT INTO standings (
			series_id, registration_id, year, overall_points, age_group_points,
			races_count, total_seconds, total_miles, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	batch := &pgx.Batch{}
	for _, s := range standings {
		batch.Queue(query,
			s.SeriesID, s.RegistrationID, s.Year, s.OverallPoints, s.AgeGroupPoints,
			s.RacesCount, s.TotalSeconds, s.TotalMiles,
		)
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for range standings {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert standings batch: %w", err)
		}
	}

	return nil
}

// ApplyRanks runs the tie-break pass in the database. Within each category
// partition (gender for Overall, gender + age group for Age-Group) rows are
// ordered by points desc, races desc, total time asc and dense-ranked.
// That chain is the whole tie-break: rows identical on all three keys
// legitimately share a rank.
func (r *StandingRepository) ApplyRanks(ctx context.Context, seriesID, year int) error {
	overall := `
		WITH ranked AS (
			SELECT s.id,
			       DENSE_RANK() OVER (
			           PARTITION BY ru.gender
			           ORDER BY s.overall_points DESC, s.races_count DESC, s.total_seconds ASC
			       ) AS rnk
			FROM standings s
			JOIN registrations reg ON reg.id = s.registration_id
			JOIN runners ru ON ru.id = reg.runner_id
			WHERE s.series_id = $1 AND s.year = $2
		)
		UPDATE standings
		SET overall_rank = ranked.rnk
		FROM ranked
		WHERE standings.id = ranked.id
	`

	ageGroup := `
		WITH ranked AS (
			SELECT s.id,
			       DENSE_RANK() OVER (
			           PARTITION BY ru.gender, reg.age_group
			           ORDER BY s.age_group_points DESC, s.races_count DESC, s.total_seconds ASC
			       ) AS rnk
			FROM standings s
			JOIN registrations reg ON reg.id = s.registration_id
			JOIN runners ru ON ru.id = reg.runner_id
			WHERE s.series_id = $1 AND s.year = $2
		)
		UPDATE standings
		SET age_group_rank = ranked.rnk
		FROM ranked
		WHERE standings.id = ranked.id
	`

	if _, err := r.db.Pool.Exec(ctx, overall, seriesID, year); err != nil {
		return fmt.Errorf("failed to apply overall ranks: %w", err)
	}
	if _, err := r.db.Pool.Exec(ctx, ageGroup, seriesID, year); err != nil {
		return fmt.Errorf("failed to apply age-group ranks: %w", err)
	}

	log.Debug().Int("series_id", seriesID).Int("year", year).Msg("Tie-break ranks applied")
	return nil
}

// ListBySeriesYear retrieves computed standings in overall-rank order
func (r *StandingRepository) ListBySeriesYear(ctx context.Context, seriesID, year int) ([]*models.Standing, error) {
	query := `
		SELECT id, series_id, registration_id, year, overall_points, age_group_points,
		       races_count, total_seconds, total_miles, overall_rank, age_group_rank, calculated_at
		FROM standings
		WHERE series_id = $1 AND year = $2
		ORDER BY overall_rank NULLS LAST, overall_points DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, seriesID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	defer rows.Close()

	var standings []*models.Standing
	for rows.Next() {
		var s models.Standing
		err := rows.Scan(
			&s.ID, &s.SeriesID, &s.RegistrationID, &s.Year,
			&s.OverallPoints, &s.AgeGroupPoints, &s.RacesCount,
			&s.TotalSeconds, &s.TotalMiles, &s.OverallRank, &s.AgeGroupRank,
			&s.CalculatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}

	return standings, nil
}
