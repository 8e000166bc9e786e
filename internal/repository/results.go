package repository

import (
	"context"
	"fmt"

	"raceseries/internal/models"
	"raceseries/internal/raceclock"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ResultRepository handles result-row database operations
type ResultRepository struct {
	db *Database
}

// DeleteByRace removes every result row for a race. Re-ingestion deletes
// then reinserts, which keeps re-scraping idempotent even when the source
// page changed.
func (r *ResultRepository) DeleteByRace(ctx context.Context, raceID int) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM results WHERE race_id = $1`, raceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete race results: %w", err)
	}

	deleted := result.RowsAffected()
	if deleted > 0 {
		log.Debug().Int("race_id", raceID).Int64("deleted", deleted).Msg("Replaced existing results")
	}
	return deleted, nil
}

// InsertBatch writes a slice of results in one round trip
func (r *ResultRepository) InsertBatch(ctx context.Context, results []*models.Result) error {
	if len(results) == 0 {
		return nil
	}

	query := `
		INSERT INTO results (
			race_id, registration_id, place, gender_place, age_group_place,
			gun_time, chip_time, pace, dnf, dq, override_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for _, res := range results {
		batch.Queue(query,
			res.RaceID, res.RegistrationID, res.Place, res.GenderPlace, res.AgeGroupPlace,
			res.GunTime, res.ChipTime, res.Pace, res.DNF, res.DQ, res.OverrideReason,
		)
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert result batch: %w", err)
		}
	}

	return nil
}

// ListByRace retrieves all result rows for a race in place order
func (r *ResultRepository) ListByRace(ctx context.Context, raceID int) ([]*models.Result, error) {
	query := `
		SELECT id, race_id, registration_id, place, gender_place, age_group_place,
		       gun_time, chip_time, pace, dnf, dq, override_reason, created_at
		FROM results
		WHERE race_id = $1
		ORDER BY place
	`

	rows, err := r.db.Pool.Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		var res models.Result
		err := rows.Scan(
			&res.ID, &res.RaceID, &res.RegistrationID, &res.Place,
			&res.GenderPlace, &res.AgeGroupPlace, &res.GunTime, &res.ChipTime,
			&res.Pace, &res.DNF, &res.DQ, &res.OverrideReason, &res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

// ListRanked fetches the ranking input for one race: every non-DNF,
// non-DQ result joined with its registration's gender and age group, in
// place order. The standings engine ranks these once per race in memory.
func (r *ResultRepository) ListRanked(ctx context.Context, raceID int) ([]models.RankedResult, error) {
	query := `
		SELECT res.registration_id, reg.runner_id, res.place, ru.gender, reg.age_group,
		       res.gun_time, COALESCE(ra.miles, 0)
		FROM results res
		JOIN registrations reg ON reg.id = res.registration_id
		JOIN runners ru ON ru.id = reg.runner_id
		JOIN races ra ON ra.id = res.race_id
		WHERE res.race_id = $1 AND NOT res.dnf AND NOT res.dq
		ORDER BY res.place
	`

	rows, err := r.db.Pool.Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranked results: %w", err)
	}
	defer rows.Close()

	var ranked []models.RankedResult
	for rows.Next() {
		var rr models.RankedResult
		var gunTime string
		err := rows.Scan(
			&rr.RegistrationID, &rr.RunnerID, &rr.Place, &rr.Gender, &rr.AgeGroup,
			&gunTime, &rr.Miles,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranked result: %w", err)
		}
		rr.GunSeconds = raceclock.Seconds(gunTime)
		ranked = append(ranked, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranked results: %w", err)
	}

	return ranked, nil
}
