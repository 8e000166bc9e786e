package repository

import (
	"context"
	"fmt"

	"raceseries/internal/models"

	"github.com/rs/zerolog/log"
)

// RegistrationRepository handles bib-registration database operations
type RegistrationRepository struct {
	db *Database
}

// BibMap preloads the bib → runner-id mapping for a whole series in one
// read. Ingestion uses it to detect bib reuse without a per-row query.
func (r *RegistrationRepository) BibMap(ctx context.Context, seriesID int) (map[string]int, error) {
	query := `SELECT bib, runner_id FROM registrations WHERE series_id = $1`

	rows, err := r.db.Pool.Query(ctx, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bib map: %w", err)
	}
	defer rows.Close()

	bibs := make(map[string]int)
	for rows.Next() {
		var bib string
		var runnerID int
		if err := rows.Scan(&bib, &runnerID); err != nil {
			return nil, fmt.Errorf("failed to scan bib mapping: %w", err)
		}
		bibs[bib] = runnerID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bib map: %w", err)
	}

	return bibs, nil
}

// Upsert inserts or updates a registration keyed on (series, bib),
// carrying the age and age group observed in the current scrape.
func (r *RegistrationRepository) Upsert(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (series_id, runner_id, bib, age, age_group)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (series_id, bib) DO UPDATE SET
			runner_id = EXCLUDED.runner_id,
			age = EXCLUDED.age,
			age_group = EXCLUDED.age_group,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		reg.SeriesID, reg.RunnerID, reg.Bib, reg.Age, reg.AgeGroup,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert registration: %w", err)
	}

	return nil
}

// Supersede removes the registration a conflicting bib currently points at.
// Bibs do get reassigned mid-series by organizers; last scraped wins.
func (r *RegistrationRepository) Supersede(ctx context.Context, seriesID int, bib string) error {
	query := `DELETE FROM registrations WHERE series_id = $1 AND bib = $2`

	result, err := r.db.Pool.Exec(ctx, query, seriesID, bib)
	if err != nil {
		return fmt.Errorf("failed to supersede registration: %w", err)
	}

	log.Info().
		Int("series_id", seriesID).
		Str("bib", bib).
		Int64("removed", result.RowsAffected()).
		Msg("Superseded conflicting bib registration")

	return nil
}

// ListByRunner retrieves all of a runner's registrations within a series.
// A runner whose bib changed mid-series owns several.
func (r *RegistrationRepository) ListByRunner(ctx context.Context, seriesID, runnerID int) ([]*models.Registration, error) {
	query := `
		SELECT id, series_id, runner_id, bib, age, age_group, created_at, updated_at
		FROM registrations
		WHERE series_id = $1 AND runner_id = $2
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, seriesID, runnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		var reg models.Registration
		err := rows.Scan(
			&reg.ID, &reg.SeriesID, &reg.RunnerID, &reg.Bib,
			&reg.Age, &reg.AgeGroup, &reg.CreatedAt, &reg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return regs, nil
}

// Participant is a distinct runner × registration pair holding at least one
// result in a series year.
type Participant struct {
	RunnerID       int
	RegistrationID int
}

// ListParticipants retrieves every runner × registration pair with at
// least one result in the series year. The standings engine groups these
// by runner so a mid-series bib change still yields one leaderboard row.
func (r *RegistrationRepository) ListParticipants(ctx context.Context, seriesID, year int) ([]Participant, error) {
	query := `
		SELECT DISTINCT reg.runner_id, reg.id
		FROM registrations reg
		JOIN results res ON res.registration_id = reg.id
		JOIN races ra ON ra.id = res.race_id
		JOIN runners ru ON ru.id = reg.runner_id
		WHERE reg.series_id = $1 AND ra.year = $2 AND ru.active
		ORDER BY reg.runner_id, reg.id
	`

	rows, err := r.db.Pool.Query(ctx, query, seriesID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.RunnerID, &p.RegistrationID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}
