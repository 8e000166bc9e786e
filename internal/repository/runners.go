package repository

import (
	"context"
	"fmt"

	"raceseries/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// RunnerRepository handles runner-identity database operations
type RunnerRepository struct {
	db *Database
}

// Create inserts a new runner identity
func (r *RunnerRepository) Create(ctx context.Context, runner *models.Runner) error {
	query := `
		INSERT INTO runners (first_name, last_name, gender, birth_year, club, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, active, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		runner.FirstName, runner.LastName, runner.Gender, runner.BirthYear, runner.Club,
	).Scan(&runner.ID, &runner.Active, &runner.CreatedAt, &runner.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	log.Debug().
		Int("id", runner.ID).
		Str("first", runner.FirstName).
		Str("last", runner.LastName).
		Int("birth_year", runner.BirthYear).
		Msg("Runner created")

	return nil
}

// FindByIdentity looks a runner up by the normalized (first, last, birth
// year) dedup key. Returns nil without error when no runner matches.
func (r *RunnerRepository) FindByIdentity(ctx context.Context, first, last string, birthYear int) (*models.Runner, error) {
	query := `
		SELECT id, first_name, last_name, gender, birth_year, club, active, created_at, updated_at
		FROM runners
		WHERE LOWER(first_name) = LOWER($1) AND LOWER(last_name) = LOWER($2) AND birth_year = $3
	`

	var runner models.Runner
	err := r.db.Pool.QueryRow(ctx, query, first, last, birthYear).Scan(
		&runner.ID, &runner.FirstName, &runner.LastName, &runner.Gender,
		&runner.BirthYear, &runner.Club, &runner.Active,
		&runner.CreatedAt, &runner.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find runner: %w", err)
	}

	return &runner, nil
}

// UpdateProfile refreshes the mutable fields learned on a re-sighting:
// club affiliation and gender. Identity fields never change here.
func (r *RunnerRepository) UpdateProfile(ctx context.Context, runnerID int, gender string, club *string) error {
	query := `
		UPDATE runners
		SET gender = $1,
		    club = COALESCE($2, club),
		    updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.Pool.Exec(ctx, query, gender, club, runnerID)
	if err != nil {
		return fmt.Errorf("failed to update runner profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("runner not found: id=%d", runnerID)
	}

	return nil
}

// Deactivate soft-deletes a runner identified as a duplicate or corrupted
// entry. Runners are never hard-deleted.
func (r *RunnerRepository) Deactivate(ctx context.Context, runnerID int) error {
	query := `UPDATE runners SET active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, runnerID)
	if err != nil {
		return fmt.Errorf("failed to deactivate runner: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("runner not found: id=%d", runnerID)
	}

	log.Info().Int("runner_id", runnerID).Msg("Runner deactivated")
	return nil
}

// GetByID retrieves a runner by its database ID
func (r *RunnerRepository) GetByID(ctx context.Context, id int) (*models.Runner, error) {
	query := `
		SELECT id, first_name, last_name, gender, birth_year, club, active, created_at, updated_at
		FROM runners
		WHERE id = $1
	`

	var runner models.Runner
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&runner.ID, &runner.FirstName, &runner.LastName, &runner.Gender,
		&runner.BirthYear, &runner.Club, &runner.Active,
		&runner.CreatedAt, &runner.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("runner not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get runner: %w", err)
	}

	return &runner, nil
}
