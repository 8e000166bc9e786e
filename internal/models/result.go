package models

import (
	"database/sql"
	"time"
)

// Result is one runner's outcome in one race. Place fields are only
// meaningful when both DNF and DQ are false; DNF/DQ rows are retained but
// excluded from all ranking math.
type Result struct {
	ID             int            `db:"id"`
	RaceID         int            `db:"race_id"`
	RegistrationID int            `db:"registration_id"`
	Place          int            `db:"place"`
	GenderPlace    sql.NullInt32  `db:"gender_place"`
	AgeGroupPlace  sql.NullInt32  `db:"age_group_place"`
	GunTime        string         `db:"gun_time"` // canonical HH:MM:SS
	ChipTime       sql.NullString `db:"chip_time"`
	Pace           sql.NullString `db:"pace"`
	DNF            bool           `db:"dnf"`
	DQ             bool           `db:"dq"`
	OverrideReason sql.NullString `db:"override_reason"`
	CreatedAt      time.Time      `db:"created_at"`
}

// RankedResult is the per-race ranking input row: a non-DNF, non-DQ result
// joined with its registration's gender and age group.
type RankedResult struct {
	RegistrationID int
	RunnerID       int
	Place          int
	Gender         string
	AgeGroup       string
	GunSeconds     int
	Miles          float64 // 0 when the race distance is unknown
}
