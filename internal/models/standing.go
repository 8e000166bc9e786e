package models

import (
	"database/sql"
	"time"
)

// Standing is a computed leaderboard row, fully recomputed on every
// standings run. One row per participant per series year, attached to the
// participant's most recent registration.
type Standing struct {
	ID             int           `db:"id"`
	SeriesID       int           `db:"series_id"`
	RegistrationID int           `db:"registration_id"`
	Year           int           `db:"year"`
	OverallPoints  int           `db:"overall_points"`
	AgeGroupPoints int           `db:"age_group_points"`
	RacesCount     int           `db:"races_count"`
	TotalSeconds   int           `db:"total_seconds"`
	TotalMiles     float64       `db:"total_miles"`
	OverallRank    sql.NullInt32 `db:"overall_rank"`
	AgeGroupRank   sql.NullInt32 `db:"age_group_rank"`
	CalculatedAt   time.Time     `db:"calculated_at"`
}
