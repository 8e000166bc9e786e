package models

import (
	"database/sql"
	"time"
)

// Series is a named, year-scoped competition (e.g. "Championship Series 2025").
// It owns planned races and completed races.
type Series struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
}

// Planned race lifecycle states.
const (
	PlannedStatusPlanned   = "planned"
	PlannedStatusScraped   = "scraped"
	PlannedStatusCancelled = "cancelled"
)

// PlannedRace is a forward-looking race entry that has not produced results
// yet. It flips to "scraped" when a completed Race is linked to it.
type PlannedRace struct {
	ID              int             `db:"id"`
	SeriesID        int             `db:"series_id"`
	Name            string          `db:"name"`
	EstimatedDate   sql.NullTime    `db:"estimated_date"`
	EstimatedMiles  sql.NullFloat64 `db:"estimated_miles"`
	Status          string          `db:"status"`
	EstablishedYear int             `db:"established_year"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}
