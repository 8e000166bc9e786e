package models

import (
	"database/sql"
	"time"
)

// Race is a completed, result-bearing event. Distance may be unknown: an
// unparseable race name leaves Miles invalid rather than guessing a value.
type Race struct {
	ID              int             `db:"id"`
	SeriesID        int             `db:"series_id"`
	Name            string          `db:"name"`
	RaceDate        time.Time       `db:"race_date"`
	Year            int             `db:"year"`
	Miles           sql.NullFloat64 `db:"miles"`
	Location        sql.NullString  `db:"location"`
	SourceURL       string          `db:"source_url"`
	PlannedRaceID   sql.NullInt32   `db:"planned_race_id"`
	ResultsScrapedAt sql.NullTime   `db:"results_scraped_at"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}
