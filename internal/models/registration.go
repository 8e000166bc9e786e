package models

import (
	"strconv"
	"time"
)

// Registration binds a Runner to a Series under a bib number. Within a
// series a bib identifies at most one active registration; a runner whose
// bib changes mid-series ends up owning several registrations, and the
// standings aggregation folds them back onto one identity.
type Registration struct {
	ID        int       `db:"id"`
	SeriesID  int       `db:"series_id"`
	RunnerID  int       `db:"runner_id"`
	Bib       string    `db:"bib"`
	Age       int       `db:"age"`
	AgeGroup  string    `db:"age_group"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AgeGroup buckets an age into the decade bracket used for age-group
// ranking: "1-19", "20-29", ... "70+".
func AgeGroup(age int) string {
	switch {
	case age < 20:
		return "1-19"
	case age >= 70:
		return "70+"
	default:
		lo := (age / 10) * 10
		return strconv.Itoa(lo) + "-" + strconv.Itoa(lo+9)
	}
}
