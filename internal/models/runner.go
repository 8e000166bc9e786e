package models

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Runner represents a person identity built up from scraped results.
// The dedup key is the normalized (first name, last name, birth year) tuple;
// birth year is derived from scraped age and therefore approximate.
type Runner struct {
	ID        int            `db:"id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Gender    string         `db:"gender"` // "M" or "F"
	BirthYear int            `db:"birth_year"`
	Club      sql.NullString `db:"club"`
	Active    bool           `db:"active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// IdentityKey returns the normalized dedup key for a runner.
func IdentityKey(first, last string, birthYear int) string {
	return strings.ToLower(strings.TrimSpace(first)) + "|" +
		strings.ToLower(strings.TrimSpace(last)) + "|" +
		strconv.Itoa(birthYear)
}
