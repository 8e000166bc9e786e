package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"raceseries/internal/models"

	"github.com/stretchr/testify/require"
)

// Fixture helpers. Business keys get a nanosecond suffix so repeated test
// runs against the same database never collide.

func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func createTestSeries(t *testing.T, db *Database, ctx context.Context, year int) *models.Series {
	t.Helper()
	series, err := db.Series.GetOrCreate(ctx, "Test Series "+uniqueSuffix(), year)
	require.NoError(t, err)
	return series
}

func createTestRunner(t *testing.T, db *Database, ctx context.Context, first, last string, gender string, birthYear int) *models.Runner {
	t.Helper()
	runner := &models.Runner{
		FirstName: first,
		LastName:  last,
		Gender:    gender,
		BirthYear: birthYear,
	}
	require.NoError(t, db.Runners.Create(ctx, runner))
	return runner
}

func createTestRace(t *testing.T, db *Database, ctx context.Context, seriesID int, name string, date time.Time, miles float64) *models.Race {
	t.Helper()
	race := &models.Race{
		SeriesID:  seriesID,
		Name:      name,
		RaceDate:  date,
		Year:      date.Year(),
		Miles:     sql.NullFloat64{Float64: miles, Valid: miles > 0},
		SourceURL: "https://example.com/results/" + uniqueSuffix(),
	}
	require.NoError(t, db.Races.Create(ctx, race))
	return race
}

func createTestRegistration(t *testing.T, db *Database, ctx context.Context, seriesID, runnerID int, bib string, age int) *models.Registration {
	t.Helper()
	reg := &models.Registration{
		SeriesID: seriesID,
		RunnerID: runnerID,
		Bib:      bib,
		Age:      age,
		AgeGroup: models.AgeGroup(age),
	}
	require.NoError(t, db.Registrations.Upsert(ctx, reg))
	return reg
}
