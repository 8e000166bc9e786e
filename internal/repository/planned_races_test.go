package repository

import (
	"database/sql"
	"testing"
	"time"

	"raceseries/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlannedRaceLifecycle(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	series := createTestSeries(t, db, ctx, 2026)

	spring := &models.PlannedRace{
		SeriesID:        series.ID,
		Name:            "Riverside Spring Classic",
		EstimatedDate:   sql.NullTime{Time: time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC), Valid: true},
		EstimatedMiles:  sql.NullFloat64{Float64: 6.2, Valid: true},
		Status:          models.PlannedStatusPlanned,
		EstablishedYear: 2019,
	}
	require.NoError(t, db.PlannedRaces.Create(ctx, spring))
	assert.NotZero(t, spring.ID)

	fall := &models.PlannedRace{
		SeriesID:        series.ID,
		Name:            "Harvest Half",
		EstimatedDate:   sql.NullTime{Time: time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), Valid: true},
		Status:          models.PlannedStatusPlanned,
		EstablishedYear: 2021,
	}
	require.NoError(t, db.PlannedRaces.Create(ctx, fall))

	open, err := db.PlannedRaces.ListOpen(ctx, series.ID)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "Riverside Spring Classic", open[0].Name)

	count, err := db.PlannedRaces.CountOpen(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Linking results flips the entry out of the open set.
	require.NoError(t, db.PlannedRaces.MarkScraped(ctx, spring.ID))

	count, err = db.PlannedRaces.CountOpen(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	open, err = db.PlannedRaces.ListOpen(ctx, series.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Harvest Half", open[0].Name)
}

func TestSeriesGetOrCreateIsIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	name := "Test Series " + uniqueSuffix()

	first, err := db.Series.GetOrCreate(ctx, name, 2026)
	require.NoError(t, err)

	second, err := db.Series.GetOrCreate(ctx, name, 2026)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Same name, different year is a distinct series.
	other, err := db.Series.GetOrCreate(ctx, name, 2027)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	fetched, err := db.Series.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, name, fetched.Name)
}
