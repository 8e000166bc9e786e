package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaceCreateAndFind(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	series := createTestSeries(t, db, ctx, 2026)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)

	race := createTestRace(t, db, ctx, series.ID, "Riverside Spring Classic", date, 6.2)
	assert.NotZero(t, race.ID)

	byURL, err := db.Races.FindBySourceURL(ctx, series.ID, race.SourceURL)
	require.NoError(t, err)
	require.NotNil(t, byURL)
	assert.Equal(t, race.ID, byURL.ID)
	assert.Equal(t, "Riverside Spring Classic", byURL.Name)
	assert.Equal(t, 6.2, byURL.Miles.Float64)

	byNameDate, err := db.Races.FindByNameDate(ctx, series.ID, "Riverside Spring Classic", date)
	require.NoError(t, err)
	require.NotNil(t, byNameDate)
	assert.Equal(t, race.ID, byNameDate.ID)
}

func TestRaceFindMissingReturnsNil(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	series := createTestSeries(t, db, ctx, 2026)

	race, err := db.Races.FindBySourceURL(ctx, series.ID, "https://example.com/results/nowhere")
	require.NoError(t, err)
	assert.Nil(t, race)

	race, err = db.Races.FindByNameDate(ctx, series.ID, "No Such Race", time.Now())
	require.NoError(t, err)
	assert.Nil(t, race)
}

func TestRaceUpdateAndMarkScraped(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	series := createTestSeries(t, db, ctx, 2026)
	date := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)

	race := createTestRace(t, db, ctx, series.ID, "Harbor 5K", date, 0)
	assert.False(t, race.Miles.Valid)

	race.Miles = sql.NullFloat64{Float64: 3.1, Valid: true}
	race.Location = sql.NullString{String: "Portsmouth, NH", Valid: true}
	require.NoError(t, db.Races.Update(ctx, race))

	scrapedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.Races.MarkScraped(ctx, race.ID, scrapedAt))

	fetched, err := db.Races.FindBySourceURL(ctx, series.ID, race.SourceURL)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, 3.1, fetched.Miles.Float64)
	assert.Equal(t, "Portsmouth, NH", fetched.Location.String)
	assert.True(t, fetched.ResultsScrapedAt.Valid)
	assert.WithinDuration(t, scrapedAt, fetched.ResultsScrapedAt.Time, time.Second)
}

func TestRaceListBySeriesYear(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	series := createTestSeries(t, db, ctx, 2026)

	createTestRace(t, db, ctx, series.ID, "Race Two", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 3.1)
	createTestRace(t, db, ctx, series.ID, "Race One", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), 6.2)

	races, err := db.Races.ListBySeriesYear(ctx, series.ID, 2026)
	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, "Race One", races[0].Name)
	assert.Equal(t, "Race Two", races[1].Name)

	count, err := db.Races.Count(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
