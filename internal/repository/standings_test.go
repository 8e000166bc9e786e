package repository

import (
	"testing"

	"raceseries/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandingApplyRanksTieBreak(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	series := createTestSeries(t, db, ctx, 2026)

	jane := createTestRunner(t, db, ctx, "Jane", "Doe", "F", 1992)
	mary := createTestRunner(t, db, ctx, "Mary", "Jones", "F", 1991)
	anna := createTestRunner(t, db, ctx, "Anna", "Lee", "F", 1993)
	john := createTestRunner(t, db, ctx, "John", "Smith", "M", 1985)

	janeReg := createTestRegistration(t, db, ctx, series.ID, jane.ID, "101", 34)
	maryReg := createTestRegistration(t, db, ctx, series.ID, mary.ID, "102", 35)
	annaReg := createTestRegistration(t, db, ctx, series.ID, anna.ID, "103", 33)
	johnReg := createTestRegistration(t, db, ctx, series.ID, john.ID, "104", 41)

	// Jane and Mary tie on points; Mary ran fewer races so Jane wins the
	// tie-break. John is in his own gender partition and ranks first there.
	standings := []*models.Standing{
		{SeriesID: series.ID, RegistrationID: janeReg.ID, Year: 2026, OverallPoints: 30, AgeGroupPoints: 30, RacesCount: 4, TotalSeconds: 5400, TotalMiles: 12.4},
		{SeriesID: series.ID, RegistrationID: maryReg.ID, Year: 2026, OverallPoints: 30, AgeGroupPoints: 30, RacesCount: 3, TotalSeconds: 5100, TotalMiles: 9.3},
		{SeriesID: series.ID, RegistrationID: annaReg.ID, Year: 2026, OverallPoints: 18, AgeGroupPoints: 20, RacesCount: 4, TotalSeconds: 6000, TotalMiles: 12.4},
		{SeriesID: series.ID, RegistrationID: johnReg.ID, Year: 2026, OverallPoints: 22, AgeGroupPoints: 22, RacesCount: 3, TotalSeconds: 4800, TotalMiles: 9.3},
	}

	require.NoError(t, db.Standings.DeleteBySeriesYear(ctx, series.ID, 2026))
	require.NoError(t, db.Standings.InsertBatch(ctx, standings))
	require.NoError(t, db.Standings.ApplyRanks(ctx, series.ID, 2026))

	stored, err := db.Standings.ListBySeriesYear(ctx, series.ID, 2026)
	require.NoError(t, err)
	require.Len(t, stored, 4)

	ranks := make(map[int]int32)
	for _, s := range stored {
		require.True(t, s.OverallRank.Valid)
		ranks[s.RegistrationID] = s.OverallRank.Int32
	}

	assert.Equal(t, int32(1), ranks[janeReg.ID])
	assert.Equal(t, int32(2), ranks[maryReg.ID])
	assert.Equal(t, int32(3), ranks[annaReg.ID])
	assert.Equal(t, int32(1), ranks[johnReg.ID], "separate gender partition starts at rank 1")
}

func TestStandingApplyRanksSharesTrueTies(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	series := createTestSeries(t, db, ctx, 2026)

	jane := createTestRunner(t, db, ctx, "Jane", "Doe", "F", 1992)
	mary := createTestRunner(t, db, ctx, "Mary", "Jones", "F", 1991)
	anna := createTestRunner(t, db, ctx, "Anna", "Lee", "F", 1993)

	janeReg := createTestRegistration(t, db, ctx, series.ID, jane.ID, "101", 34)
	maryReg := createTestRegistration(t, db, ctx, series.ID, mary.ID, "102", 35)
	annaReg := createTestRegistration(t, db, ctx, series.ID, anna.ID, "103", 33)

	// Jane and Mary are identical on every tie-break key: shared rank 1,
	// dense ranking puts Anna at 2, not 3.
	standings := []*models.Standing{
		{SeriesID: series.ID, RegistrationID: janeReg.ID, Year: 2026, OverallPoints: 20, AgeGroupPoints: 20, RacesCount: 2, TotalSeconds: 2400, TotalMiles: 6.2},
		{SeriesID: series.ID, RegistrationID: maryReg.ID, Year: 2026, OverallPoints: 20, AgeGroupPoints: 20, RacesCount: 2, TotalSeconds: 2400, TotalMiles: 6.2},
		{SeriesID: series.ID, RegistrationID: annaReg.ID, Year: 2026, OverallPoints: 15, AgeGroupPoints: 15, RacesCount: 2, TotalSeconds: 2500, TotalMiles: 6.2},
	}

	require.NoError(t, db.Standings.InsertBatch(ctx, standings))
	require.NoError(t, db.Standings.ApplyRanks(ctx, series.ID, 2026))

	stored, err := db.Standings.ListBySeriesYear(ctx, series.ID, 2026)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	ranks := make(map[int]int32)
	for _, s := range stored {
		ranks[s.RegistrationID] = s.OverallRank.Int32
	}

	assert.Equal(t, int32(1), ranks[janeReg.ID])
	assert.Equal(t, int32(1), ranks[maryReg.ID])
	assert.Equal(t, int32(2), ranks[annaReg.ID])
}

func TestStandingRecomputeReplacesPriorRows(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	series := createTestSeries(t, db, ctx, 2026)
	runner := createTestRunner(t, db, ctx, "Jane", "Doe", "F", 1992)
	reg := createTestRegistration(t, db, ctx, series.ID, runner.ID, "101", 34)

	first := []*models.Standing{
		{SeriesID: series.ID, RegistrationID: reg.ID, Year: 2026, OverallPoints: 10, AgeGroupPoints: 10, RacesCount: 1, TotalSeconds: 1200, TotalMiles: 3.1},
	}
	require.NoError(t, db.Standings.InsertBatch(ctx, first))

	// A later run rewrites the series year wholesale.
	second := []*models.Standing{
		{SeriesID: series.ID, RegistrationID: reg.ID, Year: 2026, OverallPoints: 20, AgeGroupPoints: 20, RacesCount: 2, TotalSeconds: 2500, TotalMiles: 6.2},
	}
	require.NoError(t, db.Standings.DeleteBySeriesYear(ctx, series.ID, 2026))
	require.NoError(t, db.Standings.InsertBatch(ctx, second))
	require.NoError(t, db.Standings.ApplyRanks(ctx, series.ID, 2026))

	stored, err := db.Standings.ListBySeriesYear(ctx, series.ID, 2026)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 20, stored[0].OverallPoints)
	assert.Equal(t, 2, stored[0].RacesCount)
	assert.Equal(t, int32(1), stored[0].OverallRank.Int32)
}
