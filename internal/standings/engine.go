// Package standings computes the series leaderboard. Per-race category
// ranks are computed once per race and held in memory, so the whole run
// costs O(races) storage round trips instead of O(races × participants).
//
// Scoring policy: every finisher is ranked, club member or not. Club-only
// re-ranking would be a filter in front of rankResults; it is deliberately
// not applied here.
package standings

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"raceseries/internal/metrics"
	"raceseries/internal/models"
	"raceseries/internal/repository"
)

// Engine computes and persists standings for one series year per call.
// Callers must serialize runs per series; the engine holds no locks.
type Engine struct {
	db *repository.Database
}

// NewEngine creates a standings engine.
func NewEngine(db *repository.Database) *Engine {
	return &Engine{db: db}
}

// raceRank holds one registration's pre-computed category ranks and
// aggregates for one race.
type raceRank struct {
	overall    int
	ageGroup   int
	gunSeconds int
	miles      float64
}

// Compute fully recomputes standings for a series year: delete, rebuild,
// rank. A series with no completed races is a no-op, not an error.
func (e *Engine) Compute(ctx context.Context, seriesID, year int) error {
	start := time.Now()

	races, err := e.db.Races.ListBySeriesYear(ctx, seriesID, year)
	if err != nil {
		return e.fail(err)
	}
	if len(races) == 0 {
		log.Info().Int("series_id", seriesID).Int("year", year).Msg("No races in series year, nothing to compute")
		return nil
	}

	// Races not yet held still count toward the qualifying threshold.
	plannedCount, err := e.db.PlannedRaces.CountOpen(ctx, seriesID)
	if err != nil {
		return e.fail(err)
	}
	q := qualifyingRaces(len(races) + plannedCount)

	// Phase 1: rank each race once, in memory.
	perRace := make(map[int]map[int]raceRank, len(races))
	for _, race := range races {
		ranked, err := e.db.Results.ListRanked(ctx, race.ID)
		if err != nil {
			return e.fail(err)
		}
		perRace[race.ID] = rankResults(ranked)
	}

	participants, err := e.db.Registrations.ListParticipants(ctx, seriesID, year)
	if err != nil {
		return e.fail(err)
	}

	// A runner may hold several registrations after a mid-series bib
	// change; all of them fold onto one leaderboard row, attached to the
	// latest registration.
	regsByRunner := make(map[int][]int)
	for _, p := range participants {
		regsByRunner[p.RunnerID] = append(regsByRunner[p.RunnerID], p.RegistrationID)
	}

	// Phase 2: aggregate per participant.
	standings := make([]*models.Standing, 0, len(regsByRunner))
	for _, regIDs := range regsByRunner {
		standing := aggregate(seriesID, year, regIDs, perRace, q)
		if standing == nil {
			continue
		}
		standings = append(standings, standing)
	}

	if err := e.db.Standings.DeleteBySeriesYear(ctx, seriesID, year); err != nil {
		return e.fail(err)
	}
	if err := e.db.Standings.InsertBatch(ctx, standings); err != nil {
		return e.fail(err)
	}
	if err := e.db.Standings.ApplyRanks(ctx, seriesID, year); err != nil {
		return e.fail(err)
	}

	metrics.StandingsRunsTotal.WithLabelValues("ok").Inc()
	metrics.StandingsDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Int("series_id", seriesID).
		Int("year", year).
		Int("races", len(races)).
		Int("qualifying", q).
		Int("participants", len(standings)).
		Dur("elapsed", time.Since(start)).
		Msg("Standings computed")

	return nil
}

func (e *Engine) fail(err error) error {
	metrics.StandingsRunsTotal.WithLabelValues("error").Inc()
	return fmt.Errorf("standings computation failed: %w", err)
}

// rankResults assigns both category ranks for one race. Overall rank is
// dense 1..N within each gender; age-group rank is dense 1..N within each
// gender + age-group bucket, both ordered by finishing place. Input rows
// are already filtered to non-DNF, non-DQ and sorted by place.
func rankResults(rows []models.RankedResult) map[int]raceRank {
	ranks := make(map[int]raceRank, len(rows))
	overallSeen := make(map[string]int)
	ageGroupSeen := make(map[string]int)

	for _, row := range rows {
		overallSeen[row.Gender]++
		agKey := row.Gender + "|" + row.AgeGroup
		ageGroupSeen[agKey]++

		ranks[row.RegistrationID] = raceRank{
			overall:    overallSeen[row.Gender],
			ageGroup:   ageGroupSeen[agKey],
			gunSeconds: row.GunSeconds,
			miles:      row.Miles,
		}
	}

	return ranks
}

// aggregate folds one runner's registrations into a single standing.
// Points in each category are independently best-Q; time and distance
// accumulate over all counted races for tie-breaking and display.
func aggregate(seriesID, year int, regIDs []int, perRace map[int]map[int]raceRank, q int) *models.Standing {
	if len(regIDs) == 0 {
		return nil
	}

	var overallPts, ageGroupPts []int
	racesCount, totalSeconds := 0, 0
	totalMiles := 0.0

	for _, ranks := range perRace {
		for _, regID := range regIDs {
			entry, ok := ranks[regID]
			if !ok {
				continue
			}
			overallPts = append(overallPts, Points(entry.overall))
			ageGroupPts = append(ageGroupPts, Points(entry.ageGroup))
			racesCount++
			totalSeconds += entry.gunSeconds
			totalMiles += entry.miles
		}
	}

	latestReg := regIDs[len(regIDs)-1]
	return &models.Standing{
		SeriesID:       seriesID,
		RegistrationID: latestReg,
		Year:           year,
		OverallPoints:  bestQ(overallPts, q),
		AgeGroupPoints: bestQ(ageGroupPts, q),
		RacesCount:     racesCount,
		TotalSeconds:   totalSeconds,
		TotalMiles:     totalMiles,
	}
}
