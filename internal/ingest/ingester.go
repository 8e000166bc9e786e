// Package ingest reconciles scraped race data against stored state. The
// whole pipeline is safely re-runnable: race metadata is upserted, results
// are replaced wholesale, and registration conflicts resolve by
// last-scraped-wins. Row-level problems are logged and counted; nothing
// short of an unreachable database aborts a race.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"raceseries/internal/client"
	"raceseries/internal/extract"
	"raceseries/internal/metrics"
	"raceseries/internal/models"
	"raceseries/internal/repository"
	"raceseries/internal/validate"
)

// Ingester drives single-race and batch ingestion.
type Ingester struct {
	db          *repository.Database
	fetcher     *client.Fetcher
	concurrency int
	batchSize   int
}

// Report summarizes one race's ingestion. Counts, never silent drops.
type Report struct {
	RaceID               int
	RaceName             string
	RowsExtracted        int
	RowsRejected         int
	RunnersCreated       int
	RunnersUpdated       int
	BibConflicts         int
	RegistrationsSkipped int
	ResultsCreated       int
	ResultsSkipped       int
}

// NewIngester creates an ingester. concurrency caps in-flight races in
// IngestAll; batchSize groups races for progress reporting.
func NewIngester(db *repository.Database, fetcher *client.Fetcher, concurrency, batchSize int) *Ingester {
	if concurrency < 1 {
		concurrency = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &Ingester{db: db, fetcher: fetcher, concurrency: concurrency, batchSize: batchSize}
}

// IngestRace fetches one source URL and makes stored state match it.
func (in *Ingester) IngestRace(ctx context.Context, seriesID int, sourceURL string) (*Report, error) {
	start := time.Now()
	defer func() { metrics.IngestDuration.Observe(time.Since(start).Seconds()) }()

	doc, err := in.fetcher.FetchPage(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source page: %w", err)
	}

	extracted, err := extract.Extract(doc, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source page: %w", err)
	}

	runners, results, _, batchReport := validate.Partition(extracted.Runners, extracted.Results)
	metrics.RowsExtractedTotal.Add(float64(batchReport.Total))
	metrics.RowsRejectedTotal.Add(float64(batchReport.Invalid))

	report := &Report{
		RaceName:      extracted.Name,
		RowsExtracted: batchReport.Total,
		RowsRejected:  batchReport.Invalid,
	}

	race, err := in.upsertRace(ctx, seriesID, extracted)
	if err != nil {
		return nil, err
	}
	report.RaceID = race.ID

	regIDByBib, err := in.upsertRunners(ctx, seriesID, race.Year, runners, report)
	if err != nil {
		return nil, err
	}

	if err := in.replaceResults(ctx, race.ID, results, regIDByBib, report); err != nil {
		return nil, err
	}

	if err := in.db.Races.MarkScraped(ctx, race.ID, time.Now()); err != nil {
		log.Warn().Err(err).Int("race_id", race.ID).Msg("Failed to stamp scrape time")
	}

	log.Info().
		Str("race", report.RaceName).
		Int("race_id", report.RaceID).
		Int("extracted", report.RowsExtracted).
		Int("rejected", report.RowsRejected).
		Int("runners_created", report.RunnersCreated).
		Int("runners_updated", report.RunnersUpdated).
		Int("bib_conflicts", report.BibConflicts).
		Int("results_created", report.ResultsCreated).
		Int("results_skipped", report.ResultsSkipped).
		Msg("Race ingested")

	return report, nil
}

// upsertRace locates an existing race by source URL, then by name+date,
// updating its metadata when found and inserting otherwise. Either way it
// tries to link a matching planned race.
func (in *Ingester) upsertRace(ctx context.Context, seriesID int, ex *extract.ExtractedRace) (*models.Race, error) {
	race, err := in.db.Races.FindBySourceURL(ctx, seriesID, ex.SourceURL)
	if err != nil {
		return nil, err
	}
	if race == nil {
		race, err = in.db.Races.FindByNameDate(ctx, seriesID, ex.Name, ex.Date)
		if err != nil {
			return nil, err
		}
	}

	miles := sql.NullFloat64{Float64: ex.Miles, Valid: ex.MilesKnown}
	location := sql.NullString{String: ex.Location, Valid: ex.Location != ""}

	if race == nil {
		race = &models.Race{
			SeriesID:  seriesID,
			Name:      ex.Name,
			RaceDate:  ex.Date,
			Year:      ex.Date.Year(),
			Miles:     miles,
			Location:  location,
			SourceURL: ex.SourceURL,
		}
		in.linkPlannedRace(ctx, race)
		if err := in.db.Races.Create(ctx, race); err != nil {
			return nil, err
		}
		return race, nil
	}

	race.Name = ex.Name
	race.RaceDate = ex.Date
	race.Year = ex.Date.Year()
	race.Miles = miles
	race.Location = location
	race.SourceURL = ex.SourceURL
	if !race.PlannedRaceID.Valid {
		in.linkPlannedRace(ctx, race)
	}
	if err := in.db.Races.Update(ctx, race); err != nil {
		return nil, err
	}
	return race, nil
}

// linkPlannedRace searches the series' open planned races for a keyword
// match and flips the winner to scraped. Linking is best-effort: failures
// only log.
func (in *Ingester) linkPlannedRace(ctx context.Context, race *models.Race) {
	planned, err := in.db.PlannedRaces.ListOpen(ctx, race.SeriesID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load planned races for linking")
		return
	}

	for _, candidate := range planned {
		if candidate.EstablishedYear >= race.Year {
			continue
		}
		if !namesMatch(race.Name, candidate.Name) {
			continue
		}
		if err := in.db.PlannedRaces.MarkScraped(ctx, candidate.ID); err != nil {
			log.Warn().Err(err).Int("planned_race_id", candidate.ID).Msg("Failed to flip planned race")
			return
		}
		race.PlannedRaceID = sql.NullInt32{Int32: int32(candidate.ID), Valid: true}
		log.Info().
			Str("race", race.Name).
			Str("planned", candidate.Name).
			Msg("Linked race to planned entry")
		return
	}
}

// namesMatch reports whether at least half of the significant words
// (longer than 3 characters) of the scraped name appear in the planned
// name, with containment checked in both directions.
func namesMatch(scraped, planned string) bool {
	significant := significantWords(scraped)
	if len(significant) == 0 {
		return false
	}
	plannedWords := strings.Fields(strings.ToLower(planned))

	matched := 0
	for _, w := range significant {
		for _, pw := range plannedWords {
			if strings.Contains(pw, w) || strings.Contains(w, pw) {
				matched++
				break
			}
		}
	}
	return matched*2 >= len(significant)
}

func significantWords(name string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

// upsertRunners resolves runner identities and registrations for a whole
// batch: one preloaded bib map, one identity cache, per-row conflict
// handling. Returns the registration-id-by-bib map the result writer needs.
func (in *Ingester) upsertRunners(ctx context.Context, seriesID, raceYear int, runners []extract.ExtractedRunner, report *Report) (map[string]int, error) {
	bibToRunner, err := in.db.Registrations.BibMap(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	identityCache := make(map[string]int, len(runners))
	regIDByBib := make(map[string]int, len(runners))

	for _, er := range runners {
		birthYear := raceYear - er.Age

		runnerID, err := in.resolveRunner(ctx, er, birthYear, identityCache, report)
		if err != nil {
			log.Error().Err(err).Str("bib", er.Bib).Msg("Failed to resolve runner, skipping registration")
			report.RegistrationsSkipped++
			continue
		}

		if prior, claimed := bibToRunner[er.Bib]; claimed && prior != runnerID {
			// Organizers reassign bibs mid-series; the latest scrape wins.
			metrics.BibConflictsTotal.Inc()
			report.BibConflicts++
			if err := in.db.Registrations.Supersede(ctx, seriesID, er.Bib); err != nil {
				log.Error().Err(err).Str("bib", er.Bib).Msg("Failed to supersede registration, skipping")
				report.RegistrationsSkipped++
				continue
			}
		}

		reg := &models.Registration{
			SeriesID: seriesID,
			RunnerID: runnerID,
			Bib:      er.Bib,
			Age:      er.Age,
			AgeGroup: models.AgeGroup(er.Age),
		}
		if err := in.db.Registrations.Upsert(ctx, reg); err != nil {
			log.Error().Err(err).Str("bib", er.Bib).Msg("Failed to upsert registration, skipping")
			report.RegistrationsSkipped++
			continue
		}

		bibToRunner[er.Bib] = runnerID
		regIDByBib[er.Bib] = reg.ID
	}

	return regIDByBib, nil
}

// resolveRunner finds or creates the stored identity for an extracted
// runner, updating club and gender on a re-sighting.
func (in *Ingester) resolveRunner(ctx context.Context, er extract.ExtractedRunner, birthYear int, identityCache map[string]int, report *Report) (int, error) {
	key := models.IdentityKey(er.FirstName, er.LastName, birthYear)
	if id, ok := identityCache[key]; ok {
		return id, nil
	}

	existing, err := in.db.Runners.FindByIdentity(ctx, er.FirstName, er.LastName, birthYear)
	if err != nil {
		return 0, err
	}

	if existing != nil {
		var club *string
		if er.Club != "" {
			club = &er.Club
		}
		if err := in.db.Runners.UpdateProfile(ctx, existing.ID, er.Gender, club); err != nil {
			return 0, err
		}
		metrics.RunnersUpdatedTotal.Inc()
		report.RunnersUpdated++
		identityCache[key] = existing.ID
		return existing.ID, nil
	}

	runner := &models.Runner{
		FirstName: er.FirstName,
		LastName:  er.LastName,
		Gender:    er.Gender,
		BirthYear: birthYear,
		Club:      sql.NullString{String: er.Club, Valid: er.Club != ""},
	}
	if err := in.db.Runners.Create(ctx, runner); err != nil {
		return 0, err
	}
	metrics.RunnersCreatedTotal.Inc()
	report.RunnersCreated++
	identityCache[key] = runner.ID
	return runner.ID, nil
}

// replaceResults deletes the race's stored results and writes the freshly
// extracted set. A result whose bib resolved to no registration is skipped
// and counted, not fatal.
func (in *Ingester) replaceResults(ctx context.Context, raceID int, results []extract.ExtractedResult, regIDByBib map[string]int, report *Report) error {
	if _, err := in.db.Results.DeleteByRace(ctx, raceID); err != nil {
		return err
	}

	rows := make([]*models.Result, 0, len(results))
	for _, er := range results {
		regID, ok := regIDByBib[er.Bib]
		if !ok {
			log.Warn().Str("bib", er.Bib).Int("race_id", raceID).Msg("No registration for result bib, skipping")
			metrics.ResultsSkippedTotal.Inc()
			report.ResultsSkipped++
			continue
		}

		rows = append(rows, &models.Result{
			RaceID:         raceID,
			RegistrationID: regID,
			Place:          er.Place,
			GenderPlace:    nullablePlace(er.GenderPlace),
			AgeGroupPlace:  nullablePlace(er.AgeGroupPlace),
			GunTime:        er.GunTime,
			ChipTime:       sql.NullString{String: er.ChipTime, Valid: er.ChipTime != ""},
			Pace:           sql.NullString{String: er.Pace, Valid: er.Pace != ""},
		})
	}

	if err := in.db.Results.InsertBatch(ctx, rows); err != nil {
		return err
	}
	metrics.ResultsWrittenTotal.Add(float64(len(rows)))
	report.ResultsCreated = len(rows)
	return nil
}

func nullablePlace(p int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(p), Valid: p > 0}
}

// IngestAll runs a set of source URLs through a bounded worker pool in
// fixed-size batches. Races are independent; order does not matter. A
// failed race is logged and counted, the rest continue.
func (in *Ingester) IngestAll(ctx context.Context, seriesID int, urls []string) (succeeded, failed int) {
	for start := 0; start < len(urls); start += in.batchSize {
		end := start + in.batchSize
		if end > len(urls) {
			end = len(urls)
		}
		batch := urls[start:end]

		var wg sync.WaitGroup
		var mu sync.Mutex
		sem := make(chan struct{}, in.concurrency)

		for _, url := range batch {
			wg.Add(1)
			sem <- struct{}{}
			go func(url string) {
				defer wg.Done()
				defer func() { <-sem }()

				if _, err := in.IngestRace(ctx, seriesID, url); err != nil {
					log.Error().Err(err).Str("url", url).Msg("Race ingestion failed")
					mu.Lock()
					failed++
					mu.Unlock()
					return
				}
				mu.Lock()
				succeeded++
				mu.Unlock()
			}(url)
		}
		wg.Wait()

		log.Info().
			Int("done", end).
			Int("total", len(urls)).
			Int("succeeded", succeeded).
			Int("failed", failed).
			Msg("Ingestion batch complete")
	}

	return succeeded, failed
}
