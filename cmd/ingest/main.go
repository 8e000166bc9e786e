// Command ingest fetches one result page and reconciles it into the
// database: race metadata, runner identities, registrations, and a full
// result replacement. Safe to re-run against the same URL.
package main

import (
	"context"
	"flag"
	"strconv"
	"time"

	"raceseries/internal/client"
	"raceseries/internal/config"
	"raceseries/internal/ingest"
	"raceseries/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	var (
		url  = flag.String("url", "", "source URL of the result page")
		year = flag.Int("year", time.Now().Year(), "series year")
	)
	flag.Parse()

	if *url == "" {
		log.Fatal().Msg("-url is required")
	}

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	series, err := db.Series.GetOrCreate(ctx, cfg.SeriesName, *year)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve series")
	}

	fetcher := client.NewFetcher(cfg.FetchTimeout, cfg.FetchDelay, nil)
	ingester := ingest.NewIngester(db, fetcher, cfg.IngestConcurrency, cfg.IngestBatchSize)

	report, err := ingester.IngestRace(ctx, series.ID, *url)
	if err != nil {
		log.Fatal().Err(err).Str("url", *url).Msg("Ingestion failed")
	}

	log.Info().
		Str("race", report.RaceName).
		Int("extracted", report.RowsExtracted).
		Int("rejected", report.RowsRejected).
		Int("runners_created", report.RunnersCreated).
		Int("runners_updated", report.RunnersUpdated).
		Int("results_created", report.ResultsCreated).
		Int("results_skipped", report.ResultsSkipped).
		Msg("Ingestion complete")
}
