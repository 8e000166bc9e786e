// Command standings recomputes the series leaderboard for one year.
// Standings are a materialized view: the run deletes and rewrites them
// wholesale, then applies the tie-break ranks.
package main

import (
	"context"
	"flag"
	"strconv"
	"time"

	"raceseries/internal/config"
	"raceseries/internal/repository"
	"raceseries/internal/standings"

	"github.com/rs/zerolog/log"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "series year")
	flag.Parse()

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

	series, err := db.Series.GetOrCreate(ctx, cfg.SeriesName, *year)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve series")
	}

	engine := standings.NewEngine(db)
	if err := engine.Compute(ctx, series.ID, *year); err != nil {
		log.Fatal().Err(err).Int("year", *year).Msg("Standings computation failed")
	}

	log.Info().Int("series_id", series.ID).Int("year", *year).Msg("Standings recomputed")
}
