package scheduler

import (
	"context"
	"fmt"
	"time"

	"raceseries/internal/config"
	"raceseries/internal/discover"
	"raceseries/internal/ingest"
	"raceseries/internal/repository"
	"raceseries/internal/standings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the periodic sweep: discover result pages, ingest each,
// then recompute standings. Sweeps for one series never overlap; the
// read-then-write sequences in ingestion and standings are not safe under
// concurrent runs on the same series.
type Scheduler struct {
	cfg        *config.Config
	db         *repository.Database
	ingester   *ingest.Ingester
	discoverer *discover.Discoverer
	engine     *standings.Engine
	cron       *cron.Cron

	seriesName string
	running    chan struct{}
}

// NewScheduler creates a scheduler for one named series.
func NewScheduler(cfg *config.Config, db *repository.Database, ingester *ingest.Ingester, discoverer *discover.Discoverer, engine *standings.Engine, seriesName string) *Scheduler {
	s := &Scheduler{
		cfg:        cfg,
		db:         db,
		ingester:   ingester,
		discoverer: discoverer,
		engine:     engine,
		cron:       cron.New(),
		seriesName: seriesName,
		running:    make(chan struct{}, 1),
	}
	s.running <- struct{}{}
	return s
}

// Start registers the sweep cron job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.SweepCron, func() {
		year := time.Now().Year()
		if err := s.Sweep(ctx, year); err != nil {
			log.Error().Err(err).Int("year", year).Msg("Scheduled sweep failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.SweepCron).
		Str("series", s.seriesName).
		Msg("Sweep scheduled")

	return nil
}

// Stop stops the scheduler, letting a running sweep finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	log.Info().Msg("Scheduler stopped")
}

// Sweep runs one full discovery → ingestion → standings pass for a year.
// The token channel serializes sweeps: an overlapping trigger is skipped,
// not queued.
func (s *Scheduler) Sweep(ctx context.Context, year int) error {
	select {
	case <-s.running:
		defer func() { s.running <- struct{}{} }()
	default:
		log.Warn().Int("year", year).Msg("Sweep already running, skipping trigger")
		return nil
	}

	start := time.Now()
	log.Info().Int("year", year).Msg("Starting sweep")

	series, err := s.db.Series.GetOrCreate(ctx, s.seriesName, year)
	if err != nil {
		return err
	}

	urls, err := s.discoverer.Discover(ctx, year)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		log.Info().Int("year", year).Msg("No result pages discovered")
		return nil
	}

	succeeded, failed := s.ingester.IngestAll(ctx, series.ID, urls)

	if err := s.engine.Compute(ctx, series.ID, year); err != nil {
		return err
	}

	log.Info().
		Int("year", year).
		Int("races_succeeded", succeeded).
		Int("races_failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("Sweep complete")

	return nil
}
