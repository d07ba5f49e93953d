package workers

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/PhantomMist/TwitchDropsMiner/internal/common/config"
	"github.com/PhantomMist/TwitchDropsMiner/internal/common/logger"
	"github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/service"
)

// MinerWorker is the updater loop: it credits watch minutes on schedule,
// sweeps claimable drops and periodically refreshes the snapshot. Claim
// failures are left for the next sweep; the claim operation itself never
// retries.
type MinerWorker struct {
	service   service.InventoryService
	config    *config.Config
	log       zerolog.Logger
	scheduler gocron.Scheduler
}

func NewMinerWorker(service service.InventoryService, cfg *config.Config) *MinerWorker {
	return &MinerWorker{
		service: service,
		config:  cfg,
		log:     logger.With("miner"),
	}
}

// Start schedules the watch tick and refresh jobs. Jobs run until Stop.
func (w *MinerWorker) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.scheduler = scheduler

	if _, err := scheduler.NewJob(
		gocron.DurationJob(w.config.Miner.TickInterval),
		gocron.NewTask(func() { w.tick(ctx) }),
	); err != nil {
		return err
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(w.config.Miner.RefreshInterval),
		gocron.NewTask(func() { w.refresh(ctx) }),
	); err != nil {
		return err
	}

	scheduler.Start()
	w.log.Info().
		Str("channel", w.config.Miner.Channel).
		Dur("tick_interval", w.config.Miner.TickInterval).
		Dur("refresh_interval", w.config.Miner.RefreshInterval).
		Msg("Miner worker started")
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs.
func (w *MinerWorker) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	w.log.Info().Msg("Stopping miner worker")
	return w.scheduler.Shutdown()
}

func (w *MinerWorker) tick(ctx context.Context) {
	ticked := w.service.Tick()
	if ticked > 0 {
		w.log.Debug().Int("drops", ticked).Msg("Watch minutes credited")
	}

	if claimed := w.service.ClaimPending(ctx); claimed > 0 {
		w.log.Info().Int("drops", claimed).Msg("Pending drops claimed")
	}
}

func (w *MinerWorker) refresh(ctx context.Context) {
	if err := w.service.Refresh(ctx, true); err != nil {
		w.log.Error().Err(err).Msg("Inventory refresh failed")
	}
}
