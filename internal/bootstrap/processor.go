package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonesrussell/complaint-triage/internal/config"
	"github.com/jonesrussell/complaint-triage/internal/database"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
	"github.com/jonesrussell/complaint-triage/internal/processor"
	"github.com/jonesrussell/complaint-triage/internal/telemetry"
)

// ProcessorComponents holds the backfill poller and its database.
type ProcessorComponents struct {
	Database *DatabaseComponents
	Poller   *processor.Poller
}

// NewProcessorComponents wires the backfill poller. A database is required.
func NewProcessorComponents(
	cfg *config.Config,
	logger infralogger.Logger,
	tp *telemetry.Provider,
) (*ProcessorComponents, error) {
	db, err := SetupDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	if db == nil {
		return nil, database.ErrDatabaseUnavailable
	}

	vocab, err := LoadVocabulary(cfg, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c := NewClassifier(cfg, vocab, logger, tp)

	limiter := processor.NewRateLimiter(cfg.Service.DBWritesPerSecond, cfg.Service.DBWritesPerSecond, logger)
	poller := processor.NewPoller(
		db.Complaints,
		db.Departments,
		processor.NewBatchProcessor(c, logger),
		limiter,
		logger,
		tp,
		processor.PollerConfig{BatchSize: cfg.Service.BatchSize, PollInterval: cfg.Service.PollInterval},
	)

	return &ProcessorComponents{Database: db, Poller: poller}, nil
}

// RunProcessor runs the backfill loop until a shutdown signal, or a single
// cycle when once is set.
func RunProcessor(ctx context.Context, configPath string, once bool) error {
	cfg, logger, err := start(configPath, "processor")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	comps, err := NewProcessorComponents(cfg, logger, telemetry.NewProvider())
	if err != nil {
		logger.Error("Failed to initialize processor", infralogger.Error(err))
		return err
	}
	defer func() { _ = comps.Database.Close() }()

	if once {
		stats, runErr := comps.Poller.RunOnce(ctx)
		if runErr != nil {
			logger.Error("Backfill failed", infralogger.Error(runErr))
			return runErr
		}
		logger.Info("Backfill finished",
			infralogger.Int("found", stats.Found),
			infralogger.Int("saved", stats.Saved),
			infralogger.Int("failed", stats.Failed),
		)
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = comps.Poller.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	<-ctx.Done()
	logger.Info("Shutdown signal received")
	comps.Poller.Stop()
	return nil
}

func start(configPath, component string) (*config.Config, infralogger.Logger, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := CreateLogger(cfg, component)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
