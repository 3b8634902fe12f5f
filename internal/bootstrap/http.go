package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/complaint-triage/internal/api"
	"github.com/jonesrussell/complaint-triage/internal/config"
	infragin "github.com/jonesrussell/complaint-triage/internal/infrastructure/gin"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
	"github.com/jonesrussell/complaint-triage/internal/telemetry"
)

const healthPingTimeout = 2 * time.Second

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	Database *DatabaseComponents
	Redis    *redis.Client
	Handler  *api.Handler
	Server   *infragin.Server
}

// NewHTTPComponents creates all components for the HTTP server.
func NewHTTPComponents(
	ctx context.Context,
	cfg *config.Config,
	logger infralogger.Logger,
	tp *telemetry.Provider,
) (*HTTPComponents, error) {
	db, err := SetupDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	vocab, err := LoadVocabulary(cfg, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c := NewClassifier(cfg, vocab, logger, tp)

	var opts []api.HandlerOption
	var pings api.HealthPings

	suggestions, redisClient := SetupCache(ctx, cfg, c, logger, tp)
	if suggestions != nil {
		opts = append(opts, api.WithCache(suggestions))
		pings.Redis = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthPingTimeout)
			defer cancel()
			return redisClient.Ping(ctx).Err()
		}
	}
	if db != nil {
		opts = append(opts, api.WithComplaints(db.Complaints))
		pings.Database = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthPingTimeout)
			defer cancel()
			return db.DB.PingContext(ctx)
		}
	}

	handler := api.NewHandler(c, logger, opts...)
	server := api.NewServer(handler, cfg, tp, pings, logger)

	return &HTTPComponents{
		Database: db,
		Redis:    redisClient,
		Handler:  handler,
		Server:   server,
	}, nil
}

// Close releases the database and Redis connections.
func (h *HTTPComponents) Close() error {
	var errs []error
	if h.Redis != nil {
		errs = append(errs, h.Redis.Close())
	}
	errs = append(errs, h.Database.Close())
	return errors.Join(errs...)
}

// RunHTTP serves the API until a shutdown signal or ctx ends.
func RunHTTP(ctx context.Context, configPath string) error {
	cfg, logger, err := start(configPath, "httpd")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting complaint triage service",
		infralogger.String("version", cfg.Service.Version),
		infralogger.Int("port", cfg.Server.Port),
		infralogger.Bool("debug", cfg.Service.Debug),
	)

	comps, err := NewHTTPComponents(ctx, cfg, logger, telemetry.NewProvider())
	if err != nil {
		logger.Error("Failed to initialize HTTP components", infralogger.Error(err))
		return err
	}
	defer func() {
		if closeErr := comps.Close(); closeErr != nil {
			logger.Warn("Error closing connections", infralogger.Error(closeErr))
		}
	}()

	if err = comps.Server.Run(ctx); err != nil {
		logger.Error("HTTP server failed", infralogger.Error(err))
		return err
	}
	return nil
}
