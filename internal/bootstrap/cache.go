package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/complaint-triage/internal/cache"
	"github.com/jonesrussell/complaint-triage/internal/classifier"
	"github.com/jonesrussell/complaint-triage/internal/config"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
	infraredis "github.com/jonesrussell/complaint-triage/internal/infrastructure/redis"
	"github.com/jonesrussell/complaint-triage/internal/telemetry"
)

// SetupCache connects the suggestion cache when Redis is enabled. The
// cache is optional: connection failures are logged and nil is returned.
func SetupCache(
	ctx context.Context,
	cfg *config.Config,
	c *classifier.Classifier,
	logger infralogger.Logger,
	tp *telemetry.Provider,
) (*cache.ClassificationCache, *redis.Client) {
	if !cfg.Redis.Enabled {
		logger.Info("Suggestion cache disabled")
		return nil, nil
	}

	client, err := infraredis.Connect(ctx, cfg.Redis.Config)
	if err != nil {
		logger.Warn("Redis unavailable, suggestion cache disabled",
			infralogger.String("address", cfg.Redis.Address),
			infralogger.Error(err),
		)
		return nil, nil
	}

	logger.Info("Suggestion cache enabled",
		infralogger.String("address", cfg.Redis.Address),
		infralogger.Duration("ttl", cfg.Redis.ClassificationCacheTTL),
	)
	return cache.NewClassificationCache(
		client, c, c.Vocabulary().Fingerprint(), cfg.Redis.ClassificationCacheTTL, logger, tp,
	), client
}
