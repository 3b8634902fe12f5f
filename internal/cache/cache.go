// Package cache keeps recent classification results in Redis so repeated
// suggestion requests for the same text skip the classifier.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/complaint-triage/internal/domain"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
	"github.com/jonesrussell/complaint-triage/internal/telemetry"
)

const (
	keyPrefix = "triage:classification:"
	// DefaultTTL applies when NewClassificationCache is given a zero TTL.
	DefaultTTL = 24 * time.Hour
)

// Classifier is the subset of classifier.Classifier the cache wraps.
type Classifier interface {
	Classify(title, description string) domain.ClassificationResult
}

// ClassificationCache serves classifications from Redis and falls through
// to the classifier on a miss. Redis failures are logged and counted but
// never surface to callers.
type ClassificationCache struct {
	client      *redis.Client
	classifier  Classifier
	fingerprint string
	ttl         time.Duration
	logger      infralogger.Logger
	telemetry   *telemetry.Provider
}

// NewClassificationCache wraps c. fingerprint identifies the vocabulary
// so results from an older vocabulary are never served.
func NewClassificationCache(
	client *redis.Client,
	c Classifier,
	fingerprint string,
	ttl time.Duration,
	logger infralogger.Logger,
	tp *telemetry.Provider,
) *ClassificationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &ClassificationCache{
		client:      client,
		classifier:  c,
		fingerprint: fingerprint,
		ttl:         ttl,
		logger:      logger,
		telemetry:   tp,
	}
}

// Key returns the Redis key for a title and description.
func (c *ClassificationCache) Key(title, description string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + description))
	return keyPrefix + c.fingerprint + ":" + hex.EncodeToString(sum[:])
}

// Classify returns the cached result for the text, classifying and
// storing it on a miss.
func (c *ClassificationCache) Classify(ctx context.Context, title, description string) domain.ClassificationResult {
	key := c.Key(title, description)

	if res, ok := c.get(ctx, key); ok {
		return res
	}

	res := c.classifier.Classify(title, description)
	if res.Analysis.Fallback {
		return res
	}
	if err := c.set(ctx, key, res); err != nil {
		c.logger.Warn("Failed to cache classification",
			infralogger.String("key", key),
			infralogger.Error(err),
		)
	}
	return res
}

func (c *ClassificationCache) get(ctx context.Context, key string) (domain.ClassificationResult, bool) {
	var res domain.ClassificationResult

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.telemetry.RecordCache(telemetry.CacheMiss)
		return res, false
	}
	if err != nil {
		c.telemetry.RecordCache(telemetry.CacheError)
		c.logger.Warn("Classification cache read failed",
			infralogger.String("key", key),
			infralogger.Error(err),
		)
		return res, false
	}

	if err = json.Unmarshal(raw, &res); err != nil {
		c.telemetry.RecordCache(telemetry.CacheError)
		c.logger.Warn("Discarding corrupt cache entry",
			infralogger.String("key", key),
			infralogger.Error(err),
		)
		return res, false
	}
	c.telemetry.RecordCache(telemetry.CacheHit)
	return res, true
}

func (c *ClassificationCache) set(ctx context.Context, key string, res domain.ClassificationResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode classification: %w", err)
	}
	if err = c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
