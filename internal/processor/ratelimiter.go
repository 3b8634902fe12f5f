package processor

import (
	"context"

	"golang.org/x/time/rate"

	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
)

const defaultWritesPerSecond = 50

// RateLimiter paces database writes.
type RateLimiter struct {
	limiter *rate.Limiter
	logger  infralogger.Logger
}

// NewRateLimiter creates a limiter allowing rps operations per second with
// the given burst. Non-positive values fall back to 50/s and a burst of rps.
func NewRateLimiter(rps, burst int, logger infralogger.Logger) *RateLimiter {
	if rps <= 0 {
		rps = defaultWritesPerSecond
	}
	if burst <= 0 {
		burst = rps
	}
	if logger == nil {
		logger = infralogger.NewNop()
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// Wait blocks until an operation is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Debug("Rate limiter wait aborted", infralogger.Error(err))
		return err
	}
	return nil
}

// Limit reports the configured rate per second.
func (r *RateLimiter) Limit() float64 {
	return float64(r.limiter.Limit())
}
