// Package processor backfills classifications for stored complaints that
// were submitted without one.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jonesrussell/complaint-triage/internal/domain"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
	"github.com/jonesrussell/complaint-triage/internal/telemetry"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultBatchSize    = 100
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("poller already started")

// ComplaintStore reads unclassified complaints and stores results.
type ComplaintStore interface {
	ListUnclassified(ctx context.Context, limit int) ([]domain.ComplaintRecord, error)
	SaveClassification(ctx context.Context, id int64, departmentID *int64, result domain.ClassificationResult) error
}

// DepartmentResolver maps department names to row ids.
type DepartmentResolver interface {
	ResolveIDs(ctx context.Context) (map[string]int64, error)
}

// PollerConfig holds poller configuration.
type PollerConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// CycleStats summarizes one polling cycle.
type CycleStats struct {
	Found   int
	Saved   int
	Failed  int
	Skipped int
}

// Poller periodically classifies unclassified complaints and writes the
// results back through a rate limiter.
type Poller struct {
	complaints  ComplaintStore
	departments DepartmentResolver
	batch       *BatchProcessor
	limiter     *RateLimiter
	logger      infralogger.Logger
	telemetry   *telemetry.Provider

	batchSize    int
	pollInterval time.Duration

	mu       sync.Mutex
	started  bool
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a new poller.
func NewPoller(
	complaints ComplaintStore,
	departments DepartmentResolver,
	batch *BatchProcessor,
	limiter *RateLimiter,
	logger infralogger.Logger,
	tp *telemetry.Provider,
	config PollerConfig,
) *Poller {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = infralogger.NewNop()
	}
	if limiter == nil {
		limiter = NewRateLimiter(0, 0, logger)
	}

	return &Poller{
		complaints:   complaints,
		departments:  departments,
		batch:        batch,
		limiter:      limiter,
		logger:       logger,
		telemetry:    tp,
		batchSize:    config.BatchSize,
		pollInterval: config.PollInterval,
		stopChan:     make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start runs the polling loop in the background until ctx is done or
// Stop is called. A poller can be started once.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true

	p.logger.Info("Poller starting",
		infralogger.Int("batch_size", p.batchSize),
		infralogger.Duration("poll_interval", p.pollInterval),
	)

	go p.run(ctx)
	return nil
}

// Stop signals the loop to exit and waits for the current cycle to end.
// It is safe to call more than once, and before Start.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Poller stopping")
		close(p.stopChan)
	})

	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.done
	}
}

// IsRunning reports whether the loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("Backfill cycle failed", infralogger.Error(err))
		}

		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped due to context cancellation")
			return
		case <-p.stopChan:
			p.logger.Info("Poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce processes a single batch of unclassified complaints. Write
// failures are logged and counted in the stats. An error is returned when
// complaints or departments cannot be read, or when ctx ends mid-cycle.
func (p *Poller) RunOnce(ctx context.Context) (CycleStats, error) {
	var stats CycleStats

	ctx, span := p.telemetry.StartSpan(ctx, "processor.RunOnce")
	defer span.End()

	records, err := p.complaints.ListUnclassified(ctx, p.batchSize)
	if err != nil {
		return stats, fmt.Errorf("query unclassified complaints: %w", err)
	}
	stats.Found = len(records)
	span.SetAttributes(attribute.Int("backfill.found", stats.Found))
	if len(records) == 0 {
		p.logger.Debug("No unclassified complaints found")
		return stats, nil
	}
	p.telemetry.RecordPollerLag(time.Since(records[0].SubmittedAt))

	deptIDs, err := p.departments.ResolveIDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("resolve departments: %w", err)
	}

	p.logger.Info("Found unclassified complaints", infralogger.Int("count", len(records)))

	var aborted error
	for _, res := range p.batch.Process(ctx, records) {
		if res.Result.Analysis.Fallback {
			// Left unclassified so the next cycle retries it.
			stats.Skipped++
			continue
		}
		if waitErr := p.limiter.Wait(ctx); waitErr != nil {
			stats.Skipped += stats.Found - stats.Saved - stats.Failed - stats.Skipped
			aborted = waitErr
			break
		}
		if err = p.save(ctx, res, deptIDs); err != nil {
			stats.Failed++
			p.logger.Error("Failed to save classification",
				infralogger.Int64("complaint_id", res.Record.ID),
				infralogger.Error(err),
			)
			continue
		}
		stats.Saved++
	}

	if aborted == nil {
		aborted = ctx.Err()
	}

	p.telemetry.RecordBackfill(stats.Saved, stats.Failed)
	span.SetAttributes(
		attribute.Int("backfill.saved", stats.Saved),
		attribute.Int("backfill.failed", stats.Failed),
	)
	p.logger.Info("Backfill cycle complete",
		infralogger.Int("saved", stats.Saved),
		infralogger.Int("failed", stats.Failed),
		infralogger.Int("skipped", stats.Skipped),
	)
	if aborted != nil {
		return stats, fmt.Errorf("backfill interrupted: %w", aborted)
	}
	return stats, nil
}

func (p *Poller) save(ctx context.Context, res ProcessResult, deptIDs map[string]int64) error {
	var deptID *int64
	if id, ok := deptIDs[res.Result.Department]; ok {
		deptID = &id
	} else {
		p.logger.Warn("Department has no row",
			infralogger.String("department", res.Result.Department),
			infralogger.Int64("complaint_id", res.Record.ID),
		)
	}
	return p.complaints.SaveClassification(ctx, res.Record.ID, deptID, res.Result)
}
