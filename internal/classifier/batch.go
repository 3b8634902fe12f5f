package classifier

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jonesrussell/complaint-triage/internal/domain"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
)

// ClassifyMany classifies items on a bounded worker pool. Results are in
// input order and always as many as items. Once ctx is done no further
// items are scheduled; the unscheduled ones get the default result with
// Analysis.Fallback set.
func (c *Classifier) ClassifyMany(ctx context.Context, items []domain.BatchItem) []domain.BatchResult {
	results := make([]domain.BatchResult, len(items))
	if len(items) == 0 {
		return results
	}

	ctx, span := c.telemetry.StartSpan(ctx, "classifier.ClassifyMany",
		attribute.Int("batch.size", len(items)))
	defer span.End()
	c.telemetry.RecordBatch(len(items))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(c.concurrency, len(items)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c.telemetry.WorkerStarted()
				it := items[i]
				results[i] = domain.BatchResult{ID: it.ID, Result: c.ClassifyInput(it.ClassificationInput)}
				c.telemetry.WorkerDone()
			}
		}()
	}

	scheduled := 0
dispatch:
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobs <- i:
			scheduled++
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if skipped := len(items) - scheduled; skipped > 0 {
		c.logger.Warn("Batch classification cancelled",
			infralogger.Int("scheduled", scheduled),
			infralogger.Int("skipped", skipped),
			infralogger.Error(ctx.Err()),
		)
		for i := scheduled; i < len(items); i++ {
			res := domain.DefaultResult(c.vocab.FallbackDepartment())
			res.Analysis.Fallback = true
			results[i] = domain.BatchResult{ID: items[i].ID, Result: res}
		}
		span.SetAttributes(attribute.Int("batch.skipped", skipped))
	}
	return results
}
