package processor

import (
	"context"
	"strconv"
	"time"

	"github.com/jonesrussell/complaint-triage/internal/classifier"
	"github.com/jonesrussell/complaint-triage/internal/domain"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
)

// BatchProcessor classifies complaint records in parallel. The worker
// pool size is the classifier's configured concurrency.
type BatchProcessor struct {
	classifier *classifier.Classifier
	logger     infralogger.Logger
}

// ProcessResult pairs a record with its classification.
type ProcessResult struct {
	Record domain.ComplaintRecord
	Result domain.ClassificationResult
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(c *classifier.Classifier, logger infralogger.Logger) *BatchProcessor {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &BatchProcessor{classifier: c, logger: logger}
}

// Process classifies records and returns one result per record in input
// order. Records left unscheduled by a cancelled ctx come back with
// Analysis.Fallback set.
func (b *BatchProcessor) Process(ctx context.Context, records []domain.ComplaintRecord) []ProcessResult {
	if len(records) == 0 {
		return []ProcessResult{}
	}

	start := time.Now()
	items := make([]domain.BatchItem, len(records))
	for i, r := range records {
		items[i] = domain.BatchItem{ID: strconv.FormatInt(r.ID, 10), ClassificationInput: r.Input()}
	}

	classified := b.classifier.ClassifyMany(ctx, items)

	results := make([]ProcessResult, len(records))
	fallbacks := 0
	for i, r := range records {
		results[i] = ProcessResult{Record: r, Result: classified[i].Result}
		if classified[i].Result.Analysis.Fallback {
			fallbacks++
		}
	}

	duration := time.Since(start)
	b.logger.Info("Batch processing complete",
		infralogger.Int("total", len(records)),
		infralogger.Int("fallbacks", fallbacks),
		infralogger.Int64("duration_ms", duration.Milliseconds()),
	)
	return results
}
