package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/complaint-triage/internal/classifier"
	"github.com/jonesrussell/complaint-triage/internal/config"
	"github.com/jonesrussell/complaint-triage/internal/database"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
	"github.com/jonesrussell/complaint-triage/internal/telemetry"
)

const rulesLoadTimeout = 10 * time.Second

// LoadVocabulary returns the vocabulary selected by
// classification.vocabulary_source.
func LoadVocabulary(
	cfg *config.Config,
	db *DatabaseComponents,
	logger infralogger.Logger,
) (*classifier.Vocabulary, error) {
	var (
		vocab *classifier.Vocabulary
		err   error
	)

	switch cfg.Classification.VocabularySource {
	case config.VocabularyFile:
		vocab, err = classifier.LoadVocabulary(cfg.Classification.VocabularyPath)
	case config.VocabularyDatabase:
		vocab, err = vocabularyFromDatabase(db)
	default:
		vocab, err = classifier.DefaultVocabulary()
	}
	if err != nil {
		return nil, fmt.Errorf("load %s vocabulary: %w", cfg.Classification.VocabularySource, err)
	}

	data := vocab.Data()
	logger.Info("Vocabulary loaded",
		infralogger.String("source", cfg.Classification.VocabularySource),
		infralogger.String("fingerprint", vocab.Fingerprint()),
		infralogger.Int("urgency_terms", len(data.Urgency)),
		infralogger.Int("departments", len(data.Departments)),
	)
	return vocab, nil
}

func vocabularyFromDatabase(db *DatabaseComponents) (*classifier.Vocabulary, error) {
	if db == nil {
		return nil, database.ErrDatabaseUnavailable
	}
	base, err := classifier.DefaultVocabulary()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rulesLoadTimeout)
	defer cancel()

	rules, err := db.Rules.ListVocabularyRules(ctx)
	if err != nil {
		return nil, err
	}
	return classifier.VocabularyFromRules(rules, base.Data())
}

// NewClassifier builds the classifier from configuration.
func NewClassifier(
	cfg *config.Config,
	vocab *classifier.Vocabulary,
	logger infralogger.Logger,
	tp *telemetry.Provider,
) *classifier.Classifier {
	c := classifier.New(vocab, logger, tp, classifier.Config{
		Concurrency: cfg.Classification.Concurrency,
		Thresholds:  cfg.Classification.Insights,
	})
	logger.Info("Classifier initialized", infralogger.Int("concurrency", cfg.Classification.Concurrency))
	return c
}
