// Package classifier triages municipal complaints. From a title and a
// description it derives priority, sentiment, the responsible department,
// urgency keywords, tags and a confidence score, using keyword
// dictionaries and a fixed linear scoring formula.
package classifier

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/jonesrussell/complaint-triage/internal/domain"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
	"github.com/jonesrussell/complaint-triage/internal/telemetry"
)

// Result caps.
const (
	MaxUrgencyKeywords = 10
	MaxTags            = 12
)

// Priority score weights.
const (
	urgencyWeight       = 4.0
	sentimentWeight     = 2.0
	densityWeight       = 1.0
	lengthWeight        = 0.5
	sentimentNormalizer = 10.0
	densityScale        = 100.0
	lengthSaturation    = 500.0
)

// Priority tier cut-offs. A tier is reached by score or by match count.
const (
	criticalScore   = 12.0
	criticalMatches = 4
	highScore       = 8.0
	highMatches     = 3
	mediumScore     = 4.0
	mediumMatches   = 1
)

// Confidence contributions.
const (
	deptMatchSaturation    = 3.0
	deptMatchWeight        = 0.3
	urgencyMatchSaturation = 2.0
	urgencyMatchWeight     = 0.2
	confLengthSaturation   = 200.0
	confLengthWeight       = 0.1
)

const defaultConcurrency = 4

// Config tunes a Classifier.
type Config struct {
	// Concurrency bounds ClassifyMany workers.
	Concurrency int
	Thresholds  InsightThresholds
}

// Classifier is safe for concurrent use. It holds no mutable state.
type Classifier struct {
	vocab       *Vocabulary
	logger      infralogger.Logger
	telemetry   *telemetry.Provider
	concurrency int
	thresholds  InsightThresholds
}

// New returns a Classifier over vocab. tp may be nil.
func New(vocab *Vocabulary, logger infralogger.Logger, tp *telemetry.Provider, cfg Config) *Classifier {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Thresholds == (InsightThresholds{}) {
		cfg.Thresholds = DefaultInsightThresholds()
	}
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &Classifier{
		vocab:       vocab,
		logger:      logger,
		telemetry:   tp,
		concurrency: cfg.Concurrency,
		thresholds:  cfg.Thresholds,
	}
}

// Vocabulary returns the dictionaries the classifier scores against.
func (c *Classifier) Vocabulary() *Vocabulary { return c.vocab }

// ClassifyInput classifies in.
func (c *Classifier) ClassifyInput(in domain.ClassificationInput) domain.ClassificationResult {
	return c.Classify(in.Title, in.Description)
}

// Classify never fails. Blank input yields the default result, and so does
// any internal panic, with Analysis.Fallback set.
func (c *Classifier) Classify(title, description string) (result domain.ClassificationResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Classification failed, using default result",
				infralogger.Any("panic", r),
				infralogger.Int("title_length", len(title)),
				infralogger.Int("description_length", len(description)),
			)
			result = domain.DefaultResult(c.vocab.FallbackDepartment())
			result.Analysis.Fallback = true
		}
		c.telemetry.RecordClassification(string(result.Priority), result.Department,
			result.Analysis.Fallback, time.Since(start))
	}()

	return c.vocab.classify(title, description)
}

// corpus joins title and description with a space and lowercases them.
func corpus(title, description string) string {
	// A Caser carries state, so one per call.
	return cases.Lower(language.Und).String(norm.NFC.String(title + " " + description))
}

func (v *Vocabulary) classify(title, description string) domain.ClassificationResult {
	text := corpus(title, description)
	if strings.TrimSpace(text) == "" {
		return domain.DefaultResult(v.data.FallbackDepartment)
	}

	textLength := utf8.RuneCountInString(text)
	wordCount := len(strings.Fields(text))
	present := v.terms.present(text)

	urgency := filterPresent(v.data.Urgency, present)
	sentiment := v.sentimentScore(text)
	score := priorityScore(len(urgency), sentiment, wordCount, textLength)
	department, deptMatches := v.department(text, present)

	keywords := urgency[:min(len(urgency), MaxUrgencyKeywords)]

	return domain.ClassificationResult{
		Priority:        priorityTier(score, len(urgency)),
		Sentiment:       sentimentBand(sentiment),
		Department:      department,
		UrgencyKeywords: keywords,
		Tags:            v.tags(present),
		Confidence:      confidence(deptMatches, len(keywords), textLength),
		Analysis: domain.Analysis{
			TextLength:     textLength,
			WordCount:      wordCount,
			UrgencyScore:   len(keywords),
			SentimentScore: sentiment,
			PriorityScore:  score,
		},
	}
}

func priorityScore(urgencyMatches, sentiment, wordCount, textLength int) float64 {
	density := 0.0
	if wordCount > 0 {
		density = float64(urgencyMatches) / float64(wordCount)
	}
	lengthFactor := math.Min(float64(textLength)/lengthSaturation, 1)

	return float64(urgencyMatches)*urgencyWeight +
		math.Abs(float64(sentiment))/sentimentNormalizer*sentimentWeight +
		density*densityScale*densityWeight +
		lengthFactor*lengthWeight
}

func priorityTier(score float64, urgencyMatches int) domain.Priority {
	switch {
	case score >= criticalScore || urgencyMatches >= criticalMatches:
		return domain.PriorityCritical
	case score >= highScore || urgencyMatches >= highMatches:
		return domain.PriorityHigh
	case score >= mediumScore || urgencyMatches >= mediumMatches:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func confidence(deptMatches, urgencyKeywords, textLength int) float64 {
	conf := domain.DefaultConfidence
	conf += math.Min(float64(deptMatches)/deptMatchSaturation, 1) * deptMatchWeight
	conf += math.Min(float64(urgencyKeywords)/urgencyMatchSaturation, 1) * urgencyMatchWeight
	conf += math.Min(float64(textLength)/confLengthSaturation, 1) * confLengthWeight
	return math.Max(0, math.Min(conf, 1))
}

// tags lists matched department terms (department order), then urgency
// terms, then location terms, without repeats.
func (v *Vocabulary) tags(present map[string]struct{}) []string {
	tags := make([]string, 0, MaxTags)
	seen := make(map[string]struct{}, MaxTags)
	add := func(terms []string) {
		for _, t := range terms {
			if len(tags) == MaxTags {
				return
			}
			if _, ok := present[t]; !ok {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	for _, d := range v.data.Departments {
		add(d.Keywords)
	}
	add(v.data.Urgency)
	add(v.data.Locations)
	return tags
}

// filterPresent keeps the terms found in present, in list order. It never
// returns nil.
func filterPresent(terms []string, present map[string]struct{}) []string {
	out := make([]string, 0)
	for _, t := range terms {
		if _, ok := present[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
