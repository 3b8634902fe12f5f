// Package domain holds the types that flow between the classifier, the
// API, the repositories and the backfill processor.
package domain

// Priority is the ordinal severity assigned to a complaint.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Rank orders priorities: Critical=4 down to Low=1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the four tiers.
func (p Priority) Valid() bool { return p.Rank() > 0 }

// Sentiment is the collapsed polarity of a complaint.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Valid reports whether s is one of the three bands.
func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNeutral || s == SentimentNegative
}

// ClassificationInput is the text a complaint is classified from. Either
// field may be empty.
type ClassificationInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Analysis carries the intermediate numbers behind a result. It is
// informational only.
type Analysis struct {
	TextLength     int     `json:"text_length"`
	WordCount      int     `json:"word_count"`
	UrgencyScore   int     `json:"urgency_score"`
	SentimentScore int     `json:"sentiment_score"`
	PriorityScore  float64 `json:"priority_score"`
	Fallback       bool    `json:"fallback,omitempty"`
}

// ClassificationResult is the outcome of classifying one complaint.
// Slices are never nil so they serialize as [].
type ClassificationResult struct {
	Priority        Priority  `json:"priority"`
	Sentiment       Sentiment `json:"sentiment"`
	Department      string    `json:"department"`
	UrgencyKeywords []string  `json:"urgency_keywords"`
	Tags            []string  `json:"tags"`
	Confidence      float64   `json:"confidence"`
	Analysis        Analysis  `json:"analysis"`
}

// DefaultConfidence is the confidence of a result with no evidence.
const DefaultConfidence = 0.5

// DefaultResult is substituted for empty input and for internal failures.
func DefaultResult(department string) ClassificationResult {
	return ClassificationResult{
		Priority:        PriorityLow,
		Sentiment:       SentimentNeutral,
		Department:      department,
		UrgencyKeywords: []string{},
		Tags:            []string{},
		Confidence:      DefaultConfidence,
	}
}

// BatchItem is one entry of a batch classification request.
type BatchItem struct {
	ID string `json:"id"`
	ClassificationInput
}

// BatchResult pairs a batch item ID with its result.
type BatchResult struct {
	ID     string               `json:"id"`
	Result ClassificationResult `json:"result"`
}
