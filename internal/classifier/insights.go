package classifier

import "github.com/jonesrussell/complaint-triage/internal/domain"

// Recommendation texts. Dashboards match on them, so keep the wording.
const (
	RecommendCapacity      = "High number of critical complaints detected. Consider increasing response team capacity."
	RecommendCommunication = "Majority of complaints show negative sentiment. Review communication and response strategies."
	RecommendDictionaries  = "AI classification confidence is low. Consider improving keyword dictionaries and training data."
)

// InsightThresholds trigger recommendations. Shares are fractions of the
// total; each comparison is strict.
type InsightThresholds struct {
	CriticalShare    float64 `yaml:"critical_share"`
	NegativeShare    float64 `yaml:"negative_share"`
	MinAvgConfidence float64 `yaml:"min_avg_confidence"`
}

// DefaultInsightThresholds returns 10% critical, 60% negative and 0.7
// average confidence.
func DefaultInsightThresholds() InsightThresholds {
	return InsightThresholds{CriticalShare: 0.1, NegativeShare: 0.6, MinAvgConfidence: 0.7}
}

// GenerateInsights aggregates complaints with the classifier's thresholds.
func (c *Classifier) GenerateInsights(complaints []domain.ClassifiedComplaint) domain.Insights {
	return GenerateInsights(complaints, c.thresholds)
}

// GenerateInsights summarizes classified complaints. An empty input gives
// zero counts, an average confidence of 0 and the low-confidence
// recommendation.
func GenerateInsights(complaints []domain.ClassifiedComplaint, th InsightThresholds) domain.Insights {
	ins := domain.Insights{
		TotalComplaints:        len(complaints),
		TopUrgencyKeywords:     map[string]int{},
		DepartmentDistribution: map[string]int{},
		Recommendations:        []string{},
	}

	var totalConfidence float64
	for _, cc := range complaints {
		switch cc.Priority {
		case domain.PriorityCritical:
			ins.CriticalCount++
		case domain.PriorityHigh:
			ins.HighPriorityCount++
		}
		switch cc.Sentiment {
		case domain.SentimentPositive:
			ins.SentimentDistribution.Positive++
		case domain.SentimentNegative:
			ins.SentimentDistribution.Negative++
		case domain.SentimentNeutral:
			ins.SentimentDistribution.Neutral++
		}
		for _, kw := range cc.UrgencyKeywords {
			ins.TopUrgencyKeywords[kw]++
		}
		if cc.Department != "" {
			ins.DepartmentDistribution[cc.Department]++
		}
		totalConfidence += cc.Confidence
	}
	if len(complaints) > 0 {
		ins.AvgConfidence = totalConfidence / float64(len(complaints))
	}

	total := float64(len(complaints))
	if float64(ins.CriticalCount) > total*th.CriticalShare {
		ins.Recommendations = append(ins.Recommendations, RecommendCapacity)
	}
	if float64(ins.SentimentDistribution.Negative) > total*th.NegativeShare {
		ins.Recommendations = append(ins.Recommendations, RecommendCommunication)
	}
	if ins.AvgConfidence < th.MinAvgConfidence {
		ins.Recommendations = append(ins.Recommendations, RecommendDictionaries)
	}
	return ins
}
