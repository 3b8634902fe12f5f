package domain

import (
	"cmp"
	"slices"
)

// ClassifiedComplaint is the stored view of a classified complaint that
// insight aggregation consumes.
type ClassifiedComplaint struct {
	ID              int64     `db:"id"               json:"id"`
	Priority        Priority  `db:"priority"         json:"priority"`
	Sentiment       Sentiment `db:"sentiment"        json:"sentiment"`
	Department      string    `db:"department"       json:"department"`
	UrgencyKeywords []string  `db:"-"                json:"urgency_keywords"`
	Confidence      float64   `db:"ai_confidence"    json:"confidence"`
}

// SentimentDistribution counts complaints per sentiment band.
type SentimentDistribution struct {
	Positive int `json:"Positive"`
	Neutral  int `json:"Neutral"`
	Negative int `json:"Negative"`
}

// Insights summarizes a set of classified complaints.
type Insights struct {
	TotalComplaints        int                   `json:"total_complaints"`
	CriticalCount          int                   `json:"critical_count"`
	HighPriorityCount      int                   `json:"high_priority_count"`
	SentimentDistribution  SentimentDistribution `json:"sentiment_distribution"`
	TopUrgencyKeywords     map[string]int        `json:"top_urgency_keywords"`
	DepartmentDistribution map[string]int        `json:"department_distribution"`
	AvgConfidence          float64               `json:"avg_confidence"`
	Recommendations        []string              `json:"recommendations"`
}

// Count is a name with an occurrence count, used for ranked views.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopKeywords returns the n most frequent urgency keywords.
func (i Insights) TopKeywords(n int) []Count { return RankCounts(i.TopUrgencyKeywords, n) }

// TopDepartments returns the n departments with the most complaints.
func (i Insights) TopDepartments(n int) []Count { return RankCounts(i.DepartmentDistribution, n) }

// RankCounts orders a frequency table by count descending, then name, and
// keeps the first n. n <= 0 keeps everything.
func RankCounts(freq map[string]int, n int) []Count {
	out := make([]Count, 0, len(freq))
	for name, count := range freq {
		out = append(out, Count{Name: name, Count: count})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
