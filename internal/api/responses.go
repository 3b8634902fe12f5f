package api

import (
	"github.com/jonesrussell/complaint-triage/internal/classifier"
	"github.com/jonesrussell/complaint-triage/internal/domain"
)

// ClassifyRequest is the body of POST /classify. A field that is absent
// is nil; at least one must be present.
type ClassifyRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ClassifyResponse wraps a single result.
type ClassifyResponse struct {
	Result domain.ClassificationResult `json:"result"`
}

// BatchClassifyRequest is the body of POST /classify/batch. It carries
// 1 to 100 items.
type BatchClassifyRequest struct {
	Items []domain.BatchItem `binding:"required,min=1,max=100" json:"items"`
}

// BatchClassifyResponse holds results in request order.
type BatchClassifyResponse struct {
	Results []domain.BatchResult `json:"results"`
	Total   int                  `json:"total"`
}

// InsightsRequest is the body of POST /insights.
type InsightsRequest struct {
	Complaints []domain.ClassifiedComplaint `binding:"required" json:"complaints"`
}

// InsightsResponse adds ranked keyword and department lists to the aggregate.
type InsightsResponse struct {
	domain.Insights
	RankedUrgencyKeywords []domain.Count `json:"ranked_urgency_keywords"`
	RankedDepartments     []domain.Count `json:"ranked_departments"`
}

// VocabularyResponse is the body of GET /vocabulary.
type VocabularyResponse struct {
	Fingerprint string                    `json:"fingerprint"`
	Vocabulary  classifier.VocabularyData `json:"vocabulary"`
}

// DepartmentResponse is one routing target.
type DepartmentResponse struct {
	Name       string `json:"name"`
	Importance int    `json:"importance"`
}

// DepartmentsResponse lists departments in tie-break order.
type DepartmentsResponse struct {
	Departments []DepartmentResponse `json:"departments"`
	Fallback    string               `json:"fallback"`
}
