// Package api serves the complaint-triage HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/complaint-triage/internal/classifier"
	"github.com/jonesrussell/complaint-triage/internal/database"
	"github.com/jonesrussell/complaint-triage/internal/domain"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
)

// topRankedCount caps the ranked lists in insight responses.
const topRankedCount = 10

// SuggestionCache classifies through a result cache.
type SuggestionCache interface {
	Classify(ctx context.Context, title, description string) domain.ClassificationResult
}

// ClassifiedLister reads stored classifications for insights.
type ClassifiedLister interface {
	ListClassified(ctx context.Context, department string) ([]domain.ClassifiedComplaint, error)
}

// Handler handles HTTP requests for the triage API.
type Handler struct {
	classifier *classifier.Classifier
	cache      SuggestionCache
	complaints ClassifiedLister
	logger     infralogger.Logger
}

// HandlerOption configures optional Handler collaborators.
type HandlerOption func(*Handler)

// WithCache routes single classifications through c.
func WithCache(c SuggestionCache) HandlerOption {
	return func(h *Handler) { h.cache = c }
}

// WithComplaints enables GET /insights over stored complaints.
func WithComplaints(l ClassifiedLister) HandlerOption {
	return func(h *Handler) { h.complaints = l }
}

// NewHandler creates a new API handler.
func NewHandler(c *classifier.Classifier, logger infralogger.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	h := &Handler{classifier: c, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Classify handles POST /api/v1/classify.
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.requestLogger(c).Warn("Invalid classification request", infralogger.Error(err))
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == nil && req.Description == nil {
		respondError(c, http.StatusBadRequest, "title or description is required")
		return
	}

	in := domain.ClassificationInput{Title: deref(req.Title), Description: deref(req.Description)}
	var result domain.ClassificationResult
	if h.cache != nil {
		result = h.cache.Classify(c.Request.Context(), in.Title, in.Description)
	} else {
		result = h.classifier.ClassifyInput(in)
	}

	h.requestLogger(c).Debug("Complaint classified",
		infralogger.String("priority", string(result.Priority)),
		infralogger.String("department", result.Department),
		infralogger.Float64("confidence", result.Confidence),
	)
	c.JSON(http.StatusOK, ClassifyResponse{Result: result})
}

// ClassifyBatch handles POST /api/v1/classify/batch.
func (h *Handler) ClassifyBatch(c *gin.Context) {
	var req BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.requestLogger(c).Warn("Invalid batch classification request", infralogger.Error(err))
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	results := h.classifier.ClassifyMany(c.Request.Context(), req.Items)

	h.requestLogger(c).Info("Batch classification completed", infralogger.Int("total", len(results)))
	c.JSON(http.StatusOK, BatchClassifyResponse{Results: results, Total: len(results)})
}

// AnalyzeInsights handles POST /api/v1/insights.
func (h *Handler) AnalyzeInsights(c *gin.Context) {
	var req InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateComplaints(req.Complaints); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.insightsResponse(req.Complaints))
}

// validateComplaints rejects priorities and sentiments outside the known
// tiers and bands.
func validateComplaints(complaints []domain.ClassifiedComplaint) error {
	for i, cc := range complaints {
		if !cc.Priority.Valid() {
			return fmt.Errorf("complaints[%d]: unknown priority %q", i, cc.Priority)
		}
		if !cc.Sentiment.Valid() {
			return fmt.Errorf("complaints[%d]: unknown sentiment %q", i, cc.Sentiment)
		}
	}
	return nil
}

// StoredInsights handles GET /api/v1/insights.
func (h *Handler) StoredInsights(c *gin.Context) {
	if h.complaints == nil {
		respondErr(c, database.ErrDatabaseUnavailable)
		return
	}

	department := c.Query("department")
	complaints, err := h.complaints.ListClassified(c.Request.Context(), department)
	if err != nil {
		h.requestLogger(c).Error("Failed to load classified complaints",
			infralogger.String("department", department),
			infralogger.Error(err),
		)
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, h.insightsResponse(complaints))
}

func (h *Handler) insightsResponse(complaints []domain.ClassifiedComplaint) InsightsResponse {
	ins := h.classifier.GenerateInsights(complaints)
	return InsightsResponse{
		Insights:              ins,
		RankedUrgencyKeywords: ins.TopKeywords(topRankedCount),
		RankedDepartments:     ins.TopDepartments(topRankedCount),
	}
}

// Vocabulary handles GET /api/v1/vocabulary.
func (h *Handler) Vocabulary(c *gin.Context) {
	v := h.classifier.Vocabulary()
	c.JSON(http.StatusOK, VocabularyResponse{Fingerprint: v.Fingerprint(), Vocabulary: v.Data()})
}

// Departments handles GET /api/v1/departments.
func (h *Handler) Departments(c *gin.Context) {
	v := h.classifier.Vocabulary()
	names := v.DepartmentNames()
	out := make([]DepartmentResponse, len(names))
	for i, name := range names {
		out[i] = DepartmentResponse{Name: name, Importance: v.Importance(name)}
	}
	c.JSON(http.StatusOK, DepartmentsResponse{Departments: out, Fallback: v.FallbackDepartment()})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.classifier == nil || h.classifier.Vocabulary() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// respondErr maps known errors to status codes.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrDatabaseUnavailable):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, database.ErrComplaintNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

// requestLogger returns the request-scoped logger set up by the request ID
// middleware, falling back to the handler's logger.
func (h *Handler) requestLogger(c *gin.Context) infralogger.Logger {
	return infralogger.FromContext(c.Request.Context(), h.logger)
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
