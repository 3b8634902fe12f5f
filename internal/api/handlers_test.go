package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/complaint-triage/internal/api"
	"github.com/jonesrussell/complaint-triage/internal/classifier"
	"github.com/jonesrussell/complaint-triage/internal/domain"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
)

type stubCache struct {
	calls  int
	result domain.ClassificationResult
}

func (s *stubCache) Classify(_ context.Context, _, _ string) domain.ClassificationResult {
	s.calls++
	return s.result
}

type stubLister struct {
	department string
	rows       []domain.ClassifiedComplaint
	err        error
}

func (s *stubLister) ListClassified(_ context.Context, department string) ([]domain.ClassifiedComplaint, error) {
	s.department = department
	return s.rows, s.err
}

func newClassifier(t *testing.T) *classifier.Classifier {
	t.Helper()
	vocab, err := classifier.DefaultVocabulary()
	require.NoError(t, err)
	return classifier.New(vocab, infralogger.NewNop(), nil, classifier.Config{})
}

func newRouter(t *testing.T, secret string, opts ...api.HandlerOption) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.SetupServiceRoutes(router, api.NewHandler(newClassifier(t), infralogger.NewNop(), opts...), secret, nil)
	return router
}

func do(router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestClassify(t *testing.T) {
	t.Parallel()
	router := newRouter(t, "")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDept   string
		wantPrio   domain.Priority
	}{
		{
			name:       "gas leak",
			body:       `{"title":"Urgent gas leak","description":"Dangerous gas leak near school, immediate evacuation needed"}`,
			wantStatus: http.StatusOK,
			wantDept:   "Fire Department",
			wantPrio:   domain.PriorityCritical,
		},
		{
			name:       "description only",
			body:       `{"description":"Loud music from a party next door"}`,
			wantStatus: http.StatusOK,
			wantDept:   "Police Department",
			wantPrio:   domain.PriorityLow,
		},
		{
			name:       "empty strings are accepted",
			body:       `{"title":"","description":""}`,
			wantStatus: http.StatusOK,
			wantDept:   "Public Works",
			wantPrio:   domain.PriorityLow,
		},
		{name: "no fields", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{"title":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(router, http.MethodPost, "/api/v1/classify", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, decode[map[string]string](t, w), "error")
				return
			}
			resp := decode[api.ClassifyResponse](t, w)
			assert.Equal(t, tt.wantDept, resp.Result.Department)
			assert.Equal(t, tt.wantPrio, resp.Result.Priority)
		})
	}
}

func TestClassify_UsesCache(t *testing.T) {
	t.Parallel()

	cached := domain.DefaultResult("Sanitation")
	cached.Confidence = 0.9
	stub := &stubCache{result: cached}
	router := newRouter(t, "", api.WithCache(stub))

	w := do(router, http.MethodPost, "/api/v1/classify", `{"title":"bins"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "Sanitation", decode[api.ClassifyResponse](t, w).Result.Department)
}

func TestClassifyBatch(t *testing.T) {
	t.Parallel()
	router := newRouter(t, "")

	body := `{"items":[
		{"id":"a","title":"Pothole on Elm Street","description":"A medium-sized pothole has formed near the curb"},
		{"id":"b","title":"Fire","description":"Smoke and fire in the building, emergency"}
	]}`
	w := do(router, http.MethodPost, "/api/v1/classify/batch", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[api.BatchClassifyResponse](t, w)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "a", resp.Results[0].ID)
	assert.Equal(t, "Public Works", resp.Results[0].Result.Department)
	assert.Equal(t, "b", resp.Results[1].ID)
	assert.Equal(t, "Fire Department", resp.Results[1].Result.Department)
}

func TestClassifyBatch_Bounds(t *testing.T) {
	t.Parallel()
	router := newRouter(t, "")

	items := make([]string, 101)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":"%d","title":"t"}`, i)
	}

	tests := []struct {
		name string
		body string
	}{
		{"empty", `{"items":[]}`},
		{"missing", `{}`},
		{"too many", `{"items":[` + strings.Join(items, ",") + `]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(router, http.MethodPost, "/api/v1/classify/batch", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAnalyzeInsights(t *testing.T) {
	t.Parallel()
	router := newRouter(t, "")

	payload := map[string]any{"complaints": []domain.ClassifiedComplaint{
		{Priority: domain.PriorityCritical, Sentiment: domain.SentimentNegative, Department: "Fire Department",
			UrgencyKeywords: []string{"fire", "smoke"}, Confidence: 0.9},
		{Priority: domain.PriorityLow, Sentiment: domain.SentimentNeutral, Department: "Public Works",
			UrgencyKeywords: []string{"fire"}, Confidence: 0.8},
	}}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	w := do(router, http.MethodPost, "/api/v1/insights", string(raw))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[api.InsightsResponse](t, w)
	assert.Equal(t, 2, resp.TotalComplaints)
	assert.Equal(t, 1, resp.CriticalCount)
	assert.Equal(t, []domain.Count{{Name: "fire", Count: 2}, {Name: "smoke", Count: 1}}, resp.RankedUrgencyKeywords)
	assert.Equal(t, []domain.Count{{Name: "Fire Department", Count: 1}, {Name: "Public Works", Count: 1}}, resp.RankedDepartments)
	assert.Equal(t, []string{classifier.RecommendCapacity}, resp.Recommendations)

	w = do(router, http.MethodPost, "/api/v1/insights", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeInsights_RejectsUnknownValues(t *testing.T) {
	t.Parallel()
	router := newRouter(t, "")

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown priority",
			body:    `{"complaints":[{"priority":"Low","sentiment":"Neutral"},{"priority":"Urgent","sentiment":"Neutral"}]}`,
			wantErr: `complaints[1]: unknown priority "Urgent"`,
		},
		{
			name:    "unknown sentiment",
			body:    `{"complaints":[{"priority":"High","sentiment":"Angry"}]}`,
			wantErr: `complaints[0]: unknown sentiment "Angry"`,
		},
		{
			name:    "missing priority",
			body:    `{"complaints":[{"sentiment":"Positive"}]}`,
			wantErr: `complaints[0]: unknown priority ""`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(router, http.MethodPost, "/api/v1/insights", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.wantErr, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestStoredInsights(t *testing.T) {
	t.Parallel()

	t.Run("no database", func(t *testing.T) {
		t.Parallel()
		w := do(newRouter(t, ""), http.MethodGet, "/api/v1/insights", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("filtered", func(t *testing.T) {
		t.Parallel()
		lister := &stubLister{rows: []domain.ClassifiedComplaint{
			{Priority: domain.PriorityHigh, Sentiment: domain.SentimentNegative, Department: "Sanitation", Confidence: 0.8},
		}}
		w := do(newRouter(t, "", api.WithComplaints(lister)), http.MethodGet, "/api/v1/insights?department=Sanitation", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Sanitation", lister.department)
		assert.Equal(t, 1, decode[api.InsightsResponse](t, w).HighPriorityCount)
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		lister := &stubLister{err: errors.New("connection reset")}
		w := do(newRouter(t, "", api.WithComplaints(lister)), http.MethodGet, "/api/v1/insights", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestVocabularyAndDepartments(t *testing.T) {
	t.Parallel()
	router := newRouter(t, "")
	vocab, err := classifier.DefaultVocabulary()
	require.NoError(t, err)

	w := do(router, http.MethodGet, "/api/v1/vocabulary", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[api.VocabularyResponse](t, w)
	assert.Equal(t, vocab.Fingerprint(), v.Fingerprint)
	assert.Len(t, v.Vocabulary.Urgency, len(vocab.Data().Urgency))

	w = do(router, http.MethodGet, "/api/v1/departments", "")
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[api.DepartmentsResponse](t, w)
	require.Len(t, d.Departments, 6)
	assert.Equal(t, api.DepartmentResponse{Name: "Public Works", Importance: 3}, d.Departments[0])
	assert.Equal(t, "Public Works", d.Fallback)
}

func TestReadyAndMetrics(t *testing.T) {
	t.Parallel()
	router := newRouter(t, "")

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/metrics", "").Code)
}

func TestJWTProtection(t *testing.T) {
	t.Parallel()
	const secret = "test-secret"
	router := newRouter(t, secret)

	w := do(router, http.MethodGet, "/api/v1/departments", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "clerk-7",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	w = do(router, http.MethodGet, "/api/v1/departments", "", "Authorization", "Bearer "+signed)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health endpoints stay open.
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/ready", "").Code)
}
