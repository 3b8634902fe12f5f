package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/complaint-triage/internal/infrastructure/jwt"
)

const testSecret = "triage-test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(jwt.Middleware(testSecret))
	r.GET("/api/v1/whoami", func(c *gin.Context) {
		claims, ok := jwt.GetClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Sub)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func sign(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
		Sub:              "clerk-7",
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(exp)},
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	valid := sign(t, testSecret, time.Now().Add(time.Hour))
	expired := sign(t, testSecret, time.Now().Add(-time.Hour))
	wrongKey := sign(t, "other", time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"valid token", "/api/v1/whoami", "Bearer " + valid, http.StatusOK},
		{"missing header", "/api/v1/whoami", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/v1/whoami", "Token " + valid, http.StatusUnauthorized},
		{"expired", "/api/v1/whoami", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "/api/v1/whoami", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"health bypass", "/health", "", http.StatusOK},
	}

	router := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK && tt.path != "/health" {
				assert.Equal(t, "clerk-7", w.Body.String())
			}
		})
	}
}
