package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/complaint-triage/internal/config"
	infragin "github.com/jonesrussell/complaint-triage/internal/infrastructure/gin"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
	"github.com/jonesrussell/complaint-triage/internal/telemetry"
)

// HealthPings are optional dependency checks for /health. Nil entries are
// not reported.
type HealthPings struct {
	Database func() error
	Redis    func() error
}

// NewServer creates a new HTTP server using the infrastructure gin package.
func NewServer(
	handler *Handler,
	cfg *config.Config,
	tp *telemetry.Provider,
	pings HealthPings,
	infraLog infralogger.Logger,
) *infragin.Server {
	b := infragin.NewServerBuilder(cfg.Service.Name, cfg.Server.Port).
		WithLogger(infraLog).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORSOrigins(cfg.Service.CORSOrigins).
		WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout, cfg.Server.ShutdownTimeout)
	if pings.Database != nil {
		b = b.WithDatabaseHealthCheck(pings.Database)
	}
	if pings.Redis != nil {
		b = b.WithRedisHealthCheck(pings.Redis)
	}

	return b.WithRoutes(func(router *gin.Engine) {
		SetupServiceRoutes(router, handler, cfg.Auth.JWTSecret, tp)
	}).Build()
}

// SetupServiceRoutes configures service-specific API routes (not health
// routes, which the infrastructure builder adds).
func SetupServiceRoutes(router *gin.Engine, handler *Handler, jwtSecret string, tp *telemetry.Provider) {
	v1 := infragin.ProtectedGroup(router, "/api/v1", jwtSecret)

	classify := v1.Group("/classify")
	classify.POST("", handler.Classify)            // POST /api/v1/classify
	classify.POST("/batch", handler.ClassifyBatch) // POST /api/v1/classify/batch

	v1.POST("/insights", handler.AnalyzeInsights) // POST /api/v1/insights
	v1.GET("/insights", handler.StoredInsights)   // GET /api/v1/insights
	v1.GET("/vocabulary", handler.Vocabulary)     // GET /api/v1/vocabulary
	v1.GET("/departments", handler.Departments)   // GET /api/v1/departments

	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(tp.Handler()))
}
