package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/complaint-triage/internal/infrastructure/jwt"
	"github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
)

// ServerBuilder assembles a Server.
type ServerBuilder struct {
	config      *Config
	logger      logger.Logger
	setupRoutes func(*gin.Engine)
	checks      map[string]HealthChecker
}

// NewServerBuilder starts a builder for serviceName listening on port.
func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		config: &Config{ServiceName: serviceName, Port: port, CORS: CORSConfig{Enabled: true}},
		checks: make(map[string]HealthChecker),
	}
}

func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.logger = log
	return b
}

func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.config.Debug = debug
	return b
}

func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.config.ServiceVersion = version
	return b
}

func (b *ServerBuilder) WithCORSOrigins(origins []string) *ServerBuilder {
	b.config.CORS.AllowedOrigins = origins
	return b
}

// WithTimeouts sets read, write, idle and shutdown timeouts. Zero keeps
// the default.
func (b *ServerBuilder) WithTimeouts(read, write, idle, shutdown time.Duration) *ServerBuilder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	b.config.ShutdownTimeout = shutdown
	return b
}

// WithHealthCheck registers a named dependency check reported by /health.
func (b *ServerBuilder) WithHealthCheck(name string, checker HealthChecker) *ServerBuilder {
	b.checks[name] = checker
	return b
}

func (b *ServerBuilder) WithDatabaseHealthCheck(ping func() error) *ServerBuilder {
	return b.WithHealthCheck("database", DatabaseHealthChecker(ping))
}

func (b *ServerBuilder) WithRedisHealthCheck(ping func() error) *ServerBuilder {
	return b.WithHealthCheck("redis", RedisHealthChecker(ping))
}

func (b *ServerBuilder) WithRoutes(setup func(*gin.Engine)) *ServerBuilder {
	b.setupRoutes = setup
	return b
}

// Build creates the Server. Health routes are registered before the
// service routes.
func (b *ServerBuilder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.NewNop()
	}
	checks := b.checks
	setup := func(router *gin.Engine) {
		RegisterHealthRoutes(router, HealthOptions{
			ServiceName:    b.config.ServiceName,
			ServiceVersion: b.config.ServiceVersion,
			Checks:         checks,
		})
		if b.setupRoutes != nil {
			b.setupRoutes(router)
		}
	}
	return NewServer(b.config, b.logger, setup)
}

// ProtectedGroup returns a route group guarded by JWT when secret is set.
// An empty secret leaves the group open, which is how local runs work.
func ProtectedGroup(router *gin.Engine, path, secret string) *gin.RouterGroup {
	group := router.Group(path)
	if secret != "" {
		group.Use(jwt.Middleware(secret))
	}
	return group
}
