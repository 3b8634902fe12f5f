package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/complaint-triage/internal/classifier"
	"github.com/jonesrussell/complaint-triage/internal/config"
	infraconfig "github.com/jonesrussell/complaint-triage/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "complaint-triage", cfg.Service.Name)
	assert.Equal(t, 8070, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Service.Concurrency)
	assert.Equal(t, 4, cfg.Classification.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Service.PollInterval)
	assert.Equal(t, config.VocabularyEmbedded, cfg.Classification.VocabularySource)
	assert.Equal(t, classifier.DefaultInsightThresholds(), cfg.Classification.Insights)
	assert.Equal(t, 24*time.Hour, cfg.Redis.ClassificationCacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
service:
  concurrency: 8
  batch_size: 20
  poll_interval: 5s
server:
  port: 9000
database:
  driver: sqlite3
redis:
  enabled: true
  address: redis:6379
  pool_size: 4
  dial_timeout: 500ms
  classification_cache_ttl: 1h
classification:
  vocabulary_path: /etc/triage/vocabulary.yml
  insights:
    critical_share: 0.2
    negative_share: 0.5
    min_avg_confidence: 0.6
auth:
  jwt_secret: s3cret
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Classification.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Service.PollInterval)
	assert.Equal(t, infraconfig.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "complaints.db", cfg.Database.Path)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 4, cfg.Redis.PoolSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.DialTimeout)
	assert.Equal(t, time.Hour, cfg.Redis.ClassificationCacheTTL)
	assert.Equal(t, config.VocabularyFile, cfg.Classification.VocabularySource)
	assert.InDelta(t, 0.2, cfg.Classification.Insights.CriticalShare, 1e-9)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRIAGE_PORT", "8181")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("TRIAGE_POLL_INTERVAL", "2m")

	cfg, err := config.Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Minute, cfg.Service.PollInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad driver", "database:\n  driver: mysql\n", "database.driver"},
		{"database vocabulary without postgres", "classification:\n  vocabulary_source: database\n", "classification.vocabulary_source"},
		{"unknown vocabulary source", "classification:\n  vocabulary_source: remote\n", "classification.vocabulary_source"},
		{"file source without path", "classification:\n  vocabulary_source: file\n", "classification.vocabulary_path"},
		{"poll interval too short", "service:\n  poll_interval: 10ms\n", "service.poll_interval"},
		{"port out of range", "server:\n  port: 70000\n", "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
