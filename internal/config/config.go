// Package config defines the complaint-triage service configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/complaint-triage/internal/classifier"
	infraconfig "github.com/jonesrussell/complaint-triage/internal/infrastructure/config"
	infraredis "github.com/jonesrussell/complaint-triage/internal/infrastructure/redis"
)

// Default configuration values.
const (
	defaultServiceName       = "complaint-triage"
	defaultServiceVersion    = "1.0.0"
	defaultConcurrency       = 4
	defaultBatchSize         = 100
	defaultPollInterval      = 30 * time.Second
	defaultDBWritesPerSecond = 50
	defaultRedisAddress      = "localhost:6379"
	defaultCacheTTL          = 24 * time.Hour
)

// Vocabulary sources.
const (
	VocabularyEmbedded = "embedded"
	VocabularyFile     = "file"
	VocabularyDatabase = "database"
)

// Config holds all configuration for the complaint-triage service.
type Config struct {
	Service        ServiceConfig              `yaml:"service"`
	Server         infraconfig.ServerConfig   `yaml:"server"`
	Database       infraconfig.DatabaseConfig `yaml:"database"`
	Redis          RedisConfig                `yaml:"redis"`
	Logging        infraconfig.LoggingConfig  `yaml:"logging"`
	Classification ClassificationConfig       `yaml:"classification"`
	Auth           AuthConfig                 `yaml:"auth"`
}

// ServiceConfig holds service-level and backfill settings.
type ServiceConfig struct {
	Name              string        `yaml:"name"`
	Version           string        `yaml:"version"`
	Debug             bool          `env:"APP_DEBUG"           yaml:"debug"`
	Concurrency       int           `env:"TRIAGE_CONCURRENCY"  yaml:"concurrency"`
	BatchSize         int           `yaml:"batch_size"`
	PollInterval      time.Duration `env:"TRIAGE_POLL_INTERVAL" yaml:"poll_interval"`
	DBWritesPerSecond int           `yaml:"db_writes_per_second"`
	CORSOrigins       []string      `env:"CORS_ORIGINS"        yaml:"cors_origins"`
}

// RedisConfig holds the suggestion cache settings.
type RedisConfig struct {
	Enabled                bool `env:"REDIS_ENABLED" yaml:"enabled"`
	infraredis.Config      `yaml:",inline"`
	ClassificationCacheTTL time.Duration `yaml:"classification_cache_ttl"`
}

// ClassificationConfig selects the vocabulary and tunes the classifier.
type ClassificationConfig struct {
	VocabularySource string                       `env:"TRIAGE_VOCABULARY_SOURCE" yaml:"vocabulary_source"`
	VocabularyPath   string                       `env:"TRIAGE_VOCABULARY_PATH"   yaml:"vocabulary_path"`
	Concurrency      int                          `yaml:"concurrency"`
	Insights         classifier.InsightThresholds `yaml:"insights"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	cfg.Server.SetDefaults()
	cfg.Database.SetDefaults()
	setRedisDefaults(&cfg.Redis)
	cfg.Logging.SetDefaults()
	setClassificationDefaults(&cfg.Classification, cfg.Service.Concurrency)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.BatchSize == 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.PollInterval == 0 {
		s.PollInterval = defaultPollInterval
	}
	if s.DBWritesPerSecond == 0 {
		s.DBWritesPerSecond = defaultDBWritesPerSecond
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.Address == "" {
		r.Address = defaultRedisAddress
	}
	if r.ClassificationCacheTTL == 0 {
		r.ClassificationCacheTTL = defaultCacheTTL
	}
}

func setClassificationDefaults(c *ClassificationConfig, serviceConcurrency int) {
	if c.VocabularySource == "" {
		if c.VocabularyPath != "" {
			c.VocabularySource = VocabularyFile
		} else {
			c.VocabularySource = VocabularyEmbedded
		}
	}
	if c.Concurrency == 0 {
		c.Concurrency = serviceConcurrency
	}
	if c.Insights == (classifier.InsightThresholds{}) {
		c.Insights = classifier.DefaultInsightThresholds()
	}
}

// Validate checks every section and joins the failures.
func (c *Config) Validate() error {
	var errs []error
	for _, v := range []infraconfig.Validator{&c.Server, &c.Database, &c.Logging, &c.Service, &c.Classification} {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Classification.VocabularySource == VocabularyDatabase && c.Database.Driver != infraconfig.DriverPostgres {
		errs = append(errs, &infraconfig.ValidationError{
			Field:   "classification.vocabulary_source",
			Message: "database vocabularies need the postgres driver",
		})
	}
	return errors.Join(errs...)
}

// Validate checks ServiceConfig.
func (s *ServiceConfig) Validate() error {
	switch {
	case s.Concurrency < 1:
		return &infraconfig.ValidationError{Field: "service.concurrency", Message: "must be at least 1"}
	case s.BatchSize < 1:
		return &infraconfig.ValidationError{Field: "service.batch_size", Message: "must be at least 1"}
	case s.PollInterval < time.Second:
		return &infraconfig.ValidationError{Field: "service.poll_interval", Message: "must be at least 1s"}
	case s.DBWritesPerSecond < 1:
		return &infraconfig.ValidationError{Field: "service.db_writes_per_second", Message: "must be at least 1"}
	}
	return nil
}

// Validate checks ClassificationConfig.
func (c *ClassificationConfig) Validate() error {
	switch c.VocabularySource {
	case VocabularyEmbedded, VocabularyDatabase:
	case VocabularyFile:
		if c.VocabularyPath == "" {
			return &infraconfig.ValidationError{Field: "classification.vocabulary_path", Message: "is required for file vocabularies"}
		}
	default:
		return &infraconfig.ValidationError{
			Field:   "classification.vocabulary_source",
			Message: "must be embedded, file or database",
		}
	}
	if c.Concurrency < 1 {
		return &infraconfig.ValidationError{Field: "classification.concurrency", Message: "must be at least 1"}
	}
	return nil
}
