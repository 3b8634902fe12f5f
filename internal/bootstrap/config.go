// Package bootstrap wires configuration, storage and the classifier into
// the HTTP server and the backfill processor.
package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/complaint-triage/internal/config"
	infraconfig "github.com/jonesrussell/complaint-triage/internal/infrastructure/config"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
)

// LoadConfig loads configuration from path, or from CONFIG_PATH /
// config.yml when path is empty. A missing file means defaults.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = infraconfig.GetConfigPath("config.yml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config, component string) (infralogger.Logger, error) {
	logger, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger.With(
		infralogger.String("service", cfg.Service.Name),
		infralogger.String("component", component),
	), nil
}
