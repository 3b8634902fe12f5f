package config

import "fmt"

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator is implemented by config sections that can check themselves.
type Validator interface {
	Validate() error
}

// ValidatePort checks that port is in 1..65535.
func ValidatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// Validate checks ServerConfig.
func (c *ServerConfig) Validate() error {
	return ValidatePort("server.port", c.Port)
}

// Validate checks DatabaseConfig. An empty driver is valid.
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "":
		return nil
	case DriverSQLite:
		if c.Path == "" {
			return &ValidationError{Field: "database.path", Message: "is required for sqlite3"}
		}
		return nil
	case DriverPostgres:
		if c.Host == "" {
			return &ValidationError{Field: "database.host", Message: "is required"}
		}
		if c.User == "" {
			return &ValidationError{Field: "database.user", Message: "is required"}
		}
		if c.Database == "" {
			return &ValidationError{Field: "database.database", Message: "is required"}
		}
		return ValidatePort("database.port", c.Port)
	default:
		return &ValidationError{Field: "database.driver", Message: "must be postgres or sqlite3"}
	}
}

// Validate checks LoggingConfig.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
	if c.Format != "" && c.Format != "json" {
		return &ValidationError{Field: "logging.format", Message: "must be json"}
	}
	return nil
}
