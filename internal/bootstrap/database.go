package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/complaint-triage/internal/config"
	"github.com/jonesrussell/complaint-triage/internal/database"
	infralogger "github.com/jonesrussell/complaint-triage/internal/infrastructure/logger"
)

// DatabaseComponents holds database connection and repositories.
type DatabaseComponents struct {
	DB          *sqlx.DB
	Complaints  *database.ComplaintRepository
	Departments *database.DepartmentRepository
	Rules       *database.RulesRepository
}

// SetupDatabase connects to the configured database. It returns nil
// components and no error when no driver is configured.
func SetupDatabase(cfg *config.Config, logger infralogger.Logger) (*DatabaseComponents, error) {
	if !cfg.Database.Enabled() {
		logger.Info("No database configured")
		return nil, nil //nolint:nilnil // absent database is a valid configuration
	}

	logger.Info("Connecting to database",
		infralogger.String("driver", cfg.Database.Driver),
		infralogger.String("host", cfg.Database.Host),
		infralogger.String("database", cfg.Database.Database),
		infralogger.String("path", cfg.Database.Path),
	)

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("Database connected successfully")

	return &DatabaseComponents{
		DB:          db,
		Complaints:  database.NewComplaintRepository(db),
		Departments: database.NewDepartmentRepository(db),
		Rules:       database.NewRulesRepository(db),
	}, nil
}

// Close releases the connection. It is safe on nil.
func (d *DatabaseComponents) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
