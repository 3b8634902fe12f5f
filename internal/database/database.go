// Package database provides database connectivity and the repositories
// the triage service reads and writes.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	infraconfig "github.com/jonesrussell/complaint-triage/internal/infrastructure/config"
)

// DefaultPingTimeout bounds the connection check in NewConnection.
const DefaultPingTimeout = 5 * time.Second

var (
	// ErrComplaintNotFound is returned when an update matches no complaint.
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrDatabaseUnavailable is returned by callers that need a database
	// when none is configured.
	ErrDatabaseUnavailable = errors.New("database not configured")
	// ErrUnknownDriver is returned for drivers other than postgres and sqlite3.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// NewConnection opens and pings a database for cfg.Driver.
func NewConnection(cfg infraconfig.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case infraconfig.DriverPostgres, infraconfig.DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.Driver == infraconfig.DriverSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, pingErr)
	}
	return db, nil
}
