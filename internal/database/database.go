// Package database provides SQL connection management for the reference
// records backend.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "modernc.org/sqlite"             // SQLite driver ("sqlite")

	"github.com/dbsmedya/recordsdesk/internal/config"
	"github.com/dbsmedya/recordsdesk/internal/logger"
)

// Manager owns the connection pool for the configured storage driver.
type Manager struct {
	DB     *sql.DB
	config *config.ServerConfig
	logger *logger.Logger

	// open is swapped in tests.
	open func(driver, dsn string) (*sql.DB, error)
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.ServerConfig, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Manager{
		config: cfg,
		logger: log,
		open:   sql.Open,
	}
}

// Driver returns the configured storage driver.
func (m *Manager) Driver() string {
	return m.config.Driver
}

// Connect opens and verifies the pool for the configured driver. The memory
// driver needs no connection and leaves DB nil.
func (m *Manager) Connect(ctx context.Context) error {
	var err error

	switch m.config.Driver {
	case config.DriverMemory, "":
		return nil
	case config.DriverSQLite:
		m.DB, err = m.connectWithRetry(ctx, config.DriverSQLite, BuildSQLiteDSN(m.config.SQLitePath), nil)
	case config.DriverMySQL:
		m.DB, err = m.connectWithRetry(ctx, config.DriverMySQL, BuildDSN(&m.config.Database), &m.config.Database)
	default:
		return fmt.Errorf("unsupported storage driver %q", m.config.Driver)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", m.config.Driver, err)
	}
	return nil
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context, driver, dsn string, pool *config.DatabaseConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 3
	backoff := time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = m.connect(driver, dsn, pool)
		if err == nil {
			if pingErr := db.PingContext(ctx); pingErr == nil {
				return db, nil
			} else {
				db.Close()
				err = pingErr
			}
		}

		m.logger.Warnw("Database connection attempt failed",
			"driver", driver, "attempt", i+1, "error", err)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, err)
}

// connect creates a database handle and sizes its pool.
func (m *Manager) connect(driver, dsn string, pool *config.DatabaseConfig) (*sql.DB, error) {
	db, err := m.open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == config.DriverSQLite {
		// one writer at a time; avoids SQLITE_BUSY under concurrent handlers
		db.SetMaxOpenConns(1)
		return db, nil
	}

	if pool != nil {
		if pool.MaxConnections > 0 {
			db.SetMaxOpenConns(pool.MaxConnections)
		}
		if pool.MaxIdleConnections > 0 {
			db.SetMaxIdleConns(pool.MaxIdleConnections)
		}
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// BuildDSN constructs a MySQL DSN from configuration.
func BuildDSN(cfg *config.DatabaseConfig) string {
	// Format: user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	if cfg.Database != "" {
		dsn += cfg.Database
	}

	params := "?parseTime=true"
	switch cfg.TLS {
	case "disable":
		params += "&tls=false"
	case "required":
		params += "&tls=true"
	case "preferred", "":
		params += "&tls=preferred"
	}

	return dsn + params
}

// BuildSQLiteDSN constructs a modernc.org/sqlite DSN for a database file.
func BuildSQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

// Close closes the connection pool.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.Close(); err != nil {
		return fmt.Errorf("%s close: %w", m.config.Driver, err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", m.config.Driver, err)
	}
	return nil
}
