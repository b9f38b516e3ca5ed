package repository

import (
	"context"
	"fmt"

	"github.com/dbsmedya/recordsdesk/internal/config"
	"github.com/dbsmedya/recordsdesk/internal/database"
	"github.com/dbsmedya/recordsdesk/internal/logger"
)

// Open returns the repository for the manager's driver, creating the table
// for SQL drivers. The manager must already be connected.
func Open(ctx context.Context, mgr *database.Manager, table string, log *logger.Logger) (Repository, error) {
	switch mgr.Driver() {
	case config.DriverMemory, "":
		return NewMemory(), nil
	case config.DriverMySQL, config.DriverSQLite:
		repo, err := NewSQL(mgr.DB, mgr.Driver(), table, log)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", mgr.Driver())
	}
}
