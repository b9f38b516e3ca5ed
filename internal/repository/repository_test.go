package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dbsmedya/recordsdesk/internal/config"
	"github.com/dbsmedya/recordsdesk/internal/database"
	"github.com/dbsmedya/recordsdesk/internal/logger"
	"github.com/dbsmedya/recordsdesk/internal/record"
)

// Contract tests shared by every Repository implementation.

func newSQLiteRepo(t *testing.T) *SQL {
	t.Helper()
	db, err := sql.Open("sqlite", database.BuildSQLiteDSN(filepath.Join(t.TempDir(), "records.db")))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo, err := NewSQL(db, DialectSQLite, "records", logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func implementations(t *testing.T) map[string]func() Repository {
	return map[string]func() Repository{
		"memory": func() Repository { return NewMemory() },
		"sqlite": func() Repository { return newSQLiteRepo(t) },
	}
}

func jane() record.Draft {
	return record.Draft{Name: "Jane", Phone: "555", Email: "j@x.com", Security: "Low", Revenue: 500}
}

func TestRepositoryContract(t *testing.T) {
	for name, newRepo := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()

			records, err := repo.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)

			john, err := repo.Create(ctx, record.Draft{Name: "John Doe", Phone: "+1 555 1234", Email: "john.doe@example.com", Security: "Low", Revenue: 10000})
			require.NoError(t, err)
			created, err := repo.Create(ctx, jane())
			require.NoError(t, err)
			assert.NotEqual(t, john.ID, created.ID)
			assert.Equal(t, jane().ToRecord(created.ID), created)

			records, err = repo.List(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff([]record.Record{john, created}, records); diff != "" {
				t.Errorf("list mismatch (-want +got):\n%s", diff)
			}

			edit := record.DraftFrom(created)
			edit.Name = "Jane Roe"
			edit.Revenue = 750.5
			updated, err := repo.Update(ctx, created.ID, record.PatchFrom(edit))
			require.NoError(t, err)
			assert.Equal(t, "Jane Roe", updated.Name)
			assert.Equal(t, 750.5, updated.Revenue)
			assert.Equal(t, created.ID, updated.ID)

			// unchanged values still count as found
			_, err = repo.Update(ctx, created.ID, record.PatchFrom(edit))
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, john.ID))
			records, err = repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "Jane Roe", records[0].Name)

			assert.ErrorIs(t, repo.Delete(ctx, john.ID), ErrNotFound)
			_, err = repo.Update(ctx, 9999, record.PatchFrom(edit))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRepositoryPartialUpdate(t *testing.T) {
	for name, newRepo := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo()

			created, err := repo.Create(ctx, record.Draft{Name: "John", Phone: "555", Email: "j@x", Security: "Low", Revenue: 10000})
			require.NoError(t, err)

			newName := "Jane"
			updated, err := repo.Update(ctx, created.ID, record.Patch{Name: &newName})
			require.NoError(t, err)

			want := record.Record{ID: created.ID, Name: "Jane", Phone: "555", Email: "j@x", Security: "Low", Revenue: 10000}
			assert.Equal(t, want, updated)

			records, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []record.Record{want}, records)

			// an empty patch only checks existence
			same, err := repo.Update(ctx, created.ID, record.Patch{})
			require.NoError(t, err)
			assert.Equal(t, want, same)
			_, err = repo.Update(ctx, 9999, record.Patch{})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemorySeed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(record.Record{ID: 5, Name: "seed"}, record.Record{ID: 2, Name: "other"})

	records, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID, "sorted by id")

	created, err := m.Create(ctx, jane())
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID)
}

func TestMemoryListIsDetached(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(record.Record{ID: 1, Name: "a"})

	records, _ := m.List(ctx)
	records[0].Name = "mutated"

	again, _ := m.List(ctx)
	assert.Equal(t, "a", again[0].Name)
}

func TestOpenMemory(t *testing.T) {
	cfg := config.DefaultConfig().Server
	mgr := database.NewManager(&cfg, logger.NewNop())
	require.NoError(t, mgr.Connect(context.Background()))

	repo, err := Open(context.Background(), mgr, cfg.Table, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, repo)
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Driver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "records.db")

	mgr := database.NewManager(&cfg, logger.NewNop())
	ctx := context.Background()
	require.NoError(t, mgr.Connect(ctx))
	defer mgr.Close()

	repo, err := Open(ctx, mgr, cfg.Table, logger.NewNop())
	require.NoError(t, err)
	require.IsType(t, &SQL{}, repo)

	_, err = repo.Create(ctx, jane())
	require.NoError(t, err)

	// schema creation is idempotent
	repo2, err := Open(ctx, mgr, cfg.Table, logger.NewNop())
	require.NoError(t, err)
	records, err := repo2.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
