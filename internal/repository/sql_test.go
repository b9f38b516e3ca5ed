package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/recordsdesk/internal/logger"
	"github.com/dbsmedya/recordsdesk/internal/record"
)

var recordColumns = []string{"id", "name", "phone", "email", "security", "revenue"}

func newMySQLMock(t *testing.T) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewSQL(db, DialectMySQL, "records", logger.NewNop())
	require.NoError(t, err)
	return repo, mock
}

func TestNewSQLValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQL(nil, DialectMySQL, "records", nil)
	assert.Error(t, err)

	_, err = NewSQL(db, "postgres", "records", nil)
	assert.Error(t, err)

	_, err = NewSQL(db, DialectMySQL, "records; DROP TABLE x", nil)
	assert.Error(t, err)

	repo, err := NewSQL(db, DialectMySQL, "contacts", nil)
	require.NoError(t, err)
	assert.Equal(t, "`contacts`", repo.table)
}

func TestEnsureSchemaMySQLTakesLock(t *testing.T) {
	repo, mock := newMySQLMock(t)

	mock.ExpectQuery(`SELECT GET_LOCK`).
		WithArgs("recordsdesk:schema:records", 10).
		WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(1))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `records`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT RELEASE_LOCK`).
		WithArgs("recordsdesk:schema:records").
		WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(1))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaMySQLLockBusy(t *testing.T) {
	repo, mock := newMySQLMock(t)

	mock.ExpectQuery(`SELECT GET_LOCK`).
		WillReturnRows(sqlmock.NewRows([]string{"r"}).AddRow(0))

	err := repo.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create table records")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLList(t *testing.T) {
	repo, mock := newMySQLMock(t)

	mock.ExpectQuery("SELECT id, name, phone, email, security, revenue FROM `records` ORDER BY id").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(1, "John Doe", "+1 555 1234", "john.doe@example.com", "Low", 10000.0).
			AddRow(2, "Jane", "555", "j@x.com", "Low", 500.0))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, record.Record{ID: 2, Name: "Jane", Phone: "555", Email: "j@x.com", Security: "Low", Revenue: 500}, records[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLListQueryError(t *testing.T) {
	repo, mock := newMySQLMock(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("table missing"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query records")
}

func TestSQLCreate(t *testing.T) {
	repo, mock := newMySQLMock(t)

	mock.ExpectExec("INSERT INTO `records` \\(name, phone, email, security, revenue\\) VALUES").
		WithArgs("Jane", "555", "j@x.com", "Low", 500.0).
		WillReturnResult(sqlmock.NewResult(42, 1))

	created, err := repo.Create(context.Background(), jane())
	require.NoError(t, err)
	assert.Equal(t, jane().ToRecord(42), created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUpdate(t *testing.T) {
	repo, mock := newMySQLMock(t)

	mock.ExpectExec("UPDATE `records` SET name = \\?, phone = \\?, email = \\?, security = \\?, revenue = \\? WHERE id = \\?").
		WithArgs("Jane", "555", "j@x.com", "Low", 500.0, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, name, phone, email, security, revenue FROM `records` WHERE id = \\?").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(2, "Jane", "555", "j@x.com", "Low", 500.0))

	updated, err := repo.Update(context.Background(), 2, record.PatchFrom(jane()))
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUpdateNotFound(t *testing.T) {
	repo, mock := newMySQLMock(t)

	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 9, record.PatchFrom(jane()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLUpdatePartial(t *testing.T) {
	repo, mock := newMySQLMock(t)

	name := "Jane"
	revenue := 750.0
	mock.ExpectExec("UPDATE `records` SET name = \\?, revenue = \\? WHERE id = \\?$").
		WithArgs("Jane", 750.0, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, name, phone, email, security, revenue FROM `records` WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(1, "Jane", "555", "j@x", "Low", 750.0))

	updated, err := repo.Update(context.Background(), 1, record.Patch{Name: &name, Revenue: &revenue})
	require.NoError(t, err)
	assert.Equal(t, record.Record{ID: 1, Name: "Jane", Phone: "555", Email: "j@x", Security: "Low", Revenue: 750}, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUpdateEmptyPatchSkipsWrite(t *testing.T) {
	repo, mock := newMySQLMock(t)

	mock.ExpectQuery("SELECT id, name, phone, email, security, revenue FROM `records` WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(1, "John", "555", "j@x", "Low", 1.0))

	_, err := repo.Update(context.Background(), 1, record.Patch{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDelete(t *testing.T) {
	repo, mock := newMySQLMock(t)

	mock.ExpectExec("DELETE FROM `records` WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `records` WHERE id = \\?").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 1), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
