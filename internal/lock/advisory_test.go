package lock

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func lockRows(v interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"result"}).AddRow(v)
}

func TestAcquireAndRelease(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT GET_LOCK\(\?, \?\)`).
		WithArgs("recordsdesk:schema:records", TimeoutMedium).
		WillReturnRows(lockRows(1))
	mock.ExpectQuery(`SELECT RELEASE_LOCK\(\?\)`).
		WithArgs("recordsdesk:schema:records").
		WillReturnRows(lockRows(1))

	l, err := Acquire(ctx, db, "recordsdesk:schema:records", TimeoutMedium)
	require.NoError(t, err)
	assert.True(t, l.IsHeld())
	assert.Equal(t, "recordsdesk:schema:records", l.Name())
	assert.NotNil(t, l.Conn())

	require.NoError(t, l.Release(ctx))
	assert.False(t, l.IsHeld())

	// second release does not hit the database
	require.NoError(t, l.Release(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireResults(t *testing.T) {
	tests := []struct {
		name      string
		result    interface{}
		wantErr   string
		isTimeout bool
	}{
		{name: "timeout", result: 0, wantErr: "held by another instance", isTimeout: true},
		{name: "null", result: nil, wantErr: "returned NULL"},
		{name: "unexpected", result: 7, wantErr: "unexpected GET_LOCK return value: 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectQuery(`SELECT GET_LOCK`).WillReturnRows(lockRows(tt.result))

			l, err := Acquire(context.Background(), db, "x", TimeoutImmediate)
			require.Error(t, err)
			assert.Nil(t, l)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.isTimeout, errors.Is(err, ErrLockTimeout))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAcquireQueryError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT GET_LOCK`).WillReturnError(errors.New("connection reset"))

	_, err := Acquire(context.Background(), db, "x", TimeoutImmediate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute GET_LOCK")
}

func TestReleaseNotHeldBySession(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT GET_LOCK`).WillReturnRows(lockRows(1))
	mock.ExpectQuery(`SELECT RELEASE_LOCK`).WillReturnRows(lockRows(0))

	l, err := Acquire(context.Background(), db, "x", TimeoutImmediate)
	require.NoError(t, err)

	err = l.Release(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not held by this session")
	assert.False(t, l.IsHeld())
}

func TestWithLockRunsUnderLock(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT GET_LOCK`).WillReturnRows(lockRows(1))
	mock.ExpectExec(`CREATE TABLE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT RELEASE_LOCK`).WillReturnRows(lockRows(1))

	err := WithLock(context.Background(), db, "x", TimeoutMedium, func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, "CREATE TABLE t (id INT)")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLockReleasesOnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT GET_LOCK`).WillReturnRows(lockRows(1))
	mock.ExpectQuery(`SELECT RELEASE_LOCK`).WillReturnRows(lockRows(1))

	fnErr := errors.New("boom")
	err := WithLock(context.Background(), db, "x", TimeoutMedium, func(ctx context.Context, conn *sql.Conn) error {
		return fnErr
	})
	assert.ErrorIs(t, err, fnErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLockReleasesOnPanic(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT GET_LOCK`).WillReturnRows(lockRows(1))
	mock.ExpectQuery(`SELECT RELEASE_LOCK`).WillReturnRows(lockRows(1))

	assert.Panics(t, func() {
		_ = WithLock(context.Background(), db, "x", TimeoutMedium, func(ctx context.Context, conn *sql.Conn) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLockTimeoutSkipsFn(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT GET_LOCK`).WillReturnRows(lockRows(0))

	called := false
	err := WithLock(context.Background(), db, "x", TimeoutImmediate, func(ctx context.Context, conn *sql.Conn) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, called)
}

func TestName(t *testing.T) {
	assert.Equal(t, "recordsdesk:schema:records", Name("schema", "records"))
	assert.Equal(t, "recordsdesk:schema:my_table_", Name("schema", "my table!"))
	assert.Equal(t, "recordsdesk", Name())

	long := Name("schema", strings.Repeat("a", 100))
	assert.Len(t, long, 64)
}
