// Package lock provides MySQL advisory locking for recordsdesk.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLockTimeout is returned when lock acquisition times out because
// another instance is holding the lock.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Common timeout values for lock acquisition (in seconds).
const (
	// TimeoutImmediate returns immediately if lock cannot be acquired (no wait).
	TimeoutImmediate = 0

	// TimeoutMedium provides a reasonable wait for another instance to finish
	// its schema setup.
	TimeoutMedium = 10

	// TimeoutInfinite waits indefinitely until the lock is acquired.
	// Note: MySQL treats negative values as infinite wait.
	TimeoutInfinite = -1
)

// AdvisoryLock is a held MySQL named lock (GET_LOCK). Named locks belong to
// a session, so the lock pins one connection from the pool until Release.
type AdvisoryLock struct {
	conn *sql.Conn
	name string
	held bool
}

// Acquire takes the named lock, waiting up to timeoutSeconds.
//
// MySQL GET_LOCK() return values:
//   - 1: Lock was obtained successfully
//   - 0: Timeout was reached without obtaining the lock
//   - NULL: An error occurred (e.g., out of memory, thread killed)
func Acquire(ctx context.Context, db *sql.DB, name string, timeoutSeconds int) (*AdvisoryLock, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve connection for lock %q: %w", name, err)
	}

	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", name, timeoutSeconds).Scan(&result); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}

	if !result.Valid {
		conn.Close()
		return nil, fmt.Errorf("GET_LOCK returned NULL for lock %q (possible database error)", name)
	}

	switch result.Int64 {
	case 1:
		return &AdvisoryLock{conn: conn, name: name, held: true}, nil
	case 0:
		conn.Close()
		return nil, fmt.Errorf("%w: lock %q is held by another instance", ErrLockTimeout, name)
	default:
		conn.Close()
		return nil, fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// Conn returns the connection that owns the lock. Statements that must run
// under the lock go through it.
func (a *AdvisoryLock) Conn() *sql.Conn {
	return a.conn
}

// Name returns the lock name.
func (a *AdvisoryLock) Name() string {
	return a.name
}

// IsHeld reports whether the lock is still held.
func (a *AdvisoryLock) IsHeld() bool {
	return a.held
}

// Release frees the lock and returns its connection to the pool. Releasing
// twice is a no-op.
//
// MySQL RELEASE_LOCK() return values:
//   - 1: Lock was released successfully
//   - 0: Lock was not established by this thread (not held)
//   - NULL: Named lock did not exist
func (a *AdvisoryLock) Release(ctx context.Context) error {
	if !a.held {
		return nil
	}
	a.held = false
	defer a.conn.Close()

	var result sql.NullInt64
	if err := a.conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.name).Scan(&result); err != nil {
		return fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	if !result.Valid {
		return fmt.Errorf("RELEASE_LOCK returned NULL for lock %q (lock did not exist)", a.name)
	}
	if result.Int64 != 1 {
		return fmt.Errorf("lock %q was not held by this session", a.name)
	}
	return nil
}

// WithLock runs fn while holding the named lock. The lock is released even
// if fn panics.
func WithLock(ctx context.Context, db *sql.DB, name string, timeoutSeconds int, fn func(ctx context.Context, conn *sql.Conn) error) (err error) {
	l, err := Acquire(ctx, db, name, timeoutSeconds)
	if err != nil {
		return err
	}

	defer func() {
		// ctx may already be canceled; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if releaseErr := l.Release(releaseCtx); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	return fn(ctx, l.Conn())
}

// Name builds a namespaced lock name, e.g. Name("schema", "records") ->
// "recordsdesk:schema:records". Characters outside [A-Za-z0-9_-] become
// underscores and the result is capped at MySQL's 64 character limit.
func Name(parts ...string) string {
	sanitized := make([]string, 0, len(parts)+1)
	sanitized = append(sanitized, "recordsdesk")
	for _, p := range parts {
		sanitized = append(sanitized, strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
				return r
			}
			return '_'
		}, p))
	}
	name := strings.Join(sanitized, ":")
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
