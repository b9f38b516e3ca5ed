package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dbsmedya/recordsdesk/internal/lock"
	"github.com/dbsmedya/recordsdesk/internal/logger"
	"github.com/dbsmedya/recordsdesk/internal/record"
	"github.com/dbsmedya/recordsdesk/internal/sqlutil"
)

// Supported SQL dialects.
const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// SQL is a Repository backed by a MySQL or SQLite table.
type SQL struct {
	db      *sql.DB
	dialect string
	table   string // quoted
	name    string // unquoted, for lock names and logs
	logger  *logger.Logger
}

// NewSQL creates a SQL repository over table. The table name must be a plain
// identifier.
func NewSQL(db *sql.DB, dialect, table string, log *logger.Logger) (*SQL, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if dialect != DialectMySQL && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}
	quoted, err := sqlutil.QuoteIdentifierSafe(dialect, table)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &SQL{db: db, dialect: dialect, table: quoted, name: table, logger: log}, nil
}

// schemaDDL returns the CREATE TABLE statement for the dialect.
func (s *SQL) schemaDDL() string {
	if s.dialect == DialectMySQL {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT '',
	phone VARCHAR(64) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL DEFAULT '',
	security VARCHAR(64) NOT NULL DEFAULT '',
	revenue DOUBLE NOT NULL DEFAULT 0
) ENGINE=InnoDB`, s.table)
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	security TEXT NOT NULL DEFAULT '',
	revenue REAL NOT NULL DEFAULT 0
)`, s.table)
}

// EnsureSchema creates the records table if it does not exist. On MySQL the
// statement runs under an advisory lock so concurrent servers don't race.
func (s *SQL) EnsureSchema(ctx context.Context) error {
	ddl := s.schemaDDL()

	if s.dialect == DialectMySQL {
		err := lock.WithLock(ctx, s.db, lock.Name("schema", s.name), lock.TimeoutMedium,
			func(ctx context.Context, conn *sql.Conn) error {
				_, err := conn.ExecContext(ctx, ddl)
				return err
			})
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", s.name, err)
		}
	} else if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.name, err)
	}

	s.logger.Debugw("Schema ready", "table", s.name, "dialect", s.dialect)
	return nil
}

func (s *SQL) List(ctx context.Context) ([]record.Record, error) {
	query := fmt.Sprintf("SELECT id, name, phone, email, security, revenue FROM %s ORDER BY id", s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := make([]record.Record, 0)
	for rows.Next() {
		var r record.Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Phone, &r.Email, &r.Security, &r.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

func (s *SQL) Create(ctx context.Context, d record.Draft) (record.Record, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, phone, email, security, revenue) VALUES (?, ?, ?, ?, ?)", s.table)

	res, err := s.db.ExecContext(ctx, query, d.Name, d.Phone, d.Email, d.Security, d.Revenue)
	if err != nil {
		return record.Record{}, fmt.Errorf("failed to insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return record.Record{}, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return d.ToRecord(id), nil
}

// Update sets only the columns present in p. MySQL reports 0 affected rows
// when the values are unchanged, so existence is decided by re-reading the row.
func (s *SQL) Update(ctx context.Context, id int64, p record.Patch) (record.Record, error) {
	sets, args := patchColumns(p)
	if len(sets) > 0 {
		query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", s.table, strings.Join(sets, ", "))
		if _, err := s.db.ExecContext(ctx, query, append(args, id)...); err != nil {
			return record.Record{}, fmt.Errorf("failed to update record %d: %w", id, err)
		}
	}
	return s.get(ctx, id)
}

// patchColumns returns the SET assignments and their arguments in column order.
func patchColumns(p record.Patch) ([]string, []interface{}) {
	var sets []string
	var args []interface{}
	add := func(column string, v interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Security != nil {
		add("security", *p.Security)
	}
	if p.Revenue != nil {
		add("revenue", *p.Revenue)
	}
	return sets, args
}

func (s *SQL) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table)

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQL) get(ctx context.Context, id int64) (record.Record, error) {
	query := fmt.Sprintf("SELECT id, name, phone, email, security, revenue FROM %s WHERE id = ?", s.table)

	var r record.Record
	err := s.db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Name, &r.Phone, &r.Email, &r.Security, &r.Revenue)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, ErrNotFound
	}
	if err != nil {
		return record.Record{}, fmt.Errorf("failed to load record %d: %w", id, err)
	}
	return r, nil
}
