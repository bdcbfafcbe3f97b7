// Package sqlstore implements workspace.Store on a SQL table, for SQLite
// (modernc, pure Go) and Postgres (pgx) deployments and local development.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"wsdetails/internal/workspace"
)

var _ workspace.Store = (*Store)(nil)

// Dialect captures the differences between supported SQL backends.
type Dialect struct {
	Name       string
	driver     string
	positional bool // $1, $2 instead of ?
}

var (
	// SQLite stores records in a local file via modernc.org/sqlite.
	SQLite = Dialect{Name: "sqlite", driver: "sqlite"}
	// Postgres stores records in Postgres via pgx.
	Postgres = Dialect{Name: "postgres", driver: "pgx", positional: true}
)

func (d Dialect) bind(n int) string {
	if d.positional {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex

	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

var columns = map[workspace.Field]string{
	workspace.FieldUsername: "username",
	workspace.FieldEmail:    "email",
	workspace.FieldStatus:   "ws_status",
}

// Store reads and updates workspace records in one SQL table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// Open connects to dsn, verifies the connection and makes sure the table exists.
func Open(ctx context.Context, dialect Dialect, dsn, table string) (*Store, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if dialect == SQLite && dsn != "" && !strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, ":memory:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	openMu.Lock()
	db, err := sqlOpen(dialect.driver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}
	s := &Store{db: db, dialect: dialect, table: table}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureTable(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS "` + s.table + `" (
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		ws_status TEXT,
		workspace_id TEXT,
		PRIMARY KEY (username, email)
	)`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create %s table: %w", s.table, err)
	}
	return nil
}

func (s *Store) selectStmt(fields []workspace.Field) (string, []workspace.Field) {
	if len(fields) == 0 {
		fields = workspace.ReadFields
	}
	cols := make([]string, 0, len(fields))
	used := make([]workspace.Field, 0, len(fields))
	for _, f := range fields {
		if col, ok := columns[f]; ok {
			cols = append(cols, col)
			used = append(used, f)
		}
	}
	return fmt.Sprintf(`SELECT %s FROM "%s" WHERE username = %s AND email = %s`,
		strings.Join(cols, ", "), s.table, s.dialect.bind(1), s.dialect.bind(2)), used
}

func (s *Store) updateStmt(assign *workspace.Assignment) (string, error) {
	if assign == nil {
		return fmt.Sprintf(`UPDATE "%s" SET username = username WHERE username = %s AND email = %s`,
			s.table, s.dialect.bind(1), s.dialect.bind(2)), nil
	}
	col, ok := columns[assign.Field]
	if !ok || assign.Field != workspace.FieldStatus {
		return "", fmt.Errorf("field %s is not assignable", assign.Field)
	}
	return fmt.Sprintf(`UPDATE "%s" SET %s = %s WHERE username = %s AND email = %s`,
		s.table, col, s.dialect.bind(1), s.dialect.bind(2), s.dialect.bind(3)), nil
}

// Get returns the record at key restricted to fields.
func (s *Store) Get(ctx context.Context, key workspace.Key, fields []workspace.Field) (workspace.Record, bool, error) {
	stmt, used := s.selectStmt(fields)
	vals := make([]sql.NullString, len(used))
	dest := make([]any, len(used))
	for i := range vals {
		dest[i] = &vals[i]
	}
	err := s.db.QueryRowContext(ctx, stmt, key.Username, key.Email).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return workspace.Record{}, false, nil
	}
	if err != nil {
		return workspace.Record{}, false, fmt.Errorf("select workspace: %w", err)
	}
	var rec workspace.Record
	for i, f := range used {
		switch f {
		case workspace.FieldUsername:
			rec.Username = vals[i].String
		case workspace.FieldEmail:
			rec.Email = vals[i].String
		case workspace.FieldStatus:
			rec.Status = vals[i].String
		}
	}
	return rec, true, nil
}

// Update applies assign to the existing record at key.
func (s *Store) Update(ctx context.Context, key workspace.Key, assign *workspace.Assignment) error {
	stmt, err := s.updateStmt(assign)
	if err != nil {
		return err
	}
	args := []any{key.Username, key.Email}
	if assign != nil {
		args = append([]any{assign.Value}, args...)
	}
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return workspace.ErrNotFound
	}
	return nil
}

// Seed inserts a record; errors if the key already exists.
func (s *Store) Seed(ctx context.Context, rec workspace.Record) error {
	stmt := fmt.Sprintf(`INSERT INTO "%s" (username, email, ws_status) VALUES (%s, %s, %s)`,
		s.table, s.dialect.bind(1), s.dialect.bind(2), s.dialect.bind(3))
	if _, err := s.db.ExecContext(ctx, stmt, rec.Username, rec.Email, rec.Status); err != nil {
		return fmt.Errorf("insert workspace %s/%s: %w", rec.Username, rec.Email, err)
	}
	return nil
}
