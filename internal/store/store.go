package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed schema_sqlite.sql
var schemaSQLite string

//go:embed schema_postgres.sql
var schemaPostgres string

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

// Store is the persistent sink for stations and departure history.
// The backend is selected by the database URL scheme: sqlite:///path
// or postgres://... .
type Store struct {
	conn    *sql.DB
	dialect string
}

// Open connects to the database named by dbURL.
func Open(dbURL string) (*Store, error) {
	switch {
	case strings.HasPrefix(dbURL, "sqlite://"):
		return openSQLite(sqlitePath(dbURL))
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return openPostgres(dbURL)
	default:
		return nil, fmt.Errorf("unsupported database url %q", dbURL)
	}
}

// sqlitePath extracts the file path from a sqlite URL. Three slashes
// introduce a relative path, four an absolute one, mirroring the usual
// sqlite URL convention: sqlite:///./data/x.db, sqlite:////var/x.db.
func sqlitePath(dbURL string) string {
	path := strings.TrimPrefix(dbURL, "sqlite://")
	return strings.TrimPrefix(path, "/")
}

func openSQLite(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	dsn := path + "?_journal=WAL&_fk=1&_busy_timeout=5000"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite supports a single writer; one connection avoids nested
	// transaction errors.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return &Store{conn: conn, dialect: dialectSQLite}, nil
}

func openPostgres(dbURL string) (*Store, error) {
	conn, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}
	return &Store{conn: conn, dialect: dialectPostgres}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := schemaSQLite
	if s.dialect == dialectPostgres {
		schema = schemaPostgres
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to the dialect's style.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dateExpr renders the UTC calendar date of an epoch-seconds column.
func (s *Store) dateExpr(column string) string {
	if s.dialect == dialectPostgres {
		return "to_char(to_timestamp(" + column + ") AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	}
	return "date(" + column + ", 'unixepoch')"
}
