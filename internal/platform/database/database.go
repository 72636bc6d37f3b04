// Package database opens the SQL backends (PostgreSQL or a local SQLite file)
// and owns the schema shared by the record stores.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"practiceadmin/internal/platform/config"
)

// Dialect distinguishes placeholder syntax between drivers.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB is a *sql.DB that knows its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the backend selected by cfg and applies the schema.
func Open(ctx context.Context, cfg config.StorageConfig) (*DB, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		dialect = Postgres
		db, err = sql.Open("postgres", cfg.DatabaseURL)
	case config.DriverSQLite:
		dialect = SQLite
		db, err = sql.Open("sqlite", cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("storage driver %q has no SQL backend", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == SQLite {
		// SQLite serializes writers; one connection avoids SQLITE_BUSY under load.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	wrapped := &DB{DB: db, Dialect: dialect}
	if err := wrapped.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return wrapped, nil
}

// Rebind rewrites ? placeholders into $n for PostgreSQL.
func (d *DB) Rebind(query string) string {
	if d.Dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		city                   TEXT NOT NULL,
		state                  TEXT NOT NULL,
		office_name            TEXT NOT NULL DEFAULT '',
		market                 TEXT NOT NULL DEFAULT '',
		lead                   TEXT NOT NULL DEFAULT '',
		source                 TEXT NOT NULL DEFAULT '',
		revenue                DOUBLE PRECISION NOT NULL DEFAULT 0,
		ebitda                 DOUBLE PRECISION NOT NULL DEFAULT 0,
		ebitda_percentage      DOUBLE PRECISION NOT NULL DEFAULT 0,
		revenue_per_provider   DOUBLE PRECISION NOT NULL DEFAULT 0,
		ev                     DOUBLE PRECISION NOT NULL DEFAULT 0,
		revenue_multiple       DOUBLE PRECISION NOT NULL DEFAULT 0,
		ebitda_multiple        DOUBLE PRECISION NOT NULL DEFAULT 0,
		equity_roll_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
		cash_at_close          DOUBLE PRECISION NOT NULL DEFAULT 0,
		debt_draw_amount       DOUBLE PRECISION NOT NULL DEFAULT 0,
		close_date             TEXT NOT NULL DEFAULT '',
		integration_burden     TEXT NOT NULL DEFAULT '',
		other_key_deal_terms   TEXT NOT NULL DEFAULT '',
		notes_status           TEXT NOT NULL DEFAULT '',
		date_passed_dead       TEXT NOT NULL DEFAULT '',
		type                   TEXT NOT NULL DEFAULT '',
		reason                 TEXT NOT NULL DEFAULT '',
		logo                   TEXT NOT NULL DEFAULT '',
		manager_name           TEXT NOT NULL DEFAULT '',
		manager_phone          TEXT NOT NULL DEFAULT '',
		manager_email          TEXT NOT NULL DEFAULT '',
		documents              TEXT NOT NULL DEFAULT '{}'{{seq}},
		PRIMARY KEY (city, state)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		email    TEXT NOT NULL,
		role     TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT ''{{seq}}
	)`,
	`CREATE TABLE IF NOT EXISTS token_revocations (
		jti        TEXT PRIMARY KEY,
		expires_at BIGINT NOT NULL
	)`,
}

// InsertOrder names the column that orders rows by insertion. PostgreSQL
// uses a BIGSERIAL column; SQLite uses the implicit rowid, which is assigned
// under the database write lock.
func (d *DB) InsertOrder() string {
	if d.Dialect == Postgres {
		return "seq"
	}
	return "rowid"
}

// Migrate creates the tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	seq := ""
	if d.Dialect == Postgres {
		seq = ",\n\t\tseq BIGSERIAL NOT NULL"
	}
	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{seq}}", seq)
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Truncate empties the given tables. Used by tests and the CLI reseed command.
func (d *DB) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := d.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}
