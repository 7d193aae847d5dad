package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	// DSN is either a postgres URL or a sqlite file path (":memory:" works).
	DSN           string
	MaxConns      int
	DialTimeout   time.Duration
	HealthTimeout time.Duration
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS policies (
	id               TEXT PRIMARY KEY,
	category         TEXT NOT NULL DEFAULT '',
	carrier          TEXT NOT NULL DEFAULT '',
	policy_number    TEXT NOT NULL DEFAULT '',
	name             TEXT NOT NULL DEFAULT '',
	insured          TEXT NOT NULL DEFAULT '',
	start_date       TEXT NOT NULL DEFAULT '',
	coverage_amount  TEXT NOT NULL DEFAULT '',
	annual_premium   TEXT NOT NULL DEFAULT '',
	payment_years    TEXT NOT NULL DEFAULT '',
	beneficiary      TEXT NOT NULL DEFAULT '',
	interest_rate    TEXT NOT NULL DEFAULT '',
	currency         TEXT NOT NULL DEFAULT '',
	exchange_rate    TEXT NOT NULL DEFAULT '',
	converted_amount TEXT NOT NULL DEFAULT '',
	source           TEXT NOT NULL DEFAULT 'manual',
	completeness     REAL NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS scan_jobs (
	id           TEXT PRIMARY KEY,
	source_path  TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	rotation     INTEGER NOT NULL DEFAULT 0,
	line_count   INTEGER NOT NULL DEFAULT 0,
	record_count INTEGER NOT NULL DEFAULT 0,
	error_text   TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);
`

// DB wraps the sql handle with the driver-specific placeholder style.
type DB struct {
	*sql.DB
	postgres bool
}

// Open connects to the configured database and bootstraps the schema.
// Postgres DSNs go through pgx; anything else is treated as a sqlite path.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver, dsn := "sqlite", cfg.DSN
	postgres := strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://")
	if postgres {
		driver = "pgx"
	}
	logger.Info("connecting to database", "driver", driver)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if driver == "sqlite" {
		// modernc sqlite serializes writes; a single connection avoids
		// SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		logger.Error("failed to bootstrap schema", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("successfully connected to database")
	return &DB{DB: db, postgres: postgres}, nil
}

// HealthCheck pings the database with a timeout.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration, logger *slog.Logger) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.PingContext(ctx)
}

// rebind rewrites ? placeholders to $n for postgres; sqlite takes ? as-is.
func (d *DB) rebind(query string) string {
	if !d.postgres {
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
