package database

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL through lib/pq
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) SupportsLastInsertId() bool {
	// PostgreSQL doesn't support LastInsertId(), needs RETURNING clause
	return false
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *PostgresDialect) BoolValue(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (d *PostgresDialect) UpsertProgressQuery() string {
	return `
		INSERT INTO user_progress (user_id, dictation_id, best_score, attempts_count, last_attempt, is_mastered)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id, dictation_id) DO UPDATE SET
			best_score = GREATEST(user_progress.best_score, EXCLUDED.best_score),
			attempts_count = user_progress.attempts_count + 1,
			last_attempt = EXCLUDED.last_attempt,
			is_mastered = (GREATEST(user_progress.best_score, EXCLUDED.best_score) >= ?)
	`
}

// PgxDialect talks to PostgreSQL through the pgx stdlib adapter.
// SQL is identical to PostgresDialect; only the driver differs.
type PgxDialect struct {
	PostgresDialect
}

// NewPgxDialect creates a new pgx-backed PostgreSQL dialect
func NewPgxDialect() *PgxDialect {
	return &PgxDialect{}
}

func (d *PgxDialect) DriverName() string {
	return "pgx"
}
