package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN forces parseTime so DATETIME columns scan into time.Time.
func (d *MySQLDialect) DSN(config DialectConfig) string {
	url := config.URL
	if !strings.Contains(url, "parseTime=") {
		if strings.Contains(url, "?") {
			url += "&parseTime=true"
		} else {
			url += "?parseTime=true"
		}
	}
	return url
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	return query
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}

	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

func (d *MySQLDialect) BoolValue(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// UpsertProgressQuery sets is_mastered before best_score because MySQL
// evaluates the assignments left to right against the updated row.
func (d *MySQLDialect) UpsertProgressQuery() string {
	return "INSERT INTO user_progress (user_id, dictation_id, best_score, attempts_count, last_attempt, is_mastered) " +
		"VALUES (?, ?, ?, 1, ?, ?) " +
		"ON DUPLICATE KEY UPDATE " +
		"is_mastered = (GREATEST(best_score, VALUES(best_score)) >= ?), " +
		"best_score = GREATEST(best_score, VALUES(best_score)), " +
		"attempts_count = attempts_count + 1, " +
		"last_attempt = VALUES(last_attempt)"
}
