package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name          string
		dialect       Dialect
		driver        string
		lastInsertID  bool
		migrationsDir string
		trueValue     string
	}{
		{"SQLite", NewSQLiteDialect(), "sqlite3", true, "sqlite", "1"},
		{"PostgreSQL", NewPostgresDialect(), "postgres", false, "postgres", "TRUE"},
		{"pgx", NewPgxDialect(), "pgx", false, "postgres", "TRUE"},
		{"MySQL", NewMySQLDialect(), "mysql", true, "mysql", "TRUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.driver, tt.dialect.DriverName())
			assert.Equal(t, tt.lastInsertID, tt.dialect.SupportsLastInsertId())
			assert.Equal(t, tt.migrationsDir, tt.dialect.MigrationsSubdir())
			assert.Equal(t, tt.trueValue, tt.dialect.BoolValue(true))
			assert.Contains(t, tt.dialect.CreateMigrationsTableQuery(), "migrations")
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM dictations WHERE id = ?",
			expected: "SELECT * FROM dictations WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM dictations WHERE id = ?",
			expected: "SELECT * FROM dictations WHERE id = $1",
		},
		{
			name:     "pgx multiple placeholders",
			dialect:  NewPgxDialect(),
			query:    "INSERT INTO attempts (dictation_id, user_text) VALUES (?, ?)",
			expected: "INSERT INTO attempts (dictation_id, user_text) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE dictations SET audio_url = ? WHERE id = ?",
			expected: "UPDATE dictations SET audio_url = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.RewriteQuery(tt.query))
		})
	}
}

func TestUpsertProgressQueryPlaceholders(t *testing.T) {
	for _, d := range []Dialect{NewSQLiteDialect(), NewPostgresDialect(), NewMySQLDialect()} {
		t.Run(d.DriverName(), func(t *testing.T) {
			assert.Equal(t, 6, strings.Count(d.UpsertProgressQuery(), "?"))
		})
	}
}

func TestMySQLDSNForcesParseTime(t *testing.T) {
	d := NewMySQLDialect()

	assert.Equal(t, "u:p@tcp(db:3306)/dictee?parseTime=true", d.DSN(DialectConfig{URL: "u:p@tcp(db:3306)/dictee"}))
	assert.Equal(t, "u:p@tcp(db)/d?charset=utf8mb4&parseTime=true", d.DSN(DialectConfig{URL: "u:p@tcp(db)/d?charset=utf8mb4"}))
	assert.Equal(t, "u:p@tcp(db)/d?parseTime=false", d.DSN(DialectConfig{URL: "u:p@tcp(db)/d?parseTime=false"}))
}

func TestSplitStatements(t *testing.T) {
	content := `-- header comment
CREATE TABLE a (id INTEGER);

CREATE INDEX idx_a ON a(id);
`
	stmts := splitStatements(content)

	assert.Equal(t, []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX idx_a ON a(id)"}, stmts)
}
