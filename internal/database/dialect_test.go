package database

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestDialectNames(t *testing.T) {
	tests := []struct {
		dialect    Dialect
		driver     string
		migrations string
	}{
		{dialect: NewSQLiteDialect(), driver: "sqlite3", migrations: "sqlite"},
		{dialect: NewPostgresDialect(), driver: "postgres", migrations: "postgres"},
		{dialect: NewMySQLDialect(), driver: "mysql", migrations: "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.migrations {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.migrations)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		backend string
		driver  string
		wantErr bool
	}{
		{backend: "sqlite", driver: "sqlite3"},
		{backend: "SQLite3", driver: "sqlite3"},
		{backend: "postgresql", driver: "postgres"},
		{backend: "mysql", driver: "mysql"},
		{backend: "json", wantErr: true},
		{backend: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			dialect, err := DialectFor(tt.backend)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DialectFor(%q) should fail", tt.backend)
				}
				return
			}
			if err != nil {
				t.Fatalf("DialectFor(%q) error = %v", tt.backend, err)
			}
			if dialect.DriverName() != tt.driver {
				t.Errorf("DriverName() = %v, want %v", dialect.DriverName(), tt.driver)
			}
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
			query:    "SELECT data FROM user_records WHERE username = ?",
			expected: "SELECT data FROM user_records WHERE username = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT data FROM user_records WHERE username = ?",
			expected: "SELECT data FROM user_records WHERE username = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "UPDATE user_records SET data = ?, version = ? WHERE username = ? AND version = ?",
			expected: "UPDATE user_records SET data = $1, version = $2 WHERE username = $3 AND version = $4",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "DELETE FROM user_records WHERE username = ?",
			expected: "DELETE FROM user_records WHERE username = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	other := errors.New("connection reset")

	if !NewSQLiteDialect().IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}) {
		t.Error("sqlite primary key violation not detected")
	}
	if NewSQLiteDialect().IsUniqueViolation(other) {
		t.Error("sqlite dialect matched an unrelated error")
	}
	if !NewPostgresDialect().IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Error("postgres unique violation not detected")
	}
	if NewPostgresDialect().IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("postgres foreign key violation is not a unique violation")
	}
	if !NewMySQLDialect().IsUniqueViolation(&mysql.MySQLError{Number: 1062}) {
		t.Error("mysql duplicate entry not detected")
	}
	if NewMySQLDialect().IsUniqueViolation(other) {
		t.Error("mysql dialect matched an unrelated error")
	}
}
