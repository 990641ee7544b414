package db

import "strings"

// DatabaseType represents supported database types
type DatabaseType string

const (
	SQLite     DatabaseType = "sqlite"
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
)

// ParseType normalizes a configured driver name, defaulting to SQLite
func ParseType(s string) DatabaseType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql":
		return MySQL
	case "postgres", "postgresql":
		return PostgreSQL
	default:
		return SQLite
	}
}

// String returns string representation
func (dt DatabaseType) String() string {
	return string(dt)
}

// IsValid checks if database type is valid
func (dt DatabaseType) IsValid() bool {
	switch dt {
	case SQLite, MySQL, PostgreSQL:
		return true
	default:
		return false
	}
}
