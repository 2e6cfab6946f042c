package database

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Driver names a database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// ParseDriver accepts a driver name. "auto" and "" select detection from the URL.
func ParseDriver(name string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return "", nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", name)
	}
}

// DetectDriver infers the driver from a connection string. An empty URL means
// local mode and selects SQLite.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"),
		strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"), strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// Placeholder returns the bind parameter style of the driver.
func (d Driver) Placeholder() sq.PlaceholderFormat {
	if d == DriverPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// Builder returns a squirrel statement builder using the driver's placeholders.
func (d Driver) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder())
}
