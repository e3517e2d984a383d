package shared

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ParseDatabaseURL maps a connection string to a driver name and driver-specific DSN.
//
// "postgres://" and "postgresql://" URLs select lib/pq; "sqlite://path" and bare paths select SQLite.
// SQLite DSNs get foreign key enforcement, a busy timeout and immediate transactions
// unless they already set them.
func ParseDatabaseURL(url string) (driver, dsn string, err error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return "", "", fmt.Errorf("%w: empty database url", ErrInvalidConfig)
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		url = strings.TrimPrefix(url, "sqlite://")
		if url == "" {
			return "", "", fmt.Errorf("%w: sqlite url has no path", ErrInvalidConfig)
		}
	case strings.Contains(url, "://"):
		return "", "", fmt.Errorf("%w: unsupported database url scheme in %q", ErrInvalidConfig, url)
	}

	return DriverSQLite, sqliteDSN(url), nil
}

func sqliteDSN(path string) string {
	params := []string{}
	if !strings.Contains(path, "_foreign_keys") && !strings.Contains(path, "_fk=") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(path, "_busy_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	// Transactions read then write; taking the write lock at BEGIN lets the busy timeout
	// queue concurrent writers instead of failing the lock upgrade.
	if !strings.Contains(path, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// NewDatabase opens a connection to the database named by url.
// The url can be ":memory:" for an in-memory SQLite database.
// Returns an open database connection or an error if connection fails.
func NewDatabase(url string) (*sqlx.DB, error) {
	driver, dsn, err := ParseDatabaseURL(url)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if driver == DriverSQLite && strings.HasPrefix(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
// In-memory SQLite databases keep their single connection.
func ConfigureDatabase(db *sqlx.DB, maxOpenConns, maxIdleConns int) {
	if db.Stats().MaxOpenConnections == 1 {
		return
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}
