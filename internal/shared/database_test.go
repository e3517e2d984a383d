package shared

import (
	"errors"
	"testing"
)

func TestParseDatabaseURL(t *testing.T) {
	tc := []struct {
		name       string
		url        string
		wantDriver string
		wantDSN    string
	}{
		{
			name:       "sqlite scheme",
			url:        "sqlite://music_label.db",
			wantDriver: DriverSQLite,
			wantDSN:    "music_label.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate",
		},
		{
			name:       "bare path",
			url:        "/var/lib/label.db",
			wantDriver: DriverSQLite,
			wantDSN:    "/var/lib/label.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate",
		},
		{
			name:       "memory",
			url:        ":memory:",
			wantDriver: DriverSQLite,
			wantDSN:    ":memory:?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate",
		},
		{
			name:       "sqlite keeps explicit params",
			url:        "sqlite://label.db?_fk=1&_busy_timeout=100&_txlock=deferred",
			wantDriver: DriverSQLite,
			wantDSN:    "label.db?_fk=1&_busy_timeout=100&_txlock=deferred",
		},
		{
			name:       "postgres",
			url:        "postgres://u:p@localhost/label",
			wantDriver: DriverPostgres,
			wantDSN:    "postgres://u:p@localhost/label",
		},
		{
			name:       "postgresql",
			url:        "postgresql://u:p@localhost/label?sslmode=disable",
			wantDriver: DriverPostgres,
			wantDSN:    "postgresql://u:p@localhost/label?sslmode=disable",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := ParseDatabaseURL(tt.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if driver != tt.wantDriver {
				t.Errorf("driver = %v, want %v", driver, tt.wantDriver)
			}
			if dsn != tt.wantDSN {
				t.Errorf("dsn = %v, want %v", dsn, tt.wantDSN)
			}
		})
	}

	for _, bad := range []string{"", "sqlite://", "mysql://root@localhost/label"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			if _, _, err := ParseDatabaseURL(bad); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewDatabase(t *testing.T) {
	t.Run("ForeignKeysEnabled", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		var enabled int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("failed to read pragma: %v", err)
		}
		if enabled != 1 {
			t.Error("expected foreign keys to be enabled")
		}

		if db.Stats().MaxOpenConnections != 1 {
			t.Errorf("in-memory database should be limited to one connection, got %d", db.Stats().MaxOpenConnections)
		}

		ConfigureDatabase(db, 10, 5)
		if db.Stats().MaxOpenConnections != 1 {
			t.Error("ConfigureDatabase should not widen an in-memory pool")
		}
	})
}
