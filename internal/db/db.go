package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	pingAttempts   = 3
	pingBackoff    = 500 * time.Millisecond
	pingBackoffCap = 2 * time.Second
)

func Init(driver, connection string) (*sqlx.DB, error) {
	// SQLite: create data directory if needed
	if driver == "sqlite" {
		dir := filepath.Dir(connection)
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Connection pool configuration (good defaults for all drivers)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Transient connectivity gets a small, capped retry budget here.
	// Business-level writes are never retried automatically.
	backoff := pingBackoff
	for attempt := 1; ; attempt++ {
		err = db.Ping()
		if err == nil {
			break
		}
		if attempt == pingAttempts {
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", pingAttempts, err)
		}
		slog.Warn("database ping failed, retrying", "attempt", attempt, "backoff", backoff)
		time.Sleep(backoff)
		backoff = min(backoff*2, pingBackoffCap)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
