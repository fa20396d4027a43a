package database

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/jroosing/dnsmirage/internal/config"
)

// InitDefaults populates the database with default configuration values.
// This is called on every open and only inserts keys that are missing, so
// keys added by newer releases are seeded into existing databases.
func (db *DB) InitDefaults() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := db.initCaptureDefaults(tx); err != nil {
		return err
	}

	if err := db.initAuditDefaults(tx); err != nil {
		return err
	}

	if err := db.initLoggingDefaults(tx); err != nil {
		return err
	}

	if err := db.initAPIDefaults(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit defaults: %w", err)
	}

	return nil
}

func (db *DB) initCaptureDefaults(tx *sql.Tx) error {
	defaults := map[string]string{
		ConfigKeyCaptureInterfaces:      "",
		ConfigKeyCapturePollInterval:    config.DefaultPollInterval,
		ConfigKeyCaptureStopTimeout:     config.DefaultStopTimeout,
		ConfigKeyCaptureTransmitTimeout: config.DefaultTransmitTimeout,
		ConfigKeyCaptureAuditQueueSize:  strconv.Itoa(config.DefaultAuditQueueSize),
		ConfigKeyCaptureAutostart:       "false",
	}

	return insertDefaults(tx, defaults)
}

func (db *DB) initAuditDefaults(tx *sql.Tx) error {
	defaults := map[string]string{
		ConfigKeyAuditLogDir:       config.DefaultLogDir,
		ConfigKeyAuditRecordEvents: "true",
	}

	return insertDefaults(tx, defaults)
}

func (db *DB) initLoggingDefaults(tx *sql.Tx) error {
	defaults := map[string]string{
		ConfigKeyLoggingLevel:            "INFO",
		ConfigKeyLoggingStructured:       "false",
		ConfigKeyLoggingStructuredFormat: "json",
		ConfigKeyLoggingIncludePID:       "false",
	}

	return insertDefaults(tx, defaults)
}

func (db *DB) initAPIDefaults(tx *sql.Tx) error {
	defaults := map[string]string{
		ConfigKeyAPIEnabled: "true",
		ConfigKeyAPIHost:    "127.0.0.1", // The control surface starts captures; keep it local by default
		ConfigKeyAPIPort:    "8080",
		ConfigKeyAPIKey:     "",
	}

	return insertDefaults(tx, defaults)
}

// insertDefaults inserts config values only if they don't exist.
func insertDefaults(tx *sql.Tx, defaults map[string]string) error {
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO config (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare config insert: %w", err)
	}
	defer stmt.Close()

	for key, value := range defaults {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to insert default %s: %w", key, err)
		}
	}

	return nil
}

// IsInitialized checks if the database has been initialized with defaults.
func (db *DB) IsInitialized() (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM config").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check config count: %w", err)
	}

	return count > 0, nil
}
