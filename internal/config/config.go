// Package config provides configuration types and validation for dnsmirage.
//
// Configuration is stored in a SQLite database and exported to a Config struct
// for use by the runner. The database package (internal/database) handles
// persistence; defaults are seeded on first open.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// DBPathEnv names the environment variable consulted by ResolveDBPath.
const DBPathEnv = "DNSMIRAGE_DB"

// DefaultDBPath is used when neither a flag nor the environment names a
// database file.
const DefaultDBPath = "dnsmirage.db"

// Defaults applied by Validate.
const (
	DefaultPollInterval    = "500ms"
	DefaultStopTimeout     = "5s"
	DefaultTransmitTimeout = "1s"
	DefaultAuditQueueSize  = 256
	DefaultLogDir          = "logs"
)

// ResolveDBPath picks the database path: the flag value, then the
// DNSMIRAGE_DB environment variable, then DefaultDBPath.
func ResolveDBPath(flag string) string {
	if p := strings.TrimSpace(flag); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(DBPathEnv)); p != "" {
		return p
	}
	return DefaultDBPath
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	// Normalize capture
	var ifaces []string
	for _, name := range cfg.Capture.Interfaces {
		if name = strings.TrimSpace(name); name != "" {
			ifaces = append(ifaces, name)
		}
	}
	cfg.Capture.Interfaces = ifaces

	var err error
	if cfg.Capture.PollInterval, err = parseDuration("capture.poll_interval", &cfg.Capture.PollIntervalRaw, DefaultPollInterval); err != nil {
		return err
	}
	if cfg.Capture.StopTimeout, err = parseDuration("capture.stop_timeout", &cfg.Capture.StopTimeoutRaw, DefaultStopTimeout); err != nil {
		return err
	}
	if cfg.Capture.TransmitTimeout, err = parseDuration("capture.transmit_timeout", &cfg.Capture.TransmitTimeoutRaw, DefaultTransmitTimeout); err != nil {
		return err
	}
	if cfg.Capture.AuditQueueSize < 0 {
		return errors.New("capture.audit_queue_size must not be negative")
	}
	if cfg.Capture.AuditQueueSize == 0 {
		cfg.Capture.AuditQueueSize = DefaultAuditQueueSize
	}

	// Normalize audit
	cfg.Audit.LogDir = strings.TrimSpace(cfg.Audit.LogDir)
	if cfg.Audit.LogDir == "" {
		cfg.Audit.LogDir = DefaultLogDir
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	// Normalize management API
	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Enabled {
		if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
			return errors.New("api.port must be 1..65535")
		}
	}

	return nil
}

// parseDuration parses *raw, substituting def when it is empty, and writes
// the normalized form back.
func parseDuration(field string, raw *string, def string) (time.Duration, error) {
	s := strings.TrimSpace(*raw)
	if s == "" {
		s = def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", field)
	}
	*raw = s
	return d, nil
}
