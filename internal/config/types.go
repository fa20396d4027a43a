package config

import (
	"time"
)

// CaptureConfig controls capture sessions.
type CaptureConfig struct {
	// Interfaces restricts capture to these interface names. Empty means
	// every active interface.
	Interfaces []string `json:"interfaces"`

	PollInterval       time.Duration `json:"-"`
	PollIntervalRaw    string        `json:"poll_interval"` // e.g. "500ms"
	StopTimeout        time.Duration `json:"-"`
	StopTimeoutRaw     string        `json:"stop_timeout"`
	TransmitTimeout    time.Duration `json:"-"`
	TransmitTimeoutRaw string        `json:"transmit_timeout"`

	// AuditQueueSize bounds the number of match events waiting to be
	// written.
	AuditQueueSize int `json:"audit_queue_size"`

	// Autostart begins a capture session when the process starts.
	Autostart bool `json:"autostart"`
}

// AuditConfig controls where capture sessions are recorded.
type AuditConfig struct {
	// LogDir holds one directory per session with task.log and capture.pcap.
	LogDir string `json:"log_dir"`
	// RecordEvents also stores every match in the database.
	RecordEvents bool `json:"record_events"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `json:"level"`
	Structured       bool              `json:"structured"`
	StructuredFormat string            `json:"structured_format"`
	IncludePID       bool              `json:"include_pid"`
	ExtraFields      map[string]string `json:"extra_fields,omitempty"`
}

// APIConfig contains management API settings.
//
// Note: APIKey is intentionally treated as a secret and should not be returned by API endpoints.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	APIKey  string `json:"api_key,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Capture CaptureConfig `json:"capture"`
	Audit   AuditConfig   `json:"audit"`
	Logging LoggingConfig `json:"logging"`
	API     APIConfig     `json:"api"`
}
