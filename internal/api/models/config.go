package models

import "github.com/jroosing/dnsmirage/internal/config"

// APIConfigResponse is a redacted version of APIConfig (no api_key exposed).
type APIConfigResponse struct {
	Enabled   bool   `json:"enabled"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	APIKeySet bool   `json:"api_key_set"`
}

// CaptureConfigResponse reports capture settings with durations as text.
type CaptureConfigResponse struct {
	Interfaces      []string `json:"interfaces"`
	PollInterval    string   `json:"poll_interval"`
	StopTimeout     string   `json:"stop_timeout"`
	TransmitTimeout string   `json:"transmit_timeout"`
	AuditQueueSize  int      `json:"audit_queue_size"`
	Autostart       bool     `json:"autostart"`
}

// ConfigResponse is the API response for GET /config.
type ConfigResponse struct {
	Capture CaptureConfigResponse `json:"capture"`
	Audit   config.AuditConfig    `json:"audit"`
	Logging config.LoggingConfig  `json:"logging"`
	API     APIConfigResponse     `json:"api"`
}

// NewConfigResponse redacts cfg for output.
func NewConfigResponse(cfg *config.Config) ConfigResponse {
	ifaces := cfg.Capture.Interfaces
	if ifaces == nil {
		ifaces = []string{}
	}
	return ConfigResponse{
		Capture: CaptureConfigResponse{
			Interfaces:      ifaces,
			PollInterval:    cfg.Capture.PollIntervalRaw,
			StopTimeout:     cfg.Capture.StopTimeoutRaw,
			TransmitTimeout: cfg.Capture.TransmitTimeoutRaw,
			AuditQueueSize:  cfg.Capture.AuditQueueSize,
			Autostart:       cfg.Capture.Autostart,
		},
		Audit:   cfg.Audit,
		Logging: cfg.Logging,
		API: APIConfigResponse{
			Enabled:   cfg.API.Enabled,
			Host:      cfg.API.Host,
			Port:      cfg.API.Port,
			APIKeySet: cfg.API.APIKey != "",
		},
	}
}

// ConfigUpdateRequest is the body of PUT /config. Absent sections and
// fields keep their stored values.
type ConfigUpdateRequest struct {
	Capture *CaptureConfigUpdate `json:"capture,omitempty"`
	Audit   *AuditConfigUpdate   `json:"audit,omitempty"`
	Logging *LoggingConfigUpdate `json:"logging,omitempty"`
	API     *APIConfigUpdate     `json:"api,omitempty"`
}

type CaptureConfigUpdate struct {
	Interfaces      *[]string `json:"interfaces,omitempty"`
	PollInterval    *string   `json:"poll_interval,omitempty"`
	StopTimeout     *string   `json:"stop_timeout,omitempty"`
	TransmitTimeout *string   `json:"transmit_timeout,omitempty"`
	AuditQueueSize  *int      `json:"audit_queue_size,omitempty"`
	Autostart       *bool     `json:"autostart,omitempty"`
}

type AuditConfigUpdate struct {
	LogDir       *string `json:"log_dir,omitempty"`
	RecordEvents *bool   `json:"record_events,omitempty"`
}

type LoggingConfigUpdate struct {
	Level            *string `json:"level,omitempty"`
	Structured       *bool   `json:"structured,omitempty"`
	StructuredFormat *string `json:"structured_format,omitempty"`
	IncludePID       *bool   `json:"include_pid,omitempty"`
}

type APIConfigUpdate struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Host    *string `json:"host,omitempty"`
	Port    *int    `json:"port,omitempty"`
	APIKey  *string `json:"api_key,omitempty"`
}

// Apply copies the present fields onto cfg.
func (u ConfigUpdateRequest) Apply(cfg *config.Config) {
	if c := u.Capture; c != nil {
		set(&cfg.Capture.Interfaces, c.Interfaces)
		set(&cfg.Capture.PollIntervalRaw, c.PollInterval)
		set(&cfg.Capture.StopTimeoutRaw, c.StopTimeout)
		set(&cfg.Capture.TransmitTimeoutRaw, c.TransmitTimeout)
		set(&cfg.Capture.AuditQueueSize, c.AuditQueueSize)
		set(&cfg.Capture.Autostart, c.Autostart)
	}
	if a := u.Audit; a != nil {
		set(&cfg.Audit.LogDir, a.LogDir)
		set(&cfg.Audit.RecordEvents, a.RecordEvents)
	}
	if l := u.Logging; l != nil {
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.Structured, l.Structured)
		set(&cfg.Logging.StructuredFormat, l.StructuredFormat)
		set(&cfg.Logging.IncludePID, l.IncludePID)
	}
	if a := u.API; a != nil {
		set(&cfg.API.Enabled, a.Enabled)
		set(&cfg.API.Host, a.Host)
		set(&cfg.API.Port, a.Port)
		set(&cfg.API.APIKey, a.APIKey)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
