package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jroosing/dnsmirage/internal/config"
)

// ExportToConfig converts the stored key/value configuration to a
// validated Config.
func (db *DB) ExportToConfig() (*config.Config, error) {
	kv, err := db.GetAllConfig()
	if err != nil {
		return nil, err
	}

	r := kvReader{kv: kv}
	cfg := &config.Config{
		Capture: config.CaptureConfig{
			Interfaces:         splitList(kv[ConfigKeyCaptureInterfaces]),
			PollIntervalRaw:    kv[ConfigKeyCapturePollInterval],
			StopTimeoutRaw:     kv[ConfigKeyCaptureStopTimeout],
			TransmitTimeoutRaw: kv[ConfigKeyCaptureTransmitTimeout],
			AuditQueueSize:     r.int(ConfigKeyCaptureAuditQueueSize),
			Autostart:          r.bool(ConfigKeyCaptureAutostart),
		},
		Audit: config.AuditConfig{
			LogDir:       kv[ConfigKeyAuditLogDir],
			RecordEvents: r.bool(ConfigKeyAuditRecordEvents),
		},
		Logging: config.LoggingConfig{
			Level:            kv[ConfigKeyLoggingLevel],
			Structured:       r.bool(ConfigKeyLoggingStructured),
			StructuredFormat: kv[ConfigKeyLoggingStructuredFormat],
			IncludePID:       r.bool(ConfigKeyLoggingIncludePID),
			// Extra fields not currently stored in DB
			ExtraFields: make(map[string]string),
		},
		API: config.APIConfig{
			Enabled: r.bool(ConfigKeyAPIEnabled),
			Host:    kv[ConfigKeyAPIHost],
			Port:    r.int(ConfigKeyAPIPort),
			APIKey:  kv[ConfigKeyAPIKey],
		},
	}
	if r.err != nil {
		return nil, r.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stored config: %w", err)
	}
	return cfg, nil
}

// ImportConfig validates cfg and writes it to the database in one
// transaction.
func (db *DB) ImportConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	configs := map[string]string{
		ConfigKeyCaptureInterfaces:      strings.Join(cfg.Capture.Interfaces, ","),
		ConfigKeyCapturePollInterval:    cfg.Capture.PollIntervalRaw,
		ConfigKeyCaptureStopTimeout:     cfg.Capture.StopTimeoutRaw,
		ConfigKeyCaptureTransmitTimeout: cfg.Capture.TransmitTimeoutRaw,
		ConfigKeyCaptureAuditQueueSize:  strconv.Itoa(cfg.Capture.AuditQueueSize),
		ConfigKeyCaptureAutostart:       strconv.FormatBool(cfg.Capture.Autostart),

		ConfigKeyAuditLogDir:       cfg.Audit.LogDir,
		ConfigKeyAuditRecordEvents: strconv.FormatBool(cfg.Audit.RecordEvents),

		ConfigKeyLoggingLevel:            cfg.Logging.Level,
		ConfigKeyLoggingStructured:       strconv.FormatBool(cfg.Logging.Structured),
		ConfigKeyLoggingStructuredFormat: cfg.Logging.StructuredFormat,
		ConfigKeyLoggingIncludePID:       strconv.FormatBool(cfg.Logging.IncludePID),

		ConfigKeyAPIEnabled: strconv.FormatBool(cfg.API.Enabled),
		ConfigKeyAPIHost:    cfg.API.Host,
		ConfigKeyAPIPort:    strconv.Itoa(cfg.API.Port),
		ConfigKeyAPIKey:     cfg.API.APIKey,
	}

	return db.SetMultipleConfig(configs)
}

// kvReader parses typed values and keeps the first error.
type kvReader struct {
	kv  map[string]string
	err error
}

func (r *kvReader) int(key string) int {
	raw := strings.TrimSpace(r.kv[key])
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("config %s: %w", key, err)
	}
	return n
}

func (r *kvReader) bool(key string) bool {
	raw := strings.TrimSpace(r.kv[key])
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("config %s: %w", key, err)
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
