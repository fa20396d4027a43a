package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jroosing/dnsmirage/internal/config"
	"github.com/jroosing/dnsmirage/internal/database"
	"github.com/jroosing/dnsmirage/internal/logging"
	"github.com/jroosing/dnsmirage/internal/server"
)

func main() {
	var (
		dbPath    = flag.String("db", "", "Path to the SQLite database (or set DNSMIRAGE_DB)")
		apiHost   = flag.String("api-host", "", "Override control API bind host")
		apiPort   = flag.Int("api-port", 0, "Override control API port")
		ifaces    = flag.String("iface", "", "Comma-separated capture interfaces (default: all active)")
		logDir    = flag.String("log-dir", "", "Override session log directory")
		jsonLogs  = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug     = flag.Bool("debug", false, "Enable debug logging")
		autostart = flag.Bool("autostart", false, "Start a capture session immediately")
	)
	flag.Parse()

	db, err := database.Open(config.ResolveDBPath(*dbPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg, err := db.ExportToConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags override stored values for this run only.
	if *apiHost != "" {
		cfg.API.Host = *apiHost
	}
	if *apiPort != 0 {
		cfg.API.Port = *apiPort
	}
	if *ifaces != "" {
		cfg.Capture.Interfaces = strings.Split(*ifaces, ",")
	}
	if *logDir != "" {
		cfg.Audit.LogDir = *logDir
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	if *autostart {
		cfg.Capture.Autostart = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Configure(logging.FromConfig(cfg.Logging))
	logger.Info("dnsmirage starting",
		"db", config.ResolveDBPath(*dbPath),
		"api", cfg.API.Enabled,
		"api_addr", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"interfaces", cfg.Capture.Interfaces,
		"autostart", cfg.Capture.Autostart,
	)

	runner := server.NewRunner(logger)
	if err := runner.Run(cfg, db); err != nil {
		logger.Error("exited with error", "err", err)
		db.Close()
		os.Exit(1)
	}
}
