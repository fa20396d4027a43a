// Package server wires the capture controller, rule set, audit sinks and
// control API into a running process.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jroosing/dnsmirage/internal/api"
	"github.com/jroosing/dnsmirage/internal/api/handlers"
	"github.com/jroosing/dnsmirage/internal/audit"
	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/config"
	"github.com/jroosing/dnsmirage/internal/database"
	"github.com/jroosing/dnsmirage/internal/rules"
	"github.com/jroosing/dnsmirage/internal/session"
)

const apiShutdownTimeout = 5 * time.Second

// Runner orchestrates startup, the optional autostarted session and
// shutdown.
type Runner struct {
	logger    *slog.Logger
	substrate capture.Substrate
}

// NewRunner creates a new runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// SetSubstrate replaces the AF_PACKET substrate, mainly for tests.
func (r *Runner) SetSubstrate(s capture.Substrate) {
	r.substrate = s
}

// Run starts everything and blocks until SIGINT or SIGTERM.
func (r *Runner) Run(cfg *config.Config, db *database.DB) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg, db)
}

// RunWithContext blocks until ctx is canceled or the API server fails.
//
// Goroutine lifecycle: the API server runs in its own goroutine when
// enabled; a capture session, when started, runs its dispatch loop under
// ctx. Both are stopped before returning.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config, db *database.DB) error {
	set, err := rules.NewSet(db)
	if err != nil {
		return err
	}

	substrate := r.substrate
	if substrate == nil {
		af := capture.NewAFPacket(r.logger)
		defer af.Close()
		substrate = af
	}

	files := audit.NewFileSink(cfg.Audit.LogDir)
	store := database.NewSessionStore(db, cfg.Audit.RecordEvents)

	ctrl := session.NewController(session.Config{
		Interfaces:      cfg.Capture.Interfaces,
		PollInterval:    cfg.Capture.PollInterval,
		StopTimeout:     cfg.Capture.StopTimeout,
		TransmitTimeout: cfg.Capture.TransmitTimeout,
		AuditQueueSize:  cfg.Capture.AuditQueueSize,
	}, r.logger, substrate, set, audit.Multi{store, files})

	r.logger.Info("dnsmirage ready",
		"rules", set.Len(),
		"interfaces", cfg.Capture.Interfaces,
		"log_dir", cfg.Audit.LogDir,
		"api", cfg.API.Enabled,
	)

	errCh := make(chan error, 1)
	var srv *api.Server
	if cfg.API.Enabled {
		h := handlers.New(cfg, db, r.logger)
		h.SetRules(set)
		h.SetCapture(ctx, ctrl)
		h.SetSessions(store, files)
		h.SetInterfaceLister(substrate.ActiveInterfaces)

		srv = api.New(cfg, h, r.logger)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("control api: %w", err)
			}
		}()
	}

	if cfg.Capture.Autostart {
		if sess, err := ctrl.Start(ctx); err != nil {
			r.logger.Error("autostart failed", "err", err)
		} else {
			r.logger.Info("capture autostarted", "task_id", sess.TaskID, "interfaces", sess.Interfaces)
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	r.shutdown(ctrl, srv)
	return runErr
}

func (r *Runner) shutdown(ctrl *session.Controller, srv *api.Server) {
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), apiShutdownTimeout)
		if err := srv.Shutdown(ctx); err != nil {
			r.logger.Warn("control api shutdown", "err", err)
		}
		cancel()
	}

	if err := ctrl.Stop(); err != nil && !errors.Is(err, session.ErrNotRunning) {
		r.logger.Warn("capture stop", "err", err)
	}
	ctrl.Wait()
	r.logger.Info("dnsmirage stopped")
}
