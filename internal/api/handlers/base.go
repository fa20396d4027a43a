// Package handlers implements the REST API endpoint handlers for dnsmirage.
//
// REST API Endpoints:
//
// System:
//   - GET /api/v1/health - Health check status
//   - GET /api/v1/stats - Runtime, host and capture statistics
//   - GET /api/v1/config - Current configuration (api key redacted)
//   - PUT /api/v1/config - Update stored configuration
//
// Rules (ordered, first match wins):
//   - GET/POST /api/v1/rules - List or create rules
//   - GET/PUT/DELETE /api/v1/rules/:id - Read, replace or delete a rule
//   - PUT /api/v1/rules/order - Reorder the whole collection
//   - POST /api/v1/rules/import - Replace the collection from a JSON array
//   - GET /api/v1/rules/export - Download the collection as JSON
//
// Capture control:
//   - POST /api/v1/control/start - Open a capture session
//   - POST /api/v1/control/stop - Stop the running session
//   - GET /api/v1/control/status - Controller state and counters
//
// Sessions:
//   - GET /api/v1/sessions - List recorded sessions
//   - GET/DELETE /api/v1/sessions/:id - Session details or removal
//   - GET /api/v1/sessions/:id/pcap - Download the session capture
//
// Reference data:
//   - GET /api/v1/interfaces - Active capture interfaces
//   - GET /api/v1/dns/types - Record type catalogue
//
// Authentication:
//
// All endpoints support optional API key authentication via the X-API-Key
// header. The control surface can make the host answer DNS queries on the
// local network, so bind it to localhost or set a key.
//
// @title dnsmirage Control API
// @version 1.0
// @description REST API for managing DNS interception rules and capture sessions.
//
// @contact.name dnsmirage
// @contact.url https://github.com/jroosing/dnsmirage
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/audit"
	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/config"
	"github.com/jroosing/dnsmirage/internal/database"
	"github.com/jroosing/dnsmirage/internal/rules"
	"github.com/jroosing/dnsmirage/internal/session"
)

// CaptureController is the capture session controller as seen by the API.
type CaptureController interface {
	Start(ctx context.Context) (audit.Session, error)
	Stop() error
	Status() session.Status
	SetInterfaces(names []string)
}

// InterfaceLister lists the interfaces a session may capture on.
type InterfaceLister func() ([]capture.Identity, error)

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	db        *database.DB
	logger    *slog.Logger
	startTime time.Time

	// Runtime components (set after construction)
	rules      *rules.Set
	capture    CaptureController
	captureCtx context.Context
	sessions   *database.SessionStore
	artifacts  *audit.FileSink
	interfaces InterfaceLister
	mu         sync.RWMutex
}

// New creates a new Handler with the given configuration and database.
func New(cfg *config.Config, db *database.DB, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:        cfg,
		db:         db,
		logger:     logger,
		startTime:  time.Now(),
		interfaces: capture.Interfaces,
	}
}

// DB returns the database connection for handlers that need it.
func (h *Handler) DB() *database.DB {
	return h.db
}

// SetRules sets the rule collection served under /rules.
func (h *Handler) SetRules(set *rules.Set) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rules = set
}

// SetCapture sets the session controller. Sessions started through the API
// live until ctx is cancelled or they are stopped, independent of the
// request that started them.
func (h *Handler) SetCapture(ctx context.Context, c CaptureController) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.captureCtx = ctx
	h.capture = c
}

// SetSessions sets the session record stores.
func (h *Handler) SetSessions(store *database.SessionStore, files *audit.FileSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions = store
	h.artifacts = files
}

// SetInterfaceLister replaces the interface enumeration used by
// /interfaces.
func (h *Handler) SetInterfaceLister(fn InterfaceLister) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.interfaces = fn
}

func (h *Handler) getRules() *rules.Set {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rules
}

func (h *Handler) getCapture() (context.Context, CaptureController) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.captureCtx, h.capture
}

func (h *Handler) getSessions() (*database.SessionStore, *audit.FileSink) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions, h.artifacts
}

func (h *Handler) getInterfaceLister() InterfaceLister {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.interfaces
}

func unavailable(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: what + " unavailable"})
}

// writeError maps domain errors onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *rules.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, rules.ErrNotFound), errors.Is(err, audit.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrSessionState),
		errors.Is(err, audit.ErrSessionActive),
		errors.Is(err, capture.ErrNoInterfaces):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrStopTimeout):
		c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("api request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}
}
