// Package handlers_test provides behavior tests for the API handlers package.
package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnsmirage/internal/api/handlers"
	"github.com/jroosing/dnsmirage/internal/audit"
	"github.com/jroosing/dnsmirage/internal/config"
	"github.com/jroosing/dnsmirage/internal/database"
	"github.com/jroosing/dnsmirage/internal/rules"
	"github.com/jroosing/dnsmirage/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func createTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	require.NoError(t, cfg.Validate())
	return cfg
}

// createTestHandler returns a handler with no database or runtime
// components.
func createTestHandler(t *testing.T) *handlers.Handler {
	return handlers.New(createTestConfig(t), nil, quietLogger)
}

type testEnv struct {
	h     *handlers.Handler
	db    *database.DB
	rules *rules.Set
	store *database.SessionStore
	files *audit.FileSink
	ctrl  *fakeController
}

// newTestEnv wires a handler to a temporary database, rule set, session
// stores and a fake capture controller.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	set, err := rules.NewSet(db)
	require.NoError(t, err)

	env := &testEnv{
		db:    db,
		rules: set,
		store: database.NewSessionStore(db, true),
		files: audit.NewFileSink(filepath.Join(dir, "logs")),
		ctrl:  &fakeController{},
	}
	env.h = handlers.New(createTestConfig(t), db, quietLogger)
	env.h.SetRules(set)
	env.h.SetCapture(t.Context(), env.ctrl)
	env.h.SetSessions(env.store, env.files)
	return env
}

func (e *testEnv) router() *gin.Engine {
	return setupTestRouter(e.h)
}

func setupTestRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/health", h.Health)
	v1.GET("/stats", h.Stats)
	v1.GET("/config", h.GetConfig)
	v1.PUT("/config", h.PutConfig)
	v1.GET("/rules", h.ListRules)
	v1.POST("/rules", h.CreateRule)
	v1.PUT("/rules/order", h.ReorderRules)
	v1.POST("/rules/import", h.ImportRules)
	v1.GET("/rules/export", h.ExportRules)
	v1.GET("/rules/:id", h.GetRule)
	v1.PUT("/rules/:id", h.UpdateRule)
	v1.DELETE("/rules/:id", h.DeleteRule)
	v1.POST("/control/start", h.StartCapture)
	v1.POST("/control/stop", h.StopCapture)
	v1.GET("/control/status", h.CaptureStatus)
	v1.GET("/sessions", h.ListSessions)
	v1.GET("/sessions/:id", h.GetSession)
	v1.DELETE("/sessions/:id", h.DeleteSession)
	v1.GET("/sessions/:id/pcap", h.DownloadPcap)
	v1.GET("/interfaces", h.ListInterfaces)
	v1.GET("/dns/types", h.DNSTypes)
	return r
}

func performRequest(r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// fakeController records calls and returns canned results.
type fakeController struct {
	mu         sync.Mutex
	startErr   error
	stopErr    error
	status     session.Status
	interfaces []string
	starts     int
	startCtx   context.Context
}

func (f *fakeController) Start(ctx context.Context) (audit.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.startCtx = ctx
	if f.startErr != nil {
		return audit.Session{}, f.startErr
	}
	s := audit.Session{TaskID: "20250101000000", Status: audit.StatusRunning, Interfaces: []string{"eth0"}}
	f.status = session.Status{State: "running", Running: true, Session: &s}
	return s, nil
}

func (f *fakeController) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopErr != nil {
		return f.stopErr
	}
	if f.status.Session != nil {
		s := *f.status.Session
		s.Status = audit.StatusStopped
		f.status = session.Status{State: "idle", Session: &s}
	}
	return nil
}

func (f *fakeController) Status() session.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeController) SetInterfaces(names []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interfaces = names
}

const spoofRuleJSON = `{
	"name": "spoof",
	"is_enabled": true,
	"trigger_condition": {"dns": {"qname": "example.com", "qtype": 1}},
	"response_action": {"dns_answers": [{"type": 1, "ttl": 60, "rdata": "1.2.3.4"}]}
}`
