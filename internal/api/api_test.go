// Package api_test provides behavior tests for the API package.
package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnsmirage/internal/api"
	"github.com/jroosing/dnsmirage/internal/api/handlers"
	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/config"
	"github.com/jroosing/dnsmirage/internal/database"
	"github.com/jroosing/dnsmirage/internal/rules"
)

func createTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		API: config.APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8080,
		},
	}
	require.NoError(t, cfg.Validate())
	return cfg
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

// ============================================================================
// Server Creation Tests
// ============================================================================

func TestNew_CreatesServer(t *testing.T) {
	server := api.New(createTestConfig(t), nil, nil)

	assert.NotNil(t, server)
	assert.NotNil(t, server.Engine())
}

func TestNew_PanicsOnNilConfig(t *testing.T) {
	assert.Panics(t, func() {
		api.New(nil, nil, nil)
	})
}

func TestServer_Addr(t *testing.T) {
	cfg := createTestConfig(t)
	cfg.API.Host = "0.0.0.0"
	cfg.API.Port = 9090

	server := api.New(cfg, nil, nil)

	assert.Equal(t, "0.0.0.0:9090", server.Addr())
}

// ============================================================================
// Routes Tests
// ============================================================================

func TestRoutes_HealthEndpoint(t *testing.T) {
	server := api.New(createTestConfig(t), nil, nil)

	w := performRequest(server.Engine(), http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestRoutes_StatsEndpoint(t *testing.T) {
	server := api.New(createTestConfig(t), nil, nil)

	w := performRequest(server.Engine(), http.MethodGet, "/api/v1/stats", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.ServerStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Uptime)
}

func TestRoutes_UnwiredComponents(t *testing.T) {
	server := api.New(createTestConfig(t), nil, nil)

	for _, path := range []string{"/api/v1/rules", "/api/v1/sessions", "/api/v1/control/status"} {
		w := performRequest(server.Engine(), http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestRoutes_RuleStaticPathsBeatID(t *testing.T) {
	cfg := createTestConfig(t)
	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	defer db.Close()
	set, err := rules.NewSet(db)
	require.NoError(t, err)

	h := handlers.New(cfg, db, nil)
	h.SetRules(set)
	server := api.New(cfg, h, nil)

	w := performRequest(server.Engine(), http.MethodGet, "/api/v1/rules/export", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = performRequest(server.Engine(), http.MethodGet, "/api/v1/rules/unknown-id", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ============================================================================
// API Key Protection Tests
// ============================================================================

func TestRoutes_APIKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		want   int
	}{
		{"valid key", "secret-key", "secret-key", http.StatusOK},
		{"invalid key", "secret-key", "wrong-key", http.StatusUnauthorized},
		{"missing key", "secret-key", "", http.StatusUnauthorized},
		{"no key configured", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig(t)
			cfg.API.APIKey = tt.key
			server := api.New(cfg, nil, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			if tt.header != "" {
				req.Header.Set("X-Api-Key", tt.header)
			}
			w := httptest.NewRecorder()
			server.Engine().ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

// ============================================================================
// Server Lifecycle Tests
// ============================================================================

func TestServer_Shutdown(t *testing.T) {
	cfg := createTestConfig(t)
	server := api.New(cfg, nil, nil)

	// Shutdown should not error even if never started
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, server.Shutdown(ctx))
}

// ============================================================================
// Swagger and UI Tests
// ============================================================================

func TestRoutes_SwaggerEndpoint(t *testing.T) {
	server := api.New(createTestConfig(t), nil, nil)

	w := performRequest(server.Engine(), http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(server.Engine(), http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/rules/{id}")
}

func TestRoutes_SPAFallback(t *testing.T) {
	server := api.New(createTestConfig(t), nil, nil)

	w := performRequest(server.Engine(), http.MethodGet, "/sessions/20250101000000", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dnsmirage")
}

func TestRoutes_NotFound(t *testing.T) {
	server := api.New(createTestConfig(t), nil, nil)

	w := performRequest(server.Engine(), http.MethodGet, "/api/v1/nonexistent", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not found", resp.Error)
}
