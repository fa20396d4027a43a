package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/session"
)

// ============================================================================
// Health Endpoint Tests
// ============================================================================

func TestHealth(t *testing.T) {
	router := setupTestRouter(createTestHandler(t))

	w := performRequest(router, http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHealth_WithDatabase(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(env.router(), http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_ClosedDatabase(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Close())

	w := performRequest(env.router(), http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// ============================================================================
// Stats Endpoint Tests
// ============================================================================

func TestStats(t *testing.T) {
	router := setupTestRouter(createTestHandler(t))

	w := performRequest(router, http.MethodGet, "/api/v1/stats", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.ServerStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Uptime)
	assert.Positive(t, resp.GoRoutines)
	assert.Positive(t, resp.CPU.NumCPU)
	assert.Zero(t, resp.RuleCount)
}

func TestStats_IncludesCaptureCounters(t *testing.T) {
	env := newTestEnv(t)
	env.ctrl.status = session.Status{State: "running", Running: true, Stats: session.StatsSnapshot{QueriesTotal: 7, RulesMatched: 3}}
	w := performRequest(env.router(), http.MethodPost, "/api/v1/rules", spoofRuleJSON)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(env.router(), http.MethodGet, "/api/v1/stats", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.ServerStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.Capture.QueriesTotal)
	assert.Equal(t, uint64(3), resp.Capture.RulesMatched)
	assert.Equal(t, 1, resp.RuleCount)
}
