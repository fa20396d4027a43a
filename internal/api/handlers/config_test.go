package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/database"
)

func TestGetConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.SetConfig(database.ConfigKeyAPIKey, "secret"))

	w := performRequest(env.router(), http.MethodGet, "/api/v1/config", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.ConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "500ms", resp.Capture.PollInterval)
	assert.Equal(t, []string{}, resp.Capture.Interfaces)
	assert.True(t, resp.API.APIKeySet)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestGetConfig_WithoutDatabase(t *testing.T) {
	router := setupTestRouter(createTestHandler(t))

	w := performRequest(router, http.MethodGet, "/api/v1/config", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.ConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "logs", resp.Audit.LogDir)
}

func TestPutConfig(t *testing.T) {
	env := newTestEnv(t)

	body := `{"capture":{"interfaces":["eth1"],"poll_interval":"250ms"},"logging":{"level":"debug"}}`
	w := performRequest(env.router(), http.MethodPut, "/api/v1/config", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.ConfigResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"eth1"}, resp.Capture.Interfaces)
	assert.Equal(t, "DEBUG", resp.Logging.Level)

	stored, err := env.db.ExportToConfig()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, stored.Capture.PollInterval)
	assert.Equal(t, []string{"eth1"}, env.ctrl.interfaces)
	// Untouched sections keep their values.
	assert.Equal(t, "127.0.0.1", stored.API.Host)
}

func TestPutConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"capture":`},
		{"bad duration", `{"capture":{"poll_interval":"soon"}}`},
		{"negative queue", `{"capture":{"audit_queue_size":-1}}`},
		{"bad port", `{"api":{"port":70000}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := performRequest(env.router(), http.MethodPut, "/api/v1/config", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			stored, err := env.db.ExportToConfig()
			require.NoError(t, err)
			assert.Equal(t, 500*time.Millisecond, stored.Capture.PollInterval)
			assert.Nil(t, env.ctrl.interfaces)
		})
	}
}

func TestPutConfig_WithoutDatabase(t *testing.T) {
	router := setupTestRouter(createTestHandler(t))

	w := performRequest(router, http.MethodPut, "/api/v1/config", `{}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
