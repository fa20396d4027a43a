package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/session"
)

func TestControl_Unavailable(t *testing.T) {
	router := setupTestRouter(createTestHandler(t))

	for _, path := range []string{"/api/v1/control/start", "/api/v1/control/stop"} {
		w := performRequest(router, http.MethodPost, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
	w := performRequest(router, http.MethodGet, "/api/v1/control/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStartCapture(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(env.router(), http.MethodPost, "/api/v1/control/start", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.ControlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "started", resp.Status)
	require.NotNil(t, resp.Session)
	assert.Equal(t, "20250101000000", resp.Session.TaskID)

	// The session outlives the request.
	assert.Equal(t, t.Context(), env.ctrl.startCtx)
}

func TestStopCapture(t *testing.T) {
	env := newTestEnv(t)
	performRequest(env.router(), http.MethodPost, "/api/v1/control/start", "")

	w := performRequest(env.router(), http.MethodPost, "/api/v1/control/stop", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ControlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "stopped", resp.Status)
	require.NotNil(t, resp.Session)
	assert.Equal(t, "stopped", resp.Session.Status)
}

func TestControl_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		startErr error
		stopErr  error
		want     int
	}{
		{"start while running", "/api/v1/control/start", session.ErrAlreadyRunning, nil, http.StatusConflict},
		{"start without interfaces", "/api/v1/control/start", capture.ErrNoInterfaces, nil, http.StatusConflict},
		{"stop when idle", "/api/v1/control/stop", nil, session.ErrNotRunning, http.StatusConflict},
		{"stop timeout", "/api/v1/control/stop", nil, session.ErrStopTimeout, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.ctrl.startErr = tt.startErr
			env.ctrl.stopErr = tt.stopErr

			w := performRequest(env.router(), http.MethodPost, tt.path, "")

			assert.Equal(t, tt.want, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestCaptureStatus(t *testing.T) {
	env := newTestEnv(t)
	env.ctrl.status = session.Status{State: "idle", Stats: session.StatsSnapshot{FramesTotal: 12}}

	w := performRequest(env.router(), http.MethodGet, "/api/v1/control/status", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp session.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "idle", resp.State)
	assert.False(t, resp.Running)
	assert.Nil(t, resp.Session)
	assert.Equal(t, uint64(12), resp.Stats.FramesTotal)
}
