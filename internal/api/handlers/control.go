package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsmirage/internal/api/models"
)

// StartCapture godoc
// @Summary Start capture
// @Description Opens a capture session on the configured interfaces
// @Tags control
// @Produce json
// @Success 200 {object} models.ControlResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /control/start [post]
func (h *Handler) StartCapture(c *gin.Context) {
	ctx, ctrl := h.getCapture()
	if ctrl == nil {
		unavailable(c, "capture")
		return
	}

	sess, err := ctrl.Start(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ControlResponse{Status: "started", Session: &sess})
}

// StopCapture godoc
// @Summary Stop capture
// @Description Stops the running capture session
// @Tags control
// @Produce json
// @Success 200 {object} models.ControlResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /control/stop [post]
func (h *Handler) StopCapture(c *gin.Context) {
	_, ctrl := h.getCapture()
	if ctrl == nil {
		unavailable(c, "capture")
		return
	}

	if err := ctrl.Stop(); err != nil {
		h.writeError(c, err)
		return
	}
	st := ctrl.Status()
	c.JSON(http.StatusOK, models.ControlResponse{Status: "stopped", Session: st.Session})
}

// CaptureStatus godoc
// @Summary Capture status
// @Description Returns the controller state, the current or last session and capture counters
// @Tags control
// @Produce json
// @Success 200 {object} session.Status
// @Security ApiKeyAuth
// @Router /control/status [get]
func (h *Handler) CaptureStatus(c *gin.Context) {
	_, ctrl := h.getCapture()
	if ctrl == nil {
		unavailable(c, "capture")
		return
	}
	c.JSON(http.StatusOK, ctrl.Status())
}
