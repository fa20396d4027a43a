package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/config"
)

// GetConfig godoc
// @Summary Get current configuration
// @Description Returns the stored configuration (api key redacted)
// @Tags config
// @Produce json
// @Success 200 {object} models.ConfigResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /config [get]
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.currentConfig()
	if err != nil {
		h.writeError(c, err)
		return
	}
	if cfg == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "config unavailable"})
		return
	}

	c.JSON(http.StatusOK, models.NewConfigResponse(cfg))
}

// PutConfig godoc
// @Summary Update configuration
// @Description Updates stored configuration. Capture interfaces apply to the next session; API and logging changes apply after restart.
// @Tags config
// @Accept json
// @Produce json
// @Param config body models.ConfigUpdateRequest true "Configuration update"
// @Success 200 {object} models.ConfigResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /config [put]
func (h *Handler) PutConfig(c *gin.Context) {
	if h.db == nil {
		unavailable(c, "database")
		return
	}

	var req models.ConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	cfg, err := h.db.ExportToConfig()
	if err != nil {
		h.writeError(c, err)
		return
	}
	req.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.db.ImportConfig(cfg); err != nil {
		h.writeError(c, err)
		return
	}

	if _, ctrl := h.getCapture(); ctrl != nil {
		ctrl.SetInterfaces(cfg.Capture.Interfaces)
	}
	h.logger.Info("configuration updated")

	c.JSON(http.StatusOK, models.NewConfigResponse(cfg))
}

// currentConfig prefers the stored configuration over the startup copy.
func (h *Handler) currentConfig() (*config.Config, error) {
	if h.db != nil {
		return h.db.ExportToConfig()
	}
	return h.cfg, nil
}
