package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/audit"
	"github.com/jroosing/dnsmirage/internal/database"
)

// ListSessions godoc
// @Summary List sessions
// @Description Returns recorded capture sessions, newest first
// @Tags sessions
// @Produce json
// @Success 200 {object} models.SessionListResponse
// @Security ApiKeyAuth
// @Router /sessions [get]
func (h *Handler) ListSessions(c *gin.Context) {
	store, _ := h.getSessions()
	if store == nil {
		unavailable(c, "sessions")
		return
	}
	list, err := store.List()
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []audit.Session{}
	}
	c.JSON(http.StatusOK, models.SessionListResponse{Sessions: list, Count: len(list)})
}

// GetSession godoc
// @Summary Get session details
// @Description Returns the session record, its task log and match events
// @Tags sessions
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} models.SessionDetailsResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	store, files := h.getSessions()
	if store == nil {
		unavailable(c, "sessions")
		return
	}

	id := c.Param("id")
	sess, err := store.Get(id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := models.SessionDetailsResponse{Session: sess, PcapFiles: []string{}}
	if files != nil {
		// The directory may have been removed by hand; the record still stands.
		d, err := files.Details(id)
		if err == nil {
			resp.LogContent = d.LogContent
			resp.PcapFiles = d.PcapFiles
		} else if !errors.Is(err, audit.ErrSessionNotFound) {
			h.writeError(c, err)
			return
		}
	}

	events, err := store.Events(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if events == nil {
		events = []database.SessionEvent{}
	}
	resp.Events = events
	c.JSON(http.StatusOK, resp)
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Removes the session record and its files. The running session cannot be deleted.
// @Tags sessions
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} models.StatusResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /sessions/{id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	store, files := h.getSessions()
	if store == nil {
		unavailable(c, "sessions")
		return
	}

	id := c.Param("id")
	if err := store.Delete(id); err != nil {
		h.writeError(c, err)
		return
	}
	if files != nil {
		if err := files.Delete(id); err != nil && !errors.Is(err, audit.ErrSessionNotFound) {
			h.writeError(c, err)
			return
		}
	}
	h.logger.Info("session deleted", "task_id", id)
	c.JSON(http.StatusOK, models.StatusResponse{Status: "deleted"})
}

// DownloadPcap godoc
// @Summary Download session capture
// @Description Downloads the pcap holding each answered query and its crafted response
// @Tags sessions
// @Produce application/vnd.tcpdump.pcap
// @Param id path string true "Task ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /sessions/{id}/pcap [get]
func (h *Handler) DownloadPcap(c *gin.Context) {
	_, files := h.getSessions()
	if files == nil {
		unavailable(c, "session files")
		return
	}

	id := c.Param("id")
	path, err := files.PcapPath(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.FileAttachment(path, id+".pcap")
}
