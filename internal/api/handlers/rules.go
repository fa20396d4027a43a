package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/rules"
)

// maxImportBytes bounds rule import uploads.
const maxImportBytes = 4 << 20

// ListRules godoc
// @Summary List rules
// @Description Returns all rules in priority order
// @Tags rules
// @Produce json
// @Success 200 {object} models.RuleListResponse
// @Failure 503 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /rules [get]
func (h *Handler) ListRules(c *gin.Context) {
	set := h.getRules()
	if set == nil {
		unavailable(c, "rules")
		return
	}
	c.JSON(http.StatusOK, models.NewRuleListResponse(set.List()))
}

// GetRule godoc
// @Summary Get a rule
// @Tags rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} rules.Rule
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /rules/{id} [get]
func (h *Handler) GetRule(c *gin.Context) {
	set := h.getRules()
	if set == nil {
		unavailable(c, "rules")
		return
	}
	r, err := set.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CreateRule godoc
// @Summary Create a rule
// @Description Appends a rule to the end of the collection. Any supplied rule_id is replaced.
// @Tags rules
// @Accept json
// @Produce json
// @Param rule body rules.Rule true "Rule"
// @Success 201 {object} rules.Rule
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /rules [post]
func (h *Handler) CreateRule(c *gin.Context) {
	set := h.getRules()
	if set == nil {
		unavailable(c, "rules")
		return
	}

	var r rules.Rule
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := set.Create(r)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("rule created", "rule_id", created.ID, "rule", created.Name)
	c.JSON(http.StatusCreated, created)
}

// UpdateRule godoc
// @Summary Replace a rule
// @Description Replaces a rule in place, keeping its id and position
// @Tags rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body rules.Rule true "Rule"
// @Success 200 {object} rules.Rule
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /rules/{id} [put]
func (h *Handler) UpdateRule(c *gin.Context) {
	set := h.getRules()
	if set == nil {
		unavailable(c, "rules")
		return
	}

	var r rules.Rule
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := set.Update(c.Param("id"), r)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("rule updated", "rule_id", updated.ID, "rule", updated.Name)
	c.JSON(http.StatusOK, updated)
}

// DeleteRule godoc
// @Summary Delete a rule
// @Tags rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} models.StatusResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /rules/{id} [delete]
func (h *Handler) DeleteRule(c *gin.Context) {
	set := h.getRules()
	if set == nil {
		unavailable(c, "rules")
		return
	}
	if err := set.Delete(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("rule deleted", "rule_id", c.Param("id"))
	c.JSON(http.StatusOK, models.StatusResponse{Status: "deleted"})
}

// ReorderRules godoc
// @Summary Reorder rules
// @Description Sets the priority order. The list must name every rule exactly once.
// @Tags rules
// @Accept json
// @Produce json
// @Param order body models.ReorderRequest true "Rule IDs in priority order"
// @Success 200 {object} models.RuleListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /rules/order [put]
func (h *Handler) ReorderRules(c *gin.Context) {
	set := h.getRules()
	if set == nil {
		unavailable(c, "rules")
		return
	}

	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err := set.Reorder(req.RuleIDs); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewRuleListResponse(set.List()))
}

// ImportRules godoc
// @Summary Import rules
// @Description Replaces the whole collection with a JSON array of rules, sent as multipart field "file" or as the request body. Nothing changes if any entry is invalid.
// @Tags rules
// @Accept json,mpfd
// @Produce json
// @Param file formData file false "Rules JSON file"
// @Success 200 {object} models.RuleListResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /rules/import [post]
func (h *Handler) ImportRules(c *gin.Context) {
	set := h.getRules()
	if set == nil {
		unavailable(c, "rules")
		return
	}

	data, err := readImport(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	imported, err := set.Import(data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("rules imported", "count", len(imported))
	c.JSON(http.StatusOK, models.NewRuleListResponse(imported))
}

func readImport(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}

// ExportRules godoc
// @Summary Export rules
// @Description Downloads the collection as a JSON array accepted by /rules/import
// @Tags rules
// @Produce json
// @Success 200 {array} rules.Rule
// @Security ApiKeyAuth
// @Router /rules/export [get]
func (h *Handler) ExportRules(c *gin.Context) {
	set := h.getRules()
	if set == nil {
		unavailable(c, "rules")
		return
	}
	data, err := set.Export()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="dnsmirage-rules.json"`)
	c.Data(http.StatusOK, "application/json", data)
}
