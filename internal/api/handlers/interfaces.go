package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/dnsmirage/internal/api/models"
	"github.com/jroosing/dnsmirage/internal/dns"
)

// ListInterfaces godoc
// @Summary List capture interfaces
// @Description Returns the interfaces that are up, not loopback and have an address
// @Tags reference
// @Produce json
// @Success 200 {array} models.InterfaceResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /interfaces [get]
func (h *Handler) ListInterfaces(c *gin.Context) {
	ids, err := h.getInterfaceLister()()
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]models.InterfaceResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.NewInterfaceResponse(id))
	}
	c.JSON(http.StatusOK, out)
}

// DNSTypes godoc
// @Summary List DNS record types
// @Tags reference
// @Produce json
// @Success 200 {object} models.DNSTypesResponse
// @Security ApiKeyAuth
// @Router /dns/types [get]
func (h *Handler) DNSTypes(c *gin.Context) {
	c.JSON(http.StatusOK, models.DNSTypesResponse{Types: dns.KnownTypes})
}
