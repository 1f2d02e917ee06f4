package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wgpanel/internal/domain/vpn"
)

// GetServer godoc
//
//	@Summary		Get the server configuration
//	@Description	Get the singleton server record
//	@Tags			server
//	@Produce		json
//	@Success		200	{object}	vpn.Server
//	@Failure		404	{object}	map[string]string
//	@Router			/server [get]
func (h *Handler) GetServer(c *gin.Context) {
	server, err := h.server.GetServer(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, server)
}

// ServerStatusRequest carries a manual server status override.
type ServerStatusRequest struct {
	Status vpn.ServerStatus `json:"status" binding:"required"`
}

// UpdateServerStatus godoc
//
//	@Summary		Update the server status
//	@Description	Manually override the server status; the next sync reasserts the observed state
//	@Tags			server
//	@Accept			json
//	@Produce		json
//	@Param			status	body		ServerStatusRequest	true	"Status update request"
//	@Success		200		{object}	vpn.Server
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/server/status [put]
func (h *Handler) UpdateServerStatus(c *gin.Context) {
	var req ServerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !vpn.ValidServerStatus(req.Status) {
		httpError(c, fmt.Errorf("%w: unknown server status %q", vpn.ErrValidation, req.Status))
		return
	}

	server, err := h.server.GetServer(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	server.Status = req.Status
	server.UpdatedAt = time.Now()
	if err := h.server.UpsertServer(c.Request.Context(), server); err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, server)
}

// TriggerSync godoc
//
//	@Summary		Reconcile against the live interface
//	@Description	Run one reconciliation pass and return its summary
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	status.Result
//	@Failure		500	{object}	map[string]string
//	@Router			/sync [post]
func (h *Handler) TriggerSync(c *gin.Context) {
	result, err := h.status.Sync(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
