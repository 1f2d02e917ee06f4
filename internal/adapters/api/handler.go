package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wgpanel/internal/adapters/api/middleware"
	"wgpanel/internal/application/peer"
	"wgpanel/internal/application/status"
	"wgpanel/internal/config"
	"wgpanel/internal/domain/vpn"
)

// Handler handles HTTP requests for the peer management API
type Handler struct {
	peers     *peer.Service
	status    *status.Service
	server    vpn.ServerRepository
	authCfg   *config.AuthConfig
	wsManager *WebSocketManager
}

// NewHandler creates a new API handler. wsManager is shared with the status
// service, which feeds it sync summaries to broadcast.
func NewHandler(peers *peer.Service, statusSvc *status.Service, server vpn.ServerRepository, authCfg *config.AuthConfig, wsManager *WebSocketManager) *Handler {
	return &Handler{
		peers:     peers,
		status:    statusSvc,
		server:    server,
		authCfg:   authCfg,
		wsManager: wsManager,
	}
}

// RegisterRoutes registers all API routes. Token issuance and health stay
// outside the auth guard; everything else requires an identity.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	open := r.Group("/api/v1")
	{
		open.POST("/auth/token", h.IssueToken)
		open.GET("/health", h.Health)
	}

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(h.authCfg))
	{
		api.POST("/keys", h.GenerateKeys)

		peers := api.Group("/peers")
		{
			peers.POST("", h.CreatePeer)
			peers.GET("", h.ListPeers)
			peers.GET("/suggest-ip", h.SuggestIP)
			peers.GET("/:peerId", h.GetPeer)
			peers.PUT("/:peerId", h.UpdatePeer)
			peers.DELETE("/:peerId", h.DeletePeer)
			peers.GET("/:peerId/status", h.GetPeerStatus)
			peers.GET("/:peerId/config", h.GetPeerConfig)
		}

		api.GET("/server", h.GetServer)
		api.PUT("/server/status", h.UpdateServerStatus)
		api.POST("/sync", h.TriggerSync)

		api.GET("/ws", h.HandleWebSocket)
	}
}

// httpError maps a service error onto the response taxonomy. Sentinel
// matching runs through the wrap chain, so wrapped causes still map.
func httpError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, vpn.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, vpn.ErrPeerNotFound), errors.Is(err, vpn.ErrServerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vpn.ErrDuplicatePeer), errors.Is(err, vpn.ErrAddressUnavailable):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Health godoc
//
//	@Summary		Health check
//	@Description	Check if the API is healthy
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
