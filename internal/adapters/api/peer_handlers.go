package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wgpanel/internal/adapters/wg"
	"wgpanel/internal/domain/vpn"
	"wgpanel/pkg/wireguard"
)

// CreatePeer godoc
//
//	@Summary		Create a new peer
//	@Description	Generate a key pair and register a new peer
//	@Tags			peers
//	@Accept			json
//	@Produce		json
//	@Param			peer	body		vpn.PeerCreateRequest	true	"Peer creation request"
//	@Success		201		{object}	vpn.Peer
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/peers [post]
func (h *Handler) CreatePeer(c *gin.Context) {
	var req vpn.PeerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	peer, err := h.peers.CreatePeer(c.Request.Context(), &req)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, peer)
}

// ListPeers godoc
//
//	@Summary		List all peers
//	@Tags			peers
//	@Produce		json
//	@Success		200	{array}		vpn.Peer
//	@Failure		500	{object}	map[string]string
//	@Router			/peers [get]
func (h *Handler) ListPeers(c *gin.Context) {
	peers, err := h.peers.ListPeers(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, peers)
}

// GetPeer godoc
//
//	@Summary		Get a peer
//	@Tags			peers
//	@Produce		json
//	@Param			peerId	path		string	true	"Peer ID"
//	@Success		200		{object}	vpn.Peer
//	@Failure		404		{object}	map[string]string
//	@Router			/peers/{peerId} [get]
func (h *Handler) GetPeer(c *gin.Context) {
	peer, err := h.peers.GetPeer(c.Request.Context(), c.Param("peerId"))
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, peer)
}

// UpdatePeer godoc
//
//	@Summary		Update a peer
//	@Description	Apply a partial field merge to a peer record
//	@Tags			peers
//	@Accept			json
//	@Produce		json
//	@Param			peerId	path		string					true	"Peer ID"
//	@Param			peer	body		vpn.PeerUpdateRequest	true	"Peer update request"
//	@Success		200		{object}	vpn.Peer
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/peers/{peerId} [put]
func (h *Handler) UpdatePeer(c *gin.Context) {
	var req vpn.PeerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	peer, err := h.peers.UpdatePeer(c.Request.Context(), c.Param("peerId"), &req)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, peer)
}

// DeletePeer godoc
//
//	@Summary		Delete a peer
//	@Tags			peers
//	@Param			peerId	path	string	true	"Peer ID"
//	@Success		204
//	@Failure		404	{object}	map[string]string
//	@Router			/peers/{peerId} [delete]
func (h *Handler) DeletePeer(c *gin.Context) {
	if err := h.peers.DeletePeer(c.Request.Context(), c.Param("peerId")); err != nil {
		httpError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PeerStatusResponse is the connectivity view of a peer with transfer
// counters rendered both raw and human readable.
type PeerStatusResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	PublicKey       string         `json:"public_key"`
	Status          vpn.PeerStatus `json:"status"`
	Endpoint        string         `json:"endpoint,omitempty"`
	LastHandshake   *time.Time     `json:"last_handshake,omitempty"`
	TransferRx      int64          `json:"transfer_rx"`
	TransferTx      int64          `json:"transfer_tx"`
	TransferRxHuman string         `json:"transfer_rx_human"`
	TransferTxHuman string         `json:"transfer_tx_human"`
}

// GetPeerStatus godoc
//
//	@Summary		Get peer connectivity status
//	@Tags			peers
//	@Produce		json
//	@Param			peerId	path		string	true	"Peer ID"
//	@Success		200		{object}	PeerStatusResponse
//	@Failure		404		{object}	map[string]string
//	@Router			/peers/{peerId}/status [get]
func (h *Handler) GetPeerStatus(c *gin.Context) {
	peer, err := h.peers.GetPeer(c.Request.Context(), c.Param("peerId"))
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, PeerStatusResponse{
		ID:              peer.ID,
		Name:            peer.Name,
		PublicKey:       peer.PublicKey,
		Status:          peer.Status,
		Endpoint:        peer.Endpoint,
		LastHandshake:   peer.LastHandshake,
		TransferRx:      peer.TransferRx,
		TransferTx:      peer.TransferTx,
		TransferRxHuman: wg.FormatBytes(peer.TransferRx),
		TransferTxHuman: wg.FormatBytes(peer.TransferTx),
	})
}

// GetPeerConfig godoc
//
//	@Summary		Get peer configuration
//	@Description	Serve the stored WireGuard client configuration
//	@Tags			peers
//	@Produce		plain
//	@Param			peerId	path		string	true	"Peer ID"
//	@Success		200		{string}	string	"WireGuard configuration"
//	@Failure		404		{object}	map[string]string
//	@Router			/peers/{peerId}/config [get]
func (h *Handler) GetPeerConfig(c *gin.Context) {
	cfg, err := h.peers.GetPeerConfig(c.Request.Context(), c.Param("peerId"))
	if err != nil {
		httpError(c, err)
		return
	}

	c.String(http.StatusOK, string(cfg))
}

// SuggestIP godoc
//
//	@Summary		Suggest the next free peer address
//	@Tags			peers
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		409	{object}	map[string]string
//	@Router			/peers/suggest-ip [get]
func (h *Handler) SuggestIP(c *gin.Context) {
	cidr, err := h.peers.SuggestIP(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowed_ips": cidr})
}

// GenerateKeys godoc
//
//	@Summary		Generate a WireGuard key pair
//	@Description	Generate a fresh X25519 key pair without persisting anything
//	@Tags			keys
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/keys [post]
func (h *Handler) GenerateKeys(c *gin.Context) {
	privateKey, publicKey, err := wireguard.GenerateKeyPair()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"private_key": privateKey,
		"public_key":  publicKey,
	})
}
