package api

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"wgpanel/internal/application/status"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketManager fans reconciliation summaries out to connected dashboards.
// It implements status.Notifier.
type WebSocketManager struct {
	connections map[*websocket.Conn]struct{}
	mu          sync.RWMutex
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[*websocket.Conn]struct{}),
	}
}

// Register adds a connection to the manager
func (m *WebSocketManager) Register(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn] = struct{}{}
	log.Info().Int("connections", len(m.connections)).Msg("WebSocket connection registered")
}

// Unregister removes a connection from the manager
func (m *WebSocketManager) Unregister(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, conn)
	log.Info().Int("connections", len(m.connections)).Msg("WebSocket connection unregistered")
}

// NotifySync broadcasts a sync summary to every connected client. A failed
// write only logs; the read loop notices the dead connection and unregisters it.
func (m *WebSocketManager) NotifySync(result *status.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal sync summary")
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for conn := range m.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Msg("Failed to push sync summary")
		}
	}
}

// HandleWebSocket upgrades the connection and streams sync summaries until the
// client goes away.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}
	defer func() {
		h.wsManager.Unregister(conn)
		conn.Close()
	}()

	h.wsManager.Register(conn)

	// Keep connection alive and listen for close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Info().Msg("WebSocket connection closed")
			break
		}
	}
}
