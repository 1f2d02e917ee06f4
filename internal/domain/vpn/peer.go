package vpn

import "time"

// PeerStatus is the reconciled connectivity state of a peer.
type PeerStatus string

const (
	StatusConnected      PeerStatus = "connected"
	StatusDisconnected   PeerStatus = "disconnected"
	StatusNeverConnected PeerStatus = "never_connected"
)

// DefaultPersistentKeepalive is applied to every peer unless overridden.
const DefaultPersistentKeepalive = 25

// Peer is a persisted VPN client identity. PublicKey is the join key against
// the live interface state; it is unique across all peers. Status, handshake
// and transfer fields are owned by the reconciliation pass, identity fields
// by the lifecycle operations.
type Peer struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	PublicKey           string     `json:"public_key"`
	PrivateKey          string     `json:"-"` // Only used for config generation, never exposed in API responses
	AllowedIPs          string     `json:"allowed_ips"` // Single /32 CIDR by convention
	Endpoint            string     `json:"endpoint,omitempty"` // Last observed host:port, empty until first connection
	PersistentKeepalive int        `json:"persistent_keepalive"`
	Status              PeerStatus `json:"status"`
	LastHandshake       *time.Time `json:"last_handshake,omitempty"`
	TransferRx          int64      `json:"transfer_rx"`
	TransferTx          int64      `json:"transfer_tx"`
	ConfigFilePath      string     `json:"config_file_path,omitempty"` // Blob store locator, set after first config generation
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// PeerCreateRequest represents the data needed to create a new peer
type PeerCreateRequest struct {
	Name       string `json:"name" binding:"required"`
	AllowedIPs string `json:"allowed_ips"`
}

// PeerUpdateRequest represents the fields that can be updated for a peer.
// Status, handshake and transfer counters are deliberately absent: those are
// refreshed solely by reconciliation and manual edits would be overwritten
// by the next sync anyway.
type PeerUpdateRequest struct {
	Name                string `json:"name,omitempty"`
	AllowedIPs          string `json:"allowed_ips,omitempty"`
	PersistentKeepalive int    `json:"persistent_keepalive,omitempty"`
}
