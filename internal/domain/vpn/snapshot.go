package vpn

import "time"

// Snapshot is a point-in-time view of the live interface and its peers,
// built from `wg show` output on every reconciliation pass and discarded
// after the merge. It is never persisted.
type Snapshot struct {
	// Interface is nil when the WireGuard interface is down.
	Interface *InterfaceInfo
	// Peers maps public key to observed peer state.
	Peers map[string]*LivePeer
}

// InterfaceInfo is the identity of the local interface as reported by wg.
type InterfaceInfo struct {
	Name       string `json:"name"`
	PublicKey  string `json:"public_key"`
	ListenPort int    `json:"listen_port"`
}

// LivePeer is the observed state of one peer on the live interface.
type LivePeer struct {
	PublicKey     string
	Status        PeerStatus
	Endpoint      string
	AllowedIPs    string
	LastHandshake *time.Time
	TransferRx    int64
	TransferTx    int64
}
