package vpn

import "time"

// ServerStatus is the reconciled state of the local WireGuard interface.
type ServerStatus string

const (
	ServerRunning ServerStatus = "running"
	ServerStopped ServerStatus = "stopped"
	ServerError   ServerStatus = "error"
)

// Server is the singleton record describing the local WireGuard interface.
// Exactly one logical instance exists; reconciliation upserts it.
type Server struct {
	InterfaceName string       `json:"interface_name"`
	ListenPort    int          `json:"listen_port"`
	PrivateKey    string       `json:"-"`
	PublicKey     string       `json:"public_key"`
	NetworkSubnet string       `json:"network_subnet"`
	DNSServers    []string     `json:"dns_servers"`
	Endpoint      string       `json:"endpoint"`
	Status        ServerStatus `json:"status"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ValidServerStatus reports whether s is one of the known server states.
func ValidServerStatus(s ServerStatus) bool {
	switch s {
	case ServerRunning, ServerStopped, ServerError:
		return true
	}
	return false
}
