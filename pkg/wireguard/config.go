package wireguard

import (
	"fmt"
	"strings"

	"wgpanel/internal/domain/vpn"
)

// ClientConfig renders the configuration file handed to a peer. The layout is
// fixed: clients import it verbatim into their WireGuard app, so field order
// and spacing must stay stable.
func ClientConfig(peer *vpn.Peer, server *vpn.Server) string {
	var sb strings.Builder

	sb.WriteString("[Interface]\n")
	sb.WriteString(fmt.Sprintf("PrivateKey = %s\n", peer.PrivateKey))
	sb.WriteString(fmt.Sprintf("Address = %s\n", peer.AllowedIPs))
	sb.WriteString(fmt.Sprintf("DNS = %s\n", strings.Join(server.DNSServers, ", ")))
	sb.WriteString("\n")

	sb.WriteString("[Peer]\n")
	sb.WriteString(fmt.Sprintf("PublicKey = %s\n", server.PublicKey))
	sb.WriteString(fmt.Sprintf("Endpoint = %s\n", server.Endpoint))
	sb.WriteString("AllowedIPs = 0.0.0.0/0\n")
	sb.WriteString(fmt.Sprintf("PersistentKeepalive = %d\n", peer.PersistentKeepalive))

	return sb.String()
}
