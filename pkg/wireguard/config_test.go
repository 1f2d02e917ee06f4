package wireguard

import (
	"strings"
	"testing"

	"wgpanel/internal/domain/vpn"
)

func TestClientConfig(t *testing.T) {
	peer := &vpn.Peer{
		Name:                "laptop",
		PrivateKey:          "peer-private-key",
		AllowedIPs:          "10.7.0.2/32",
		PersistentKeepalive: 25,
	}
	server := &vpn.Server{
		PublicKey:  "server-public-key",
		Endpoint:   "vpn.example.com:51820",
		DNSServers: []string{"1.1.1.1", "8.8.8.8"},
	}

	got := ClientConfig(peer, server)
	want := `[Interface]
PrivateKey = peer-private-key
Address = 10.7.0.2/32
DNS = 1.1.1.1, 8.8.8.8

[Peer]
PublicKey = server-public-key
Endpoint = vpn.example.com:51820
AllowedIPs = 0.0.0.0/0
PersistentKeepalive = 25
`

	if got != want {
		t.Errorf("ClientConfig mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestClientConfigSingleDNS(t *testing.T) {
	peer := &vpn.Peer{
		PrivateKey:          "k",
		AllowedIPs:          "10.7.0.3/32",
		PersistentKeepalive: 15,
	}
	server := &vpn.Server{
		PublicKey:  "srv",
		Endpoint:   "203.0.113.1:51820",
		DNSServers: []string{"9.9.9.9"},
	}

	got := ClientConfig(peer, server)
	if !strings.Contains(got, "DNS = 9.9.9.9\n") {
		t.Errorf("config should contain single DNS line, got:\n%s", got)
	}
	if !strings.Contains(got, "PersistentKeepalive = 15\n") {
		t.Errorf("config should honor peer keepalive, got:\n%s", got)
	}
}
