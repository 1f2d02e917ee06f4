package wg

import (
	"strconv"
	"strings"

	"wgpanel/internal/domain/vpn"
)

// section tracks which block of `wg show` output the parser is inside.
// The "public key" label appears in both the interface header and each peer
// block; the section tag is what disambiguates them.
type section int

const (
	sectionNone section = iota
	sectionInterface
	sectionPeer
)

// ParseStatus parses the line-oriented output of `wg show <interface>` into a
// snapshot. Lines it does not recognize are ignored, so output from newer wg
// versions degrades gracefully.
func ParseStatus(raw string) *vpn.Snapshot {
	snap := &vpn.Snapshot{Peers: make(map[string]*vpn.LivePeer)}

	sec := sectionNone
	var cur *vpn.LivePeer
	flush := func() {
		if cur != nil && cur.PublicKey != "" {
			snap.Peers[cur.PublicKey] = cur
		}
		cur = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Split on the first colon only: endpoint values contain colons of
		// their own and must be kept verbatim.
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "interface":
			flush()
			sec = sectionInterface
			snap.Interface = &vpn.InterfaceInfo{Name: value}
		case "peer":
			flush()
			sec = sectionPeer
			// Presence in the output means the peer is configured; assume
			// connected until the handshake line says otherwise.
			cur = &vpn.LivePeer{PublicKey: value, Status: vpn.StatusConnected}
		case "public key":
			switch sec {
			case sectionInterface:
				if snap.Interface != nil {
					snap.Interface.PublicKey = value
				}
			case sectionPeer:
				if cur != nil {
					cur.PublicKey = value
				}
			}
		case "listening port":
			if sec == sectionInterface && snap.Interface != nil {
				if port, err := strconv.Atoi(value); err == nil {
					snap.Interface.ListenPort = port
				}
			}
		case "endpoint":
			if cur != nil {
				cur.Endpoint = value
			}
		case "allowed ips":
			if cur != nil {
				cur.AllowedIPs = value
			}
		case "latest handshake":
			if cur != nil {
				cur.LastHandshake = ParseHandshake(value)
				if IsRecentHandshake(value) {
					cur.Status = vpn.StatusConnected
				} else {
					cur.Status = vpn.StatusDisconnected
				}
			}
		case "transfer":
			if cur == nil {
				continue
			}
			// Format: "1.23 MiB received, 456.78 KiB sent"
			rx, tx, ok := strings.Cut(value, ",")
			if !ok {
				continue
			}
			cur.TransferRx = ParseBytes(strings.TrimSuffix(strings.TrimSpace(rx), "received"))
			cur.TransferTx = ParseBytes(strings.TrimSuffix(strings.TrimSpace(tx), "sent"))
		}
	}
	flush()

	return snap
}
