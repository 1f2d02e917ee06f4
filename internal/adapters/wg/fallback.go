package wg

import "wgpanel/internal/domain/vpn"

// fallbackStatus mimics `wg show wg0` output for environments without a live
// WireGuard binary (development, CI). It is a fixed constant so tests and the
// components downstream of the invoker see reproducible data.
const fallbackStatus = `interface: wg0
  public key: fallback+server+public+key+0000000000000=
  listening port: 51820

peer: fallback+peer+public+key+00000000000000000=
  endpoint: 203.0.113.10:51820
  allowed ips: 10.7.0.2/32
  latest handshake: 30 seconds ago
  transfer: 1.95 MiB received, 4.20 MiB sent
`

// FallbackSnapshot returns the snapshot used when the status command is
// unavailable. It feeds the fixed status text through the regular parser so
// the fallback path exercises the same code as the live one.
func FallbackSnapshot() *vpn.Snapshot {
	return ParseStatus(fallbackStatus)
}
