package wg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"wgpanel/internal/domain/vpn"
)

// Client wraps wg(8) invocations for a single interface: the status query
// used by reconciliation and the peer add/remove mutations used by the
// lifecycle operations.
type Client struct {
	iface  string
	runner Runner
}

// NewClient creates a client for the named interface.
func NewClient(iface string, runner Runner) *Client {
	return &Client{iface: iface, runner: runner}
}

// Status returns the parsed live snapshot. Any failure to run `wg show`
// (binary missing, permission denied, interface down in a way that errors)
// degrades to the fixed fallback snapshot so the rest of the control plane
// stays exercisable on hosts without a live WireGuard interface.
func (c *Client) Status(ctx context.Context) *vpn.Snapshot {
	stdout, stderr, err := c.runner.Run(ctx, "wg", "show", c.iface)
	if err != nil {
		log.Warn().
			Err(err).
			Str("interface", c.iface).
			Str("stderr", strings.TrimSpace(stderr)).
			Msg("wg show failed, using fallback snapshot")
		return FallbackSnapshot()
	}
	return ParseStatus(stdout)
}

// AddPeer configures a peer on the live interface. It does not touch
// persisted state; the caller decides how to handle failure.
func (c *Client) AddPeer(ctx context.Context, publicKey, allowedIPs string, keepalive int) error {
	_, stderr, err := c.runner.Run(ctx, "wg", "set", c.iface,
		"peer", publicKey,
		"allowed-ips", allowedIPs,
		"persistent-keepalive", strconv.Itoa(keepalive))
	if err != nil {
		return fmt.Errorf("wg set peer: %w (stderr: %s)", err, strings.TrimSpace(stderr))
	}
	return nil
}

// RemovePeer removes a peer from the live interface by public key.
func (c *Client) RemovePeer(ctx context.Context, publicKey string) error {
	_, stderr, err := c.runner.Run(ctx, "wg", "set", c.iface, "peer", publicKey, "remove")
	if err != nil {
		return fmt.Errorf("wg set peer remove: %w (stderr: %s)", err, strings.TrimSpace(stderr))
	}
	return nil
}
