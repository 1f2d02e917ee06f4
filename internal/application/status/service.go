package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"wgpanel/internal/domain/vpn"
)

// Source provides the live snapshot. The wg adapter implements it; tests
// substitute a fixed snapshot.
type Source interface {
	Status(ctx context.Context) *vpn.Snapshot
}

// Notifier receives the result of every completed sync. The websocket
// adapter implements it to push summaries to connected dashboards.
type Notifier interface {
	NotifySync(result *Result)
}

// Result summarizes one reconciliation pass.
type Result struct {
	Interface    *vpn.InterfaceInfo `json:"interface,omitempty"`
	ServerStatus vpn.ServerStatus   `json:"server_status"`
	PeersUpdated int                `json:"peers_updated"`
	PeersFailed  int                `json:"peers_failed"`
	SyncedAt     time.Time          `json:"synced_at"`
}

// Service reconciles persisted peer records against the live interface
// state: a left-outer merge of records against the snapshot keyed by public
// key.
type Service struct {
	peers    vpn.PeerRepository
	server   vpn.ServerRepository
	source   Source
	notifier Notifier
}

// NewService creates a reconciliation service. notifier may be nil.
func NewService(peers vpn.PeerRepository, server vpn.ServerRepository, source Source, notifier Notifier) *Service {
	return &Service{
		peers:    peers,
		server:   server,
		source:   source,
		notifier: notifier,
	}
}

// Sync runs one reconciliation pass. It is idempotent: with no intervening
// live change, a second run leaves the persisted state untouched. A failure
// persisting one peer is logged and skipped so the remaining peers still
// converge.
func (s *Service) Sync(ctx context.Context) (*Result, error) {
	snap := s.source.Status(ctx)

	server, err := s.server.GetServer(ctx)
	if err != nil {
		if !errors.Is(err, vpn.ErrServerNotFound) {
			return nil, fmt.Errorf("load server record: %w", err)
		}
		server = &vpn.Server{}
	}
	if snap.Interface != nil {
		server.Status = vpn.ServerRunning
		if server.InterfaceName == "" {
			server.InterfaceName = snap.Interface.Name
		}
		if snap.Interface.PublicKey != "" {
			server.PublicKey = snap.Interface.PublicKey
		}
		if snap.Interface.ListenPort != 0 {
			server.ListenPort = snap.Interface.ListenPort
		}
	} else {
		server.Status = vpn.ServerStopped
	}
	server.UpdatedAt = time.Now()
	if err := s.server.UpsertServer(ctx, server); err != nil {
		return nil, fmt.Errorf("upsert server record: %w", err)
	}

	peers, err := s.peers.ListPeers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list peers: %w", err)
	}

	result := &Result{
		Interface:    snap.Interface,
		ServerStatus: server.Status,
		SyncedAt:     time.Now(),
	}

	for _, peer := range peers {
		if live, ok := snap.Peers[peer.PublicKey]; ok {
			peer.Status = live.Status
			peer.LastHandshake = live.LastHandshake
			peer.TransferRx = live.TransferRx
			peer.TransferTx = live.TransferTx
			if live.Endpoint != "" {
				peer.Endpoint = live.Endpoint
			}
		} else {
			// Absent from the interface: the peer has no meaningful
			// counters, so they are zeroed rather than frozen.
			peer.Status = vpn.StatusDisconnected
			peer.LastHandshake = nil
			peer.TransferRx = 0
			peer.TransferTx = 0
		}
		// Note: UpdatedAt is owned by the lifecycle operations; bumping it
		// here would break sync idempotence.
		if err := s.peers.UpdatePeer(ctx, peer); err != nil {
			log.Warn().
				Err(err).
				Str("public_key", peer.PublicKey).
				Msg("failed to persist peer status")
			result.PeersFailed++
			continue
		}
		result.PeersUpdated++
	}

	log.Debug().
		Int("peers_updated", result.PeersUpdated).
		Int("peers_failed", result.PeersFailed).
		Str("server_status", string(result.ServerStatus)).
		Msg("reconciliation pass complete")

	if s.notifier != nil {
		s.notifier.NotifySync(result)
	}
	return result, nil
}

// RunPeriodic runs Sync every interval until ctx is cancelled. Scheduling
// owns no retry policy: a failed pass waits for the next tick.
func (s *Service) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled sync failed")
			}
		}
	}
}
