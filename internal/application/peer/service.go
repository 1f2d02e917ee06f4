package peer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"wgpanel/internal/domain/vpn"
	"wgpanel/internal/infrastructure/validation"
	"wgpanel/pkg/wireguard"
)

// InterfaceMirror mutates the live WireGuard interface. Lifecycle operations
// treat these calls as best effort.
type InterfaceMirror interface {
	AddPeer(ctx context.Context, publicKey, allowedIPs string, keepalive int) error
	RemovePeer(ctx context.Context, publicKey string) error
}

// AddressPlan validates and tracks peer address allocations. Optional: a nil
// plan skips subnet bookkeeping but CIDR syntax is still validated.
type AddressPlan interface {
	Reserve(ctx context.Context, cidr string) error
	Release(ctx context.Context, cidr string) error
	SuggestIP(ctx context.Context) (string, error)
}

// Service implements the peer lifecycle: create, update, delete, with
// persistence as the primary effect and live-interface mirroring as an
// advisory one.
type Service struct {
	peers  vpn.PeerRepository
	server vpn.ServerRepository
	blobs  vpn.BlobStore
	mirror InterfaceMirror
	plan   AddressPlan
}

// NewService creates a new peer lifecycle service. mirror and plan may be nil.
func NewService(peers vpn.PeerRepository, server vpn.ServerRepository, blobs vpn.BlobStore, mirror InterfaceMirror, plan AddressPlan) *Service {
	return &Service{
		peers:  peers,
		server: server,
		blobs:  blobs,
		mirror: mirror,
		plan:   plan,
	}
}

// CreatePeer generates a key pair, persists the record, stores the generated
// client config and mirrors the peer onto the live interface. The private key
// is generated exactly once here and never regenerated.
func (s *Service) CreatePeer(ctx context.Context, req *vpn.PeerCreateRequest) (*vpn.Peer, error) {
	name := strings.TrimSpace(req.Name)
	if err := validation.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: name: %v", vpn.ErrValidation, err)
	}
	allowed := strings.TrimSpace(req.AllowedIPs)
	if allowed == "" {
		return nil, fmt.Errorf("%w: allowed_ips is required", vpn.ErrValidation)
	}
	if _, _, err := net.ParseCIDR(allowed); err != nil {
		return nil, fmt.Errorf("%w: invalid allowed_ips %q", vpn.ErrValidation, allowed)
	}

	server, err := s.server.GetServer(ctx)
	if err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	if s.plan != nil {
		if err := s.plan.Reserve(ctx, allowed); err != nil {
			return nil, err
		}
	}

	privateKey, publicKey, err := wireguard.GenerateKeyPair()
	if err != nil {
		s.releasePlan(ctx, allowed)
		return nil, fmt.Errorf("generate key pair: %w", err)
	}

	now := time.Now()
	peer := &vpn.Peer{
		ID:                  uuid.New().String(),
		Name:                name,
		PublicKey:           publicKey,
		PrivateKey:          privateKey,
		AllowedIPs:          allowed,
		PersistentKeepalive: vpn.DefaultPersistentKeepalive,
		Status:              vpn.StatusNeverConnected,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.peers.CreatePeer(ctx, peer); err != nil {
		s.releasePlan(ctx, allowed)
		if errors.Is(err, vpn.ErrDuplicatePeer) {
			return nil, err
		}
		return nil, fmt.Errorf("create peer: %w", err)
	}

	cfg := wireguard.ClientConfig(peer, server)
	path := fmt.Sprintf("peers/%s.conf", peer.ID)
	if err := s.blobs.Put(path, []byte(cfg)); err != nil {
		return nil, fmt.Errorf("store peer config: %w", err)
	}
	peer.ConfigFilePath = path
	if err := s.peers.UpdatePeer(ctx, peer); err != nil {
		return nil, fmt.Errorf("record config path: %w", err)
	}

	observe(s.mirrorAdd(ctx, peer))

	return peer, nil
}

// GetPeer retrieves a peer by ID.
func (s *Service) GetPeer(ctx context.Context, peerID string) (*vpn.Peer, error) {
	return s.peers.GetPeer(ctx, peerID)
}

// ListPeers retrieves all peers.
func (s *Service) ListPeers(ctx context.Context) ([]*vpn.Peer, error) {
	return s.peers.ListPeers(ctx)
}

// GetPeerConfig returns the stored client configuration text for a peer.
func (s *Service) GetPeerConfig(ctx context.Context, peerID string) ([]byte, error) {
	peer, err := s.peers.GetPeer(ctx, peerID)
	if err != nil {
		return nil, err
	}
	if peer.ConfigFilePath == "" {
		return nil, fmt.Errorf("%w: no config generated for peer %s", vpn.ErrPeerNotFound, peerID)
	}
	data, err := s.blobs.Get(peer.ConfigFilePath)
	if err != nil {
		return nil, fmt.Errorf("load peer config: %w", err)
	}
	return data, nil
}

// UpdatePeer applies a partial field merge. The live interface is not
// touched here: status fields are owned by reconciliation, and address
// changes converge on the next sync.
func (s *Service) UpdatePeer(ctx context.Context, peerID string, req *vpn.PeerUpdateRequest) (*vpn.Peer, error) {
	peer, err := s.peers.GetPeer(ctx, peerID)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Name != "" && req.Name != peer.Name {
		if err := validation.ValidateName(req.Name); err != nil {
			return nil, fmt.Errorf("%w: name: %v", vpn.ErrValidation, err)
		}
		peer.Name = req.Name
	}
	if req.AllowedIPs != "" && req.AllowedIPs != peer.AllowedIPs {
		if _, _, err := net.ParseCIDR(req.AllowedIPs); err != nil {
			return nil, fmt.Errorf("%w: invalid allowed_ips %q", vpn.ErrValidation, req.AllowedIPs)
		}
		if s.plan != nil {
			if err := s.plan.Reserve(ctx, req.AllowedIPs); err != nil {
				return nil, err
			}
			s.releasePlan(ctx, peer.AllowedIPs)
		}
		peer.AllowedIPs = req.AllowedIPs
		changed = true
	}
	if req.PersistentKeepalive > 0 && req.PersistentKeepalive != peer.PersistentKeepalive {
		peer.PersistentKeepalive = req.PersistentKeepalive
		changed = true
	}
	peer.UpdatedAt = time.Now()

	if err := s.peers.UpdatePeer(ctx, peer); err != nil {
		return nil, fmt.Errorf("update peer: %w", err)
	}

	// The stored config is derived data; regenerating it is advisory.
	if changed && peer.ConfigFilePath != "" {
		observe(s.regenerateConfig(ctx, peer))
	}

	return peer, nil
}

// DeletePeer removes the peer record after best-effort cleanup of the live
// interface, the stored config blob and the address plan entry. An unknown id
// fails before any side effect happens.
func (s *Service) DeletePeer(ctx context.Context, peerID string) error {
	peer, err := s.peers.GetPeer(ctx, peerID)
	if err != nil {
		return err
	}

	observe(s.mirrorRemove(ctx, peer))
	if peer.ConfigFilePath != "" {
		observe(Advisory{Op: "delete config blob", PublicKey: peer.PublicKey, Err: s.blobs.Delete(peer.ConfigFilePath)})
	}
	if s.plan != nil {
		observe(Advisory{Op: "release address", PublicKey: peer.PublicKey, Err: s.plan.Release(ctx, peer.AllowedIPs)})
	}

	if err := s.peers.DeletePeer(ctx, peerID); err != nil {
		return fmt.Errorf("delete peer: %w", err)
	}
	return nil
}

// SuggestIP proxies the address plan's suggestion for the next free address.
func (s *Service) SuggestIP(ctx context.Context) (string, error) {
	if s.plan == nil {
		return "", fmt.Errorf("%w: no address plan configured", vpn.ErrValidation)
	}
	return s.plan.SuggestIP(ctx)
}

func (s *Service) mirrorAdd(ctx context.Context, peer *vpn.Peer) Advisory {
	a := Advisory{Op: "interface add", PublicKey: peer.PublicKey}
	if s.mirror != nil {
		a.Err = s.mirror.AddPeer(ctx, peer.PublicKey, peer.AllowedIPs, peer.PersistentKeepalive)
	}
	return a
}

func (s *Service) mirrorRemove(ctx context.Context, peer *vpn.Peer) Advisory {
	a := Advisory{Op: "interface remove", PublicKey: peer.PublicKey}
	if s.mirror != nil {
		a.Err = s.mirror.RemovePeer(ctx, peer.PublicKey)
	}
	return a
}

func (s *Service) regenerateConfig(ctx context.Context, peer *vpn.Peer) Advisory {
	a := Advisory{Op: "regenerate config", PublicKey: peer.PublicKey}
	server, err := s.server.GetServer(ctx)
	if err != nil {
		a.Err = err
		return a
	}
	a.Err = s.blobs.Put(peer.ConfigFilePath, []byte(wireguard.ClientConfig(peer, server)))
	return a
}

func (s *Service) releasePlan(ctx context.Context, cidr string) {
	if s.plan == nil {
		return
	}
	observe(Advisory{Op: "release address", Err: s.plan.Release(ctx, cidr)})
}
