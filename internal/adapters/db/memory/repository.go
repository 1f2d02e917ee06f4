package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wgpanel/internal/domain/vpn"
)

// Repository is an in-memory implementation of vpn.PeerRepository and
// vpn.ServerRepository for development mode and tests. All returned records
// are copies; callers never share memory with the store.
type Repository struct {
	mu     sync.RWMutex
	peers  map[string]*vpn.Peer
	server *vpn.Server
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		peers: make(map[string]*vpn.Peer),
	}
}

func (r *Repository) CreatePeer(ctx context.Context, p *vpn.Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.peers[p.ID]; exists {
		return fmt.Errorf("%w: id %s", vpn.ErrDuplicatePeer, p.ID)
	}
	for _, existing := range r.peers {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: name %q", vpn.ErrDuplicatePeer, p.Name)
		}
		if existing.PublicKey == p.PublicKey {
			return fmt.Errorf("%w: public key %s", vpn.ErrDuplicatePeer, p.PublicKey)
		}
	}

	cp := *p
	r.peers[p.ID] = &cp
	return nil
}

func (r *Repository) GetPeer(ctx context.Context, id string) (*vpn.Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.peers[id]
	if !ok {
		return nil, vpn.ErrPeerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *Repository) GetPeerByPublicKey(ctx context.Context, publicKey string) (*vpn.Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.peers {
		if p.PublicKey == publicKey {
			cp := *p
			return &cp, nil
		}
	}
	return nil, vpn.ErrPeerNotFound
}

func (r *Repository) UpdatePeer(ctx context.Context, p *vpn.Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[p.ID]; !ok {
		return vpn.ErrPeerNotFound
	}
	for id, existing := range r.peers {
		if id == p.ID {
			continue
		}
		if existing.Name == p.Name {
			return fmt.Errorf("%w: name %q", vpn.ErrDuplicatePeer, p.Name)
		}
	}

	cp := *p
	r.peers[p.ID] = &cp
	return nil
}

func (r *Repository) DeletePeer(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[id]; !ok {
		return vpn.ErrPeerNotFound
	}
	delete(r.peers, id)
	return nil
}

func (r *Repository) ListPeers(ctx context.Context) ([]*vpn.Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*vpn.Peer, 0, len(r.peers))
	for _, p := range r.peers {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repository) GetServer(ctx context.Context) (*vpn.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.server == nil {
		return nil, vpn.ErrServerNotFound
	}
	cp := *r.server
	cp.DNSServers = append([]string(nil), r.server.DNSServers...)
	return &cp, nil
}

func (r *Repository) UpsertServer(ctx context.Context, s *vpn.Server) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	cp.DNSServers = append([]string(nil), s.DNSServers...)
	r.server = &cp
	return nil
}
