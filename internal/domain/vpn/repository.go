package vpn

import "context"

// PeerRepository defines the interface for peer record persistence.
// Implementations must enforce uniqueness on PublicKey and Name.
type PeerRepository interface {
	CreatePeer(ctx context.Context, peer *Peer) error
	GetPeer(ctx context.Context, peerID string) (*Peer, error)
	GetPeerByPublicKey(ctx context.Context, publicKey string) (*Peer, error)
	UpdatePeer(ctx context.Context, peer *Peer) error
	DeletePeer(ctx context.Context, peerID string) error
	ListPeers(ctx context.Context) ([]*Peer, error)
}

// ServerRepository persists the singleton server record.
type ServerRepository interface {
	GetServer(ctx context.Context) (*Server, error)
	UpsertServer(ctx context.Context, server *Server) error
}

// BlobStore stores generated configuration text addressed by an opaque path.
type BlobStore interface {
	Put(path string, data []byte) error
	Get(path string) ([]byte, error)
	Delete(path string) error
}
