package peer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wgpanel/internal/domain/vpn"
)

// mockPeerRepository implements vpn.PeerRepository for testing
type mockPeerRepository struct {
	peers     map[string]*vpn.Peer
	byName    map[string]string
	byKey     map[string]string
	createErr error
	deletes   int
}

func newMockPeerRepository() *mockPeerRepository {
	return &mockPeerRepository{
		peers:  make(map[string]*vpn.Peer),
		byName: make(map[string]string),
		byKey:  make(map[string]string),
	}
}

func (m *mockPeerRepository) CreatePeer(ctx context.Context, p *vpn.Peer) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byName[p.Name]; ok {
		return vpn.ErrDuplicatePeer
	}
	if _, ok := m.byKey[p.PublicKey]; ok {
		return vpn.ErrDuplicatePeer
	}
	cp := *p
	m.peers[p.ID] = &cp
	m.byName[p.Name] = p.ID
	m.byKey[p.PublicKey] = p.ID
	return nil
}

func (m *mockPeerRepository) GetPeer(ctx context.Context, id string) (*vpn.Peer, error) {
	p, ok := m.peers[id]
	if !ok {
		return nil, vpn.ErrPeerNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPeerRepository) GetPeerByPublicKey(ctx context.Context, key string) (*vpn.Peer, error) {
	id, ok := m.byKey[key]
	if !ok {
		return nil, vpn.ErrPeerNotFound
	}
	return m.GetPeer(ctx, id)
}

func (m *mockPeerRepository) UpdatePeer(ctx context.Context, p *vpn.Peer) error {
	old, ok := m.peers[p.ID]
	if !ok {
		return vpn.ErrPeerNotFound
	}
	delete(m.byName, old.Name)
	cp := *p
	m.peers[p.ID] = &cp
	m.byName[p.Name] = p.ID
	return nil
}

func (m *mockPeerRepository) DeletePeer(ctx context.Context, id string) error {
	p, ok := m.peers[id]
	if !ok {
		return vpn.ErrPeerNotFound
	}
	m.deletes++
	delete(m.byName, p.Name)
	delete(m.byKey, p.PublicKey)
	delete(m.peers, id)
	return nil
}

func (m *mockPeerRepository) ListPeers(ctx context.Context) ([]*vpn.Peer, error) {
	out := make([]*vpn.Peer, 0, len(m.peers))
	for _, p := range m.peers {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// mockServerRepository implements vpn.ServerRepository for testing
type mockServerRepository struct {
	server *vpn.Server
}

func (m *mockServerRepository) GetServer(ctx context.Context) (*vpn.Server, error) {
	if m.server == nil {
		return nil, vpn.ErrServerNotFound
	}
	cp := *m.server
	return &cp, nil
}

func (m *mockServerRepository) UpsertServer(ctx context.Context, s *vpn.Server) error {
	cp := *s
	m.server = &cp
	return nil
}

// mockBlobStore implements vpn.BlobStore for testing
type mockBlobStore struct {
	blobs   map[string][]byte
	putErr  error
	deletes []string
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (m *mockBlobStore) Put(path string, data []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.blobs[path] = data
	return nil
}

func (m *mockBlobStore) Get(path string) ([]byte, error) {
	data, ok := m.blobs[path]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return data, nil
}

func (m *mockBlobStore) Delete(path string) error {
	m.deletes = append(m.deletes, path)
	delete(m.blobs, path)
	return nil
}

// mockMirror implements InterfaceMirror for testing
type mockMirror struct {
	added   []string
	removed []string
	err     error
}

func (m *mockMirror) AddPeer(ctx context.Context, publicKey, allowedIPs string, keepalive int) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, publicKey)
	return nil
}

func (m *mockMirror) RemovePeer(ctx context.Context, publicKey string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, publicKey)
	return nil
}

func testServer() *vpn.Server {
	return &vpn.Server{
		InterfaceName: "wg0",
		PublicKey:     "server-public",
		NetworkSubnet: "10.7.0.0/24",
		DNSServers:    []string{"1.1.1.1"},
		Endpoint:      "vpn.example.com:51820",
		Status:        vpn.ServerRunning,
	}
}

func newTestService() (*Service, *mockPeerRepository, *mockBlobStore, *mockMirror) {
	peers := newMockPeerRepository()
	blobs := newMockBlobStore()
	mirror := &mockMirror{}
	svc := NewService(peers, &mockServerRepository{server: testServer()}, blobs, mirror, nil)
	return svc, peers, blobs, mirror
}

func TestCreatePeer(t *testing.T) {
	svc, peers, blobs, mirror := newTestService()

	peer, err := svc.CreatePeer(context.Background(), &vpn.PeerCreateRequest{
		Name:       "laptop",
		AllowedIPs: "10.7.0.2/32",
	})
	if err != nil {
		t.Fatalf("CreatePeer returned error: %v", err)
	}

	if peer.Status != vpn.StatusNeverConnected {
		t.Errorf("status = %q, expected never_connected", peer.Status)
	}
	if peer.PersistentKeepalive != 25 {
		t.Errorf("keepalive = %d, expected default 25", peer.PersistentKeepalive)
	}
	if peer.TransferRx != 0 || peer.TransferTx != 0 {
		t.Errorf("transfer counters = %d/%d, expected 0/0", peer.TransferRx, peer.TransferTx)
	}
	if peer.PrivateKey == "" || peer.PublicKey == "" {
		t.Error("expected a generated key pair")
	}
	if peer.ConfigFilePath == "" {
		t.Fatal("expected config file path to be set")
	}

	stored, err := blobs.Get(peer.ConfigFilePath)
	if err != nil {
		t.Fatalf("config blob missing: %v", err)
	}
	if !strings.Contains(string(stored), "PrivateKey = "+peer.PrivateKey) {
		t.Error("stored config should embed the peer private key")
	}
	if !strings.Contains(string(stored), "PublicKey = server-public") {
		t.Error("stored config should embed the server public key")
	}

	persisted, err := peers.GetPeer(context.Background(), peer.ID)
	if err != nil {
		t.Fatalf("peer record not persisted: %v", err)
	}
	if persisted.ConfigFilePath != peer.ConfigFilePath {
		t.Error("config path not written back onto the record")
	}

	if len(mirror.added) != 1 || mirror.added[0] != peer.PublicKey {
		t.Errorf("mirror.added = %v, expected [%s]", mirror.added, peer.PublicKey)
	}
}

func TestCreatePeerValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	tests := []vpn.PeerCreateRequest{
		{Name: "", AllowedIPs: "10.7.0.2/32"},
		{Name: "Bad Name", AllowedIPs: "10.7.0.2/32"},
		{Name: "laptop", AllowedIPs: ""},
		{Name: "laptop", AllowedIPs: "not-a-cidr"},
	}

	for _, req := range tests {
		_, err := svc.CreatePeer(context.Background(), &req)
		if !errors.Is(err, vpn.ErrValidation) {
			t.Errorf("CreatePeer(%+v) error = %v, expected ErrValidation", req, err)
		}
	}
}

func TestCreatePeerDuplicateName(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.CreatePeer(context.Background(), &vpn.PeerCreateRequest{Name: "laptop", AllowedIPs: "10.7.0.2/32"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreatePeer(context.Background(), &vpn.PeerCreateRequest{Name: "laptop", AllowedIPs: "10.7.0.3/32"})
	if !errors.Is(err, vpn.ErrDuplicatePeer) {
		t.Errorf("duplicate create error = %v, expected ErrDuplicatePeer", err)
	}
}

func TestCreatePeerMirrorFailureIsAdvisory(t *testing.T) {
	peers := newMockPeerRepository()
	blobs := newMockBlobStore()
	mirror := &mockMirror{err: errors.New("wg set: operation not permitted")}
	svc := NewService(peers, &mockServerRepository{server: testServer()}, blobs, mirror, nil)

	peer, err := svc.CreatePeer(context.Background(), &vpn.PeerCreateRequest{Name: "laptop", AllowedIPs: "10.7.0.2/32"})
	if err != nil {
		t.Fatalf("CreatePeer must tolerate a mirror failure, got: %v", err)
	}
	if _, err := peers.GetPeer(context.Background(), peer.ID); err != nil {
		t.Errorf("record should exist despite mirror failure: %v", err)
	}
}

func TestUpdatePeerPartialMerge(t *testing.T) {
	svc, peers, _, _ := newTestService()

	created, err := svc.CreatePeer(context.Background(), &vpn.PeerCreateRequest{Name: "laptop", AllowedIPs: "10.7.0.2/32"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdatePeer(context.Background(), created.ID, &vpn.PeerUpdateRequest{PersistentKeepalive: 15})
	if err != nil {
		t.Fatalf("UpdatePeer returned error: %v", err)
	}
	if updated.PersistentKeepalive != 15 {
		t.Errorf("keepalive = %d, expected 15", updated.PersistentKeepalive)
	}
	if updated.Name != "laptop" || updated.AllowedIPs != "10.7.0.2/32" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.PublicKey != created.PublicKey || updated.PrivateKey != created.PrivateKey {
		t.Error("keys must never change on update")
	}

	persisted, _ := peers.GetPeer(context.Background(), created.ID)
	if persisted.PersistentKeepalive != 15 {
		t.Errorf("persisted keepalive = %d, expected 15", persisted.PersistentKeepalive)
	}
}

func TestUpdatePeerNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.UpdatePeer(context.Background(), "no-such-id", &vpn.PeerUpdateRequest{Name: "x"})
	if !errors.Is(err, vpn.ErrPeerNotFound) {
		t.Errorf("error = %v, expected ErrPeerNotFound", err)
	}
}

func TestDeletePeer(t *testing.T) {
	svc, peers, blobs, mirror := newTestService()

	created, err := svc.CreatePeer(context.Background(), &vpn.PeerCreateRequest{Name: "laptop", AllowedIPs: "10.7.0.2/32"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeletePeer(context.Background(), created.ID); err != nil {
		t.Fatalf("DeletePeer returned error: %v", err)
	}

	if _, err := peers.GetPeer(context.Background(), created.ID); !errors.Is(err, vpn.ErrPeerNotFound) {
		t.Error("record should be gone after delete")
	}
	if len(mirror.removed) != 1 || mirror.removed[0] != created.PublicKey {
		t.Errorf("mirror.removed = %v, expected [%s]", mirror.removed, created.PublicKey)
	}
	if len(blobs.deletes) != 1 || blobs.deletes[0] != created.ConfigFilePath {
		t.Errorf("blob deletes = %v, expected [%s]", blobs.deletes, created.ConfigFilePath)
	}
}

func TestDeletePeerNotFoundHasNoSideEffects(t *testing.T) {
	svc, peers, blobs, mirror := newTestService()

	err := svc.DeletePeer(context.Background(), "no-such-id")
	if !errors.Is(err, vpn.ErrPeerNotFound) {
		t.Fatalf("error = %v, expected ErrPeerNotFound", err)
	}
	if len(mirror.removed) != 0 {
		t.Errorf("mirror must not be touched for an unknown id, got %v", mirror.removed)
	}
	if len(blobs.deletes) != 0 {
		t.Errorf("blob store must not be touched for an unknown id, got %v", blobs.deletes)
	}
	if peers.deletes != 0 {
		t.Errorf("record store delete count = %d, expected 0", peers.deletes)
	}
}

func TestDeletePeerMirrorFailureIsAdvisory(t *testing.T) {
	peers := newMockPeerRepository()
	blobs := newMockBlobStore()
	mirror := &mockMirror{}
	svc := NewService(peers, &mockServerRepository{server: testServer()}, blobs, mirror, nil)

	created, err := svc.CreatePeer(context.Background(), &vpn.PeerCreateRequest{Name: "laptop", AllowedIPs: "10.7.0.2/32"})
	if err != nil {
		t.Fatal(err)
	}

	mirror.err = errors.New("interface gone")
	if err := svc.DeletePeer(context.Background(), created.ID); err != nil {
		t.Fatalf("DeletePeer must tolerate a mirror failure, got: %v", err)
	}
	if _, err := peers.GetPeer(context.Background(), created.ID); !errors.Is(err, vpn.ErrPeerNotFound) {
		t.Error("record should be deleted despite mirror failure")
	}
}

func TestGetPeerConfig(t *testing.T) {
	svc, _, _, _ := newTestService()

	created, err := svc.CreatePeer(context.Background(), &vpn.PeerCreateRequest{Name: "laptop", AllowedIPs: "10.7.0.2/32"})
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := svc.GetPeerConfig(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPeerConfig returned error: %v", err)
	}
	if !strings.HasPrefix(string(cfg), "[Interface]\n") {
		t.Errorf("config should start with [Interface], got:\n%s", cfg)
	}
}
