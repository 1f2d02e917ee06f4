package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"wgpanel/internal/domain/vpn"
)

// ServerRepository is a Postgres implementation of vpn.ServerRepository.
// The server table holds at most one row, enforced by the id=1 check.
type ServerRepository struct {
	db *sql.DB
}

// NewServerRepository constructs a new repository
func NewServerRepository(db *sql.DB) *ServerRepository {
	return &ServerRepository{db: db}
}

func (r *ServerRepository) GetServer(ctx context.Context) (*vpn.Server, error) {
	var s vpn.Server
	err := r.db.QueryRowContext(ctx, `SELECT interface_name,listen_port,private_key,public_key,network_subnet,dns_servers,endpoint,status,updated_at FROM server WHERE id=1`).
		Scan(&s.InterfaceName, &s.ListenPort, &s.PrivateKey, &s.PublicKey, &s.NetworkSubnet, pq.Array(&s.DNSServers), &s.Endpoint, &s.Status, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vpn.ErrServerNotFound
		}
		return nil, fmt.Errorf("get server: %w", err)
	}
	return &s, nil
}

func (r *ServerRepository) UpsertServer(ctx context.Context, s *vpn.Server) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	if s.DNSServers == nil {
		s.DNSServers = []string{}
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO server (id,interface_name,listen_port,private_key,public_key,network_subnet,dns_servers,endpoint,status,updated_at)
        VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (id) DO UPDATE SET interface_name=EXCLUDED.interface_name,listen_port=EXCLUDED.listen_port,private_key=EXCLUDED.private_key,public_key=EXCLUDED.public_key,network_subnet=EXCLUDED.network_subnet,dns_servers=EXCLUDED.dns_servers,endpoint=EXCLUDED.endpoint,status=EXCLUDED.status,updated_at=EXCLUDED.updated_at`,
		s.InterfaceName, s.ListenPort, s.PrivateKey, s.PublicKey, s.NetworkSubnet, pq.Array(s.DNSServers), s.Endpoint, s.Status, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert server: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
