package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"wgpanel/internal/domain/vpn"
)

// uniqueViolation is the postgres error code raised when the name or
// public_key unique constraint trips.
const uniqueViolation = "23505"

// PeerRepository is a Postgres implementation of vpn.PeerRepository
type PeerRepository struct {
	db *sql.DB
}

// NewPeerRepository constructs a new repository
func NewPeerRepository(db *sql.DB) *PeerRepository {
	return &PeerRepository{db: db}
}

const peerColumns = `id,name,public_key,private_key,allowed_ips,endpoint,persistent_keepalive,status,last_handshake,transfer_rx,transfer_tx,config_file_path,created_at,updated_at`

func (r *PeerRepository) CreatePeer(ctx context.Context, p *vpn.Peer) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO peers (`+peerColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.Name, p.PublicKey, p.PrivateKey, p.AllowedIPs, nullString(p.Endpoint), p.PersistentKeepalive, p.Status, nullTime(p.LastHandshake), p.TransferRx, p.TransferTx, p.ConfigFilePath, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("%w: %s", vpn.ErrDuplicatePeer, pqErr.Constraint)
		}
		return fmt.Errorf("create peer: %w", err)
	}
	return nil
}

func (r *PeerRepository) GetPeer(ctx context.Context, id string) (*vpn.Peer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+peerColumns+` FROM peers WHERE id=$1`, id)
	return scanPeer(row)
}

func (r *PeerRepository) GetPeerByPublicKey(ctx context.Context, publicKey string) (*vpn.Peer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+peerColumns+` FROM peers WHERE public_key=$1`, publicKey)
	return scanPeer(row)
}

func (r *PeerRepository) UpdatePeer(ctx context.Context, p *vpn.Peer) error {
	res, err := r.db.ExecContext(ctx, `UPDATE peers SET name=$2,allowed_ips=$3,endpoint=$4,persistent_keepalive=$5,status=$6,last_handshake=$7,transfer_rx=$8,transfer_tx=$9,config_file_path=$10,updated_at=$11 WHERE id=$1`,
		p.ID, p.Name, p.AllowedIPs, nullString(p.Endpoint), p.PersistentKeepalive, p.Status, nullTime(p.LastHandshake), p.TransferRx, p.TransferTx, p.ConfigFilePath, p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("%w: %s", vpn.ErrDuplicatePeer, pqErr.Constraint)
		}
		return fmt.Errorf("update peer: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return vpn.ErrPeerNotFound
	}
	return nil
}

func (r *PeerRepository) DeletePeer(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM peers WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete peer: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return vpn.ErrPeerNotFound
	}
	return nil
}

func (r *PeerRepository) ListPeers(ctx context.Context) ([]*vpn.Peer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+peerColumns+` FROM peers ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list peers: %w", err)
	}
	defer rows.Close()
	out := make([]*vpn.Peer, 0)
	for rows.Next() {
		p, err := scanPeer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPeer(row rowScanner) (*vpn.Peer, error) {
	var p vpn.Peer
	var endpoint sql.NullString
	var handshake sql.NullTime
	err := row.Scan(&p.ID, &p.Name, &p.PublicKey, &p.PrivateKey, &p.AllowedIPs, &endpoint, &p.PersistentKeepalive, &p.Status, &handshake, &p.TransferRx, &p.TransferTx, &p.ConfigFilePath, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vpn.ErrPeerNotFound
		}
		return nil, fmt.Errorf("scan peer: %w", err)
	}
	if endpoint.Valid {
		p.Endpoint = endpoint.String
	}
	if handshake.Valid {
		t := handshake.Time
		p.LastHandshake = &t
	}
	return &p, nil
}
