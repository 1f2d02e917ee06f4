package ipam

import (
	"context"
	"fmt"
	"net"

	goipam "github.com/metal-stack/go-ipam"
	"github.com/rs/zerolog/log"

	"wgpanel/internal/domain/vpn"
)

// Service tracks peer address allocations inside the VPN subnet. The plan is
// held in memory and rebuilt from persisted peers at startup; the peer records
// remain the source of truth.
type Service struct {
	engine goipam.Ipamer
	subnet string
}

// NewService creates an address plan rooted at the given subnet CIDR.
func NewService(ctx context.Context, subnet string) (*Service, error) {
	engine := goipam.New(ctx)
	if _, err := engine.NewPrefix(ctx, subnet); err != nil {
		return nil, fmt.Errorf("create subnet prefix %s: %w", subnet, err)
	}
	return &Service{engine: engine, subnet: subnet}, nil
}

// Subnet returns the managed CIDR.
func (s *Service) Subnet() string {
	return s.subnet
}

// Seed reserves the addresses of already-persisted peers. Individual failures
// are logged and skipped so one out-of-subnet legacy record cannot block
// startup.
func (s *Service) Seed(ctx context.Context, cidrs []string) {
	for _, cidr := range cidrs {
		if err := s.Reserve(ctx, cidr); err != nil {
			log.Warn().Err(err).Str("cidr", cidr).Msg("could not seed address plan entry")
		}
	}
}

// Reserve marks the address of a single-host allocation as taken. Returns a
// validation error for malformed or multi-host CIDRs and an availability
// error when the address is outside the subnet or already allocated.
func (s *Service) Reserve(ctx context.Context, cidr string) error {
	addr, err := hostAddr(cidr)
	if err != nil {
		return err
	}
	if _, err := s.engine.AcquireSpecificIP(ctx, s.subnet, addr); err != nil {
		return fmt.Errorf("%w: %s in %s", vpn.ErrAddressUnavailable, addr, s.subnet)
	}
	return nil
}

// Release returns a previously reserved address to the plan.
func (s *Service) Release(ctx context.Context, cidr string) error {
	addr, err := hostAddr(cidr)
	if err != nil {
		return err
	}
	if err := s.engine.ReleaseIPFromPrefix(ctx, s.subnet, addr); err != nil {
		return fmt.Errorf("release %s from %s: %w", addr, s.subnet, err)
	}
	return nil
}

// SuggestIP returns the lowest free /32 in the subnet without holding the
// reservation; the reservation happens when the peer is actually created.
func (s *Service) SuggestIP(ctx context.Context) (string, error) {
	ip, err := s.engine.AcquireIP(ctx, s.subnet)
	if err != nil {
		return "", fmt.Errorf("subnet %s exhausted: %w", s.subnet, err)
	}
	addr := ip.IP.String()
	if err := s.engine.ReleaseIPFromPrefix(ctx, s.subnet, addr); err != nil {
		return "", fmt.Errorf("release suggested address: %w", err)
	}
	return addr + "/32", nil
}

// hostAddr extracts the single host address from a /32 (or /128) CIDR.
func hostAddr(cidr string) (string, error) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return "", fmt.Errorf("%w: invalid CIDR %q", vpn.ErrValidation, cidr)
	}
	if ones, bits := ipnet.Mask.Size(); ones != bits {
		return "", fmt.Errorf("%w: peer allocation must be a single address, got %q", vpn.ErrValidation, cidr)
	}
	return ip.String(), nil
}
