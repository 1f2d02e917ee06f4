package vpn

import "errors"

// Peer errors
var (
	ErrPeerNotFound  = errors.New("peer not found")
	ErrDuplicatePeer = errors.New("peer already exists")
)

// Server errors
var (
	ErrServerNotFound = errors.New("server configuration not found")
)

// Address plan errors
var (
	ErrAddressUnavailable = errors.New("address not available in subnet")
)

// Validation errors wrap ErrValidation so the API layer can map them to 4xx.
var (
	ErrValidation = errors.New("validation failed")
)
