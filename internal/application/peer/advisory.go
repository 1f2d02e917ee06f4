package peer

import "github.com/rs/zerolog/log"

// Advisory is the outcome of a best-effort side effect: mirroring a peer
// onto the live interface, cleaning up a config blob, releasing an address
// plan entry. An advisory failure is logged with full context but never
// joined into the primary operation's error; the record store stays
// authoritative and the periodic sync converges the rest.
type Advisory struct {
	Op        string
	PublicKey string
	Err       error
}

// OK reports whether the side effect succeeded.
func (a Advisory) OK() bool {
	return a.Err == nil
}

// observe logs a failed advisory and drops a successful one.
func observe(a Advisory) {
	if a.OK() {
		return
	}
	log.Warn().
		Err(a.Err).
		Str("op", a.Op).
		Str("public_key", a.PublicKey).
		Msg("advisory operation failed")
}
