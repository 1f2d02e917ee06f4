package wg

import (
	"strconv"
	"strings"
	"time"
)

// handshakeRecency is the window within which a handshake still counts as a
// live connection. WireGuard renegotiates roughly every two minutes, so three
// minutes of silence means the peer is gone.
const handshakeRecency = 180 * time.Second

// relativeSeconds sums the duration clauses of a wg handshake string
// ("1 hour, 21 minutes, 2 seconds ago") into total seconds. The second
// return is false for "never", empty or unparseable text.
func relativeSeconds(s string) (int64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || strings.Contains(s, "never") {
		return 0, false
	}

	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	var total int64
	matched := false
	for i := 0; i+1 < len(fields); i++ {
		n, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil || n < 0 {
			continue
		}
		switch strings.TrimSuffix(fields[i+1], "s") {
		case "second":
			total += n
		case "minute":
			total += n * 60
		case "hour":
			total += n * 3600
		case "day":
			total += n * 86400
		default:
			continue
		}
		matched = true
	}
	return total, matched
}

// ParseHandshake resolves wg's relative handshake text to an absolute
// timestamp. Returns nil for "never" (no handshake yet) and for text it
// cannot parse.
func ParseHandshake(s string) *time.Time {
	secs, ok := relativeSeconds(s)
	if !ok {
		return nil
	}
	t := time.Now().Add(-time.Duration(secs) * time.Second)
	return &t
}

// IsRecentHandshake reports whether a raw handshake string resolves to within
// the recency window. "never" and unparseable text are never recent.
func IsRecentHandshake(s string) bool {
	secs, ok := relativeSeconds(s)
	return ok && time.Duration(secs)*time.Second <= handshakeRecency
}
