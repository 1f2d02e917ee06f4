package wg

import (
	"fmt"
	"strconv"
	"strings"
)

// byteUnits maps the transfer suffixes wg emits to their multipliers.
// Binary suffixes are base 1024, decimal ones base 1000; they are distinct
// units and must not be folded together.
var byteUnits = map[string]float64{
	"B":   1,
	"KB":  1e3,
	"MB":  1e6,
	"GB":  1e9,
	"TB":  1e12,
	"KiB": 1024,
	"MiB": 1024 * 1024,
	"GiB": 1024 * 1024 * 1024,
	"TiB": 1024 * 1024 * 1024 * 1024,
}

// ParseBytes converts a human-readable transfer quantity ("1.95 MiB") into a
// byte count, flooring fractional results. The space between number and unit
// is optional. Unrecognized input parses to 0 rather than failing; transfer
// counters are informational and a bad line must not break reconciliation.
func ParseBytes(s string) int64 {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
	if err != nil || value < 0 {
		return 0
	}
	mult, ok := byteUnits[strings.TrimSpace(s[i:])]
	if !ok {
		return 0
	}
	return int64(value * mult)
}

// displayUnits are the suffixes used for display formatting. FormatBytes
// divides by 1024 while labelling with decimal-looking names; the dashboard
// has always shown transfer this way and clients depend on it, so the
// mismatch with ParseBytes is kept as-is.
var displayUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count for display with two decimal places.
func FormatBytes(n int64) string {
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(displayUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, displayUnits[unit])
}
