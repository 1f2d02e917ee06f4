package wg

import (
	"testing"
	"time"
)

func TestParseHandshake(t *testing.T) {
	tests := []struct {
		input       string
		expectedAgo time.Duration
	}{
		{"10 seconds ago", 10 * time.Second},
		{"1 minute ago", time.Minute},
		{"2 minutes, 3 seconds ago", 2*time.Minute + 3*time.Second},
		{"1 hour, 21 minutes, 2 seconds ago", 4862 * time.Second},
		{"3 days, 1 hour ago", 73 * time.Hour},
	}

	for _, tt := range tests {
		before := time.Now()
		got := ParseHandshake(tt.input)
		if got == nil {
			t.Errorf("ParseHandshake(%q) = nil, expected a timestamp", tt.input)
			continue
		}
		ago := before.Sub(*got)
		drift := ago - tt.expectedAgo
		if drift < -time.Second || drift > time.Second {
			t.Errorf("ParseHandshake(%q) resolved %v ago, expected %v (±1s)", tt.input, ago, tt.expectedAgo)
		}
	}
}

func TestParseHandshakeNil(t *testing.T) {
	for _, input := range []string{"never", "Never", "(never)", "", "   ", "soon", "a while ago"} {
		if got := ParseHandshake(input); got != nil {
			t.Errorf("ParseHandshake(%q) = %v, expected nil", input, got)
		}
	}
}

func TestIsRecentHandshake(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"10 seconds ago", true},
		{"90 seconds ago", true},
		{"3 minutes ago", true}, // exactly at the 180s boundary
		{"181 seconds ago", false},
		{"5 minutes ago", false},
		{"1 hour ago", false},
		{"never", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		if got := IsRecentHandshake(tt.input); got != tt.expected {
			t.Errorf("IsRecentHandshake(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
