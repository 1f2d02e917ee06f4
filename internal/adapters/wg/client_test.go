package wg

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner records invocations and returns canned results.
type fakeRunner struct {
	calls  [][]string
	stdout string
	stderr string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, f.stderr, f.err
}

func TestClientStatus(t *testing.T) {
	runner := &fakeRunner{stdout: "interface: wg0\n  public key: LIVEKEY\n  listening port: 51820\n"}
	client := NewClient("wg0", runner)

	snap := client.Status(context.Background())

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 command, got %d", len(runner.calls))
	}
	got := strings.Join(runner.calls[0], " ")
	if got != "wg show wg0" {
		t.Errorf("command = %q, expected \"wg show wg0\"", got)
	}
	if snap.Interface == nil || snap.Interface.PublicKey != "LIVEKEY" {
		t.Errorf("snapshot did not come from command output: %+v", snap.Interface)
	}
}

func TestClientStatusFallback(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exec: \"wg\": executable file not found in $PATH")}
	client := NewClient("wg0", runner)

	snap := client.Status(context.Background())

	want := FallbackSnapshot()
	if snap.Interface == nil || snap.Interface.Name != want.Interface.Name {
		t.Fatalf("fallback interface = %+v, expected %+v", snap.Interface, want.Interface)
	}
	if len(snap.Peers) != len(want.Peers) {
		t.Errorf("fallback peer count = %d, expected %d", len(snap.Peers), len(want.Peers))
	}
	for key, peer := range want.Peers {
		got, ok := snap.Peers[key]
		if !ok {
			t.Fatalf("fallback snapshot missing peer %s", key)
		}
		if got.TransferRx != peer.TransferRx || got.TransferTx != peer.TransferTx {
			t.Errorf("fallback transfer = %d/%d, expected %d/%d",
				got.TransferRx, got.TransferTx, peer.TransferRx, peer.TransferTx)
		}
	}
}

func TestClientAddPeer(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient("wg0", runner)

	err := client.AddPeer(context.Background(), "PEERKEY", "10.7.0.2/32", 25)
	if err != nil {
		t.Fatalf("AddPeer returned error: %v", err)
	}

	got := strings.Join(runner.calls[0], " ")
	want := "wg set wg0 peer PEERKEY allowed-ips 10.7.0.2/32 persistent-keepalive 25"
	if got != want {
		t.Errorf("command = %q, expected %q", got, want)
	}
}

func TestClientAddPeerFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1"), stderr: "Unable to modify interface: Operation not permitted"}
	client := NewClient("wg0", runner)

	err := client.AddPeer(context.Background(), "PEERKEY", "10.7.0.2/32", 25)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Operation not permitted") {
		t.Errorf("error %q should include stderr", err)
	}
}

func TestClientRemovePeer(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient("wg0", runner)

	if err := client.RemovePeer(context.Background(), "PEERKEY"); err != nil {
		t.Fatalf("RemovePeer returned error: %v", err)
	}

	got := strings.Join(runner.calls[0], " ")
	if got != "wg set wg0 peer PEERKEY remove" {
		t.Errorf("command = %q, expected \"wg set wg0 peer PEERKEY remove\"", got)
	}
}
