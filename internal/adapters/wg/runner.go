package wg

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// defaultCommandTimeout bounds every external wg invocation. A hung sudo
// prompt or a stuck kernel module must not stall the reconciliation loop.
const defaultCommandTimeout = 5 * time.Second

// Runner executes external commands. The process invoker depends on this
// capability rather than on exec directly so the services above it can be
// tested with a fake implementation.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// SudoRunner runs commands through sudo; wg(8) needs root to talk to the
// kernel interface.
type SudoRunner struct {
	// Timeout overrides defaultCommandTimeout when positive.
	Timeout time.Duration
}

func (r SudoRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	all := append([]string{"-n", name}, args...)
	cmd := exec.CommandContext(ctx, "sudo", all...) // #nosec G204
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return out.String(), errBuf.String(), err
}
