package run

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Runner executes an external command, streaming its stdout into the given
// writer. The orchestration layer depends on this interface rather than on
// os/exec directly, so it can be exercised in tests with a fake.
type Runner interface {
	Run(ctx context.Context, stdout io.Writer, command string, args ...string) error
}

// Local runs commands on the local host. The child's stderr passes through
// to our own, so the tool's diagnostics reach the user unaltered.
type Local struct{}

var _ Runner = Local{}

func (Local) Run(ctx context.Context, stdout io.Writer, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
