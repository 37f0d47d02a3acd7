package figure

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/alnah/go-tex2canvas/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	// Run executes name in dir and returns its combined output.
	Run(ctx context.Context, dir, name string, args ...string) (output string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Each command runs in
// its own process group, killed as a whole when ctx is cancelled.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- tool names are fixed
	cmd.Dir = dir
	process.Isolate(cmd)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}

// LookPathFunc reports the location of an executable.
type LookPathFunc func(file string) (string, error)
