package process

// Notes:
// - KillProcessGroup is only exercised with an invalid PID: PID 0 or real
//   PIDs would target live process groups.

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

func TestIsolate_SetsCancel(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	Isolate(cmd)
	if cmd.Cancel == nil {
		t.Fatal("Isolate should install a Cancel func")
	}
	// No process started yet: Cancel must not panic.
	if err := cmd.Cancel(); err != nil {
		t.Errorf("Cancel() = %v, want nil", err)
	}
}

func TestIsolate_ContextCancelStopsProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sleep binary not available on windows")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not installed")
	}
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sleep", "30")
	Isolate(cmd)

	start := time.Now()
	if err := cmd.Run(); err == nil {
		t.Fatal("expected error from cancelled command")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("command ran for %v after cancellation", elapsed)
	}
}
