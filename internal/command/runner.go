// Package command executes shell commands with a working directory, a hard
// timeout, and separate stdout/stderr capture. A command that outlives its
// timeout is forcibly terminated together with its process group; whatever
// output it produced up to that point is kept.
package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"

	"github.com/deepgate/deepgate/internal/protocol"
)

// DefaultTimeout bounds commands whose request did not specify one.
const DefaultTimeout = 30 * time.Second

// graceDelay is how long Wait lingers after the kill signal before
// abandoning the process's pipes.
const graceDelay = 3 * time.Second

// Runner executes commands. Concurrent Execute calls are independent; a
// long-running command never delays unrelated work.
type Runner struct {
	defaultDir     string
	defaultTimeout time.Duration
}

// NewRunner creates a runner whose commands default to running in
// defaultDir. A zero defaultTimeout selects DefaultTimeout.
func NewRunner(defaultDir string, defaultTimeout time.Duration) *Runner {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &Runner{defaultDir: defaultDir, defaultTimeout: defaultTimeout}
}

// Result captures one command invocation. TimedOut commands still carry the
// partial output collected before termination.
type Result struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	TimedOut bool          `json:"timed_out"`
	Duration time.Duration `json:"duration"`
}

// Execute runs command through the platform shell in dir. A non-zero exit
// code is a normal result; only failing to start the process at all is an
// error (ExecutionError).
func (r *Runner) Execute(ctx context.Context, command, dir string, timeout time.Duration) (*Result, error) {
	if command == "" {
		return nil, protocol.E(protocol.KindValidation, "command is required")
	}
	if dir == "" {
		dir = r.defaultDir
	}
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := shellCommand(ctx, command)
	cmd.Dir = dir
	setProcAttr(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Kill the whole process group on cancellation so a shell's children
	// cannot keep the pipes open past the timeout.
	cmd.Cancel = func() error { return killGroup(cmd) }
	cmd.WaitDelay = graceDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, protocol.Wrap(protocol.KindExecution, err, "failed to start command: %v", err)
	}

	waitErr := cmd.Wait()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, protocol.Wrap(protocol.KindExecution, waitErr, "command failed: %v", waitErr)
	}

	res.ExitCode = 0
	return res, nil
}

// shellCommand builds the platform-appropriate shell invocation.
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "/bin/sh", "-c", command)
}
