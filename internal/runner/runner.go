package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/MrSnakeDoc/armada/internal/logger"
)

// DefaultTimeout is the hard per-command limit. A command still running
// after this long is killed and reported as a timeout, distinct from a
// nonzero exit.
const DefaultTimeout = 300 * time.Second

// ErrTimeout marks a command that exceeded the hard timeout.
var ErrTimeout = errors.New("command timed out")

// CommandError is a command that ran and exited nonzero.
type CommandError struct {
	Cmd      string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "(no stderr)"
	}
	return fmt.Sprintf("command failed (exit %d): %s", e.ExitCode, msg)
}

// ExecError is a command that could not be run at all (missing binary,
// broken transport, ...).
type ExecError struct {
	Cmd string
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("command execution error: %v", e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Exec runs commands with a bounded lifetime, locally or on a site's host.
type Exec struct {
	timeout time.Duration
	log     logger.Logger
}

func New(timeout time.Duration, log logger.Logger) *Exec {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Exec{timeout: timeout, log: log}
}

// Run executes an argument vector in dir and returns captured stdout.
// Arguments are never passed through a shell, so config values cannot
// inject into the command line.
func (e *Exec) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	display := name
	if len(args) > 0 {
		display = name + " " + strings.Join(args, " ")
	}
	e.log.Debug("running command",
		logger.String("cmd", display),
		logger.String("dir", dir))

	cmd := exec.CommandContext(cctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if cctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w after %s: %s", ErrTimeout, e.timeout, display)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", &CommandError{
			Cmd:      display,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
		}
	}

	return "", &ExecError{Cmd: display, Err: err}
}

// RunShell executes a user-authored hook command through `sh -c` in dir.
// Hooks are free-form shell strings by contract; everything the tool
// builds itself goes through Run with an argv instead.
func (e *Exec) RunShell(ctx context.Context, dir, command string) (string, error) {
	return e.Run(ctx, dir, "sh", "-c", command)
}
