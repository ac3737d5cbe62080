// Package runner executes one shell invocation of the user command and
// reports a structured outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tnakai11/tiny-reporter/internal/record"
	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

// TimeoutExitCode is the sentinel recorded when a run is killed on deadline.
// No real exit code exists in that case.
const TimeoutExitCode = -1

// ErrSpawn reports that the shell itself could not be launched. This is a
// distinct failure from a command exiting non-zero and aborts the whole loop.
var ErrSpawn = errors.New("failed to spawn command")

// Runner executes commands through the platform shell so pipes, globbing and
// shell built-ins behave as on an interactive terminal.
type Runner struct {
	// Timeout bounds each run; 0 means unbounded.
	Timeout time.Duration
	// Shell overrides the platform shell invocation (argv prefix the command
	// string is appended to). Mainly for tests.
	Shell []string

	Log logx.Logger
}

// Run executes command and blocks until the process exits or the timeout
// fires. On timeout the child is terminated forcefully by identifier and the
// outcome carries TimeoutExitCode plus whatever stdout was captured so far.
//
// Cancellation of ctx does not terminate the child: the scheduler lets an
// in-flight run finish so its record is always written whole.
func (r *Runner) Run(ctx context.Context, command string) (record.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return record.Outcome{}, err
	}

	argv := r.Shell
	if len(argv) == 0 {
		argv = shellArgv()
	}
	argv = append(append([]string(nil), argv...), command)

	cmd := exec.Command(argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return record.Outcome{}, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	pid := cmd.Process.Pid

	// Race the blocking wait against the deadline. exec keeps copying the
	// pipes until the child (and its descendants holding them) exit, so the
	// buffer holds everything produced up to termination.
	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	var waitErr error
	timedOut := false
	if r.Timeout > 0 {
		timer := time.NewTimer(r.Timeout)
		defer timer.Stop()
		select {
		case waitErr = <-waitDone:
		case <-timer.C:
			timedOut = true
			terminate(pid)
			// Reap so no zombie is left behind.
			waitErr = <-waitDone
		}
	} else {
		waitErr = <-waitDone
	}

	out := record.Outcome{
		Timestamp: time.Now(),
		Value:     strings.TrimSpace(stdout.String()),
	}

	switch {
	case timedOut:
		out.ExitCode = TimeoutExitCode
		r.Log.Warn("run timed out; child terminated",
			logx.Int("pid", pid),
			logx.Duration("timeout", r.Timeout))
	case waitErr == nil:
		out.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return record.Outcome{}, fmt.Errorf("wait for command: %w", waitErr)
		}
		// ExitCode is -1 for signal deaths; that matches the sentinel, which
		// is fine: in both cases no meaningful exit code exists.
		out.ExitCode = exitErr.ExitCode()
		r.Log.Debug("command exited non-zero",
			logx.Int("exit_code", out.ExitCode),
			logx.String("stderr", strings.TrimSpace(stderr.String())))
	}

	r.Log.Debug("run finished",
		logx.Int("exit_code", out.ExitCode),
		logx.Duration("dur", time.Since(start)))
	return out, nil
}
