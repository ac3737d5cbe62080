package schedule

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/tnakai11/tiny-reporter/internal/lockfile"
	"github.com/tnakai11/tiny-reporter/internal/record"
	"github.com/tnakai11/tiny-reporter/internal/runner"
	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

// Options configures one job loop.
type Options struct {
	// JobName namespaces the lock file and data directory. Must already be
	// validated as a safe path segment.
	JobName string
	// Command is the shell command string to execute each tick.
	Command string
	// Format selects the record driver: "csv", "jsonl" or "sqlite".
	Format string
	// BaseDir is the resolved data root, e.g. ~/.tiny-reporter.
	BaseDir string
	// Schedule is nil for one-shot mode.
	Schedule *Spec
	// Timeout bounds each run; 0 means unbounded.
	Timeout time.Duration

	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
	// Shell overrides the runner's platform shell. Mainly for tests.
	Shell []string
}

// Run owns the whole job lifecycle: acquire the lock once, then
// { run -> append -> sleep } until one-shot completion, cancellation, or a
// fatal error. The lock is released on every exit path.
//
// Fatal errors (lock contention, spawn failure, write failure) abort the
// loop; a persistent spawn failure would otherwise spin forever producing
// nothing. A timed-out run is a normal recorded outcome, not an error.
func Run(ctx context.Context, opts Options, log logx.Logger) error {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	dir := filepath.Join(opts.BaseDir, opts.JobName)
	lock, err := lockfile.Acquire(filepath.Join(dir, opts.JobName+".lock"))
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	w, err := record.Open(record.Config{Dir: dir, Format: opts.Format, Now: now}, log)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	r := &runner.Runner{Timeout: opts.Timeout, Shell: opts.Shell, Log: log}

	log.Info("job started",
		logx.String("job", opts.JobName),
		logx.String("dir", dir),
		logx.String("format", opts.Format),
		logx.Bool("once", opts.Schedule == nil))

	if opts.Schedule != nil {
		// No-op outside systemd.
		_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
		defer func() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }()
	}

	for {
		tickStart := now()

		out, err := r.Run(ctx, opts.Command)
		if err != nil {
			return err
		}

		// The append is deliberately not bound to ctx: an interrupt arriving
		// mid-tick still gets the in-flight run's record written whole.
		if err := w.Append(context.Background(), out); err != nil {
			return fmt.Errorf("write record: %w", err)
		}

		if opts.Schedule == nil {
			log.Info("one-shot run recorded", logx.Int("exit_code", out.ExitCode))
			return nil
		}

		next := opts.Schedule.Next(now(), tickStart)
		if !sleepUntil(ctx, now, next, log) {
			log.Info("job stopping", logx.String("job", opts.JobName))
			return nil
		}
	}
}

// sleepUntil blocks until next or until ctx is cancelled. It reports whether
// the loop should continue. A next instant already in the past (the previous
// run overran its interval) continues immediately.
func sleepUntil(ctx context.Context, now func() time.Time, next time.Time, log logx.Logger) bool {
	delay := next.Sub(now())
	if delay <= 0 {
		return ctx.Err() == nil
	}

	log.Debug("sleeping until next tick", logx.Time("next", next), logx.Duration("delay", delay))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
