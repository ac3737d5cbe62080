package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

// Outcome is the result of one command run. It is constructed by the runner,
// handed straight to a Writer, and never retained in memory afterwards.
type Outcome struct {
	// Timestamp is taken after the run completes, in local time.
	Timestamp time.Time
	// Value is the command's captured stdout with surrounding whitespace
	// trimmed. Multi-line output stays a single string.
	Value string
	// ExitCode is the process exit code, or runner.TimeoutExitCode when the
	// run was killed on deadline.
	ExitCode int
}

// Writer appends run outcomes to the job's record store.
//
// Each Append is durable before it returns: a crash immediately after a run
// must not lose that run's record.
type Writer interface {
	Append(ctx context.Context, o Outcome) error
	Close() error
}

// Config configures a record writer.
type Config struct {
	// Dir is the job's data directory, e.g. <base>/<job>.
	Dir string
	// Format selects the driver: "csv", "jsonl" or "sqlite".
	Format string
	// Now is the clock used for daily file rotation. Defaults to time.Now.
	Now func() time.Time
}

// Open initializes the writer for the configured format, creating the job
// directory if needed.
func Open(cfg Config, log logx.Logger) (Writer, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("record dir is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create job directory: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "csv":
		return &lineWriter{dir: cfg.Dir, ext: "csv", now: cfg.Now, log: log, encode: encodeCSV}, nil
	case "jsonl":
		return &lineWriter{dir: cfg.Dir, ext: "jsonl", now: cfg.Now, log: log, encode: encodeJSONL}, nil
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown record format: " + cfg.Format)
	}
}

// FilePath returns the daily record file for the given date and extension.
func FilePath(dir string, date time.Time, ext string) string {
	return filepath.Join(dir, date.Format("2006-01-02")+"."+ext)
}

// lineWriter appends to the daily file of a line-oriented format.
//
// The target path is recomputed from the current local date on every append,
// which is all the rotation logic a single sequential job needs: the first
// run after midnight lands in the new day's file.
type lineWriter struct {
	dir    string
	ext    string
	now    func() time.Time
	log    logx.Logger
	encode func(o Outcome) ([]byte, error)
}

func (w *lineWriter) Append(ctx context.Context, o Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := w.encode(o)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	path := FilePath(w.dir, w.now(), w.ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open record file: %w", err)
	}

	// Single write of a fully encoded line, then sync: the record is on disk
	// before the next run starts, and a failed write never leaves a partial
	// line ahead of existing content.
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append record: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync record file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close record file: %w", err)
	}

	w.log.Debug("record appended",
		logx.String("file", path), logx.Int("exit_code", o.ExitCode))
	return nil
}

func (w *lineWriter) Close() error { return nil }
