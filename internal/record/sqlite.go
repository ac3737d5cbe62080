//go:build sqlite
// +build sqlite

package record

import (
	"context"
	"database/sql"
	"embed"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// sqliteWriter appends runs to a single per-job database. Rotation is a
// property of the line-oriented formats; readers query sqlite by timestamp.
type sqliteWriter struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Writer, error) {
	path := filepath.Join(cfg.Dir, "records.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	w := &sqliteWriter{db: db, log: log}
	if err := w.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("sqlite records opened", logx.String("path", path))
	return w, nil
}

func (w *sqliteWriter) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = w.db.ExecContext(ctx, string(b))
	return err
}

func (w *sqliteWriter) Append(ctx context.Context, o Outcome) error {
	_, err := w.db.ExecContext(ctx,
		`INSERT INTO runs(timestamp, value, exit_code) VALUES(?,?,?)`,
		o.Timestamp.Format(time.RFC3339), o.Value, o.ExitCode,
	)
	return err
}

func (w *sqliteWriter) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}
