package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

// debounceDelay coalesces the burst of write events editors produce so we
// never parse a half-written file.
const debounceDelay = 250 * time.Millisecond

// Watch re-parses the config file whenever it changes and invokes apply with
// each successfully parsed Config. Parse failures are logged and skipped; the
// previously applied config stays in effect.
//
// Watch blocks until ctx is cancelled. It is intended to run in its own
// goroutine alongside a scheduled loop; one-shot runs never call it.
func Watch(ctx context.Context, path string, log logx.Logger, apply func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	// Watch the directory, not the file: editors commonly replace the file
	// (rename + create), which drops a direct file watch.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		log.Debug("config change detected; scheduling reload", logx.String("path", path))
		timer = time.AfterFunc(debounceDelay, func() {
			cfg, err := Load(path)
			if err != nil {
				log.Warn("config reload failed; keeping previous config",
					logx.String("path", path), logx.Err(err))
				return
			}
			apply(cfg)
			log.Info("config reloaded", logx.String("path", path))
		})
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timerMu.Unlock()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", logx.Err(err))
		}
	}
}
