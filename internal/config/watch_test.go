package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

func TestWatchAppliesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logx.Nop(), func(c Config) { applied <- c })
	}()

	// Give the watcher a moment to register before the write.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))

	select {
	case cfg := <-applied:
		assert.Equal(t, "debug", cfg.LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload was not applied")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatchSkipsBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan Config, 4)
	go func() {
		_ = Watch(ctx, path, logx.Nop(), func(c Config) { applied <- c })
	}()

	time.Sleep(100 * time.Millisecond)
	// Unknown key: parse fails, previous config stays in effect.
	require.NoError(t, os.WriteFile(path, []byte("nope: 1\n"), 0o644))

	select {
	case cfg := <-applied:
		t.Fatalf("broken config was applied: %+v", cfg)
	case <-time.After(700 * time.Millisecond):
		// expected: debounce fired, parse failed, nothing applied
	}
}
