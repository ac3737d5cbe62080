//go:build !windows
// +build !windows

package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

func TestRunCapturesTrimmedStdout(t *testing.T) {
	r := &Runner{Log: logx.Nop()}

	out, err := r.Run(context.Background(), "echo '  hi  '")
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Value)
	assert.Equal(t, 0, out.ExitCode)
	assert.WithinDuration(t, time.Now(), out.Timestamp, 5*time.Second)
}

func TestRunMultilineOutputIsSingleValue(t *testing.T) {
	r := &Runner{Log: logx.Nop()}

	out, err := r.Run(context.Background(), "printf 'a\\nb\\n'")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", out.Value)
}

func TestRunNonZeroExit(t *testing.T) {
	r := &Runner{Log: logx.Nop()}

	out, err := r.Run(context.Background(), "echo oops; exit 3")
	require.NoError(t, err)
	assert.Equal(t, "oops", out.Value)
	assert.Equal(t, 3, out.ExitCode)
}

func TestRunShellFeaturesWork(t *testing.T) {
	r := &Runner{Log: logx.Nop()}

	out, err := r.Run(context.Background(), "echo one two | wc -w")
	require.NoError(t, err)
	assert.Equal(t, "2", out.Value)
}

func TestRunTimeoutKillsChild(t *testing.T) {
	r := &Runner{Timeout: 200 * time.Millisecond, Log: logx.Nop()}

	start := time.Now()
	out, err := r.Run(context.Background(), "echo partial; sleep 30")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, TimeoutExitCode, out.ExitCode)
	// Partial output produced before the deadline is preserved.
	assert.Equal(t, "partial", out.Value)
	// Returned shortly after the deadline, not after the sleep: the child was
	// killed and reaped, not waited out.
	assert.Less(t, elapsed, 5*time.Second)
}

func TestRunSpawnFailureIsDistinct(t *testing.T) {
	r := &Runner{Shell: []string{"/nonexistent-shell", "-c"}, Log: logx.Nop()}

	_, err := r.Run(context.Background(), "echo hi")
	require.ErrorIs(t, err, ErrSpawn)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Log: logx.Nop()}
	_, err := r.Run(ctx, "echo hi")
	require.Error(t, err)
}
