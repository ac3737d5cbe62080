package record

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCSVNeverWritesHeader(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	w, err := Open(Config{Dir: dir, Format: "csv", Now: fixedClock(at)}, logx.Nop())
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.Append(context.Background(), Outcome{Timestamp: at, Value: "hi", ExitCode: 0}))

	b, err := os.ReadFile(FilePath(dir, at, "csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, at.Format(time.RFC3339)+",hi,0", lines[0])
}

func TestCSVQuotingRoundTrip(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)
	value := "a,b \"quoted\"\nsecond line"

	w, err := Open(Config{Dir: dir, Format: "csv", Now: fixedClock(at)}, logx.Nop())
	require.NoError(t, err)

	require.NoError(t, w.Append(context.Background(), Outcome{Timestamp: at, Value: value, ExitCode: 2}))

	f, err := os.Open(FilePath(dir, at, "csv"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{at.Format(time.RFC3339), value, "2"}, rows[0])
}

func TestJSONLLines(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	w, err := Open(Config{Dir: dir, Format: "jsonl", Now: fixedClock(at)}, logx.Nop())
	require.NoError(t, err)

	for i, v := range []string{"one", "two\nwith newline", "three"} {
		require.NoError(t, w.Append(context.Background(), Outcome{Timestamp: at, Value: v, ExitCode: i}))
	}

	b, err := os.ReadFile(FilePath(dir, at, "jsonl"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line %d", i)
		assert.Len(t, m, 3)
		assert.Equal(t, at.Format(time.RFC3339), m["timestamp"])
		assert.Equal(t, float64(i), m["exit_code"])
		assert.Contains(t, m, "value")
	}
}

func TestDailyRotation(t *testing.T) {
	dir := t.TempDir()
	day1 := time.Date(2026, 8, 29, 23, 59, 0, 0, time.Local)
	day2 := time.Date(2026, 8, 30, 0, 1, 0, 0, time.Local)

	now := day1
	w, err := Open(Config{Dir: dir, Format: "csv", Now: func() time.Time { return now }}, logx.Nop())
	require.NoError(t, err)

	require.NoError(t, w.Append(context.Background(), Outcome{Timestamp: day1, Value: "before", ExitCode: 0}))
	now = day2
	require.NoError(t, w.Append(context.Background(), Outcome{Timestamp: day2, Value: "after", ExitCode: 0}))

	b1, err := os.ReadFile(FilePath(dir, day1, "csv"))
	require.NoError(t, err)
	b2, err := os.ReadFile(FilePath(dir, day2, "csv"))
	require.NoError(t, err)

	assert.Contains(t, string(b1), "before")
	assert.NotContains(t, string(b1), "after")
	assert.Contains(t, string(b2), "after")
	assert.NotContains(t, string(b2), "before")
}

func TestAppendNeverTruncates(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)
	path := FilePath(dir, at, "jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"timestamp":"x","value":"pre-existing","exit_code":0}`+"\n"), 0o644))

	w, err := Open(Config{Dir: dir, Format: "jsonl", Now: fixedClock(at)}, logx.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Append(context.Background(), Outcome{Timestamp: at, Value: "new", ExitCode: 0}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "pre-existing")
	assert.Contains(t, lines[1], "new")
}

func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open(Config{Dir: t.TempDir(), Format: "xml"}, logx.Nop())
	require.Error(t, err)
}

func TestFilePath(t *testing.T) {
	date := time.Date(2025, 1, 2, 15, 4, 5, 0, time.Local)
	assert.Equal(t, filepath.Join("/tmp/data", "2025-01-02.csv"), FilePath("/tmp/data", date, "csv"))
	assert.Equal(t, filepath.Join("/tmp/data", "2025-01-02.jsonl"), FilePath("/tmp/data", date, "jsonl"))
}
