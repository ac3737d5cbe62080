package record

// Package record persists one structured row per command run.
//
// It currently supports:
//   - csv / jsonl: append-only daily files, <job>/<YYYY-MM-DD>.<ext>
//   - sqlite: a single per-job database (build with -tags sqlite)
//
// The line formats are the durable contract external readers depend on:
// CSV rows are timestamp,value,exit_code with standard quoting and never a
// header; JSONL lines are single objects with exactly those three keys.
