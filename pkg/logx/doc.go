// Package logx configures trep's structured logging.
//
// It is a small wrapper (logx.Logger) on top of zerolog that keeps console
// output readable (short timestamp + short caller) and lets the config
// watcher retune the level at runtime without replacing logger values.
package logx
