// Package schedule drives the run loop: acquire the job lock once, then
// execute the command and append its record either exactly once or on every
// scheduled tick until the context is cancelled.
//
// # Schedule formats
//
// The --every string accepts several syntaxes:
//
//   - Interval durations: Go duration strings like "55m" or "2h30m".
//   - Interval HH:MM: a compact duration format where "00:50" means every 50
//     minutes and "02:30" means every 2 hours 30 minutes.
//   - Cron expressions: 5-field (min hour dom mon dow) or 6-field with
//     optional seconds. Example: "55 * * * *" or "0 */5 * * * *".
//   - Cron descriptors: "@hourly", "@daily", "@every 55m".
//
// To force interpretation, callers may prefix the string with "cron:" or
// "every:".
//
// # Tick model
//
// Interval ticks are fixed-rate, anchored at the start of the previous tick:
// next = tickStart + interval. A run that overruns its interval is followed
// immediately by the next run; ticks are never skipped or coalesced.
package schedule
