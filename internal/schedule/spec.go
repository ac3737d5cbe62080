package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// SpecKind describes the normalized kind of a schedule string.
//
// We intentionally keep this small: either a cron expression (robfig/cron)
// or a fixed interval.
type SpecKind int

const (
	SpecInterval SpecKind = iota
	SpecCron
)

// Spec is a parsed schedule string.
type Spec struct {
	Kind   SpecKind
	Every  time.Duration
	Cron   cron.Schedule
	Source string // "cron" | "duration" | "hhmm"
	Raw    string
}

// specParser allows both 5-field and 6-field (with seconds) cron specs.
var specParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

var reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)

// ParseSchedule parses a schedule string into either a cron schedule or an
// interval duration. An empty string is a usage error; one-shot mode is the
// absence of a schedule, decided by the caller.
func ParseSchedule(raw string) (*Spec, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("schedule required")
	}

	// Prefixes (explicit)
	low := strings.ToLower(s)
	if strings.HasPrefix(low, "cron:") {
		expr := strings.TrimSpace(s[len("cron:"):])
		if expr == "" {
			return nil, fmt.Errorf("cron schedule required after 'cron:'")
		}
		return parseCron(expr)
	}
	if strings.HasPrefix(low, "every:") {
		v := strings.TrimSpace(s[len("every:"):])
		d, src, err := parseInterval(v)
		if err != nil {
			return nil, err
		}
		return &Spec{Kind: SpecInterval, Every: d, Source: src, Raw: raw}, nil
	}

	// Heuristics:
	// - any whitespace or leading '@' => cron
	if strings.ContainsAny(s, " \t\n\r") || strings.HasPrefix(s, "@") {
		return parseCron(s)
	}

	// - HH:MM => interval duration
	if reHHMM.MatchString(s) {
		d, err := parseHHMMDuration(s)
		if err != nil {
			return nil, err
		}
		return &Spec{Kind: SpecInterval, Every: d, Source: "hhmm", Raw: raw}, nil
	}

	// - Go duration => interval duration
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("interval must be > 0")
		}
		return &Spec{Kind: SpecInterval, Every: d, Source: "duration", Raw: raw}, nil
	}

	return nil, fmt.Errorf(
		"invalid schedule %q (use cron like '*/5 * * * *', HH:MM like '02:30', or duration like '55m')",
		raw,
	)
}

func parseCron(expr string) (*Spec, error) {
	sched, err := specParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return &Spec{Kind: SpecCron, Cron: sched, Source: "cron", Raw: expr}, nil
}

func parseInterval(v string) (time.Duration, string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, "", fmt.Errorf("interval required")
	}
	if reHHMM.MatchString(v) {
		d, err := parseHHMMDuration(v)
		return d, "hhmm", err
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, "", fmt.Errorf("invalid interval %q (use HH:MM or Go duration like '55m'/'2h30m')", v)
	}
	if d <= 0 {
		return 0, "", fmt.Errorf("interval must be > 0")
	}
	return d, "duration", nil
}

func parseHHMMDuration(s string) (time.Duration, error) {
	m := reHHMM.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid HH:MM interval %q", s)
	}
	var hours, minutes int
	if _, err := fmt.Sscanf(m[1]+" "+m[2], "%d %d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("invalid HH:MM interval %q", s)
	}
	if minutes > 59 {
		return 0, fmt.Errorf("invalid HH:MM interval %q: minutes must be 00-59", s)
	}
	d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if d <= 0 {
		return 0, fmt.Errorf("interval must be > 0")
	}
	return d, nil
}

// Next computes the next tick. Interval ticks are anchored at the start of
// the previous tick; cron ticks follow the cron schedule from now.
func (s *Spec) Next(now, tickStart time.Time) time.Time {
	if s.Kind == SpecCron {
		return s.Cron.Next(now)
	}
	return tickStart.Add(s.Every)
}
