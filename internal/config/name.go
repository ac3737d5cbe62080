package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Job name length bounds. The name becomes a directory component, so it is
// treated as an untrusted path segment.
const (
	NameMinLen = 1
	NameMaxLen = 64
)

// namePattern validates job names:
//   - Must start with a letter or digit
//   - May contain letters, digits, dots, underscores, and hyphens
//
// Path separators, leading dots, and anything else that could escape the
// job's directory are rejected outright.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateJobName checks that a job name is safe to use as a single
// filesystem path component.
func ValidateJobName(name string) error {
	if len(name) < NameMinLen {
		return fmt.Errorf("job name is required")
	}
	if len(name) > NameMaxLen {
		return fmt.Errorf("job name %q exceeds %d characters", name, NameMaxLen)
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("job name %q must not contain path separators", name)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("job name %q may contain only letters, digits, '.', '_' and '-', and must not start with a dot", name)
	}
	return nil
}
