// Package config loads trep's optional config file and validates the
// boundary inputs (job name, durations, output format) before anything
// reaches the run loop.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// BaseDirName is the directory under the user's home that holds all job data.
const BaseDirName = ".tiny-reporter"

// Config carries file-provided defaults. Flags win over file values.
type Config struct {
	// BaseDir overrides the default ~/.tiny-reporter root.
	BaseDir string `json:"base_dir"`
	// Format is the default record format: "csv", "jsonl" or "sqlite".
	Format string `json:"format"`
	// LogLevel is the console log level. Re-applied on config hot reload.
	LogLevel string `json:"log_level"`
	// Timeout is the default per-run timeout ("5s", "1m"). Empty = none.
	Timeout string `json:"timeout"`
}

// Load reads and strictly decodes a YAML or JSON config file.
// A missing path returns an empty Config.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	jb, format, err := coerceToJSONBytes(path, b)
	if err != nil {
		return cfg, err
	}
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s config: %w", format, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Format != "" {
		if err := ValidateFormat(c.Format); err != nil {
			return err
		}
	}
	if _, err := ParseDurationField("timeout", c.Timeout); err != nil {
		return err
	}
	return nil
}

// ValidateFormat checks a record format name.
func ValidateFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv", "jsonl", "sqlite":
		return nil
	default:
		return fmt.Errorf("format must be \"csv\", \"jsonl\" or \"sqlite\", got %q", format)
	}
}

// ResolveBaseDir returns the root directory for job data.
// Explicit overrides win; otherwise ~/.tiny-reporter, falling back to the
// working directory when the home directory cannot be determined.
func ResolveBaseDir(override string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", BaseDirName)
	}
	return filepath.Join(home, BaseDirName)
}

// coerceToJSONBytes converts YAML config to JSON bytes so the strict JSON
// decoder (DisallowUnknownFields) covers both formats.
//
// Returns (jsonBytes, format, err) where format is "json" or "yaml".
func coerceToJSONBytes(path string, data []byte) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, "json", nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, "yaml", fmt.Errorf("yaml unmarshal: %w", err)
	}

	v = normalizeYAML(v)

	j, err := json.Marshal(v)
	if err != nil {
		return nil, "yaml", fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, "yaml", nil
}

// normalizeYAML ensures all map keys are strings so the result can be JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}
