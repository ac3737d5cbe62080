package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tnakai11/tiny-reporter/internal/config"
	"github.com/tnakai11/tiny-reporter/internal/schedule"
	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

func newRunCmd() *cobra.Command {
	var (
		name     string
		every    string
		format   string
		timeout  string
		baseDir  string
		cfgPath  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "run --as <name> [flags] -- <command...>",
		Short: "Run a command on a schedule and record its output",
		Long: `Run a command on a schedule and record its output.

The command after -- is executed through the shell, so pipes, globbing and
built-ins work as on an interactive terminal. Without --every the command
runs exactly once.`,
		Example: `  trep run --as demo -- echo "hi"
  trep run --as disk --every 1m --format jsonl -- df -h /
  trep run --as hourly --every "@hourly" --timeout 30s -- ./report.sh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Everything after -- is the command; require the separator so
			// flag-looking command words are never eaten by cobra.
			if cmd.ArgsLenAtDash() != 0 {
				return usageError(cmd, "command must be given after \"--\"")
			}
			command := strings.Join(args, " ")

			if err := config.ValidateJobName(name); err != nil {
				return usageError(cmd, err.Error())
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			// Flags win over config file values.
			if format == "" {
				format = cfg.Format
			}
			if format == "" {
				format = "csv"
			}
			if err := config.ValidateFormat(format); err != nil {
				return usageError(cmd, err.Error())
			}
			if timeout == "" {
				timeout = cfg.Timeout
			}
			timeoutDur, err := config.ParseDurationField("--timeout", timeout)
			if err != nil {
				return usageError(cmd, err.Error())
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}

			var spec *schedule.Spec
			if every != "" {
				spec, err = schedule.ParseSchedule(every)
				if err != nil {
					return usageError(cmd, err.Error())
				}
			}

			logsvc, log := logx.New(logLevel)
			ctx := cmd.Context()

			// In scheduled mode the config file stays live: log level changes
			// are picked up without a restart.
			if spec != nil && cfgPath != "" {
				go func() {
					err := config.Watch(ctx, cfgPath, log, func(c config.Config) {
						logsvc.Apply(c.LogLevel)
					})
					if err != nil {
						log.Warn("config watch unavailable", logx.Err(err))
					}
				}()
			}

			return schedule.Run(ctx, schedule.Options{
				JobName:  name,
				Command:  command,
				Format:   format,
				BaseDir:  config.ResolveBaseDir(firstNonEmpty(baseDir, cfg.BaseDir)),
				Schedule: spec,
				Timeout:  timeoutDur,
			}, log)
		},
	}

	cmd.Flags().StringVarP(&name, "as", "n", "", "name for this job (used for directory and file naming)")
	cmd.Flags().StringVar(&every, "every", "", `schedule: duration ("1m"), HH:MM ("02:30"), or cron ("@hourly"); omit to run once`)
	cmd.Flags().StringVar(&format, "format", "", `output format: "csv", "jsonl" or "sqlite" (default "csv")`)
	cmd.Flags().StringVar(&timeout, "timeout", "", `per-run timeout (e.g. "5s"); omit for none`)
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "data root (default ~/.tiny-reporter)")
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to YAML/JSON config file with defaults")
	cmd.Flags().StringVar(&logLevel, "log-level", "", `console log level (default "info")`)
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func usageError(cmd *cobra.Command, msg string) error {
	_ = cmd.Help()
	return &UsageError{Msg: msg}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
