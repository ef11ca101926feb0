// Package config defines the application configuration and its resolution
// chain: CLI flags take priority over environment variables (JOBFLOW_
// prefix), which take priority over defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/jobflow/internal/errors"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "JOBFLOW_"

// Pattern selection values accepted by -pattern.
const (
	PatternAll = "all"
)

// Default configuration values.
const (
	DefaultPattern   = PatternAll
	DefaultJobs      = 5
	DefaultAttempts  = 3
	DefaultBaseDelay = 100 * time.Millisecond
	DefaultDeadline  = 500 * time.Millisecond
	DefaultFailing   = 2
)

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	// Pattern selects the orchestration pattern to demonstrate, or "all".
	Pattern string
	// Jobs is the number of concurrent jobs per pattern run.
	Jobs int
	// Attempts is the total attempt budget for the fixed-policy retry.
	Attempts int
	// Retries is the retry budget for the transient retry pattern.
	Retries int
	// BaseDelay is the backoff base delay for the retry patterns and the
	// unit of simulated job work.
	BaseDelay time.Duration
	// Deadline is the per-job deadline for the timeout pattern.
	Deadline time.Duration
	// Failing is the number of jobs per run that fail.
	Failing int
	// FlakyFailures is how many times a failing job fails before it
	// recovers; 0 means it never recovers.
	FlakyFailures int
	// Seed makes the simulated job delays reproducible.
	Seed int64
	// ArtifactsDir, when set, is listed by workers after each success.
	ArtifactsDir string
	// CancelTimedOut builds timeout-pattern jobs against per-job tokens
	// so a job whose deadline wins stops instead of running on.
	CancelTimedOut bool
	// Quiet suppresses the spinner and summary styling.
	Quiet bool
	// Verbose enables debug logging and the metrics/system summary.
	Verbose bool
	// NoColor disables styled output.
	NoColor bool
	// Theme selects the output color scheme (dark, light, none).
	Theme string
}

// ParseConfig parses command-line arguments into an AppConfig, applies
// environment overrides for flags not explicitly set, and validates the
// result.
//
// Parameters:
//   - programName: The program name for the flag set and usage output.
//   - args: The command-line arguments, without the program name.
//   - errWriter: The writer for usage and parse errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: A ConfigError for invalid input, or flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{}
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.StringVar(&cfg.Pattern, "pattern", DefaultPattern,
		"orchestration pattern to run: waitall, failfast, timeout, retry, retry-transient or all")
	fs.IntVar(&cfg.Jobs, "jobs", DefaultJobs, "number of concurrent jobs per run")
	fs.IntVar(&cfg.Attempts, "attempts", DefaultAttempts, "total attempt budget for the retry pattern")
	fs.IntVar(&cfg.Retries, "retries", DefaultAttempts-1, "retry budget for the retry-transient pattern")
	fs.DurationVar(&cfg.BaseDelay, "base-delay", DefaultBaseDelay, "backoff base delay and simulated work unit")
	fs.DurationVar(&cfg.Deadline, "deadline", DefaultDeadline, "per-job deadline for the timeout pattern")
	fs.IntVar(&cfg.Failing, "fail", DefaultFailing, "number of jobs that fail per run")
	fs.IntVar(&cfg.FlakyFailures, "flaky-failures", 2,
		"failures before a failing job recovers (0 = never recovers)")
	fs.Int64Var(&cfg.Seed, "seed", 1, "seed for reproducible simulated delays")
	fs.StringVar(&cfg.ArtifactsDir, "artifacts", "", "directory listed by workers after each success")
	fs.BoolVar(&cfg.CancelTimedOut, "cancel-timed-out", false,
		"give timeout-pattern jobs a cancellation token so deadline losers stop")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "suppress spinner and styling")
	fs.BoolVar(&cfg.Quiet, "q", false, "shorthand for -quiet")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging and run summaries")
	fs.BoolVar(&cfg.Verbose, "v", false, "shorthand for -verbose")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")
	fs.StringVar(&cfg.Theme, "theme", "dark", "output color scheme: dark, light or none")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the orchestrators cannot
// run with.
//
// Returns:
//   - error: A ConfigError describing the first invalid value, or nil.
func (c AppConfig) Validate() error {
	switch c.Pattern {
	case PatternAll, "waitall", "failfast", "timeout", "retry", "retry-transient":
	default:
		return apperrors.NewConfigError("unknown pattern %q", c.Pattern)
	}
	if c.Jobs < 1 {
		return apperrors.NewConfigError("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Attempts < 1 {
		return apperrors.NewConfigError("attempts must be at least 1, got %d", c.Attempts)
	}
	if c.Retries < 0 {
		return apperrors.NewConfigError("retries must be non-negative, got %d", c.Retries)
	}
	if c.BaseDelay <= 0 {
		return apperrors.NewConfigError("base-delay must be positive, got %s", c.BaseDelay)
	}
	if c.Deadline <= 0 {
		return apperrors.NewConfigError("deadline must be positive, got %s", c.Deadline)
	}
	if c.Failing < 0 || c.Failing > c.Jobs {
		return apperrors.NewConfigError("fail must be between 0 and jobs (%d), got %d", c.Jobs, c.Failing)
	}
	return nil
}

// String returns a compact description of the configuration for logs.
func (c AppConfig) String() string {
	return fmt.Sprintf("pattern=%s jobs=%d attempts=%d retries=%d base-delay=%s deadline=%s fail=%d",
		c.Pattern, c.Jobs, c.Attempts, c.Retries, c.BaseDelay, c.Deadline, c.Failing)
}
