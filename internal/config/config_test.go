package config

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/jobflow/internal/errors"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig("jobflow", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Pattern != PatternAll {
		t.Errorf("Pattern = %q, want %q", cfg.Pattern, PatternAll)
	}
	if cfg.Jobs != DefaultJobs {
		t.Errorf("Jobs = %d, want %d", cfg.Jobs, DefaultJobs)
	}
	if cfg.Attempts != DefaultAttempts {
		t.Errorf("Attempts = %d, want %d", cfg.Attempts, DefaultAttempts)
	}
	if cfg.BaseDelay != DefaultBaseDelay {
		t.Errorf("BaseDelay = %s, want %s", cfg.BaseDelay, DefaultBaseDelay)
	}
	if cfg.Deadline != DefaultDeadline {
		t.Errorf("Deadline = %s, want %s", cfg.Deadline, DefaultDeadline)
	}
}

func TestParseConfigFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"-pattern", "retry",
		"-jobs", "8",
		"-attempts", "5",
		"-base-delay", "50ms",
		"-deadline", "2s",
		"-fail", "3",
		"-seed", "42",
		"-artifacts", "/tmp/out",
		"-quiet",
	}
	cfg, err := ParseConfig("jobflow", args, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Pattern != "retry" {
		t.Errorf("Pattern = %q, want %q", cfg.Pattern, "retry")
	}
	if cfg.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cfg.Jobs)
	}
	if cfg.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", cfg.Attempts)
	}
	if cfg.BaseDelay != 50*time.Millisecond {
		t.Errorf("BaseDelay = %s, want 50ms", cfg.BaseDelay)
	}
	if cfg.Deadline != 2*time.Second {
		t.Errorf("Deadline = %s, want 2s", cfg.Deadline)
	}
	if cfg.Failing != 3 {
		t.Errorf("Failing = %d, want 3", cfg.Failing)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.ArtifactsDir != "/tmp/out" {
		t.Errorf("ArtifactsDir = %q, want %q", cfg.ArtifactsDir, "/tmp/out")
	}
	if !cfg.Quiet {
		t.Error("Quiet = false, want true")
	}
}

func TestParseConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown pattern", []string{"-pattern", "bogus"}, "unknown pattern"},
		{"zero jobs", []string{"-jobs", "0"}, "jobs must be at least 1"},
		{"zero attempts", []string{"-attempts", "0"}, "attempts must be at least 1"},
		{"negative retries", []string{"-retries", "-1"}, "retries must be non-negative"},
		{"zero base delay", []string{"-base-delay", "0s"}, "base-delay must be positive"},
		{"zero deadline", []string{"-deadline", "0s"}, "deadline must be positive"},
		{"fail exceeds jobs", []string{"-jobs", "2", "-fail", "3"}, "fail must be between 0 and jobs"},
		{"positional argument", []string{"extra"}, "unexpected argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseConfig("jobflow", tt.args, io.Discard)
			if err == nil {
				t.Fatal("ParseConfig() error = nil, want ConfigError")
			}
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig("jobflow", []string{"-h"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("ParseConfig(-h) error = %v, want flag.ErrHelp", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	// t.Setenv forbids t.Parallel.
	t.Setenv(EnvPrefix+"PATTERN", "failfast")
	t.Setenv(EnvPrefix+"JOBS", "7")
	t.Setenv(EnvPrefix+"BASE_DELAY", "25ms")
	t.Setenv(EnvPrefix+"VERBOSE", "yes")

	cfg, err := ParseConfig("jobflow", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Pattern != "failfast" {
		t.Errorf("Pattern = %q, want %q", cfg.Pattern, "failfast")
	}
	if cfg.Jobs != 7 {
		t.Errorf("Jobs = %d, want 7", cfg.Jobs)
	}
	if cfg.BaseDelay != 25*time.Millisecond {
		t.Errorf("BaseDelay = %s, want 25ms", cfg.BaseDelay)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestEnvOverridesYieldToFlags(t *testing.T) {
	t.Setenv(EnvPrefix+"JOBS", "7")

	cfg, err := ParseConfig("jobflow", []string{"-jobs", "3"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Jobs != 3 {
		t.Errorf("Jobs = %d, want 3 (flag must beat env)", cfg.Jobs)
	}
}

func TestEnvOverridesIgnoreMalformedValues(t *testing.T) {
	t.Setenv(EnvPrefix+"JOBS", "many")
	t.Setenv(EnvPrefix+"DEADLINE", "soon")

	cfg, err := ParseConfig("jobflow", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Jobs != DefaultJobs {
		t.Errorf("Jobs = %d, want default %d", cfg.Jobs, DefaultJobs)
	}
	if cfg.Deadline != DefaultDeadline {
		t.Errorf("Deadline = %s, want default %s", cfg.Deadline, DefaultDeadline)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		val        string
		defaultVal bool
		want       bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.val, tt.defaultVal); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.val, tt.defaultVal, got, tt.want)
		}
	}
}
