package app

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"

	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/logging"
	"github.com/agbru/jobflow/internal/ui"
)

// newTestApp builds an Application from args with styling and log output
// suppressed, failing the test on a parse error.
func newTestApp(t *testing.T, args ...string) *Application {
	t.Helper()
	ui.SetTheme("none")
	quietLog := logging.NewStdLoggerAdapter(log.New(io.Discard, "", 0))
	argv := append([]string{"jobflow"}, args...)
	a, err := New(argv, io.Discard, WithLogger(quietLog))
	if err != nil {
		t.Fatalf("New(%v) error = %v", args, err)
	}
	return a
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New([]string{"jobflow", "-pattern", "bogus"}, io.Discard)
	if err == nil {
		t.Fatal("New() error = nil, want ConfigError")
	}
}

func TestIsHelpError(t *testing.T) {
	_, err := New([]string{"jobflow", "-h"}, io.Discard)
	if !IsHelpError(err) {
		t.Errorf("IsHelpError(%v) = false, want true", err)
	}
	if IsHelpError(nil) {
		t.Error("IsHelpError(nil) = true, want false")
	}
}

func TestRunWaitAllSucceeds(t *testing.T) {
	a := newTestApp(t,
		"-pattern", "waitall",
		"-jobs", "3",
		"-fail", "0",
		"-base-delay", "5ms",
		"-quiet", "-no-color")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want %d\noutput:\n%s", code, apperrors.ExitSuccess, out.String())
	}
	if !strings.Contains(out.String(), "3 job(s) succeeded") {
		t.Errorf("output missing success line:\n%s", out.String())
	}
}

func TestRunWaitAllFailureIsAllOrNothing(t *testing.T) {
	a := newTestApp(t,
		"-pattern", "waitall",
		"-jobs", "3",
		"-fail", "1",
		"-base-delay", "5ms",
		"-quiet", "-no-color")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitErrorGeneric {
		t.Fatalf("Run() = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(out.String(), "run failed") {
		t.Errorf("output missing failure line:\n%s", out.String())
	}
}

func TestRunTimeoutExitsWithTimeoutCode(t *testing.T) {
	a := newTestApp(t,
		"-pattern", "timeout",
		"-jobs", "3",
		"-fail", "1",
		"-base-delay", "5ms",
		"-deadline", "20ms",
		"-quiet", "-no-color")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitErrorTimeout {
		t.Fatalf("Run() = %d, want %d\noutput:\n%s", code, apperrors.ExitErrorTimeout, out.String())
	}
	if !strings.Contains(out.String(), "timed out") {
		t.Errorf("output missing timeout callout:\n%s", out.String())
	}
}

func TestRunRetryRecoversFlakyJobs(t *testing.T) {
	a := newTestApp(t,
		"-pattern", "retry",
		"-jobs", "3",
		"-fail", "1",
		"-flaky-failures", "1",
		"-attempts", "3",
		"-base-delay", "5ms",
		"-quiet", "-no-color")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want %d\noutput:\n%s", code, apperrors.ExitSuccess, out.String())
	}
	if !strings.Contains(out.String(), "3 job(s) succeeded") {
		t.Errorf("output missing success line:\n%s", out.String())
	}
}

func TestRunRetryTransientExhaustionFails(t *testing.T) {
	a := newTestApp(t,
		"-pattern", "retry-transient",
		"-jobs", "2",
		"-fail", "1",
		"-flaky-failures", "0",
		"-retries", "1",
		"-base-delay", "5ms",
		"-quiet", "-no-color")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitErrorGeneric {
		t.Fatalf("Run() = %d, want %d\noutput:\n%s", code, apperrors.ExitErrorGeneric, out.String())
	}
}

func TestRunCanceledContext(t *testing.T) {
	a := newTestApp(t,
		"-pattern", "failfast",
		"-jobs", "2",
		"-fail", "0",
		"-base-delay", "5ms",
		"-quiet", "-no-color")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	code := a.Run(ctx, &out)
	if code != apperrors.ExitErrorCanceled {
		t.Fatalf("Run() = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRunAllPatterns(t *testing.T) {
	a := newTestApp(t,
		"-jobs", "2",
		"-fail", "0",
		"-base-delay", "2ms",
		"-deadline", "50ms",
		"-quiet", "-no-color")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want %d\noutput:\n%s", code, apperrors.ExitSuccess, out.String())
	}
	for _, header := range []string{"--- wait-all ---", "--- failfast ---", "--- timeout ---", "--- retry ---", "--- retry-transient ---"} {
		if !strings.Contains(out.String(), header) {
			t.Errorf("output missing %q:\n%s", header, out.String())
		}
	}
}

func TestRunVerboseSummary(t *testing.T) {
	a := newTestApp(t,
		"-pattern", "failfast",
		"-jobs", "2",
		"-fail", "1",
		"-base-delay", "2ms",
		"-quiet", "-verbose", "-no-color")

	var out bytes.Buffer
	a.Run(context.Background(), &out)
	if !strings.Contains(out.String(), "--- run summary ---") {
		t.Errorf("output missing run summary:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "jobflow_jobs_failed_total") {
		t.Errorf("output missing metrics counters:\n%s", out.String())
	}
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"-pattern", "retry"}, false},
		{[]string{"-version"}, true},
		{[]string{"--version"}, true},
		{[]string{"-jobs", "3", "--version"}, true},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	PrintVersion(&out)
	if !strings.Contains(out.String(), "jobflow") {
		t.Errorf("PrintVersion() = %q, want it to name the program", out.String())
	}
}
