package job

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/logging"
)

// recordingLister counts invocations of the success side effect.
type recordingLister struct {
	calls     int
	artifacts []string
	err       error
}

func (l *recordingLister) List() ([]string, error) {
	l.calls++
	return l.artifacts, l.err
}

func testLogger() logging.Logger {
	return logging.NewStdLoggerAdapter(log.New(&bytes.Buffer{}, "", 0))
}

func TestWorker_Run_Success(t *testing.T) {
	t.Parallel()
	lister := &recordingLister{artifacts: []string{"a.out", "b.out"}}
	w := NewWorker(3, testLogger(), lister)

	res, err := w.Run(context.Background(), New(7, func() Outcome {
		return Succeed("payload-7")
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WorkerID != 3 || res.JobID != 7 {
		t.Errorf("result ids = %d/%d, want 3/7", res.WorkerID, res.JobID)
	}
	if res.Payload != "payload-7" {
		t.Errorf("payload = %q, want %q", res.Payload, "payload-7")
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("artifacts = %v, want 2 entries", res.Artifacts)
	}
	if lister.calls != 1 {
		t.Errorf("side effect ran %d times, want exactly once", lister.calls)
	}
}

func TestWorker_Run_FailureBecomesJobError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		outcome       Outcome
		wantTransient bool
	}{
		{"plain failure", Fail("bad payload"), false},
		{"transient failure", FailTransient("throttled"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lister := &recordingLister{}
			w := NewWorker(1, testLogger(), lister)

			_, err := w.Run(context.Background(), New(4, func() Outcome { return tt.outcome }))
			if err == nil {
				t.Fatal("expected error for failure outcome")
			}

			var jobErr apperrors.JobError
			if !errors.As(err, &jobErr) {
				t.Fatalf("expected JobError, got %T: %v", err, err)
			}
			if jobErr.WorkerID != 1 || jobErr.JobID != 4 {
				t.Errorf("error ids = %d/%d, want 1/4", jobErr.WorkerID, jobErr.JobID)
			}
			if jobErr.Reason != tt.outcome.Reason() {
				t.Errorf("error reason = %q, want %q", jobErr.Reason, tt.outcome.Reason())
			}
			if apperrors.IsTransient(err) != tt.wantTransient {
				t.Errorf("IsTransient = %v, want %v", apperrors.IsTransient(err), tt.wantTransient)
			}
			if lister.calls != 0 {
				t.Errorf("side effect ran %d times on failure, want 0", lister.calls)
			}
		})
	}
}

func TestWorker_Run_CancellationBecomesCancellationError(t *testing.T) {
	t.Parallel()
	tok := NewToken()
	tok.Abort()
	w := NewWorker(2, testLogger(), nil)

	_, err := w.Run(context.Background(), Sleeping(9, time.Second, tok, Succeed("never")))
	if err == nil {
		t.Fatal("expected error for canceled job")
	}
	var cancelErr apperrors.CancellationError
	if !errors.As(err, &cancelErr) {
		t.Fatalf("expected CancellationError, got %T: %v", err, err)
	}
	if cancelErr.WorkerID != 2 || cancelErr.JobID != 9 {
		t.Errorf("error ids = %d/%d, want 2/9", cancelErr.WorkerID, cancelErr.JobID)
	}
}

func TestWorker_Run_SideEffectFailureIsWorkerLevel(t *testing.T) {
	t.Parallel()
	lister := &recordingLister{err: errors.New("permission denied")}
	w := NewWorker(1, testLogger(), lister)

	_, err := w.Run(context.Background(), New(2, func() Outcome { return Succeed("ok") }))
	if err == nil {
		t.Fatal("expected error when the side effect fails")
	}
	var jobErr apperrors.JobError
	if errors.As(err, &jobErr) {
		t.Error("side-effect failure must not masquerade as a job failure")
	}
}

func TestFlaky_FactoryCountsAcrossAttempts(t *testing.T) {
	t.Parallel()
	maker := Flaky(5, 0, 2, "done")

	for attempt := 1; attempt <= 2; attempt++ {
		out := maker().Start()
		if out.IsSuccess() {
			t.Fatalf("attempt %d should fail", attempt)
		}
		if !out.IsTransient() {
			t.Errorf("attempt %d failure should be transient", attempt)
		}
	}

	out := maker().Start()
	if !out.IsSuccess() {
		t.Fatalf("third attempt should succeed, got %q", out.Reason())
	}
	if out.Payload() != "done" {
		t.Errorf("payload = %q, want %q", out.Payload(), "done")
	}
}

func TestDirLister_ListsSortedEntries(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt"} {
		if err := writeFile(dir, name); err != nil {
			t.Fatal(err)
		}
	}

	names, err := (DirLister{Dir: dir}).List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
		t.Errorf("names = %v, want sorted [a.txt b.txt]", names)
	}
}

func TestDirLister_MissingDirReturnsError(t *testing.T) {
	t.Parallel()
	if _, err := (DirLister{Dir: "/nonexistent/jobflow-test"}).List(); err == nil {
		t.Error("expected error for missing directory")
	}
}
