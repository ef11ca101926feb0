package orchestration

import (
	"errors"
	"time"

	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/job"
)

// Failure records one job that did not succeed, with the error observed at
// the worker boundary.
type Failure struct {
	// WorkerID identifies the worker that ran the job.
	WorkerID int
	// JobID identifies the job.
	JobID int
	// Err is the terminal error: a JobError, CancellationError or
	// TimeoutError, or a worker-level side-effect error.
	Err error
}

// Report is the aggregate outcome of one orchestrator run. Successes and
// failures each appear in input order; completion timing is unordered.
type Report struct {
	// Pattern names the completion policy that produced the report.
	Pattern string
	// Succeeded holds the success records, in input order.
	Succeeded []job.WorkerResult
	// Failures holds every job that did not succeed, in input order.
	Failures []Failure
	// Elapsed is the wall-clock duration of the whole run.
	Elapsed time.Duration
}

// SucceededCount returns the number of jobs that settled successfully.
func (r Report) SucceededCount() int { return len(r.Succeeded) }

// FailedCount returns the number of jobs that did not succeed.
func (r Report) FailedCount() int { return len(r.Failures) }

// Reasons returns the failure messages, in input order.
func (r Report) Reasons() []string {
	reasons := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		reasons = append(reasons, f.Err.Error())
	}
	return reasons
}

// TimedOutCount returns how many failures were races lost to the deadline.
func (r Report) TimedOutCount() int {
	count := 0
	for _, f := range r.Failures {
		var timeoutErr apperrors.TimeoutError
		if errors.As(f.Err, &timeoutErr) {
			count++
		}
	}
	return count
}

// CanceledCount returns how many failures were cooperative cancellations.
func (r Report) CanceledCount() int {
	count := 0
	for _, f := range r.Failures {
		var cancelErr apperrors.CancellationError
		if errors.As(f.Err, &cancelErr) {
			count++
		}
	}
	return count
}
