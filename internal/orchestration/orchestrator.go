package orchestration

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/jobflow/internal/job"
	"github.com/agbru/jobflow/internal/logging"
	"github.com/agbru/jobflow/internal/metrics"
)

// Pattern names for logs, metrics labels and reports.
const (
	PatternWaitAll        = "waitall"
	PatternFailFast       = "failfast"
	PatternTimeout        = "timeout"
	PatternRetry          = "retry"
	PatternRetryTransient = "retry-transient"
)

// Orchestrator composes worker invocations over jobs according to the
// completion policies defined in this package. It owns the ambient
// concerns the policies share: logging, metrics and the artifact lister
// handed to each worker.
type Orchestrator struct {
	log     logging.Logger
	metrics *metrics.Metrics
	lister  job.ArtifactLister
}

// Option configures an Orchestrator during construction.
type Option func(*Orchestrator)

// WithMetrics attaches a metrics collector. Without it, recording is a no-op.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithArtifactLister sets the success side-effect collaborator handed to
// every worker. Defaults to a no-op lister.
func WithArtifactLister(l job.ArtifactLister) Option {
	return func(o *Orchestrator) { o.lister = l }
}

// New creates an Orchestrator logging through log.
func New(log logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{log: log}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newWorker binds a fresh worker for one job invocation. Worker ids are
// 1-based so console output reads naturally.
func (o *Orchestrator) newWorker(id int) *job.Worker {
	return job.NewWorker(id, o.log, o.lister)
}

// newRunID tags one orchestrator run for log correlation.
func newRunID() string {
	return uuid.NewString()
}

// settled is one worker's terminal state, tagged with its input position.
type settled struct {
	idx      int
	workerID int
	jobID    int
	res      job.WorkerResult
	err      error
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
// Returns false if the context won.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// buildReport assembles a Report from indexed terminal states, preserving
// input order for both successes and failures.
func (o *Orchestrator) buildReport(pattern string, results []settled, elapsed time.Duration) Report {
	report := Report{Pattern: pattern, Elapsed: elapsed}
	for _, s := range results {
		if s.err != nil {
			report.Failures = append(report.Failures, Failure{
				WorkerID: s.workerID,
				JobID:    s.jobID,
				Err:      s.err,
			})
			o.metrics.JobFailed(pattern)
			continue
		}
		report.Succeeded = append(report.Succeeded, s.res)
		o.metrics.JobSucceeded(pattern)
	}
	return report
}
