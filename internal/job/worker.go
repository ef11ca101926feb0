package job

import (
	"context"
	"os"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/logging"
)

// WorkerResult is the normalized success record produced by a Worker. It
// is only ever constructed for a success Outcome; failures surface as
// returned errors instead.
type WorkerResult struct {
	// WorkerID identifies the worker that ran the job.
	WorkerID int
	// JobID identifies the job that succeeded.
	JobID int
	// Payload is the job's success payload.
	Payload string
	// Artifacts lists the result artifacts visible after the success side
	// effect ran.
	Artifacts []string
}

// ArtifactLister is the external collaborator a worker invokes after a
// job succeeds. Its failure becomes a worker-level error rather than a
// job failure, since it happens outside the job body.
type ArtifactLister interface {
	// List returns the names of the currently visible result artifacts.
	List() ([]string, error)
}

// DirLister lists the entries of a filesystem directory.
type DirLister struct {
	// Dir is the directory to list.
	Dir string
}

// List returns the sorted entry names of the directory.
func (l DirLister) List() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, apperrors.WrapError(err, "listing artifacts in %q", l.Dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// NopLister is an ArtifactLister that lists nothing. Used when no
// artifact directory is configured and in tests.
type NopLister struct{}

// List returns no artifacts.
func (NopLister) List() ([]string, error) { return nil, nil }

// Worker is a named execution context that runs exactly one job per Run
// invocation and normalizes its outcome: a success Outcome becomes a
// WorkerResult (after the artifact-listing side effect), everything else
// becomes a returned error embedding the worker id, job id and reason.
//
// This boundary is the single point where typed job failures convert to
// errors, so the generic completion combinators in the orchestration
// package can compose with uniform error-based control flow.
type Worker struct {
	// ID identifies the worker within one orchestrator run.
	ID int

	log    logging.Logger
	lister ArtifactLister
	tracer trace.Tracer
}

// NewWorker creates a worker with the given id. A nil lister disables the
// success side effect.
func NewWorker(id int, log logging.Logger, lister ArtifactLister) *Worker {
	if lister == nil {
		lister = NopLister{}
	}
	return &Worker{
		ID:     id,
		log:    log,
		lister: lister,
		tracer: otel.Tracer("jobflow/worker"),
	}
}

// Run starts the job, blocks until it settles and normalizes the outcome.
//
// Parameters:
//   - ctx: The context used for tracing the run.
//   - j: The job to consume. Run starts it exactly once.
//
// Returns:
//   - WorkerResult: The success record; zero-valued on error.
//   - error: A JobError for a failure outcome, a CancellationError for a
//     canceled outcome, or the lister's error if the side effect failed.
func (w *Worker) Run(ctx context.Context, j Job) (WorkerResult, error) {
	_, span := w.tracer.Start(ctx, "worker.run", trace.WithAttributes(
		attribute.Int("worker.id", w.ID),
		attribute.Int("job.id", j.ID),
	))
	defer span.End()

	w.log.Info("worker starting job",
		logging.Int("worker", w.ID),
		logging.Int("job", j.ID))

	outcome := j.Start()
	switch {
	case outcome.IsCanceled():
		err := apperrors.CancellationError{WorkerID: w.ID, JobID: j.ID}
		span.SetStatus(codes.Error, "canceled")
		span.RecordError(err)
		return WorkerResult{}, err
	case !outcome.IsSuccess():
		err := apperrors.JobError{
			WorkerID:  w.ID,
			JobID:     j.ID,
			Reason:    outcome.Reason(),
			Retryable: outcome.IsTransient(),
		}
		span.SetStatus(codes.Error, outcome.Reason())
		span.RecordError(err)
		return WorkerResult{}, err
	}

	artifacts, err := w.lister.List()
	if err != nil {
		// Side-effect failures happen outside the job body and therefore
		// surface as worker-level errors, not job failures.
		span.SetStatus(codes.Error, "artifact listing failed")
		span.RecordError(err)
		return WorkerResult{}, apperrors.WrapError(err, "worker %d: job %d succeeded but side effect failed", w.ID, j.ID)
	}

	w.log.Debug("worker finished job",
		logging.Int("worker", w.ID),
		logging.Int("job", j.ID),
		logging.Int("artifacts", len(artifacts)))
	span.SetStatus(codes.Ok, "")

	return WorkerResult{
		WorkerID:  w.ID,
		JobID:     j.ID,
		Payload:   outcome.Payload(),
		Artifacts: artifacts,
	}, nil
}
