package orchestration

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/jobflow/internal/job"
	"github.com/agbru/jobflow/internal/logging"
)

// WaitAll binds every job to a worker, starts all bindings together and
// waits for every worker to finish. The join is all-or-nothing: if any
// worker fails, the run reports that failure and no partial successes are
// surfaced. The first failure short-circuits the success path, but
// already-running siblings are not cancelled; they have produced side
// effects and the join still waits for them to finish.
//
// On success, results are returned in input order.
//
// Parameters:
//   - ctx: The context for the run.
//   - jobs: The jobs to execute; each is started exactly once.
//
// Returns:
//   - []job.WorkerResult: One result per job, in input order; nil on failure.
//   - error: The first worker failure, or nil.
func (o *Orchestrator) WaitAll(ctx context.Context, jobs []job.Job) ([]job.WorkerResult, error) {
	runID := newRunID()
	started := time.Now()
	o.log.Info("wait-all run starting",
		logging.String("run", runID),
		logging.Int("jobs", len(jobs)))

	g, ctx := errgroup.WithContext(ctx)
	results := make([]job.WorkerResult, len(jobs))

	for i, jb := range jobs {
		w := o.newWorker(i + 1)
		g.Go(func() error {
			res, err := w.Run(ctx, jb)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.metrics.JobFailed(PatternWaitAll)
		o.log.Error("wait-all run failed", err,
			logging.String("run", runID),
			logging.String("elapsed", time.Since(started).String()))
		return nil, err
	}

	for range results {
		o.metrics.JobSucceeded(PatternWaitAll)
	}
	o.log.Info("wait-all run finished",
		logging.String("run", runID),
		logging.Int("succeeded", len(results)),
		logging.String("elapsed", time.Since(started).String()))
	return results, nil
}
