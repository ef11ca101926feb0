package orchestration

import (
	"context"
	"time"

	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/job"
	"github.com/agbru/jobflow/internal/logging"
)

// FailFast runs jobs that were built against the shared token tok. All
// workers start together; on the first failure the orchestrator aborts
// the token so that every sibling still waiting can stop cooperatively.
//
// The join is two-phase. The optimistic phase waits for an all-succeed
// outcome and ends at the first failure; the settle phase then waits,
// order-independently, for every remaining worker to reach a terminal
// state without losing any of their failure or cancellation reasons. A
// single receive loop implements both phases: the abort fires as soon as
// the first failure is received, and the loop keeps draining until all
// workers have settled.
//
// The report captures every job that did not succeed, never just the
// first.
//
// Parameters:
//   - ctx: The context for the run.
//   - jobs: The jobs to execute; each must observe tok at its wait points.
//   - tok: The shared cancellation token. Aborted at most once.
//
// Returns:
//   - Report: Terminal states of all jobs, successes and failures in
//     input order.
func (o *Orchestrator) FailFast(ctx context.Context, jobs []job.Job, tok *job.Token) Report {
	runID := newRunID()
	started := time.Now()
	o.log.Info("fail-fast run starting",
		logging.String("run", runID),
		logging.Int("jobs", len(jobs)))

	// Buffered so no worker goroutine ever blocks on delivery; the settle
	// phase is then guaranteed to observe all N terminal states.
	ch := make(chan settled, len(jobs))
	for i, jb := range jobs {
		w := o.newWorker(i + 1)
		go func() {
			res, err := w.Run(ctx, jb)
			ch <- settled{idx: i, workerID: w.ID, jobID: jb.ID, res: res, err: err}
		}()
	}

	states := make([]settled, len(jobs))
	for n := 0; n < len(jobs); n++ {
		s := <-ch
		states[s.idx] = s
		if s.err != nil && !tok.Aborted() {
			tok.Abort()
			o.log.Info("abort signaled to remaining jobs",
				logging.String("run", runID),
				logging.Int("job", s.jobID))
		}
		if s.err != nil && apperrors.IsCancellation(s.err) {
			o.metrics.Cancellation(PatternFailFast)
		}
	}

	report := o.buildReport(PatternFailFast, states, time.Since(started))
	o.log.Info("fail-fast run settled",
		logging.String("run", runID),
		logging.Int("succeeded", report.SucceededCount()),
		logging.Int("failed", report.FailedCount()),
		logging.String("elapsed", report.Elapsed.String()))
	return report
}
