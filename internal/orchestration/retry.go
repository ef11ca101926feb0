package orchestration

import (
	"context"
	"sync"
	"time"

	"github.com/agbru/jobflow/internal/backoff"
	"github.com/agbru/jobflow/internal/job"
	"github.com/agbru/jobflow/internal/logging"
)

// JobMaker builds a fresh, unstarted Job. Retry policies consume one Job
// per attempt, so they take factories instead of Jobs: a Job's Start is
// single-use and an orchestrator never calls it twice.
type JobMaker func() job.Job

// RetryEach runs one bounded retry loop per factory, all loops
// concurrently, and settles every one of them.
//
// Within a loop, a failed attempt is followed by a backoff delay and a
// fresh attempt, until the attempt budget is exhausted. The delay before
// the i-th retry is strategy.Delay(i); with the exponential strategy this
// is baseDelay * 2^(i-1). No delay follows the final attempt, and if the
// final attempt fails, that attempt's error propagates — not the first
// attempt's.
//
// Parameters:
//   - ctx: The context for the run; its cancellation cuts backoff waits short.
//   - makers: One factory per logical job.
//   - attempts: Total attempt budget per loop, at least 1.
//   - strategy: The backoff delay strategy.
//
// Returns:
//   - Report: Terminal states of all loops, in input order.
func (o *Orchestrator) RetryEach(ctx context.Context, makers []JobMaker, attempts int, strategy backoff.Strategy) Report {
	runID := newRunID()
	started := time.Now()
	if attempts < 1 {
		attempts = 1
	}
	o.log.Info("retry run starting",
		logging.String("run", runID),
		logging.Int("jobs", len(makers)),
		logging.Int("attempts", attempts))

	states := make([]settled, len(makers))
	var wg sync.WaitGroup

	for i, maker := range makers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			states[i] = o.retryLoop(ctx, runID, i, maker, attempts, strategy)
		}()
	}

	wg.Wait()
	report := o.buildReport(PatternRetry, states, time.Since(started))
	o.log.Info("retry run settled",
		logging.String("run", runID),
		logging.Int("succeeded", report.SucceededCount()),
		logging.Int("failed", report.FailedCount()),
		logging.String("elapsed", report.Elapsed.String()))
	return report
}

// retryLoop runs the bounded attempt loop for one logical job.
func (o *Orchestrator) retryLoop(ctx context.Context, runID string, idx int, maker JobMaker, attempts int, strategy backoff.Strategy) settled {
	w := o.newWorker(idx + 1)
	var last settled

	for attempt := 0; attempt < attempts; attempt++ {
		jb := maker()
		res, err := w.Run(ctx, jb)
		last = settled{idx: idx, workerID: w.ID, jobID: jb.ID, res: res, err: err}
		if err == nil {
			return last
		}

		remaining := attempts - attempt - 1
		if remaining == 0 {
			break
		}

		delay := strategy.Delay(attempt + 1)
		o.metrics.RetryAttempted(PatternRetry)
		o.log.Info("attempt failed, retrying",
			logging.String("run", runID),
			logging.Int("job", jb.ID),
			logging.Int("attempts_left", remaining),
			logging.String("delay", delay.String()))
		if !sleepCtx(ctx, delay) {
			// Context cancellation during backoff ends the loop with the
			// last attempt's error, never a synthetic one.
			break
		}
	}
	return last
}
