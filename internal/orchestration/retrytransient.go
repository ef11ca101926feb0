package orchestration

import (
	"context"
	"sync"
	"time"

	"github.com/agbru/jobflow/internal/backoff"
	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/logging"
)

// TransientFunc classifies an error as transient (worth retrying) or not.
type TransientFunc func(error) bool

// RetryTransient generalizes RetryEach with two refinements: a predicate
// decides whether a failure is worth retrying at all, and exhaustion
// surfaces the final attempt's original error rather than a synthetic
// "retries exhausted" wrapper.
//
// A non-transient failure aborts its loop immediately: no delay, no
// retry budget consumed. On a transient failure with budget left, one
// retry is consumed and the loop sleeps for
// baseDelay * 2^(retryCount - retriesLeft - 1), computed from retries
// consumed so far, so delay growth is identical regardless of how many
// unrelated loops short-circuited. No delay follows the terminal failure.
//
// A nil classify defaults to apperrors.IsTransient, which honors the
// job's own transient classification.
//
// Parameters:
//   - ctx: The context for the run; its cancellation cuts backoff waits short.
//   - makers: One factory per logical job.
//   - retryCount: Retry budget per loop (total attempts = retryCount + 1).
//   - strategy: The backoff delay strategy.
//   - classify: The transient predicate; nil for the default.
//
// Returns:
//   - Report: Terminal states of all loops, in input order.
func (o *Orchestrator) RetryTransient(ctx context.Context, makers []JobMaker, retryCount int, strategy backoff.Strategy, classify TransientFunc) Report {
	runID := newRunID()
	started := time.Now()
	if retryCount < 0 {
		retryCount = 0
	}
	if classify == nil {
		classify = apperrors.IsTransient
	}
	o.log.Info("retry-transient run starting",
		logging.String("run", runID),
		logging.Int("jobs", len(makers)),
		logging.Int("retries", retryCount))

	states := make([]settled, len(makers))
	var wg sync.WaitGroup

	for i, maker := range makers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			states[i] = o.transientLoop(ctx, runID, i, maker, retryCount, strategy, classify)
		}()
	}

	wg.Wait()
	report := o.buildReport(PatternRetryTransient, states, time.Since(started))
	o.log.Info("retry-transient run settled",
		logging.String("run", runID),
		logging.Int("succeeded", report.SucceededCount()),
		logging.Int("failed", report.FailedCount()),
		logging.String("elapsed", report.Elapsed.String()))
	return report
}

// transientLoop runs the predicate-guarded retry loop for one logical job.
func (o *Orchestrator) transientLoop(ctx context.Context, runID string, idx int, maker JobMaker, retryCount int, strategy backoff.Strategy, classify TransientFunc) settled {
	w := o.newWorker(idx + 1)
	retriesLeft := retryCount

	for {
		jb := maker()
		res, err := w.Run(ctx, jb)
		last := settled{idx: idx, workerID: w.ID, jobID: jb.ID, res: res, err: err}
		if err == nil {
			return last
		}

		if !classify(err) {
			o.log.Info("failure is not transient, aborting loop",
				logging.String("run", runID),
				logging.Int("job", jb.ID))
			return last
		}
		if retriesLeft == 0 {
			// Exhaustion: the original error of this final attempt is the
			// one that surfaces.
			return last
		}

		retriesLeft--
		delay := strategy.Delay(retryCount - retriesLeft)
		o.metrics.RetryAttempted(PatternRetryTransient)
		o.log.Info("transient failure, retrying",
			logging.String("run", runID),
			logging.Int("job", jb.ID),
			logging.Int("retries_left", retriesLeft),
			logging.String("delay", delay.String()))
		if !sleepCtx(ctx, delay) {
			return last
		}
	}
}
