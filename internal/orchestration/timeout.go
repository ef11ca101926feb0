package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/job"
	"github.com/agbru/jobflow/internal/logging"
)

// RaceTimeout races each worker invocation against a deadline timer of
// the given duration; whichever settles first wins. All N races run
// concurrently and every race settles: one race losing its deadline never
// affects a sibling.
//
// When the timer wins, the worker's computation is not interrupted — it
// keeps running in the background and its eventual result is discarded.
// The race records a TimeoutError, which the report counts separately
// from ordinary job failures. If the timer and the worker settle at the
// same instant, the select picks one path and the other is discarded;
// either resolution is accepted.
//
// tokens optionally carries one cancellation token per job, aborted when
// that job's deadline wins so a cooperative job can stop instead of
// running on uselessly. Pass nil to preserve the discard-only behavior.
//
// Parameters:
//   - ctx: The context for the run.
//   - jobs: The jobs to race; each is started exactly once.
//   - deadline: The fixed per-job deadline.
//   - tokens: Optional per-job tokens, len(jobs) when non-nil.
//
// Returns:
//   - Report: Terminal states of all races, in input order.
func (o *Orchestrator) RaceTimeout(ctx context.Context, jobs []job.Job, deadline time.Duration, tokens []*job.Token) Report {
	runID := newRunID()
	started := time.Now()
	o.log.Info("timeout run starting",
		logging.String("run", runID),
		logging.Int("jobs", len(jobs)),
		logging.String("deadline", deadline.String()))

	states := make([]settled, len(jobs))
	var wg sync.WaitGroup

	for i, jb := range jobs {
		w := o.newWorker(i + 1)
		// Buffer of one: the losing worker must be able to deliver its
		// discarded result without anyone receiving it.
		resCh := make(chan settled, 1)
		go func() {
			res, err := w.Run(ctx, jb)
			resCh <- settled{idx: i, workerID: w.ID, jobID: jb.ID, res: res, err: err}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			timer := time.NewTimer(deadline)
			defer timer.Stop()
			select {
			case s := <-resCh:
				states[i] = s
			case <-timer.C:
				states[i] = settled{
					idx:      i,
					workerID: w.ID,
					jobID:    jb.ID,
					err: apperrors.TimeoutError{
						Operation: fmt.Sprintf("job %d", jb.ID),
						Limit:     deadline,
					},
				}
				o.metrics.Timeout(PatternTimeout)
				if tokens != nil && tokens[i] != nil {
					tokens[i].Abort()
				}
				o.log.Info("deadline won the race, result will be discarded",
					logging.String("run", runID),
					logging.Int("job", jb.ID))
			}
		}()
	}

	wg.Wait()
	report := o.buildReport(PatternTimeout, states, time.Since(started))
	o.log.Info("timeout run settled",
		logging.String("run", runID),
		logging.Int("timely", report.SucceededCount()),
		logging.Int("failed", report.FailedCount()),
		logging.Int("timed_out", report.TimedOutCount()),
		logging.String("elapsed", report.Elapsed.String()))
	return report
}
