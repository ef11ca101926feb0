package orchestration

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/job"
	"github.com/agbru/jobflow/internal/logging"
	"github.com/agbru/jobflow/internal/metrics"
)

// asJobError is a shorthand for errors.As against a JobError target.
func asJobError(err error, target *apperrors.JobError) bool {
	return errors.As(err, target)
}

// newTestOrchestrator builds an orchestrator with silent logging and a
// fresh metrics registry.
func newTestOrchestrator() *Orchestrator {
	logger := logging.NewStdLoggerAdapter(log.New(&bytes.Buffer{}, "", 0))
	return New(logger, WithMetrics(metrics.New()))
}

// succeedingJobs builds n jobs that settle successfully after delay.
func succeedingJobs(n int, delay time.Duration, tok *job.Token) []job.Job {
	jobs := make([]job.Job, 0, n)
	for i := 0; i < n; i++ {
		jobs = append(jobs, job.Sleeping(i+1, delay, tok, job.Succeed(fmt.Sprintf("payload-%d", i+1))))
	}
	return jobs
}

// countingJob settles with outcome after delay and counts its starts.
func countingJob(id int, delay time.Duration, outcome job.Outcome, starts *atomic.Int32) job.Job {
	return job.New(id, func() job.Outcome {
		starts.Add(1)
		job.Sleep(delay, nil)
		return outcome
	})
}

// alwaysFailingMaker returns a factory whose jobs always fail with a
// transient reason naming the attempt, and counts attempts.
func alwaysFailingMaker(id int, attempts *atomic.Int32) JobMaker {
	return func() job.Job {
		n := attempts.Add(1)
		return job.New(id, func() job.Outcome {
			return job.FailTransient(fmt.Sprintf("attempt %d failed", n))
		})
	}
}
