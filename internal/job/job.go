package job

import (
	"fmt"
	"time"
)

// StartFunc begins a unit of deferred work and blocks until it settles,
// returning its Outcome.
type StartFunc func() Outcome

// Job is a unit of deferred, not-yet-started work. It is immutable once
// constructed. Start is single-use: each Job is consumed by exactly one
// Worker invocation, and calling Start more than once is undefined.
// Orchestrators never do.
type Job struct {
	// ID identifies the job; unique within one orchestrator run.
	ID int
	// Start begins the work and returns its Outcome.
	Start StartFunc
}

// New creates a Job with the given id and start function.
func New(id int, start StartFunc) Job {
	return Job{ID: id, Start: start}
}

// Sleeping returns a Job that waits for delay and then settles with
// outcome. When tok is non-nil the wait observes it, and an abort
// converts the result into a canceled outcome regardless of what the job
// would otherwise have produced. This is the simulated workload used by
// the demo CLI and the orchestration tests.
func Sleeping(id int, delay time.Duration, tok *Token, outcome Outcome) Job {
	return New(id, func() Outcome {
		if !Sleep(delay, tok) {
			return Canceled()
		}
		return outcome
	})
}

// Flaky returns a factory producing fresh single-use Jobs that fail with a
// transient reason on the first failures attempts and succeed afterwards.
// Retry orchestrators construct a new Job per attempt, so the factory owns
// the cross-attempt counter.
func Flaky(id int, delay time.Duration, failures int, payload string) func() Job {
	attempt := 0
	return func() Job {
		attempt++
		current := attempt
		return New(id, func() Outcome {
			Sleep(delay, nil)
			if current <= failures {
				return FailTransient(fmt.Sprintf("attempt %d failed", current))
			}
			return Succeed(payload)
		})
	}
}
