package app

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/agbru/jobflow/internal/backoff"
	"github.com/agbru/jobflow/internal/cli"
	"github.com/agbru/jobflow/internal/config"
	apperrors "github.com/agbru/jobflow/internal/errors"
	"github.com/agbru/jobflow/internal/job"
	"github.com/agbru/jobflow/internal/logging"
	"github.com/agbru/jobflow/internal/metrics"
	"github.com/agbru/jobflow/internal/orchestration"
	"github.com/agbru/jobflow/internal/sysmon"
)

// runPatterns executes every selected pattern against a freshly built
// simulated workload and aggregates the per-pattern exit codes.
func (a *Application) runPatterns(ctx context.Context, out io.Writer) int {
	opts := []orchestration.Option{orchestration.WithMetrics(a.Metrics)}
	if a.Config.ArtifactsDir != "" {
		opts = append(opts, orchestration.WithArtifactLister(job.DirLister{Dir: a.Config.ArtifactsDir}))
	}
	orch := orchestration.New(a.Log, opts...)

	exitCode := apperrors.ExitSuccess
	for _, pattern := range selectedPatterns(a.Config.Pattern) {
		code := a.runPattern(ctx, orch, pattern, out)
		if code > exitCode {
			exitCode = code
		}
		if ctx.Err() != nil {
			exitCode = apperrors.ExitErrorCanceled
			break
		}
	}

	if a.Config.Verbose {
		a.printRunSummary(out)
	}
	return exitCode
}

// selectedPatterns expands the "all" pseudo-pattern into the concrete ones,
// in demonstration order.
func selectedPatterns(pattern string) []string {
	if pattern != config.PatternAll {
		return []string{pattern}
	}
	return []string{
		orchestration.PatternWaitAll,
		orchestration.PatternFailFast,
		orchestration.PatternTimeout,
		orchestration.PatternRetry,
		orchestration.PatternRetryTransient,
	}
}

// runPattern runs one pattern demonstration and presents its outcome.
func (a *Application) runPattern(ctx context.Context, orch *orchestration.Orchestrator, pattern string, out io.Writer) int {
	// A fixed seed per pattern keeps every run reproducible independently
	// of which patterns were selected.
	rng := rand.New(rand.NewSource(a.Config.Seed))
	a.Log.Debug("running pattern",
		logging.String("pattern", pattern),
		logging.String("config", a.Config.String()))

	switch pattern {
	case orchestration.PatternWaitAll:
		jobs := a.buildJobs(rng, nil)
		var results []job.WorkerResult
		var err error
		a.withSpinner(pattern, out, func() {
			results, err = orch.WaitAll(ctx, jobs)
		})
		cli.DisplayWaitAll(len(results), err, out)
		if err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess

	case orchestration.PatternFailFast:
		tok := job.NewToken()
		jobs := a.buildJobs(rng, tok)
		var report orchestration.Report
		a.withSpinner(pattern, out, func() {
			report = orch.FailFast(ctx, jobs, tok)
		})
		cli.DisplayReport(report, out)
		return exitCodeFor(report)

	case orchestration.PatternTimeout:
		jobs, tokens := a.buildTimeoutJobs(rng)
		var report orchestration.Report
		a.withSpinner(pattern, out, func() {
			report = orch.RaceTimeout(ctx, jobs, a.Config.Deadline, tokens)
		})
		cli.DisplayReport(report, out)
		return exitCodeFor(report)

	case orchestration.PatternRetry:
		makers := a.buildMakers(rng)
		strategy := backoff.NewExponential(a.Config.BaseDelay, 0)
		var report orchestration.Report
		a.withSpinner(pattern, out, func() {
			report = orch.RetryEach(ctx, makers, a.Config.Attempts, strategy)
		})
		cli.DisplayReport(report, out)
		return exitCodeFor(report)

	case orchestration.PatternRetryTransient:
		makers := a.buildMakers(rng)
		strategy := backoff.NewExponential(a.Config.BaseDelay, 0)
		var report orchestration.Report
		a.withSpinner(pattern, out, func() {
			report = orch.RetryTransient(ctx, makers, a.Config.Retries, strategy, nil)
		})
		cli.DisplayReport(report, out)
		return exitCodeFor(report)
	}

	// ParseConfig validates the pattern name, so this is unreachable.
	fmt.Fprintf(a.ErrWriter, "unknown pattern %q\n", pattern)
	return apperrors.ExitErrorConfig
}

// withSpinner runs fn behind a spinner unless quiet mode is active.
func (a *Application) withSpinner(label string, out io.Writer, fn func()) {
	if a.Config.Quiet {
		fn()
		return
	}
	cli.RunWithSpinner(label, out, fn)
}

// buildJobs constructs the simulated workload: Jobs sleeping jobs with
// randomized delays around BaseDelay, of which the first Failing ones fail.
func (a *Application) buildJobs(rng *rand.Rand, tok *job.Token) []job.Job {
	jobs := make([]job.Job, a.Config.Jobs)
	for i := range jobs {
		id := i + 1
		outcome := job.Succeed(fmt.Sprintf("result-%d", id))
		if id <= a.Config.Failing {
			outcome = job.Fail(fmt.Sprintf("simulated fault in job %d", id))
		}
		jobs[i] = job.Sleeping(id, a.jobDelay(rng), tok, outcome)
	}
	return jobs
}

// buildTimeoutJobs constructs the timeout workload: the first Failing jobs
// sleep past the deadline, the rest finish within half of it. When
// CancelTimedOut is set each job gets its own token so deadline losers can
// be stopped instead of running to completion unobserved.
func (a *Application) buildTimeoutJobs(rng *rand.Rand) ([]job.Job, []*job.Token) {
	var tokens []*job.Token
	if a.Config.CancelTimedOut {
		tokens = make([]*job.Token, a.Config.Jobs)
		for i := range tokens {
			tokens[i] = job.NewToken()
		}
	}

	jobs := make([]job.Job, a.Config.Jobs)
	for i := range jobs {
		id := i + 1
		delay := time.Duration(rng.Int63n(int64(a.Config.Deadline)/2 + 1))
		if id <= a.Config.Failing {
			delay = a.Config.Deadline + a.Config.BaseDelay
		}
		var tok *job.Token
		if tokens != nil {
			tok = tokens[i]
		}
		jobs[i] = job.Sleeping(id, delay, tok, job.Succeed(fmt.Sprintf("result-%d", id)))
	}
	return jobs, tokens
}

// buildMakers constructs the retry workload: factories producing fresh jobs
// per attempt. The first Failing factories are flaky and recover after
// FlakyFailures failures (or never, when that is zero and exceeds the
// attempt budget).
func (a *Application) buildMakers(rng *rand.Rand) []orchestration.JobMaker {
	makers := make([]orchestration.JobMaker, a.Config.Jobs)
	for i := range makers {
		id := i + 1
		failures := 0
		if id <= a.Config.Failing {
			failures = a.Config.FlakyFailures
			if failures == 0 {
				failures = a.Config.Attempts + a.Config.Retries + 1
			}
		}
		factory := job.Flaky(id, a.jobDelay(rng), failures, fmt.Sprintf("result-%d", id))
		makers[i] = orchestration.JobMaker(factory)
	}
	return makers
}

// jobDelay draws a simulated work duration in [BaseDelay/2, BaseDelay*3/2).
func (a *Application) jobDelay(rng *rand.Rand) time.Duration {
	return a.Config.BaseDelay/2 + time.Duration(rng.Int63n(int64(a.Config.BaseDelay)))
}

// exitCodeFor maps a pattern report to a process exit code. Runs where
// every failure is a deadline miss exit with the timeout code so scripts
// can tell slowness from faults.
func exitCodeFor(report orchestration.Report) int {
	switch {
	case report.FailedCount() == 0:
		return apperrors.ExitSuccess
	case report.TimedOutCount() == report.FailedCount():
		return apperrors.ExitErrorTimeout
	default:
		return apperrors.ExitErrorGeneric
	}
}

// printRunSummary writes the metrics counters, a process memory snapshot
// and a system snapshot.
func (a *Application) printRunSummary(out io.Writer) {
	fmt.Fprintln(out, "\n--- run summary ---")
	if err := a.Metrics.WriteSummary(out); err != nil {
		a.Log.Error("writing metrics summary", err)
	}
	snap := metrics.NewMemoryCollector().Snapshot()
	fmt.Fprintf(out, "heap: %.1f MiB (%d objects, %d GC cycles)\n",
		snap.HeapAllocMB(), snap.HeapObjects, snap.NumGC)
	fmt.Fprintf(out, "system: %s\n", sysmon.Sample())
}
