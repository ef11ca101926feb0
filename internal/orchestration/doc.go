// Package orchestration coordinates concurrent execution of jobs under
// five completion policies: wait-all, fail-fast with cooperative
// cancellation, timeout racing, fixed-policy retry, and transient-only
// retry. It aggregates per-job terminal states into Reports and decouples
// business logic from presentation via the cli presenter.
//
// Orchestrators construct nothing lazily: jobs begin executing the
// instant they are started, so every pattern binds each job to a worker
// and starts all bindings together before awaiting completion under its
// policy.
package orchestration
