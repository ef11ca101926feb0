// Package job defines the unit-of-work model shared by all orchestration
// patterns: the Job (deferred, not-yet-started work), the typed Outcome a
// job body produces, the one-shot cancellation Token jobs observe at wait
// points, and the Worker that runs exactly one job and normalizes its
// outcome at the orchestration boundary.
//
// Error handling is deliberately two-tier. Job bodies never return Go
// errors; they produce Outcome values so retry predicates can inspect
// structured failure reasons. The Worker boundary is the single point
// where a Failure outcome becomes a returned error, which is what lets
// the generic join, race and retry combinators compose with plain
// error-based control flow.
package job
