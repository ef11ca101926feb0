package job

import (
	"sync/atomic"
	"time"
)

// Token is a shared, observable, one-shot cancellation flag. An
// orchestrator aborts it at most once; jobs built against it poll
// Aborted() or select on Done() at their wait points. The transition is
// monotonic: once aborted, a Token never resets.
//
// Cancellation is cooperative and advisory. A job that is past its last
// wait point when the signal arrives cannot be interrupted; there is no
// task-kill primitive in this model.
type Token struct {
	aborted atomic.Bool
	done    chan struct{}
}

// NewToken creates a fresh, un-aborted Token.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Abort sets the token to the aborted state. The first call wins; later
// calls are no-ops. Safe to call from any goroutine.
func (t *Token) Abort() {
	if t.aborted.CompareAndSwap(false, true) {
		close(t.done)
	}
}

// Aborted reports whether the token has been aborted.
func (t *Token) Aborted() bool {
	return t.aborted.Load()
}

// Done returns a channel that is closed when the token is aborted. This is
// the subscription form of the flag: jobs select on it during waits.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Sleep waits for d, honoring tok when non-nil. It returns false if the
// token aborted before the full duration elapsed. Job bodies use this as
// their suspension point so that fail-fast cancellation is observed
// promptly rather than only between jobs.
func Sleep(d time.Duration, tok *Token) bool {
	if tok == nil {
		time.Sleep(d)
		return true
	}
	if tok.Aborted() {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-tok.Done():
		return false
	}
}
