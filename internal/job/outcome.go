package job

// outcomeKind discriminates the terminal states a job body can settle in.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeFailure
	outcomeCanceled
)

// Outcome is the tagged result of a job body: success with a payload,
// failure with a reason, or cancellation. A job body must map every raw
// failure into an Outcome; it never lets an error escape this layer.
// The zero value is a success with an empty payload.
type Outcome struct {
	kind      outcomeKind
	payload   string
	reason    string
	transient bool
}

// Succeed creates a success Outcome carrying the given payload.
func Succeed(payload string) Outcome {
	return Outcome{kind: outcomeSuccess, payload: payload}
}

// Fail creates a failure Outcome carrying the given reason.
func Fail(reason string) Outcome {
	return Outcome{kind: outcomeFailure, reason: reason}
}

// FailTransient creates a failure Outcome whose reason is classified as
// transient, i.e. worth retrying. The transient retry orchestrator's
// default predicate honors this classification.
func FailTransient(reason string) Outcome {
	return Outcome{kind: outcomeFailure, reason: reason, transient: true}
}

// Canceled creates an Outcome recording that the job observed an abort
// signal while waiting and stopped cooperatively.
func Canceled() Outcome {
	return Outcome{kind: outcomeCanceled, reason: "canceled while waiting"}
}

// IsSuccess reports whether the outcome is a success.
func (o Outcome) IsSuccess() bool { return o.kind == outcomeSuccess }

// IsCanceled reports whether the outcome records a cooperative cancellation.
func (o Outcome) IsCanceled() bool { return o.kind == outcomeCanceled }

// IsTransient reports whether a failure outcome is classified as retryable.
func (o Outcome) IsTransient() bool { return o.transient }

// Payload returns the success payload; empty for failures.
func (o Outcome) Payload() string { return o.payload }

// Reason returns the failure or cancellation reason; empty for successes.
func (o Outcome) Reason() string { return o.reason }
