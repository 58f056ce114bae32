package job

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies where in the pipeline an error belongs and how the
// queue reacts to it.
type ErrorKind string

const (
	// KindTargetError: one platform/channel/account/item within a batch
	// failed. Isolated into the outcome list, never fails the batch.
	KindTargetError ErrorKind = "target_error"
	// KindJobError: the processor failed before completing any target. The
	// whole job is marked failed and the attempts policy applies.
	KindJobError ErrorKind = "job_error"
	// KindGateRejection: a delivery gate refused execution. Not a failure; the
	// job is rescheduled for RetryAt without consuming an attempt.
	KindGateRejection ErrorKind = "gate_rejection"
	// KindInfrastructureError: the queue engine itself could not register a
	// processor or create a worker. Logged; startup continues degraded.
	KindInfrastructureError ErrorKind = "infrastructure_error"
)

// Error is the structured error carried on results and across the processor
// boundary. Code is machine-readable, Message is for humans.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	// RetryAt is set for gate rejections only.
	RetryAt time.Time `json:"retry_at,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewTargetError builds a per-target error.
func NewTargetError(code, message string, cause error) *Error {
	return &Error{Kind: KindTargetError, Code: code, Message: message, cause: cause}
}

// NewJobError builds a whole-job error.
func NewJobError(code, message string, cause error) *Error {
	return &Error{Kind: KindJobError, Code: code, Message: message, cause: cause}
}

// NewGateRejection builds a deferred-execution signal carrying the next
// available execution time.
func NewGateRejection(code, message string, retryAt time.Time) *Error {
	return &Error{Kind: KindGateRejection, Code: code, Message: message, RetryAt: retryAt}
}

// NewInfrastructureError builds an engine-level error.
func NewInfrastructureError(code, message string, cause error) *Error {
	return &Error{Kind: KindInfrastructureError, Code: code, Message: message, cause: cause}
}

// AsGateRejection returns the gate rejection inside err, if any.
func AsGateRejection(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindGateRejection {
		return e, true
	}
	return nil, false
}
