package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind is the stable, machine-readable class of an operation error.
// Kinds are part of the API contract: handlers map them to HTTP statuses and
// callers branch on them, so the strings never change meaning.
type ErrorKind string

const (
	ErrKindValidation         = ErrorKind("validation_failed")
	ErrKindNotFound           = ErrorKind("not_found")
	ErrKindCapabilityMissing  = ErrorKind("capability_missing")
	ErrKindMemberInactive     = ErrorKind("member_inactive")
	ErrKindAlreadyVoted       = ErrorKind("already_voted")
	ErrKindProposalNotPending = ErrorKind("proposal_not_pending")
	ErrKindNotApproved        = ErrorKind("not_approved")
	ErrKindTimeLocked         = ErrorKind("time_locked")
	ErrKindAlreadyExecuted    = ErrorKind("already_executed")
	ErrKindThresholdTooHigh   = ErrorKind("threshold_too_high")
	ErrKindExecutionFailed    = ErrorKind("execution_failed")
	ErrKindExecutionAmbiguous = ErrorKind("execution_ambiguous")
)

func (k ErrorKind) String() string {
	return string(k)
}

// OpError is a non-retryable operation error: the request conflicted with the
// current governance state and retrying it unchanged cannot succeed.
// RemainingSeconds is only set for ErrKindTimeLocked.
type OpError struct {
	kind             ErrorKind
	message          string
	remainingSeconds int64
}

func (e *OpError) Error() string {
	return e.kind.String() + ": " + e.message
}

func (e *OpError) Kind() ErrorKind {
	return e.kind
}

func (e *OpError) RemainingSeconds() int64 {
	return e.remainingSeconds
}

func (e *OpError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind             ErrorKind `json:"kind"`
		Message          string    `json:"message"`
		RemainingSeconds int64     `json:"remaining_seconds,omitempty"`
	}{
		Kind:             e.kind,
		Message:          e.message,
		RemainingSeconds: e.remainingSeconds,
	})
}

func NewOpErr(kind ErrorKind, message string) *OpError {
	return &OpError{
		kind:    kind,
		message: message,
	}
}

func NewOpErrf(kind ErrorKind, format string, values ...interface{}) *OpError {
	if len(values) == 0 {
		return &OpError{
			kind:    kind,
			message: format,
		}
	}
	return &OpError{
		kind:    kind,
		message: fmt.Sprintf(format, values...),
	}
}

// NewTimeLockErr reports how long the caller must wait before execution can
// be retried.
func NewTimeLockErr(remainingSeconds int64) *OpError {
	return &OpError{
		kind:             ErrKindTimeLocked,
		message:          fmt.Sprintf("time lock has not elapsed, %d seconds remaining", remainingSeconds),
		remainingSeconds: remainingSeconds,
	}
}

// KindOf extracts the kind from an error chain, or "" for errors that are not
// operation errors.
func KindOf(err error) ErrorKind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind()
	}
	return ""
}
