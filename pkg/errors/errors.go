package errors

import (
	"errors"
	"fmt"
)

// Phase identifies the pipeline stage an error escaped from.
type Phase string

// Pipeline phases, in execution order.
const (
	PhaseSource  Phase = "source"
	PhaseProject Phase = "project"
	PhaseSchema  Phase = "schema"
	PhaseLoad    Phase = "entity-load"
	PhaseResolve Phase = "resolve"
	PhaseFacts   Phase = "fact-load"
	PhaseRawDump Phase = "raw-dump"
)

// Error represents a typed pipeline error tagged with the phase it
// originated in, so the operator can tell which stage of a run failed.
type Error struct {
	Code    string `json:"code"`
	Phase   Phase  `json:"phase,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Phase != "" {
		msg = fmt.Sprintf("%s: %s", e.Phase, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches phase context to an existing error.
func Wrap(err error, code string, phase Phase, message string) *Error {
	return &Error{Code: code, Phase: phase, Message: message, Err: err}
}

// Predefined errors for the failure modes the pipeline distinguishes.
var (
	ErrSourceMissing = New("SOURCE_MISSING", "record source cannot be read")
	ErrValidation    = New("VALIDATION_ERROR", "record validation failed")
	ErrConstraint    = New("CONSTRAINT_VIOLATION", "store constraint violated")
	ErrUnresolved    = New("UNRESOLVED_REFERENCE", "no entity row matches record key")
	ErrStore         = New("STORE_UNAVAILABLE", "store is not writable")
	ErrInternal      = New("INTERNAL_ERROR", "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, "", ErrInternal.Message)
}
