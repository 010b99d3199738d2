package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
// For budget plans this is the "absent" outcome and is not treated as a failure.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidState indicates that an editor operation is not allowed in the editor's current state.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrStaleResponse indicates a load whose response arrived after a newer load was issued.
// The response has been discarded.
var ErrStaleResponse = errors.New("response superseded by a newer load")

// ErrSamePeriod indicates a copy whose target is the period it is copying from.
var ErrSamePeriod = fmt.Errorf("%w: target period equals source period", ErrValidation)

// Op names a plan store operation surfaced by the plan editor.
type Op string

const (
	OpLoad   Op = "load"
	OpSave   Op = "save"
	OpDelete Op = "delete"
	OpCopy   Op = "copy"
)

// OpError annotates a store failure with the operation and period it happened on.
type OpError struct {
	Op     Op
	Period string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Period, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError wraps err with the failing operation. A nil err yields nil.
func NewOpError(op Op, period fmt.Stringer, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Period: period.String(), Err: err}
}

// OpOf returns the operation recorded on err, if any.
func OpOf(err error) (Op, bool) {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Op, true
	}
	return "", false
}
