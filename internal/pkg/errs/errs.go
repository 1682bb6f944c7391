package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error in this package unwraps to one of them,
// so callers classify failures with errors.Is.
var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyTerminal        = errors.New("already terminal")
	ErrMissingPrecondition    = errors.New("missing precondition")
	ErrConcurrencyConflict    = errors.New("concurrency conflict")
	ErrPaymentProvider        = errors.New("payment provider error")
)

// Kind is the stable, machine-readable classification of an error.
type Kind string

const (
	KindValidation             Kind = "validation_error"
	KindNotFound               Kind = "not_found"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindAlreadyTerminal        Kind = "already_terminal"
	KindMissingPrecondition    Kind = "missing_precondition"
	KindConcurrencyConflict    Kind = "concurrency_conflict"
	KindPaymentProvider        Kind = "payment_provider_error"
	KindInternal               Kind = "internal"
)

// KindOf classifies err. AlreadyTerminal is checked before InvalidStateTransition
// because an AlreadyTerminalError matches both.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAlreadyTerminal):
		return KindAlreadyTerminal
	case errors.Is(err, ErrInvalidStateTransition):
		return KindInvalidStateTransition
	case errors.Is(err, ErrMissingPrecondition):
		return KindMissingPrecondition
	case errors.Is(err, ErrConcurrencyConflict):
		return KindConcurrencyConflict
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrPaymentProvider):
		return KindPaymentProvider
	case IsValidation(err):
		return KindValidation
	default:
		return KindInternal
	}
}

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange)
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

// ObjectNotFoundError is returned when a referenced order, vendor, driver or
// menu item does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError describes a malformed input value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError describes a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	return withCause(msg, e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError describes a missing mandatory input value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidStateTransitionError is returned when the target status is not a
// direct successor of the current one.
type InvalidStateTransitionError struct {
	From  string
	To    string
	Cause error
}

func NewInvalidStateTransitionError(from, to string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{From: from, To: to}
}

func NewInvalidStateTransitionErrorWithCause(from, to string, cause error) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{From: from, To: to, Cause: cause}
}

func (e *InvalidStateTransitionError) Error() string {
	return withCause(fmt.Sprintf("%s: %s -> %s", ErrInvalidStateTransition, e.From, e.To), e.Cause)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// AlreadyTerminalError is returned for any mutation of a delivered or
// cancelled aggregate. It matches both ErrAlreadyTerminal and
// ErrInvalidStateTransition.
type AlreadyTerminalError struct {
	ID        string
	Status    string
	Operation string
}

func NewAlreadyTerminalError(id, status, operation string) *AlreadyTerminalError {
	return &AlreadyTerminalError{ID: id, Status: status, Operation: operation}
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("%s: %s is %s, cannot %s", ErrAlreadyTerminal, e.ID, e.Status, e.Operation)
}

func (e *AlreadyTerminalError) Unwrap() []error {
	return []error{ErrAlreadyTerminal, ErrInvalidStateTransition}
}

// MissingPreconditionError is returned when a transition is allowed by the
// graph but a required field has not been set yet.
type MissingPreconditionError struct {
	Precondition string
	Cause        error
}

func NewMissingPreconditionError(precondition string) *MissingPreconditionError {
	return &MissingPreconditionError{Precondition: precondition}
}

func NewMissingPreconditionErrorWithCause(precondition string, cause error) *MissingPreconditionError {
	return &MissingPreconditionError{Precondition: precondition, Cause: cause}
}

func (e *MissingPreconditionError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrMissingPrecondition, e.Precondition), e.Cause)
}

func (e *MissingPreconditionError) Unwrap() error {
	return ErrMissingPrecondition
}

// ConcurrencyConflictError is returned when a conditional write loses a race.
type ConcurrencyConflictError struct {
	Aggregate       string
	ID              string
	ExpectedVersion int64
	Cause           error
}

func NewConcurrencyConflictError(aggregate, id string, expectedVersion int64) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Aggregate: aggregate, ID: id, ExpectedVersion: expectedVersion}
}

func NewConcurrencyConflictErrorWithCause(
	aggregate, id string,
	expectedVersion int64,
	cause error,
) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Aggregate: aggregate, ID: id, ExpectedVersion: expectedVersion, Cause: cause}
}

func (e *ConcurrencyConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %s changed since version %d", ErrConcurrencyConflict, e.Aggregate, e.ID, e.ExpectedVersion)
	return withCause(msg, e.Cause)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// PaymentProviderError reports a declined or failed charge.
type PaymentProviderError struct {
	Provider string
	Reason   string
	Cause    error
}

func NewPaymentProviderError(provider, reason string) *PaymentProviderError {
	return &PaymentProviderError{Provider: provider, Reason: reason}
}

func NewPaymentProviderErrorWithCause(provider, reason string, cause error) *PaymentProviderError {
	return &PaymentProviderError{Provider: provider, Reason: reason, Cause: cause}
}

func (e *PaymentProviderError) Error() string {
	return withCause(fmt.Sprintf("%s: %s: %s", ErrPaymentProvider, e.Provider, e.Reason), e.Cause)
}

func (e *PaymentProviderError) Unwrap() error {
	return ErrPaymentProvider
}
