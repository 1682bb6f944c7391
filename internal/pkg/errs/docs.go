// Package errs provides standardized error types for the order engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the engine's failure taxonomy:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation failures
//   - ObjectNotFoundError: a referenced order, menu item or driver does not exist
//   - InvalidStateTransitionError, AlreadyTerminalError, MissingPreconditionError:
//     state machine contract violations
//   - ConcurrencyConflictError: an optimistic write lost a race
//   - PaymentProviderError: an external charge failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// KindOf maps any error onto a stable Kind string that transports (HTTP, logs)
// expose to callers.
package errs
