package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("userId", "123")

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("userId", "123", cause)

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: userId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("Error with different ID types", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", 456)
		assert.Equal(t, "object not found: %!s(int=456)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("email")

		assert.Equal(t, "email", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: email", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("email", cause)

		assert.Equal(t, "email", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: email (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("age", 150, 0, 120)

		assert.Equal(t, "age", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 120, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 150 is age, min value is 0, max value is 120", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("validation failed")
		err := errs.NewValueIsOutOfRangeErrorWithCause("score", -5, 0, 100, cause)

		assert.Equal(t, "score", err.ParamName)
		assert.Equal(t, -5, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 100, err.Max)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"value is invalid: -5 is score, min value is 0, max value is 100 (cause: validation failed)",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("username")

		assert.Equal(t, "username", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: username", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("username", cause)

		assert.Equal(t, "username", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: username (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestStateMachineErrors(t *testing.T) {
	t.Run("NewInvalidStateTransitionError", func(t *testing.T) {
		err := errs.NewInvalidStateTransitionError("delivered", "preparing")

		assert.Equal(t, "delivered", err.From)
		assert.Equal(t, "preparing", err.To)
		assert.Equal(t, "invalid state transition: delivered -> preparing", err.Error())
		assert.Equal(t, errs.ErrInvalidStateTransition, err.Unwrap())
	})

	t.Run("AlreadyTerminalError matches both sentinels", func(t *testing.T) {
		err := errs.NewAlreadyTerminalError("o-1", "delivered", "transition to delivered")

		assert.Equal(t, "already terminal: o-1 is delivered, cannot transition to delivered", err.Error())
		require.ErrorIs(t, err, errs.ErrAlreadyTerminal)
		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})

	t.Run("NewMissingPreconditionErrorWithCause", func(t *testing.T) {
		cause := errors.New("driverRef is empty")
		err := errs.NewMissingPreconditionErrorWithCause("driver must be assigned", cause)

		assert.Equal(t,
			"missing precondition: driver must be assigned (cause: driverRef is empty)",
			err.Error())
		assert.Equal(t, errs.ErrMissingPrecondition, err.Unwrap())
	})
}

func TestConcurrencyConflictError(t *testing.T) {
	err := errs.NewConcurrencyConflictError("order", "o-1", 4)

	assert.Equal(t, int64(4), err.ExpectedVersion)
	assert.Equal(t, "concurrency conflict: order o-1 changed since version 4", err.Error())
	assert.Equal(t, errs.ErrConcurrencyConflict, err.Unwrap())
}

func TestPaymentProviderError(t *testing.T) {
	err := errs.NewPaymentProviderError("stripe", "card declined")

	assert.Equal(t, "payment provider error: stripe: card declined", err.Error())
	assert.Equal(t, errs.ErrPaymentProvider, err.Unwrap())
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected errs.Kind
	}{
		{"nil", nil, ""},
		{"invalid value", errs.NewValueIsInvalidError("quantity"), errs.KindValidation},
		{"required value", errs.NewValueIsRequiredError("items"), errs.KindValidation},
		{"out of range", errs.NewValueIsOutOfRangeError("rating", 9, 1, 5), errs.KindValidation},
		{"not found", errs.NewObjectNotFoundError("order", "o-1"), errs.KindNotFound},
		{"invalid transition", errs.NewInvalidStateTransitionError("pending", "delivered"), errs.KindInvalidStateTransition},
		{"terminal", errs.NewAlreadyTerminalError("o-1", "cancelled", "assign driver"), errs.KindAlreadyTerminal},
		{"precondition", errs.NewMissingPreconditionError("driver"), errs.KindMissingPrecondition},
		{"conflict", errs.NewConcurrencyConflictError("order", "o-1", 1), errs.KindConcurrencyConflict},
		{"payment", errs.NewPaymentProviderError("psp", "declined"), errs.KindPaymentProvider},
		{"wrapped conflict", fmt.Errorf("commit: %w", errs.NewConcurrencyConflictError("order", "o-1", 1)), errs.KindConcurrencyConflict},
		{"unknown", errors.New("boom"), errs.KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errs.KindOf(tc.err))
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsOutOfRange)
		require.Error(t, errs.ErrValueIsRequired)
		require.Error(t, errs.ErrInvalidStateTransition)
		require.Error(t, errs.ErrAlreadyTerminal)
		require.Error(t, errs.ErrMissingPrecondition)
		require.Error(t, errs.ErrConcurrencyConflict)
		require.Error(t, errs.ErrPaymentProvider)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "invalid state transition", errs.ErrInvalidStateTransition.Error())
		assert.Equal(t, "concurrency conflict", errs.ErrConcurrencyConflict.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		objectNotFoundErr := errs.NewObjectNotFoundError("userId", "123")
		require.ErrorIs(t, objectNotFoundErr, errs.ErrObjectNotFound)

		valueInvalidErr := errs.NewValueIsInvalidError("email")
		require.ErrorIs(t, valueInvalidErr, errs.ErrValueIsInvalid)

		valueOutOfRangeErr := errs.NewValueIsOutOfRangeError("age", 150, 0, 120)
		require.ErrorIs(t, valueOutOfRangeErr, errs.ErrValueIsOutOfRange)

		valueRequiredErr := errs.NewValueIsRequiredError("username")
		require.ErrorIs(t, valueRequiredErr, errs.ErrValueIsRequired)

		conflictErr := errs.NewConcurrencyConflictError("order", "o-1", 2)
		require.ErrorIs(t, conflictErr, errs.ErrConcurrencyConflict)
	})
}
