package order_test

import (
	"fmt"
	"testing"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate every real status", func(t *testing.T) {
		for _, status := range order.AllStatuses() {
			t.Run(fmt.Sprintf("should validate %s status", status), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown and out-of-range values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(9), order.Status(100)} {
			err := status.Validate()

			require.Error(t, err)
			assert.IsType(t, &errs.ValueIsInvalidError{}, err)
			assert.Contains(t, err.Error(), fmt.Sprintf("%d is not a valid status", int(status)))
		}
	})
}

func TestStatus_String(t *testing.T) {
	testCases := []struct {
		status   order.Status
		expected string
	}{
		{order.PendingPayment, "pending_payment"},
		{order.Pending, "pending"},
		{order.Confirmed, "confirmed"},
		{order.Preparing, "preparing"},
		{order.ReadyForPickup, "ready_for_pickup"},
		{order.PickedUp, "picked_up"},
		{order.Delivered, "delivered"},
		{order.Cancelled, "cancelled"},
		{order.Unknown, "unknown"},
		{order.Status(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run("should return "+tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("should parse every wire name back", func(t *testing.T) {
		for _, status := range order.AllStatuses() {
			parsed, err := order.ParseStatus(status.String())

			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should not parse unknown or informational", func(t *testing.T) {
		for _, name := range []string{"unknown", "informational", "Delivered", ""} {
			_, err := order.ParseStatus(name)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid, name)
		}
	})
}

func TestStatus_Transitions(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.PendingPayment: {order.Pending, order.Cancelled},
		order.Pending:        {order.Confirmed, order.Cancelled},
		order.Confirmed:      {order.Preparing, order.Cancelled},
		order.Preparing:      {order.ReadyForPickup, order.Cancelled},
		order.ReadyForPickup: {order.PickedUp, order.Cancelled},
		order.PickedUp:       {order.Delivered},
	}

	t.Run("should allow exactly the edges of the lifecycle graph", func(t *testing.T) {
		for _, from := range order.AllStatuses() {
			for _, to := range order.AllStatuses() {
				expected := false
				for _, s := range allowed[from] {
					if s == to {
						expected = true
					}
				}
				assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("should have no successors for terminal statuses", func(t *testing.T) {
		assert.True(t, order.Delivered.IsTerminal())
		assert.True(t, order.Cancelled.IsTerminal())
		assert.Empty(t, order.Delivered.Successors())
		assert.Empty(t, order.Cancelled.Successors())
	})

	t.Run("should not let callers mutate the transition table", func(t *testing.T) {
		successors := order.Pending.Successors()
		successors[0] = order.Delivered

		assert.Equal(t, []order.Status{order.Confirmed, order.Cancelled}, order.Pending.Successors())
	})

	t.Run("should accept a driver only before pickup", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			expected := s == order.Confirmed || s == order.Preparing || s == order.ReadyForPickup
			assert.Equal(t, expected, s.AcceptsDriver(), s.String())
		}
	})
}

func TestPaymentStatus(t *testing.T) {
	t.Run("should round trip wire names", func(t *testing.T) {
		for _, p := range []order.PaymentStatus{order.PaymentPending, order.PaymentPaid, order.PaymentFailed, order.PaymentRefunded} {
			text, err := p.MarshalText()
			require.NoError(t, err)

			var parsed order.PaymentStatus
			require.NoError(t, parsed.UnmarshalText(text))
			assert.Equal(t, p, parsed)
		}
	})

	t.Run("should refuse to encode unknown", func(t *testing.T) {
		_, err := order.PaymentUnknown.MarshalText()
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
