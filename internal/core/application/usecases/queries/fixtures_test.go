package queries_test

import (
	"context"
	"testing"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/domain/model/pricing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2025, 5, 4, 18, 30, 0, 0, time.UTC)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) ListActive(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func newOrder(t *testing.T, number string) *order.Order {
	t.Helper()

	address, err := kernel.NewAddress("1 Infinite Loop", "Cupertino", "95014", "", nil)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "Ramen", 2, kernel.MustMoney("12.50"), nil, "")
	require.NoError(t, err)

	restaurant := kernel.NewUUID()
	o, err := order.NewOrder(order.Placement{
		ID:            kernel.NewUUID(),
		OrderNumber:   number,
		CustomerRef:   kernel.NewUUID(),
		RestaurantRef: restaurant,
		VendorRef:     restaurant,
		Currency:      "USD",
		Items:         []order.Item{item},
		Address:       address,
		Tariff: pricing.Tariff{
			TaxRate:     kernel.MustRate("0.10"),
			DeliveryFee: pricing.FeeRule{Flat: kernel.MustMoney("2.00")},
		},
		PlacedAt: placedAt,
	})
	require.NoError(t, err)
	return o
}

// paidOrder returns an order that has moved past payment and been confirmed.
func paidOrder(t *testing.T, number string) *order.Order {
	t.Helper()

	o := newOrder(t, number)
	require.NoError(t, o.RecordPayment(order.PaymentResult{
		Status: order.PaymentPaid,
		Actor:  order.Actor{ID: "psp", Role: order.RolePayment},
		At:     placedAt.Add(time.Minute),
	}))
	require.NoError(t, o.ApplyTransition(order.Confirmed, order.TransitionContext{
		Actor:   order.Actor{ID: o.RestaurantRef().String(), Role: order.RoleVendor},
		Message: "Kitchen has your order",
		At:      placedAt.Add(2 * time.Minute),
	}))
	return o
}
