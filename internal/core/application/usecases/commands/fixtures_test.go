package commands_test

import (
	"testing"
	"time"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/pkg/retry"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	restaurantID = kernel.MustUUID("5b0e1c5e-6d0a-4f1e-9a57-2f64c3c1a001")
	vendorActor  = order.Actor{ID: restaurantID.String(), Role: order.RoleVendor}
	driverID     = kernel.MustUUID("5b0e1c5e-6d0a-4f1e-9a57-2f64c3c1a0d1")
	driverActor  = order.Actor{ID: driverID.String(), Role: order.RoleDriver}
	placedAt     = time.Date(2025, 5, 4, 18, 30, 0, 0, time.UTC)
)

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func sampleTariff() pricing.Tariff {
	return pricing.Tariff{
		TaxRate:        kernel.MustRate("0.08"),
		CommissionRate: kernel.MustRate("0.10"),
		DeliveryFee:    pricing.FeeRule{Flat: kernel.MustMoney("3.99")},
		ServiceFee:     pricing.FeeRule{Flat: kernel.MustMoney("1.50")},
	}
}

func sampleAddress(t *testing.T) kernel.Address {
	t.Helper()
	address, err := kernel.NewAddress("221B Baker Street", "London", "NW1 6XE", "", nil)
	require.NoError(t, err)
	return address
}

// placedOrder returns the 33.97 sample order in pending_payment.
func placedOrder(t *testing.T) *order.Order {
	t.Helper()

	burger, err := order.NewItem(kernel.NewUUID(), "Burger", 2, kernel.MustMoney("11.99"),
		[]order.SelectedModifier{{GroupID: "extras", GroupName: "Extras", Options: []order.ModifierOption{
			{ID: "cheese", Name: "Cheese", PriceAdjustment: kernel.MustMoney("1.00")},
		}}}, "")
	require.NoError(t, err)
	fries, err := order.NewItem(kernel.NewUUID(), "Fries", 1, kernel.MustMoney("3.99"), nil, "")
	require.NoError(t, err)
	shake, err := order.NewItem(kernel.NewUUID(), "Shake", 1, kernel.MustMoney("4.00"), nil, "")
	require.NoError(t, err)

	o, err := order.NewOrder(order.Placement{
		ID:            kernel.NewUUID(),
		OrderNumber:   "FD-250504-test",
		CustomerRef:   kernel.NewUUID(),
		RestaurantRef: restaurantID,
		VendorRef:     restaurantID,
		Category:      "burgers",
		Currency:      "USD",
		Items:         []order.Item{burger, fries, shake},
		Address:       sampleAddress(t),
		Tariff:        sampleTariff(),
		PlacedAt:      placedAt,
	})
	require.NoError(t, err)
	return o
}

// orderIn drives a fresh sample order to status. A driver is assigned once the
// order is confirmed.
func orderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	o := placedOrder(t)
	at := placedAt
	path := []order.Status{order.Pending, order.Confirmed, order.Preparing, order.ReadyForPickup, order.PickedUp}
	for _, next := range path {
		if o.Status() == status {
			break
		}
		at = at.Add(time.Minute)
		switch next {
		case order.Pending:
			require.NoError(t, o.RecordPayment(order.PaymentResult{
				Status: order.PaymentPaid, Actor: order.Actor{ID: "psp", Role: order.RolePayment}, At: at,
			}))
		default:
			require.NoError(t, o.ApplyTransition(next, order.TransitionContext{Actor: vendorActor, At: at}))
		}
		if next == order.Confirmed {
			require.NoError(t, o.AssignDriver(driverID, at))
		}
	}
	require.Equal(t, status, o.Status())
	o.ClearEvents()
	return o
}

// copyOf returns an independent copy, as a second read from the store would.
func copyOf(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	restored, err := order.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	return restored
}

// happyUoW is a unit of work whose transaction calls all succeed.
func happyUoW(repo *MockOrderRepository) *MockUoW {
	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	return uow
}

func factoryFor(uow commands.OrderUoW) *MockOrderUoWFactory {
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)
	return factory
}
