package commands_test

import (
	"context"
	"time"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/menu"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expectedVersion int64) error {
	args := m.Called(ctx, o, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListActive(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListUnpaidPlacedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Append(ctx context.Context, events []order.StatusChanged) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockOutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]order.StatusChanged, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.StatusChanged), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

type MockMenuCatalog struct{ mock.Mock }

func (m *MockMenuCatalog) Get(ctx context.Context, ref kernel.UUID) (menu.Item, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(menu.Item), args.Error(1)
}

type MockTariffProvider struct{ mock.Mock }

func (m *MockTariffProvider) Tariff(ctx context.Context, vendorRef kernel.UUID, category string) (pricing.Tariff, error) {
	args := m.Called(ctx, vendorRef, category)
	return args.Get(0).(pricing.Tariff), args.Error(1)
}

type MockPromotionCatalog struct{ mock.Mock }

func (m *MockPromotionCatalog) Resolve(
	ctx context.Context,
	codes []string,
	vendorRef kernel.UUID,
	at time.Time,
) ([]pricing.Promotion, error) {
	args := m.Called(ctx, codes, vendorRef, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.Promotion), args.Error(1)
}

type MockNumberGenerator struct{ mock.Mock }

func (m *MockNumberGenerator) Generate(at time.Time) string {
	args := m.Called(at)
	return args.String(0)
}

type MockDriverIncentives struct{ mock.Mock }

func (m *MockDriverIncentives) Resolve(
	ctx context.Context,
	driverRef kernel.UUID,
	o *order.Order,
	deliveredAt time.Time,
) (ports.Incentive, error) {
	args := m.Called(ctx, driverRef, o, deliveredAt)
	return args.Get(0).(ports.Incentive), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, events []order.StatusChanged) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
