package commands

import (
	"context"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/retry"
)

// orderMutator loads an order, applies a change and writes it back with a
// conditional update. A lost race re-reads and re-applies the change a bounded
// number of times; any other error is returned as is.
type orderMutator struct {
	uowFactory OrderUoWFactory
	retry      retry.Config
}

func (m orderMutator) mutate(
	ctx context.Context,
	orderID kernel.UUID,
	apply func(ctx context.Context, o *order.Order) error,
) (*order.Order, error) {
	return retry.OnConflict(ctx, m.retry, func(ctx context.Context) (*order.Order, error) {
		uow := m.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		orderRepo := uow.OrderRepository()
		o, err := orderRepo.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}

		expectedVersion := o.Version()
		if err = apply(ctx, o); err != nil {
			return nil, err
		}

		if err = orderRepo.Update(ctx, o, expectedVersion); err != nil {
			return nil, err
		}

		if err = uow.Commit(ctx); err != nil {
			return nil, err
		}

		return o, nil
	})
}
