package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/retry"
)

// ExpireUnpaidOrdersCommandHandler cancels stale unpaid orders on behalf of the system.
// An order that got paid (or cancelled) between listing and cancelling is skipped.
type ExpireUnpaidOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	mutator    orderMutator
	logger     *slog.Logger
}

func NewExpireUnpaidOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	retryConfig retry.Config,
	logger *slog.Logger,
) ExpireUnpaidOrdersCommandHandler {
	return ExpireUnpaidOrdersCommandHandler{
		uowFactory: uowFactory,
		mutator:    orderMutator{uowFactory: uowFactory, retry: retryConfig},
		logger:     logger,
	}
}

// Handle returns how many orders were cancelled.
func (h ExpireUnpaidOrdersCommandHandler) Handle(ctx context.Context, cmd ExpireUnpaidOrdersCommand) (_ int, err error) {
	if err = cmd.Validate(); err != nil {
		return 0, err
	}

	ctx, span := startSpan(ctx, "ExpireUnpaidOrders", kernel.UUID{})
	defer func() { endSpan(span, err) }()

	candidates, err := h.candidates(ctx, cmd)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range candidates {
		_, cancelErr := h.mutator.mutate(ctx, id, func(_ context.Context, o *order.Order) error {
			if o.Status() != order.PendingPayment {
				return errs.NewInvalidStateTransitionError(o.Status().String(), order.Cancelled.String())
			}
			return o.ApplyTransition(order.Cancelled, order.TransitionContext{
				Actor:              order.SystemActor,
				CancellationReason: PaymentTimeoutReason,
				At:                 cmd.AsOf(),
			})
		})
		switch {
		case cancelErr == nil:
			expired++
		case errors.Is(cancelErr, errs.ErrInvalidStateTransition):
			h.logger.DebugContext(ctx, "unpaid order moved on before expiry", "order_id", id.String())
		default:
			h.logger.ErrorContext(ctx, "failed to expire unpaid order", "order_id", id.String(), "error", cancelErr)
			err = errors.Join(err, cancelErr)
		}
	}

	return expired, err
}

func (h ExpireUnpaidOrdersCommandHandler) candidates(ctx context.Context, cmd ExpireUnpaidOrdersCommand) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().ListUnpaidPlacedBefore(ctx, cmd.Cutoff(), cmd.Limit())
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}
