package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/retry"
)

// AssignDriverCommandHandler attaches the dispatched driver to an order.
// The order's status does not change; the picked_up transition requires it.
type AssignDriverCommandHandler struct {
	mutator orderMutator
	now     func() time.Time
}

func NewAssignDriverCommandHandler(uowFactory OrderUoWFactory, retryConfig retry.Config) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		mutator: orderMutator{uowFactory: uowFactory, retry: retryConfig},
		now:     time.Now,
	}
}

// Handle assigns the driver. Reassigning the same driver changes nothing.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "AssignDriver", cmd.OrderID())
	defer func() { endSpan(span, err) }()

	return h.mutator.mutate(ctx, cmd.OrderID(), func(_ context.Context, o *order.Order) error {
		return o.AssignDriver(cmd.DriverRef(), h.now())
	})
}
