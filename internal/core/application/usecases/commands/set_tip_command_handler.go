package commands

import (
	"context"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/retry"
)

// SetTipCommandHandler updates the tip and total of an open order, or records
// the post-delivery tip of a delivered one.
type SetTipCommandHandler struct {
	mutator orderMutator
}

func NewSetTipCommandHandler(uowFactory OrderUoWFactory, retryConfig retry.Config) SetTipCommandHandler {
	return SetTipCommandHandler{
		mutator: orderMutator{uowFactory: uowFactory, retry: retryConfig},
	}
}

func (h SetTipCommandHandler) Handle(ctx context.Context, cmd SetTipCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "SetTip", cmd.OrderID())
	defer func() { endSpan(span, err) }()

	return h.mutator.mutate(ctx, cmd.OrderID(), func(_ context.Context, o *order.Order) error {
		return o.SetTip(cmd.Tip())
	})
}
