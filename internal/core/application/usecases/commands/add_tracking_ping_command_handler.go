package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/retry"
)

// AddTrackingPingCommandHandler appends informational tracking entries.
type AddTrackingPingCommandHandler struct {
	mutator orderMutator
	now     func() time.Time
}

func NewAddTrackingPingCommandHandler(uowFactory OrderUoWFactory, retryConfig retry.Config) AddTrackingPingCommandHandler {
	return AddTrackingPingCommandHandler{
		mutator: orderMutator{uowFactory: uowFactory, retry: retryConfig},
		now:     time.Now,
	}
}

func (h AddTrackingPingCommandHandler) Handle(ctx context.Context, cmd AddTrackingPingCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "AddTrackingPing", cmd.OrderID())
	defer func() { endSpan(span, err) }()

	return h.mutator.mutate(ctx, cmd.OrderID(), func(_ context.Context, o *order.Order) error {
		return o.AddTrackingPing(cmd.Message(), cmd.Location(), h.now())
	})
}
