package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/retry"
)

// paymentActor identifies the payment collaborator in tracking and events.
var paymentActor = order.Actor{ID: "payment-provider", Role: order.RolePayment}

// RecordPaymentCommandHandler applies payment outcomes. A confirmed payment
// moves the order from pending_payment to pending; a failure never advances it.
type RecordPaymentCommandHandler struct {
	mutator orderMutator
	now     func() time.Time
}

func NewRecordPaymentCommandHandler(uowFactory OrderUoWFactory, retryConfig retry.Config) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		mutator: orderMutator{uowFactory: uowFactory, retry: retryConfig},
		now:     time.Now,
	}
}

func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "RecordPayment", cmd.OrderID())
	defer func() { endSpan(span, err) }()

	return h.mutator.mutate(ctx, cmd.OrderID(), func(_ context.Context, o *order.Order) error {
		return o.RecordPayment(order.PaymentResult{
			Status:    cmd.Status(),
			Reference: cmd.Reference(),
			Reason:    cmd.Reason(),
			Actor:     paymentActor,
			At:        h.now(),
		})
	})
}
