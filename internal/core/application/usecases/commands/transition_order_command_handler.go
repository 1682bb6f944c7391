package commands

import (
	"context"
	"fmt"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/retry"
)

// TransitionOrderCommandHandler applies a status transition under optimistic
// concurrency. For the delivered transition it resolves the vendor's
// commission rate and the driver's incentives first, so the order can freeze
// its settlement in the same write.
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, tariffs, incentives, retry.DefaultConfig())
//	o, err := handler.Handle(ctx, cmd)
//	switch errs.KindOf(err) {
//	case errs.KindInvalidStateTransition, errs.KindAlreadyTerminal:
//	    // rejected by the state machine
//	case errs.KindConcurrencyConflict:
//	    // still losing races after every retry
//	}
type TransitionOrderCommandHandler struct {
	mutator    orderMutator
	tariffs    ports.TariffProvider
	incentives ports.DriverIncentives
	now        func() time.Time
}

// NewTransitionOrderCommandHandler creates a handler for status transitions.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	tariffs ports.TariffProvider,
	incentives ports.DriverIncentives,
	retryConfig retry.Config,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		mutator:    orderMutator{uowFactory: uowFactory, retry: retryConfig},
		tariffs:    tariffs,
		incentives: incentives,
		now:        time.Now,
	}
}

// Handle applies the transition and returns the updated order.
func (h TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "TransitionOrder", cmd.OrderID())
	defer func() { endSpan(span, err) }()

	return h.mutator.mutate(ctx, cmd.OrderID(), func(ctx context.Context, o *order.Order) error {
		at := h.now()
		tc := order.TransitionContext{
			Actor:              cmd.Actor(),
			Message:            cmd.Message(),
			Location:           cmd.Location(),
			CancellationReason: cmd.CancellationReason(),
			At:                 at,
		}

		if cmd.Target() == order.Delivered && o.Status() == order.PickedUp {
			terms, termsErr := h.settlementTerms(ctx, o, at)
			if termsErr != nil {
				return termsErr
			}
			tc.Settlement = &terms
		}

		return o.ApplyTransition(cmd.Target(), tc)
	})
}

func (h TransitionOrderCommandHandler) settlementTerms(
	ctx context.Context,
	o *order.Order,
	deliveredAt time.Time,
) (order.SettlementTerms, error) {
	tariff, err := h.tariffs.Tariff(ctx, o.VendorRef(), o.Category())
	if err != nil {
		return order.SettlementTerms{}, fmt.Errorf("resolve tariff: %w", err)
	}

	terms := order.SettlementTerms{CommissionRate: tariff.CommissionRate}
	if driverRef := o.DriverRef(); driverRef != nil {
		incentive, incentiveErr := h.incentives.Resolve(ctx, *driverRef, o, deliveredAt)
		if incentiveErr != nil {
			return order.SettlementTerms{}, fmt.Errorf("resolve driver incentives: %w", incentiveErr)
		}
		terms.DriverBonus = incentive.Bonus
		terms.DriverPenalty = incentive.Penalty
	}

	return terms, nil
}
