package order

import (
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/pkg/errs"
)

// TransitionContext carries who is moving the order and the data some
// transitions require.
type TransitionContext struct {
	Actor    Actor
	Message  string
	Location *kernel.GeoPoint

	// CancellationReason is required when cancelling.
	CancellationReason string

	// Settlement is required when delivering.
	Settlement *SettlementTerms

	// At defaults to the current time.
	At time.Time
}

var defaultMessages = map[Status]string{
	PendingPayment: "order placed, waiting for payment",
	Pending:        "payment received, waiting for the restaurant",
	Confirmed:      "restaurant confirmed the order",
	Preparing:      "restaurant is preparing the order",
	ReadyForPickup: "order is ready for pickup",
	PickedUp:       "driver picked up the order",
	Delivered:      "order delivered",
	Cancelled:      "order cancelled",
}

// ApplyTransition moves the order to target. On success it stamps the
// transition's timestamp, appends exactly one tracking entry and raises a
// StatusChanged event; the delivered transition also freezes the settlement.
// On failure the order is left exactly as it was.
func (o *Order) ApplyTransition(target Status, tc TransitionContext) error {
	if err := o.ensureMutable("transition to " + target.String()); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}
	if !o.status.CanTransitionTo(target) {
		return errs.NewInvalidStateTransitionError(o.status.String(), target.String())
	}
	if err := o.checkPreconditions(target, tc); err != nil {
		return err
	}
	if err := tc.Actor.Validate(); err != nil {
		return err
	}
	if tc.Location != nil {
		if err := tc.Location.Validate(); err != nil {
			return err
		}
	}

	at := o.tracking.clamp(normalize(tc.At))

	var settlement *Settlement
	if target == Delivered {
		s, err := o.settle(*tc.Settlement, at)
		if err != nil {
			return err
		}
		settlement = s
	}

	previous := o.status
	o.status = target
	o.stamp(target, at, tc)
	if settlement != nil {
		o.settlement = settlement
	}

	message := tc.Message
	if strings.TrimSpace(message) == "" {
		message = defaultMessages[target]
	}
	o.tracking.append(TrackingStatusOf(target), at, message, tc.Location)

	o.events = append(o.events, StatusChanged{
		EventID:        kernel.NewUUID(),
		OrderID:        o.id,
		OrderNumber:    o.number,
		PreviousStatus: previous,
		NewStatus:      target,
		Timestamp:      at,
		RecipientRefs:  o.RecipientRefs(),
		Actor:          tc.Actor,
	})
	return nil
}

func (o *Order) checkPreconditions(target Status, tc TransitionContext) error {
	switch target {
	case Pending:
		if o.paymentStatus != PaymentPaid {
			return errs.NewMissingPreconditionError("paymentStatus paid")
		}
	case PickedUp:
		if o.driverRef == nil {
			return errs.NewMissingPreconditionError("driverRef")
		}
	case Delivered:
		if tc.Settlement == nil {
			return errs.NewMissingPreconditionError("settlement terms")
		}
	case Cancelled:
		if strings.TrimSpace(tc.CancellationReason) == "" {
			return errs.NewMissingPreconditionError("cancellationReason")
		}
		if tc.Actor.IsZero() {
			return errs.NewMissingPreconditionError("cancelledBy")
		}
	default:
	}
	return nil
}

func (o *Order) settle(terms SettlementTerms, at time.Time) (*Settlement, error) {
	split, err := pricing.Settle(pricing.SettleInput{
		Subtotal:       o.amounts.Subtotal,
		DeliveryFee:    o.amounts.DeliveryFee,
		Tip:            o.amounts.Tip,
		CommissionRate: terms.CommissionRate,
		DriverBonus:    terms.DriverBonus,
		DriverPenalty:  terms.DriverPenalty,
		HasDriver:      o.driverRef != nil,
	})
	if err != nil {
		return nil, err
	}
	return &Settlement{
		PlatformCommission: split.PlatformCommission,
		RestaurantEarnings: split.RestaurantEarnings,
		DriverEarnings:     split.DriverEarnings,
		CommissionRate:     terms.CommissionRate,
		DriverBonus:        terms.DriverBonus,
		DriverPenalty:      terms.DriverPenalty,
		SettledAt:          at,
	}, nil
}

func (o *Order) stamp(target Status, at time.Time, tc TransitionContext) {
	ts := at
	switch target {
	case Confirmed:
		o.timeline.ConfirmedAt = &ts
	case Preparing:
		o.timeline.PreparingAt = &ts
	case ReadyForPickup:
		o.timeline.ReadyAt = &ts
	case PickedUp:
		o.timeline.PickedUpAt = &ts
	case Delivered:
		o.timeline.DeliveredAt = &ts
		actual := ts
		o.actualDeliveryTime = &actual
	case Cancelled:
		o.timeline.CancelledAt = &ts
		actor := tc.Actor
		o.cancelledBy = &actor
		o.cancellationReason = strings.TrimSpace(tc.CancellationReason)
	default:
	}
}
