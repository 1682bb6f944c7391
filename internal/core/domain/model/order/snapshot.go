package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

// ItemSnapshot is the persisted shape of an Item. TotalPrice is stored for
// readers and checked against the derived value on restore.
type ItemSnapshot struct {
	MenuItemRef         kernel.UUID        `json:"menuItemRef"`
	Name                string             `json:"name"`
	Quantity            int                `json:"quantity"`
	UnitPrice           kernel.Money       `json:"unitPrice"`
	SelectedModifiers   []SelectedModifier `json:"selectedModifiers,omitempty"`
	SpecialInstructions string             `json:"specialInstructions,omitempty"`
	TotalPrice          kernel.Money       `json:"totalPrice"`
}

// Snapshot is the persisted order document. Settlement and Review are
// absent until they exist.
type Snapshot struct {
	Amounts
	Timeline

	ID                    kernel.UUID        `json:"id"`
	OrderNumber           string             `json:"orderNumber"`
	CustomerRef           kernel.UUID        `json:"customerRef"`
	RestaurantRef         kernel.UUID        `json:"restaurantRef"`
	VendorRef             kernel.UUID        `json:"vendorRef"`
	DriverRef             *kernel.UUID       `json:"driverRef,omitempty"`
	Category              string             `json:"category,omitempty"`
	Status                Status             `json:"status"`
	PaymentStatus         PaymentStatus      `json:"paymentStatus"`
	PaymentMethodRef      string             `json:"paymentMethodRef,omitempty"`
	Currency              string             `json:"currency"`
	Items                 []ItemSnapshot     `json:"items"`
	AppliedPromotions     []AppliedPromotion `json:"appliedPromotions,omitempty"`
	DistanceMeters        int                `json:"distanceMeters"`
	DeliveryAddress       kernel.Address     `json:"deliveryAddress"`
	EstimatedDeliveryTime *time.Time         `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time         `json:"actualDeliveryTime,omitempty"`
	TrackingUpdates       []TrackingUpdate   `json:"trackingUpdates"`
	CancellationReason    string             `json:"cancellationReason,omitempty"`
	CancelledBy           *Actor             `json:"cancelledBy,omitempty"`
	Settlement            *Settlement        `json:"settlement,omitempty"`
	Review                *Review            `json:"review,omitempty"`
	Version               int64              `json:"version"`
}

// Snapshot exports the full state of the order. Pending events are not part of it.
func (o *Order) Snapshot() Snapshot {
	items := make([]ItemSnapshot, 0, len(o.items))
	for _, item := range o.items {
		items = append(items, ItemSnapshot{
			MenuItemRef:         item.menuItemRef,
			Name:                item.name,
			Quantity:            item.quantity,
			UnitPrice:           item.unitPrice,
			SelectedModifiers:   cloneModifiers(item.modifiers),
			SpecialInstructions: item.instructions,
			TotalPrice:          item.TotalPrice(),
		})
	}

	return Snapshot{
		ID:                    o.id,
		OrderNumber:           o.number,
		CustomerRef:           o.customerRef,
		RestaurantRef:         o.restaurantRef,
		VendorRef:             o.vendorRef,
		DriverRef:             o.DriverRef(),
		Category:              o.category,
		Status:                o.status,
		PaymentStatus:         o.paymentStatus,
		PaymentMethodRef:      o.paymentMethodRef,
		Currency:              o.currency,
		Items:                 items,
		Amounts:               o.amounts,
		AppliedPromotions:     o.AppliedPromotions(),
		DistanceMeters:        o.distanceMeters,
		DeliveryAddress:       o.address,
		EstimatedDeliveryTime: copyTime(o.estimatedDeliveryTime),
		ActualDeliveryTime:    copyTime(o.actualDeliveryTime),
		TrackingUpdates:       slices.Clone(o.tracking.entries),
		Timeline:              o.timeline.clone(),
		CancellationReason:    o.cancellationReason,
		CancelledBy:           o.CancelledBy(),
		Settlement:            o.Settlement(),
		Review:                o.Review(),
		Version:               o.version,
	}
}

// RestoreOrder rebuilds an order from its persisted shape and re-checks the
// aggregate's invariants, so a corrupted document is rejected instead of loaded.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.OrderNumber),
		o.setParties(s.CustomerRef, s.RestaurantRef, s.VendorRef),
		o.setCurrency(s.Currency),
		o.setAddress(s.DeliveryAddress),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(s.Items))
	lines := make([]pricing.Line, 0, len(s.Items))
	for idx, is := range s.Items {
		item, err := NewItem(is.MenuItemRef, is.Name, is.Quantity, is.UnitPrice, is.SelectedModifiers, is.SpecialInstructions)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", idx, err)
		}
		if item.TotalPrice() != is.TotalPrice {
			return nil, errs.NewValueIsInvalidErrorWithCause("item total price",
				fmt.Errorf("item %d stores %s but prices to %s", idx, is.TotalPrice, item.TotalPrice()))
		}
		items = append(items, item)
		lines = append(lines, item.Line())
	}
	if err := o.setItems(items); err != nil {
		return nil, err
	}

	var subtotal kernel.Money
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	a := s.Amounts
	if subtotal != a.Subtotal {
		return nil, errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("items sum to %s, document stores %s", subtotal, a.Subtotal))
	}
	if total := pricing.GrandTotal(a.Subtotal, a.Taxes, a.DeliveryFee, a.ServiceFee, a.Tip, a.Discount); total != a.Total {
		return nil, errs.NewValueIsInvalidErrorWithCause("total amount",
			fmt.Errorf("components add up to %s, document stores %s", total, a.Total))
	}

	if a.PostDeliveryTip.IsNegative() || (!a.PostDeliveryTip.IsZero() && s.Status != Delivered) {
		return nil, errs.NewValueIsInvalidErrorWithCause("post-delivery tip",
			fmt.Errorf("%s stored for status %s", a.PostDeliveryTip, s.Status))
	}
	if (s.Settlement != nil) != (s.Status == Delivered) {
		return nil, errs.NewValueIsInvalidErrorWithCause("settlement",
			fmt.Errorf("settlement present=%t for status %s", s.Settlement != nil, s.Status))
	}
	if s.Settlement != nil && s.Settlement.DriverEarnings != nil && s.DriverRef == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("driver earnings", errors.New("set without a driver"))
	}

	tracking, err := newTrackingLog(s.TrackingUpdates)
	if err != nil {
		return nil, err
	}

	o.status = s.Status
	o.paymentStatus = s.PaymentStatus
	o.driverRef = copyRef(s.DriverRef)
	o.category = s.Category
	o.paymentMethodRef = s.PaymentMethodRef
	o.amounts = a
	o.promotions = slices.Clone(s.AppliedPromotions)
	o.distanceMeters = s.DistanceMeters
	o.estimatedDeliveryTime = copyTime(s.EstimatedDeliveryTime)
	o.actualDeliveryTime = copyTime(s.ActualDeliveryTime)
	o.tracking = tracking
	o.timeline = s.Timeline.clone()
	o.cancellationReason = s.CancellationReason
	if s.CancelledBy != nil {
		actor := *s.CancelledBy
		o.cancelledBy = &actor
	}
	if s.Settlement != nil {
		o.settlement = s.Settlement.clone()
	}
	if s.Review != nil {
		review := *s.Review
		o.review = &review
	}
	o.version = s.Version
	return o, nil
}

func copyRef(ref *kernel.UUID) *kernel.UUID {
	if ref == nil {
		return nil
	}
	v := *ref
	return &v
}
