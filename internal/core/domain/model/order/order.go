package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Amounts holds every monetary field of an order. All of them are derived by
// the pricing calculator; none is ever taken from a client.
type Amounts struct {
	Subtotal    kernel.Money `json:"subtotal"`
	Taxes       kernel.Money `json:"taxes"`
	DeliveryFee kernel.Money `json:"deliveryFee"`
	ServiceFee  kernel.Money `json:"serviceFee"`
	Discount    kernel.Money `json:"discount"`
	Tip         kernel.Money `json:"tip"`
	Total       kernel.Money `json:"totalAmount"`

	// PostDeliveryTip is added by the customer after delivery. It goes to the
	// driver on top of the frozen settlement and is not part of Total.
	PostDeliveryTip kernel.Money `json:"postDeliveryTip"`
}

// Timeline holds the lifecycle timestamps. Each pointer is set exactly once,
// by the transition (or hook) it belongs to.
type Timeline struct {
	PlacedAt         time.Time  `json:"placedAt"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	PreparingAt      *time.Time `json:"preparingAt,omitempty"`
	ReadyAt          *time.Time `json:"readyAt,omitempty"`
	PickedUpAt       *time.Time `json:"pickedUpAt,omitempty"`
	DeliveredAt      *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	DriverAssignedAt *time.Time `json:"driverAssignedAt,omitempty"`
}

func (t Timeline) clone() Timeline {
	for _, p := range []**time.Time{
		&t.PaidAt, &t.ConfirmedAt, &t.PreparingAt, &t.ReadyAt,
		&t.PickedUpAt, &t.DeliveredAt, &t.CancelledAt, &t.DriverAssignedAt,
	} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return t
}

// Placement is everything needed to place an order. Items are already
// resolved against the menu; the tariff and promotions are already resolved
// from configuration.
type Placement struct {
	ID                    kernel.UUID
	OrderNumber           string
	CustomerRef           kernel.UUID
	RestaurantRef         kernel.UUID
	VendorRef             kernel.UUID
	Category              string
	PaymentMethodRef      string
	Currency              string
	Items                 []Item
	Address               kernel.Address
	Tariff                pricing.Tariff
	Promotions            []pricing.Promotion
	DistanceMeters        int
	EstimatedDeliveryTime *time.Time
	PlacedAt              time.Time
}

// Order is the aggregate root of the engine. It is mutated only through
// ApplyTransition and the hooks in this file; every mutator either succeeds
// completely or leaves the order untouched.
type Order struct {
	id               kernel.UUID
	number           string
	customerRef      kernel.UUID
	restaurantRef    kernel.UUID
	vendorRef        kernel.UUID
	driverRef        *kernel.UUID
	category         string
	status           Status
	paymentStatus    PaymentStatus
	paymentMethodRef string
	currency         string

	items          []Item
	amounts        Amounts
	promotions     []AppliedPromotion
	distanceMeters int

	address               kernel.Address
	estimatedDeliveryTime *time.Time
	actualDeliveryTime    *time.Time

	tracking TrackingLog
	timeline Timeline

	cancellationReason string
	cancelledBy        *Actor

	settlement *Settlement
	review     *Review

	version int64
	events  []StatusChanged
	guard   guard.ConstructorGuard
}

// NewOrder prices the placement and builds the order in pending_payment with
// a first tracking entry. The total excludes the tip, which SetTip adds later.
func NewOrder(p Placement) (*Order, error) {
	o := &Order{
		status:        PendingPayment,
		paymentStatus: PaymentPending,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setNumber(p.OrderNumber),
		o.setParties(p.CustomerRef, p.RestaurantRef, p.VendorRef),
		o.setCurrency(p.Currency),
		o.setAddress(p.Address),
		o.setItems(p.Items),
	); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(o.items))
	for _, item := range o.items {
		lines = append(lines, item.Line())
	}
	quote, err := pricing.Quote(pricing.QuoteInput{
		Lines:          lines,
		Promotions:     p.Promotions,
		Tariff:         p.Tariff,
		DistanceMeters: p.DistanceMeters,
	})
	if err != nil {
		return nil, err
	}

	o.category = strings.TrimSpace(p.Category)
	o.paymentMethodRef = p.PaymentMethodRef
	o.distanceMeters = p.DistanceMeters
	o.amounts = Amounts{
		Subtotal:    quote.Subtotal,
		Taxes:       quote.Taxes,
		DeliveryFee: quote.DeliveryFee,
		ServiceFee:  quote.ServiceFee,
		Discount:    quote.Discount,
		Tip:         quote.Tip,
		Total:       quote.Total,
	}
	for _, d := range quote.Discounts {
		o.promotions = append(o.promotions, AppliedPromotion{
			PromotionID: d.PromotionID,
			Code:        d.Code,
			Title:       d.Title,
			Discount:    d.Amount,
		})
	}
	if p.EstimatedDeliveryTime != nil {
		eta := p.EstimatedDeliveryTime.UTC()
		o.estimatedDeliveryTime = &eta
	}

	placedAt := normalize(p.PlacedAt)
	o.timeline.PlacedAt = placedAt
	o.tracking.append(TrackingStatusOf(PendingPayment), placedAt, defaultMessages[PendingPayment], nil)
	return o, nil
}

// Validate ensures the Order was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) OrderNumber() string {
	return o.number
}

func (o *Order) CustomerRef() kernel.UUID {
	return o.customerRef
}

func (o *Order) RestaurantRef() kernel.UUID {
	return o.restaurantRef
}

func (o *Order) VendorRef() kernel.UUID {
	return o.vendorRef
}

// DriverRef returns nil until a driver is assigned.
func (o *Order) DriverRef() *kernel.UUID {
	if o.driverRef == nil {
		return nil
	}
	ref := *o.driverRef
	return &ref
}

func (o *Order) Category() string {
	return o.category
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) PaymentMethodRef() string {
	return o.paymentMethodRef
}

func (o *Order) Currency() string {
	return o.currency
}

func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

func (o *Order) Amounts() Amounts {
	return o.amounts
}

func (o *Order) TotalAmount() kernel.Money {
	return o.amounts.Total
}

func (o *Order) AppliedPromotions() []AppliedPromotion {
	return slices.Clone(o.promotions)
}

func (o *Order) DistanceMeters() int {
	return o.distanceMeters
}

func (o *Order) DeliveryAddress() kernel.Address {
	return o.address
}

func (o *Order) EstimatedDeliveryTime() *time.Time {
	return copyTime(o.estimatedDeliveryTime)
}

func (o *Order) ActualDeliveryTime() *time.Time {
	return copyTime(o.actualDeliveryTime)
}

// Tracking returns the order's tracking log.
func (o *Order) Tracking() TrackingLog {
	return o.tracking
}

func (o *Order) Timeline() Timeline {
	return o.timeline.clone()
}

func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

func (o *Order) CancelledBy() *Actor {
	if o.cancelledBy == nil {
		return nil
	}
	actor := *o.cancelledBy
	return &actor
}

// Settlement returns nil before the order is delivered.
func (o *Order) Settlement() *Settlement {
	if o.settlement == nil {
		return nil
	}
	return o.settlement.clone()
}

func (o *Order) Review() *Review {
	if o.review == nil {
		return nil
	}
	review := *o.review
	return &review
}

func (o *Order) ReviewSubmitted() bool {
	return o.review != nil
}

// Version is the optimistic concurrency token of the stored copy this order was loaded from.
func (o *Order) Version() int64 {
	return o.version
}

// AdvanceVersion is called by stores after a successful conditional write.
func (o *Order) AdvanceVersion() int64 {
	o.version++
	return o.version
}

// Events returns the domain events raised since the last ClearEvents.
func (o *Order) Events() []StatusChanged {
	return slices.Clone(o.events)
}

func (o *Order) ClearEvents() {
	o.events = nil
}

// RecipientRefs lists every party that should hear about a status change.
func (o *Order) RecipientRefs() []kernel.UUID {
	refs := []kernel.UUID{o.customerRef, o.restaurantRef}
	if !o.vendorRef.IsEqual(o.restaurantRef) {
		refs = append(refs, o.vendorRef)
	}
	if o.driverRef != nil {
		refs = append(refs, *o.driverRef)
	}
	return refs
}

// AssignDriver records the driver chosen by dispatch. It is allowed while the
// order is confirmed, preparing or ready for pickup, may replace an earlier
// driver, and never changes the status.
func (o *Order) AssignDriver(driverRef kernel.UUID, at time.Time) error {
	if err := o.ensureMutable("assign driver"); err != nil {
		return err
	}
	if err := driverRef.Validate(); err != nil {
		return err
	}
	if !o.status.AcceptsDriver() {
		return errs.NewMissingPreconditionError(
			fmt.Sprintf("status confirmed, preparing or ready_for_pickup to assign a driver, order is %s", o.status))
	}
	if o.driverRef != nil && o.driverRef.IsEqual(driverRef) {
		return nil
	}

	message := "driver assigned"
	if o.driverRef != nil {
		message = "driver reassigned"
	}
	ts := o.tracking.clamp(normalize(at))
	o.driverRef = &driverRef
	o.timeline.DriverAssignedAt = &ts
	o.tracking.append(TrackingInformational, ts, message, nil)
	return nil
}

// PaymentResult is what the payment collaborator reports back.
type PaymentResult struct {
	Status    PaymentStatus
	Reference string
	Reason    string
	Actor     Actor
	At        time.Time
}

// RecordPayment applies a payment outcome.
//   - paid moves a pending_payment order to pending in the same step; a repeated
//     paid report is ignored
//   - failed keeps the order in pending_payment and logs an informational entry
//   - refunded is accepted only for a paid order that is already delivered or cancelled
func (o *Order) RecordPayment(result PaymentResult) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := result.Status.Validate(); err != nil {
		return err
	}

	switch result.Status {
	case PaymentPaid:
		if o.paymentStatus == PaymentPaid {
			return nil
		}
		if err := o.ensureMutable("record payment"); err != nil {
			return err
		}
		if o.status != PendingPayment {
			return errs.NewInvalidStateTransitionError(o.status.String(), Pending.String())
		}
		if err := result.Actor.Validate(); err != nil {
			return err
		}
		previous := o.paymentStatus
		o.paymentStatus = PaymentPaid
		err := o.ApplyTransition(Pending, TransitionContext{
			Actor:   result.Actor,
			Message: paymentMessage("payment confirmed", result.Reference),
			At:      result.At,
		})
		if err != nil {
			o.paymentStatus = previous
			return err
		}
		last, _ := o.tracking.Last()
		o.timeline.PaidAt = &last.Timestamp
		return nil

	case PaymentFailed:
		if err := o.ensureMutable("record payment failure"); err != nil {
			return err
		}
		if o.status != PendingPayment {
			return errs.NewInvalidStateTransitionError(o.paymentStatus.String(), PaymentFailed.String())
		}
		o.paymentStatus = PaymentFailed
		o.tracking.append(TrackingInformational, normalize(result.At),
			paymentMessage("payment failed", result.Reason), nil)
		return nil

	case PaymentRefunded:
		if o.paymentStatus != PaymentPaid || !o.status.IsTerminal() {
			return errs.NewMissingPreconditionError("a paid order that is delivered or cancelled to refund")
		}
		o.paymentStatus = PaymentRefunded
		return nil

	default:
		return errs.NewInvalidStateTransitionError(o.paymentStatus.String(), result.Status.String())
	}
}

// AddTrackingPing appends an informational entry without changing the status.
func (o *Order) AddTrackingPing(message string, location *kernel.GeoPoint, at time.Time) error {
	if err := o.ensureMutable("add tracking ping"); err != nil {
		return err
	}
	if strings.TrimSpace(message) == "" {
		return errs.NewValueIsRequiredError("message")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}
	o.tracking.append(TrackingInformational, normalize(at), message, location)
	return nil
}

// SetTip sets or replaces the tip and recomputes the total. On a delivered
// order the settlement is frozen, so the tip is recorded once as
// PostDeliveryTip and neither the total nor the settlement changes.
func (o *Order) SetTip(tip kernel.Money) error {
	if o.status == Delivered {
		return o.addPostDeliveryTip(tip)
	}
	if err := o.ensureMutable("set tip"); err != nil {
		return err
	}
	if tip.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("tip", fmt.Errorf("%s is negative", tip))
	}
	o.amounts.Tip = tip
	o.amounts.Total = pricing.GrandTotal(
		o.amounts.Subtotal, o.amounts.Taxes, o.amounts.DeliveryFee, o.amounts.ServiceFee, tip, o.amounts.Discount)
	return nil
}

func (o *Order) addPostDeliveryTip(tip kernel.Money) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if tip.IsNegative() || tip.IsZero() {
		return errs.NewValueIsInvalidErrorWithCause("tip", fmt.Errorf("%s is not positive", tip))
	}
	if !o.amounts.PostDeliveryTip.IsZero() {
		return errs.NewMissingPreconditionError("post-delivery tip not yet added")
	}
	o.amounts.PostDeliveryTip = tip
	return nil
}

// SubmitReview stores the customer's ratings. Reviews are accepted once, on delivered orders only.
func (o *Order) SubmitReview(review Review) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Delivered {
		return errs.NewMissingPreconditionError(fmt.Sprintf("delivered order to review, order is %s", o.status))
	}
	if o.review != nil {
		return errs.NewMissingPreconditionError("review not yet submitted")
	}
	if err := review.Validate(); err != nil {
		return err
	}
	review.SubmittedAt = normalize(review.SubmittedAt)
	o.review = &review
	return nil
}

func (o *Order) ensureMutable(operation string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewAlreadyTerminalError(o.id.String(), o.status.String(), operation)
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setParties(customer, restaurant, vendor kernel.UUID) error {
	var problems []error
	for name, ref := range map[string]kernel.UUID{
		"customer ref":   customer,
		"restaurant ref": restaurant,
		"vendor ref":     vendor,
	} {
		if err := ref.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause(name, err))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}
	o.customerRef = customer
	o.restaurantRef = restaurant
	o.vendorRef = vendor
	return nil
}

func (o *Order) setCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	o.currency = currency
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = slices.Clone(items)
	return nil
}

func normalize(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now().UTC()
	}
	return at.UTC()
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func paymentMessage(base, detail string) string {
	if detail == "" {
		return base
	}
	return base + ": " + detail
}
