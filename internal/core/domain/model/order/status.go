package order

import (
	"fmt"
	"slices"

	"orderengine/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// The valid transition graph is defined once, in transitions below:
//
//	pending_payment ──> pending ──> confirmed ──> preparing ──> ready_for_pickup ──> picked_up ──> delivered
//	       │               │            │             │                │
//	       └───────────────┴────────────┴─────────────┴────────────────┴──> cancelled
//
// delivered and cancelled are terminal. There is no cancellation after pickup;
// those cases belong to the dispute/refund flow.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingPayment is the initial status; the charge has not been confirmed yet.
	PendingPayment

	// Pending means the order is paid and waits for the vendor.
	Pending

	// Confirmed means the vendor accepted the order.
	Confirmed

	// Preparing means the kitchen started working on the order.
	Preparing

	// ReadyForPickup means the food waits for the driver.
	ReadyForPickup

	// PickedUp means the driver has the food.
	PickedUp

	// Delivered is terminal and the only status with a settlement.
	Delivered

	// Cancelled is terminal.
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:        "unknown",
	PendingPayment: "pending_payment",
	Pending:        "pending",
	Confirmed:      "confirmed",
	Preparing:      "preparing",
	ReadyForPickup: "ready_for_pickup",
	PickedUp:       "picked_up",
	Delivered:      "delivered",
	Cancelled:      "cancelled",
}

//nolint:exhaustive // terminal and unknown statuses have no successors
var transitions = map[Status][]Status{
	PendingPayment: {Pending, Cancelled},
	Pending:        {Confirmed, Cancelled},
	Confirmed:      {Preparing, Cancelled},
	Preparing:      {ReadyForPickup, Cancelled},
	ReadyForPickup: {PickedUp, Cancelled},
	PickedUp:       {Delivered},
}

// AllStatuses lists the eight real statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{PendingPayment, Pending, Confirmed, Preparing, ReadyForPickup, PickedUp, Delivered, Cancelled}
}

// ParseStatus converts the wire name (e.g. "ready_for_pickup") into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of the eight real statuses.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, or "unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Successors returns the statuses directly reachable from s.
func (s Status) Successors() []Status {
	return slices.Clone(transitions[s])
}

// CanTransitionTo reports whether target is a direct successor of s.
func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(transitions[s], target)
}

// AcceptsDriver reports whether a driver may be assigned in s.
func (s Status) AcceptsDriver() bool {
	return s == Confirmed || s == Preparing || s == ReadyForPickup
}

// IsActive reports whether the order is paid and still in progress.
func (s Status) IsActive() bool {
	return s >= Pending && s <= PickedUp
}

// PaymentStatus tracks the charge as reported by the payment collaborator.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentUnknown:  "unknown",
	PaymentPending:  "pending",
	PaymentPaid:     "paid",
	PaymentFailed:   "failed",
	PaymentRefunded: "refunded",
}

// ParsePaymentStatus converts the wire name into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, name := range paymentStatusNames {
		if status != PaymentUnknown && name == s {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

func (p PaymentStatus) String() string {
	if name, ok := paymentStatusNames[p]; ok {
		return name
	}
	return paymentStatusNames[PaymentUnknown]
}

func (p PaymentStatus) Validate() error {
	if p <= PaymentUnknown || p > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func (p PaymentStatus) MarshalText() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return []byte(p.String()), nil
}

func (p *PaymentStatus) UnmarshalText(data []byte) error {
	parsed, err := ParsePaymentStatus(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
