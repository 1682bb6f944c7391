package order

import (
	"fmt"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// Role is the kind of party driving a change.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleDriver   Role = "driver"
	RoleSystem   Role = "system"
	RolePayment  Role = "payment"
	RoleSupport  Role = "support"
)

func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleVendor, RoleDriver, RoleSystem, RolePayment, RoleSupport:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("actor role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// Actor identifies who applied a transition.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// SystemActor is used by scheduled jobs.
var SystemActor = Actor{ID: "orderengine", Role: RoleSystem}

func (a Actor) IsZero() bool {
	return a.ID == "" && a.Role == ""
}

func (a Actor) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errs.NewValueIsRequiredError("actor id")
	}
	return a.Role.Validate()
}

// StatusChangedEventName is the topic-facing name of StatusChanged.
const StatusChangedEventName = "orders.order.status_changed"

// StatusChanged is raised by every successful transition and consumed by
// the notification dispatcher.
type StatusChanged struct {
	EventID        kernel.UUID   `json:"eventId"`
	OrderID        kernel.UUID   `json:"orderId"`
	OrderNumber    string        `json:"orderNumber"`
	PreviousStatus Status        `json:"previousStatus"`
	NewStatus      Status        `json:"newStatus"`
	Timestamp      time.Time     `json:"timestamp"`
	RecipientRefs  []kernel.UUID `json:"recipientRefs"`
	Actor          Actor         `json:"actor"`
}

func (StatusChanged) EventName() string {
	return StatusChangedEventName
}
