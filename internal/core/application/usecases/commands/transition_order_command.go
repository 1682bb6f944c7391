package commands

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
)

// TransitionOrderCommand asks to move an order to the next lifecycle status.
// Vendors confirm, prepare and mark orders ready; drivers pick up and deliver;
// any party may cancel before pickup with a reason.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.Confirmed,
//	    order.Actor{ID: vendorID.String(), Role: order.RoleVendor})
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	target             order.Status
	actor              order.Actor
	message            string
	location           *kernel.GeoPoint
	cancellationReason string

	guard guard.ConstructorGuard
}

// TransitionOption sets an optional field of a TransitionOrderCommand.
type TransitionOption func(*TransitionOrderCommand) error

// WithMessage overrides the default tracking message.
func WithMessage(message string) TransitionOption {
	return func(c *TransitionOrderCommand) error {
		c.message = strings.TrimSpace(message)
		return nil
	}
}

// WithLocation attaches where the transition happened.
func WithLocation(location kernel.GeoPoint) TransitionOption {
	return func(c *TransitionOrderCommand) error {
		if err := location.Validate(); err != nil {
			return err
		}
		c.location = &location
		return nil
	}
}

// WithCancellationReason is required when the target is cancelled.
func WithCancellationReason(reason string) TransitionOption {
	return func(c *TransitionOrderCommand) error {
		c.cancellationReason = strings.TrimSpace(reason)
		return nil
	}
}

// NewTransitionOrderCommand creates a transition request. Whether the move is
// allowed is decided by the order itself when the command is handled.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actor order.Actor,
	opts ...TransitionOption,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	errList := []error{
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	}
	for _, opt := range opts {
		errList = append(errList, opt(&cmd))
	}
	if err := errors.Join(errList...); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

func (c TransitionOrderCommand) Actor() order.Actor {
	return c.actor
}

func (c TransitionOrderCommand) Message() string {
	return c.message
}

func (c TransitionOrderCommand) Location() *kernel.GeoPoint {
	if c.location == nil {
		return nil
	}
	loc := *c.location
	return &loc
}

func (c TransitionOrderCommand) CancellationReason() string {
	return c.cancellationReason
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setActor(actor order.Actor) error {
	if actor.IsZero() {
		return errs.NewValueIsRequiredError("actor")
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
