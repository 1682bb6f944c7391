package commands

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	ErrAddTrackingPingCommandIsNotConstructed = errors.New(
		"AddTrackingPingCommand must be created via NewAddTrackingPingCommand constructor",
	)
)

// AddTrackingPingCommand adds an informational entry such as
// "driver 2 minutes away" to an order's tracking log.
type AddTrackingPingCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	message  string
	location *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewAddTrackingPingCommand creates a ping. The location is optional.
func NewAddTrackingPingCommand(orderID kernel.UUID, message string, location *kernel.GeoPoint) (AddTrackingPingCommand, error) {
	cmd := AddTrackingPingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMessage(message),
		cmd.setLocation(location),
	); err != nil {
		return AddTrackingPingCommand{}, err
	}

	return cmd, nil
}

func (c AddTrackingPingCommand) Validate() error {
	return c.guard.Validate(ErrAddTrackingPingCommandIsNotConstructed)
}

func (c AddTrackingPingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AddTrackingPingCommand) Message() string {
	return c.message
}

func (c AddTrackingPingCommand) Location() *kernel.GeoPoint {
	if c.location == nil {
		return nil
	}
	loc := *c.location
	return &loc
}

func (c *AddTrackingPingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AddTrackingPingCommand) setMessage(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}

	c.message = message
	return nil
}

func (c *AddTrackingPingCommand) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}

	loc := *location
	c.location = &loc
	return nil
}
