package commands

import (
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/guard"
)

var (
	ErrAssignDriverCommandIsNotConstructed = errors.New(
		"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
	)
)

// AssignDriverCommand is how driver dispatch reports the driver it picked for
// an order. Dispatch heuristics live outside the engine.
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	driverRef kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignDriverCommand creates a driver assignment request.
func NewAssignDriverCommand(orderID, driverRef kernel.UUID) (AssignDriverCommand, error) {
	cmd := AssignDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverRef(driverRef),
	); err != nil {
		return AssignDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignDriverCommand) DriverRef() kernel.UUID {
	return c.driverRef
}

func (c *AssignDriverCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignDriverCommand) setDriverRef(driverRef kernel.UUID) error {
	if err := driverRef.Validate(); err != nil {
		return err
	}

	c.driverRef = driverRef
	return nil
}
