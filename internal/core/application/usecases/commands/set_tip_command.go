package commands

import (
	"errors"
	"fmt"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	ErrSetTipCommandIsNotConstructed = errors.New(
		"SetTipCommand must be created via NewSetTipCommand constructor",
	)
)

// SetTipCommand sets or replaces the customer's tip.
type SetTipCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	tip     kernel.Money

	guard guard.ConstructorGuard
}

func NewSetTipCommand(orderID kernel.UUID, tip kernel.Money) (SetTipCommand, error) {
	cmd := SetTipCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTip(tip),
	); err != nil {
		return SetTipCommand{}, err
	}

	return cmd, nil
}

func (c SetTipCommand) Validate() error {
	return c.guard.Validate(ErrSetTipCommandIsNotConstructed)
}

func (c SetTipCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SetTipCommand) Tip() kernel.Money {
	return c.tip
}

func (c *SetTipCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *SetTipCommand) setTip(tip kernel.Money) error {
	if tip.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("tip", fmt.Errorf("%s is negative", tip))
	}

	c.tip = tip
	return nil
}
