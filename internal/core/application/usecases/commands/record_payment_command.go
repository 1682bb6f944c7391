package commands

import (
	"errors"
	"fmt"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	ErrRecordPaymentCommandIsNotConstructed = errors.New(
		"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
	)
)

// RecordPaymentCommand carries a payment outcome reported by the payment
// collaborator: paid, failed (with a reason) or refunded.
//
// Example:
//
//	cmd, err := NewRecordPaymentCommand(orderID, order.PaymentPaid, "ch_3PqL", "")
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd) // order is now pending
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	status    order.PaymentStatus
	reference string
	reason    string

	guard guard.ConstructorGuard
}

// NewRecordPaymentCommand creates a payment outcome. A failed outcome must
// say why; pending is not an outcome.
func NewRecordPaymentCommand(
	orderID kernel.UUID,
	status order.PaymentStatus,
	reference string,
	reason string,
) (RecordPaymentCommand, error) {
	cmd := RecordPaymentCommand{
		reference: strings.TrimSpace(reference),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOutcome(status, reason),
	); err != nil {
		return RecordPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordPaymentCommand) Status() order.PaymentStatus {
	return c.status
}

func (c RecordPaymentCommand) Reference() string {
	return c.reference
}

func (c RecordPaymentCommand) Reason() string {
	return c.reason
}

func (c *RecordPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RecordPaymentCommand) setOutcome(status order.PaymentStatus, reason string) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == order.PaymentPending {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%s is not an outcome", status))
	}

	reason = strings.TrimSpace(reason)
	if status == order.PaymentFailed && reason == "" {
		return errs.NewValueIsRequiredError("payment failure reason")
	}

	c.status = status
	c.reason = reason
	return nil
}
