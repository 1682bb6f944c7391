package commands

import (
	"errors"
	"fmt"
	"time"

	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

// PaymentTimeoutReason is the cancellation reason of orders that were never paid.
const PaymentTimeoutReason = "payment_timeout"

var (
	ErrExpireUnpaidOrdersCommandIsNotConstructed = errors.New(
		"ExpireUnpaidOrdersCommand must be created via NewExpireUnpaidOrdersCommand constructor",
	)
)

// ExpireUnpaidOrdersCommand cancels orders that stayed in pending_payment
// longer than ttl as of asOf, at most limit of them per run.
type ExpireUnpaidOrdersCommand struct {
	asOf  time.Time
	ttl   time.Duration
	limit int

	guard guard.ConstructorGuard
}

func NewExpireUnpaidOrdersCommand(asOf time.Time, ttl time.Duration, limit int) (ExpireUnpaidOrdersCommand, error) {
	if ttl <= 0 {
		return ExpireUnpaidOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("ttl", fmt.Errorf("%s is not positive", ttl))
	}
	if limit <= 0 {
		return ExpireUnpaidOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("limit", fmt.Errorf("%d is not positive", limit))
	}
	if asOf.IsZero() {
		return ExpireUnpaidOrdersCommand{}, errs.NewValueIsRequiredError("asOf")
	}

	return ExpireUnpaidOrdersCommand{
		asOf:  asOf,
		ttl:   ttl,
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireUnpaidOrdersCommand) Validate() error {
	return c.guard.Validate(ErrExpireUnpaidOrdersCommandIsNotConstructed)
}

// Cutoff is the placement time before which unpaid orders expire.
func (c ExpireUnpaidOrdersCommand) Cutoff() time.Time {
	return c.asOf.Add(-c.ttl)
}

func (c ExpireUnpaidOrdersCommand) AsOf() time.Time {
	return c.asOf
}

func (c ExpireUnpaidOrdersCommand) Limit() int {
	return c.limit
}
