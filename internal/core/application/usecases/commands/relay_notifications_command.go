package commands

import (
	"errors"
	"fmt"

	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var (
	ErrRelayNotificationsCommandIsNotConstructed = errors.New(
		"RelayNotificationsCommand must be created via NewRelayNotificationsCommand constructor",
	)
)

// RelayNotificationsCommand publishes up to batchSize pending status-change
// notifications from the outbox.
type RelayNotificationsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewRelayNotificationsCommand(batchSize int) (RelayNotificationsCommand, error) {
	if batchSize <= 0 {
		return RelayNotificationsCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"batch size", fmt.Errorf("%d is not positive", batchSize))
	}

	return RelayNotificationsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrRelayNotificationsCommandIsNotConstructed)
}

func (c RelayNotificationsCommand) BatchSize() int {
	return c.batchSize
}
