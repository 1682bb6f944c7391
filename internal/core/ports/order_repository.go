// Package ports defines the contracts between the order engine core and its
// adapters: persistence, configuration-backed catalogs, and outbound messaging.
package ports

import (
	"context"
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
)

// ErrOrderNumberTaken is returned by Add when the generated order number is
// already used. Callers regenerate the number and try again.
var ErrOrderNumberTaken = errors.New("order number is already taken")

// OrderRepository persists order aggregates with optimistic concurrency.
type OrderRepository interface {
	// Add persists a new order at version 1.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order only if the stored version still equals
	// expectedVersion, then advances the aggregate's version. A lost race
	// returns errs.ConcurrencyConflictError; a missing row returns
	// errs.ObjectNotFoundError. Tracking entries are only ever inserted.
	Update(ctx context.Context, aggregate *order.Order, expectedVersion int64) error

	// Get retrieves an order by id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-facing number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// ListActive returns paid orders that are not yet delivered or cancelled,
	// oldest first.
	ListActive(ctx context.Context, limit int) ([]*order.Order, error)

	// ListUnpaidPlacedBefore returns pending_payment orders placed before cutoff, oldest first.
	ListUnpaidPlacedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}
