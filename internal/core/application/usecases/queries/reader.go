// Package queries contains read-only operations over orders.
// Implements the Query side of the CQRS architecture: handlers never modify
// state and never open a transaction.
package queries

import (
	"context"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
)

// OrderReader is the read side of the order store. Both the GORM repository
// and the in-memory store satisfy it outside of a transaction.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	GetByNumber(ctx context.Context, number string) (*order.Order, error)
	ListActive(ctx context.Context, limit int) ([]*order.Order, error)
}
