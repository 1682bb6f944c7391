package ports

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
)

// OutboxRepository stores StatusChanged notifications in the same transaction
// as the transition that raised them, so a notification exists if and only if
// the transition was committed.
type OutboxRepository interface {
	Append(ctx context.Context, events []order.StatusChanged) error

	// ListUnpublished returns pending notifications in the order they were raised.
	ListUnpublished(ctx context.Context, limit int) ([]order.StatusChanged, error)

	MarkPublished(ctx context.Context, eventIDs []kernel.UUID, at time.Time) error
}
