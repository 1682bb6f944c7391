package notify

import (
	"context"
	"log/slog"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
)

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ ports.NotificationPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "LogPublisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, events []order.StatusChanged) error {
	for _, event := range events {
		p.logger.InfoContext(ctx, "order status changed",
			"event_id", event.EventID.String(),
			"order_id", event.OrderID.String(),
			"order_number", event.OrderNumber,
			"from", event.PreviousStatus.String(),
			"to", event.NewStatus.String(),
			"actor", event.Actor.ID,
			"recipients", len(event.RecipientRefs),
		)
	}
	return nil
}
