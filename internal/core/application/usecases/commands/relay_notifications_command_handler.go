package commands

import (
	"context"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/ports"
)

// RelayNotificationsCommandHandler moves notifications from the outbox to the
// notification dispatcher. Delivery is at least once: a batch that was
// published but not marked is published again on the next run, so consumers
// deduplicate by event id.
type RelayNotificationsCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.NotificationPublisher
	now        func() time.Time
}

func NewRelayNotificationsCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.NotificationPublisher,
) RelayNotificationsCommandHandler {
	return RelayNotificationsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle returns how many notifications were published.
func (h RelayNotificationsCommandHandler) Handle(ctx context.Context, cmd RelayNotificationsCommand) (_ int, err error) {
	if err = cmd.Validate(); err != nil {
		return 0, err
	}

	ctx, span := startSpan(ctx, "RelayNotifications", kernel.UUID{})
	defer func() { endSpan(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()
	events, err := outbox.ListUnpublished(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	if err = h.publisher.Publish(ctx, events); err != nil {
		return 0, err
	}

	ids := make([]kernel.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.EventID)
	}
	if err = outbox.MarkPublished(ctx, ids, h.now().UTC()); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(events), nil
}
