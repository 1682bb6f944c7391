package jobs

import (
	"context"
	"log/slog"

	"orderengine/internal/core/application/usecases/commands"
)

// NotificationRelayJob drains the notification outbox on a schedule.
type NotificationRelayJob struct {
	handler   commands.RelayNotificationsCommandHandler
	schedule  string
	batchSize int
	scheduler *scheduler
	logger    *slog.Logger
}

func NewNotificationRelayJob(
	handler commands.RelayNotificationsCommandHandler,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *NotificationRelayJob {
	logger = logger.With("component", "notification_relay_job")
	return &NotificationRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		scheduler: newScheduler(logger),
		logger:    logger,
	}
}

// RunOnce relays a single batch and returns how many notifications went out.
func (j *NotificationRelayJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewRelayNotificationsCommand(j.batchSize)
	if err != nil {
		return 0, err
	}
	return j.handler.Handle(ctx, cmd)
}

func (j *NotificationRelayJob) Start() error {
	err := j.scheduler.start(j.schedule, func(ctx context.Context) {
		published, err := j.RunOnce(ctx)
		if err != nil {
			if ctx.Err() == nil {
				j.logger.ErrorContext(ctx, "Notification relay failed", "error", err)
			}
			return
		}
		if published > 0 {
			j.logger.DebugContext(ctx, "Notifications relayed", "count", published)
		}
	})
	if err != nil {
		return err
	}

	j.logger.Info("Notification relay job started", "schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

func (j *NotificationRelayJob) Stop() {
	j.scheduler.stop()
	j.logger.Info("Notification relay job stopped")
}
