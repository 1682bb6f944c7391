package jobs

import (
	"fmt"
	"log/slog"

	"orderengine/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	relayJob  *NotificationRelayJob
	expiryJob *UnpaidExpiryJob
}

func NewJobManager(
	cfg Config,
	relayHandler commands.RelayNotificationsCommandHandler,
	expireHandler commands.ExpireUnpaidOrdersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		relayJob:  NewNotificationRelayJob(relayHandler, cfg.RelaySchedule, cfg.RelayBatchSize, logger),
		expiryJob: NewUnpaidExpiryJob(expireHandler, cfg.ExpirySchedule, cfg.PaymentTTL, cfg.ExpiryBatchSize, logger),
	}
}

func (jm *JobManager) RelayJob() *NotificationRelayJob {
	return jm.relayJob
}

func (jm *JobManager) ExpiryJob() *UnpaidExpiryJob {
	return jm.expiryJob
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.relayJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification relay job: %w", err)
	}

	if err := jm.expiryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.relayJob.Stop()
		return fmt.Errorf("failed to start unpaid expiry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for runs in flight.
func (jm *JobManager) StopAll() {
	jm.expiryJob.Stop()
	jm.relayJob.Stop()
}
