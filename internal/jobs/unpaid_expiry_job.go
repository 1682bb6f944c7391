package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderengine/internal/core/application/usecases/commands"
)

// UnpaidExpiryJob cancels orders left in pending_payment longer than the
// payment TTL.
type UnpaidExpiryJob struct {
	handler   commands.ExpireUnpaidOrdersCommandHandler
	schedule  string
	ttl       time.Duration
	limit     int
	now       func() time.Time
	scheduler *scheduler
	logger    *slog.Logger
}

func NewUnpaidExpiryJob(
	handler commands.ExpireUnpaidOrdersCommandHandler,
	schedule string,
	ttl time.Duration,
	limit int,
	logger *slog.Logger,
) *UnpaidExpiryJob {
	logger = logger.With("component", "unpaid_expiry_job")
	return &UnpaidExpiryJob{
		handler:   handler,
		schedule:  schedule,
		ttl:       ttl,
		limit:     limit,
		now:       time.Now,
		scheduler: newScheduler(logger),
		logger:    logger,
	}
}

// RunOnce expires one batch as of now and returns how many orders were cancelled.
func (j *UnpaidExpiryJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewExpireUnpaidOrdersCommand(j.now(), j.ttl, j.limit)
	if err != nil {
		return 0, err
	}
	return j.handler.Handle(ctx, cmd)
}

func (j *UnpaidExpiryJob) Start() error {
	err := j.scheduler.start(j.schedule, func(ctx context.Context) {
		expired, err := j.RunOnce(ctx)
		if expired > 0 {
			j.logger.InfoContext(ctx, "Unpaid orders expired", "count", expired)
		}
		if err != nil && ctx.Err() == nil {
			j.logger.ErrorContext(ctx, "Unpaid order expiry failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.logger.Info("Unpaid expiry job started", "schedule", j.schedule, "ttl", j.ttl)
	return nil
}

func (j *UnpaidExpiryJob) Stop() {
	j.scheduler.stop()
	j.logger.Info("Unpaid expiry job stopped")
}
