package jobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// scheduler runs one function on a cron spec. Each run gets a context that is
// cancelled by stop.
type scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newScheduler(logger *slog.Logger) *scheduler {
	return &scheduler{
		cron: cron.New(
			cron.WithParser(specParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
	}
}

func (s *scheduler) start(spec string, run func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := s.cron.AddFunc(spec, func() { run(ctx) }); err != nil {
		cancel()
		return err
	}

	s.cancel = cancel
	s.cron.Start()
	return nil
}

// stop cancels the run in flight, if any, and waits for it.
func (s *scheduler) stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-s.cron.Stop().Done()
}
