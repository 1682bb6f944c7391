// Package jobs provides scheduled background tasks for the order engine.
//
// Jobs are cron-driven (github.com/robfig/cron/v3, six-field specs with
// seconds) and delegate all work to command handlers.
//
// # Available Jobs
//
// 1. NotificationRelayJob - publishes pending status-change notifications from the outbox
// 2. UnpaidExpiryJob - cancels orders whose payment never arrived within the payment TTL
//
// # Usage
//
//	jobManager := jobs.NewJobManager(cfg, relayHandler, expiryHandler, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Runs of the same job never overlap: a tick that fires while the previous
// run is still busy is skipped. Stopping a job cancels the context of the
// run in flight and waits for it to return.
//
// # Error Handling
//
// Failures are logged and the job keeps its schedule. Empty runs are silent.
package jobs
