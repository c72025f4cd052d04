// Package jobs provides scheduled background tasks for the escrow system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the escrow core.
//
// # Available Jobs
//
// 1. OutboxDispatchJob - drains committed outbox messages to the notifier
// 2. TransferRecoveryJob - finalizes or reverses transfer legs left pending past the timeout
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(outboxReader, notifier, recoveryHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Both jobs log failures and leave the affected rows untouched: an undelivered
// outbox message stays pending and a stranded transfer leg stays pending, so
// the next sweep picks them up again. Failed job starts stop any already
// running jobs.
package jobs
