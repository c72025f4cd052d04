package jobs

import (
	"fmt"
	"log/slog"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxDispatchJob   *OutboxDispatchJob
	transferRecoveryJob *TransferRecoveryJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	outboxReader ports.OutboxReader,
	notifier ports.Notifier,
	recoveryHandler commands.RecoverPendingTransfersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxDispatchJob:   NewOutboxDispatchJob(outboxReader, notifier, logger),
		transferRecoveryJob: NewTransferRecoveryJob(recoveryHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox dispatch job: %w", err)
	}

	if err := jm.transferRecoveryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxDispatchJob.Stop()
		return fmt.Errorf("failed to start transfer recovery job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxDispatchJob.Stop()
	jm.transferRecoveryJob.Stop()
}
