package jobs

import (
	"context"
	"log/slog"

	"escrow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TransferRecoveryJob periodically sweeps transfer debit legs left pending
// past the timeout, completing the ones whose credit landed and reversing the
// rest. Runs every minute; the sweep itself re-validates every leg under a row
// lock, so overlap with live transfers is safe.
type TransferRecoveryJob struct {
	handler commands.RecoverPendingTransfersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewTransferRecoveryJob creates the recovery sweep job.
func NewTransferRecoveryJob(handler commands.RecoverPendingTransfersCommandHandler, logger *slog.Logger) *TransferRecoveryJob {
	return &TransferRecoveryJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "transfer_recovery_job"),
	}
}

// Start begins the recovery job to run every minute.
func (j *TransferRecoveryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRecoverPendingTransfersCommand()

		recovered, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Transfer recovery sweep failed", "error", err)
			return
		}
		if recovered > 0 {
			j.logger.InfoContext(ctx, "Recovered stranded transfer legs", "count", recovered)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Transfer recovery job started (running every minute)")
	return nil
}

// Stop stops the recovery job.
func (j *TransferRecoveryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Transfer recovery job stopped")
}
