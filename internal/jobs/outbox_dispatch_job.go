package jobs

import (
	"context"
	"log/slog"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// outboxBatchSize caps how many messages one sweep drains. A busy system
// catches up across consecutive runs instead of holding one long scan.
const outboxBatchSize = 100

// OutboxDispatchJob periodically drains committed outbox messages to the
// notifier. Runs every second so event delivery lags commit by at most a tick.
type OutboxDispatchJob struct {
	reader   ports.OutboxReader
	notifier ports.Notifier
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOutboxDispatchJob creates the outbox dispatch job.
func NewOutboxDispatchJob(reader ports.OutboxReader, notifier ports.Notifier, logger *slog.Logger) *OutboxDispatchJob {
	return &OutboxDispatchJob{
		reader:   reader,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "outbox_dispatch_job"),
	}
}

// Start begins the dispatch job to run every second.
func (j *OutboxDispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		if err := j.dispatchOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox dispatch failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job started (running every second)")
	return nil
}

// Stop stops the dispatch job.
func (j *OutboxDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job stopped")
}

// dispatchOnce drains one batch. A message that fails to deliver is not marked
// sent and is retried on the next run; messages after it in the batch still go
// out, so one poisoned payload cannot stall the queue.
func (j *OutboxDispatchJob) dispatchOnce(ctx context.Context) error {
	msgs, err := j.reader.GetPending(ctx, outboxBatchSize)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}

	delivered := msgs[:0]
	for _, msg := range msgs {
		if err := j.notifier.Notify(ctx, msg); err != nil {
			j.logger.ErrorContext(ctx, "Event delivery failed",
				"event", msg.EventName, "messageId", msg.ID.String(), "error", err)
			continue
		}
		delivered = append(delivered, msg)
	}

	if len(delivered) == 0 {
		return nil
	}

	ids := make([]kernel.UUID, 0, len(delivered))
	for _, msg := range delivered {
		ids = append(ids, msg.ID)
	}
	return j.reader.MarkSent(ctx, ids)
}
