// Package notify implements the Notifier port. The slog notifier stands in
// for an external dispatcher (push gateway, email service): it logs each
// drained outbox message with its payload. Swapping in a real dispatcher is a
// composition-root change only.
package notify

import (
	"context"
	"log/slog"

	"escrow/internal/core/ports"
)

// SlogNotifier writes notifications to the structured log.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier over the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger.With("component", "notifier")}
}

// Notify logs one outbox message. It never fails, so every drained message is
// marked sent after this returns.
func (n *SlogNotifier) Notify(ctx context.Context, msg ports.OutboxMessage) error {
	n.logger.InfoContext(ctx, "domain event dispatched",
		"event", msg.EventName,
		"aggregateId", msg.AggregateID.String(),
		"payload", string(msg.Payload),
	)
	return nil
}
