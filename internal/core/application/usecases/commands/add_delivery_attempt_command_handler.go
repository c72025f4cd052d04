package commands

import (
	"context"

	"escrow/internal/core/domain/events"
	"escrow/internal/pkg/retry"
)

// EscalationAttemptLimit is the number of failed delivery attempts after which
// a delivery is flagged for mediation. The flag is a notification only; no
// order or wallet state changes until a party actually opens a dispute.
const EscalationAttemptLimit = 3

// AddDeliveryAttemptCommandHandler records failed delivery attempts and raises
// the escalation signal when the attempt limit is reached.
type AddDeliveryAttemptCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewAddDeliveryAttemptCommandHandler creates a handler for failed attempts.
func NewAddDeliveryAttemptCommandHandler(uowFactory DeliveryUoWFactory) AddDeliveryAttemptCommandHandler {
	return AddDeliveryAttemptCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle appends the attempt. When the recorded attempts reach the escalation
// limit a DeliveryEscalated event is published alongside. Lost version races
// against concurrent tracking writes are retried with backoff.
func (h *AddDeliveryAttemptCommandHandler) Handle(ctx context.Context, cmd AddDeliveryAttemptCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retry.Transient(ctx, "delivery attempt", func() error {
		return h.handleOnce(ctx, cmd)
	})
}

func (h *AddDeliveryAttemptCommandHandler) handleOnce(ctx context.Context, cmd AddDeliveryAttemptCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	trackingRepo := uow.TrackingRepository()
	record, err := trackingRepo.Get(ctx, cmd.TrackingID())
	if err != nil {
		return err
	}

	count, err := record.AddDeliveryAttempt(cmd.Number(), cmd.Reason(), cmd.NextAttemptAt())
	if err != nil {
		return err
	}

	if err = trackingRepo.Update(ctx, record); err != nil {
		return err
	}

	if count >= EscalationAttemptLimit {
		err = uow.EventPublisher().Publish(ctx, events.DeliveryEscalated{
			TrackingID:   record.ID(),
			OrderID:      record.OrderID(),
			AttemptCount: count,
			LastReason:   cmd.Reason(),
		})
		if err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
