package commands

import (
	"context"
	"errors"

	"escrow/internal/core/domain/events"
	"escrow/internal/core/domain/model/tracking"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/retry"
)

// UpdateDeliveryStageCommandHandler records delivery progress. Stage changes
// never touch order status or money; they only feed tracking history and the
// stage-changed notification stream.
type UpdateDeliveryStageCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewUpdateDeliveryStageCommandHandler creates a handler for stage updates.
func NewUpdateDeliveryStageCommandHandler(uowFactory DeliveryUoWFactory) UpdateDeliveryStageCommandHandler {
	return UpdateDeliveryStageCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle advances the tracking record to the reported stage. Reporting the
// current stage again is a no-op that still succeeds; regression conflicts.
// Delivered is rejected here: completion carries proof and goes through its
// own command. The tracking read is unlocked, so a lost version race is
// retried with backoff instead of surfacing to the caller.
func (h *UpdateDeliveryStageCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryStageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.Stage() == tracking.Delivered {
		return errs.NewValueIsInvalidErrorWithCause("stage",
			errors.New("delivery completion requires proof; use the completion operation"))
	}

	return retry.Transient(ctx, "delivery stage update", func() error {
		return h.handleOnce(ctx, cmd)
	})
}

func (h *UpdateDeliveryStageCommandHandler) handleOnce(ctx context.Context, cmd UpdateDeliveryStageCommand) error {
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

	if err = record.UpdateStage(cmd.Stage(), cmd.Location(), cmd.Description(), cmd.Actor()); err != nil {
		return err
	}

	if err = trackingRepo.Update(ctx, record); err != nil {
		return err
	}

	err = uow.EventPublisher().Publish(ctx, events.StageChanged{
		TrackingID: record.ID(),
		OrderID:    record.OrderID(),
		Stage:      record.CurrentStage().String(),
		Location:   cmd.Location(),
		Actor:      cmd.Actor(),
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
