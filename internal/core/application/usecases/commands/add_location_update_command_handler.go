package commands

import (
	"context"

	"escrow/internal/pkg/retry"
)

// AddLocationUpdateCommandHandler appends carrier position fixes to a
// delivery's location history. No event is emitted: fixes arrive at high
// volume and consumers poll tracking instead.
type AddLocationUpdateCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewAddLocationUpdateCommandHandler creates a handler for location updates.
func NewAddLocationUpdateCommandHandler(uowFactory DeliveryUoWFactory) AddLocationUpdateCommandHandler {
	return AddLocationUpdateCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records a location fix against the tracking record. Lost version
// races against concurrent tracking writes are retried with backoff.
func (h *AddLocationUpdateCommandHandler) Handle(ctx context.Context, cmd AddLocationUpdateCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retry.Transient(ctx, "location update", func() error {
		return h.handleOnce(ctx, cmd)
	})
}

func (h *AddLocationUpdateCommandHandler) handleOnce(ctx context.Context, cmd AddLocationUpdateCommand) error {
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

	err = record.AddLocationUpdate(cmd.Latitude(), cmd.Longitude(), cmd.Address(), cmd.AccuracyM(), cmd.RecordedAt())
	if err != nil {
		return err
	}

	if err = trackingRepo.Update(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
