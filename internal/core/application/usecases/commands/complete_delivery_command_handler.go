package commands

import (
	"context"

	"escrow/internal/core/domain/events"
	"escrow/internal/pkg/retry"
)

// CompleteDeliveryCommandHandler finalizes deliveries: the tracking record
// becomes terminal and the order moves to delivered in the same transaction.
// Money deliberately does not move here.
type CompleteDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(uowFactory DeliveryUoWFactory) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the proof, moves tracking to Delivered, and transitions the
// order to delivered. From there the buyer either confirms receipt, which
// releases the escrow, or opens a dispute. Lost version races against
// concurrent tracking writes are retried with backoff.
func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return retry.Transient(ctx, "delivery completion", func() error {
		return h.handleOnce(ctx, cmd)
	})
}

func (h *CompleteDeliveryCommandHandler) handleOnce(ctx context.Context, cmd CompleteDeliveryCommand) error {
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

	if err = record.CompleteDelivery(cmd.Proof()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, record.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.MarkDelivered(); err != nil {
		return err
	}

	if err = trackingRepo.Update(ctx, record); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	err = uow.EventPublisher().Publish(ctx, events.OrderDelivered{
		TrackingID:  record.ID(),
		OrderID:     aggregate.ID(),
		DeliveredTo: cmd.Proof().DeliveredTo,
		DeliveredAt: *record.ActualDeliveryDate(),
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
