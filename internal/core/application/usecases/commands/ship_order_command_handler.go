package commands

import (
	"context"
	"time"

	"escrow/internal/core/domain/events"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/tracking"
	"escrow/internal/pkg/errs"
)

// ShipOrderCommandHandler marks funded orders as shipped and opens their
// delivery tracking record in the same transaction.
type ShipOrderCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewShipOrderCommandHandler creates a handler for shipping orders.
func NewShipOrderCommandHandler(uowFactory DeliveryUoWFactory) ShipOrderCommandHandler {
	return ShipOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle transitions the order to shipped and creates the tracking record with
// a freshly generated tracking number. Only the vendor may ship.
func (h *ShipOrderCommandHandler) Handle(ctx context.Context, cmd ShipOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !aggregate.VendorID().IsEqual(cmd.ActorID()) {
		return errs.NewPermissionDeniedError(cmd.ActorID().String(), "ship this order")
	}

	if err = aggregate.Ship(); err != nil {
		return err
	}

	record, err := tracking.NewDeliveryTracking(
		kernel.NewUUID(),
		aggregate.ID(),
		tracking.GenerateTrackingNumber(time.Now().UTC()),
		cmd.EstimatedDelivery(),
	)
	if err != nil {
		return err
	}

	if err = uow.TrackingRepository().Add(ctx, record); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	err = uow.EventPublisher().Publish(ctx, events.OrderShipped{
		OrderID:        aggregate.ID(),
		TrackingID:     record.ID(),
		TrackingNumber: record.TrackingNumber(),
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
