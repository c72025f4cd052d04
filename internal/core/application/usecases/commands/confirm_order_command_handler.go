package commands

import (
	"context"

	"escrow/internal/core/domain/events"
	"escrow/internal/pkg/errs"
)

// ConfirmOrderCommandHandler processes vendor acceptance of pending orders.
type ConfirmOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewConfirmOrderCommandHandler creates a handler for order acceptance.
func NewConfirmOrderCommandHandler(uowFactory OrderUoWFactory) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle moves the order from pending confirmation to escrow funded. Only the
// order's vendor may accept it.
func (h *ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) error {
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
		return errs.NewPermissionDeniedError(cmd.ActorID().String(), "confirm this order")
	}

	if err = aggregate.Confirm(); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	err = uow.EventPublisher().Publish(ctx, events.OrderConfirmed{
		OrderID:  aggregate.ID(),
		VendorID: aggregate.VendorID(),
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
