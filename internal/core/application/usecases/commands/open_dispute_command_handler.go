package commands

import (
	"context"
	"fmt"
	"time"

	"escrow/internal/core/domain/events"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"
)

// DefaultDisputeWindow is how long after delivery a party may still open a
// dispute. Once the window lapses the buyer's only remaining move is to
// confirm receipt.
const DefaultDisputeWindow = 7 * 24 * time.Hour

// OpenDisputeCommandHandler freezes an order's escrow pending mediation.
type OpenDisputeCommandHandler struct {
	uowFactory    DisputeUoWFactory
	disputeWindow time.Duration
}

// NewOpenDisputeCommandHandler creates a handler for opening disputes.
// A non-positive disputeWindow falls back to the default.
func NewOpenDisputeCommandHandler(uowFactory DisputeUoWFactory, disputeWindow time.Duration) OpenDisputeCommandHandler {
	if disputeWindow <= 0 {
		disputeWindow = DefaultDisputeWindow
	}
	return OpenDisputeCommandHandler{
		uowFactory:    uowFactory,
		disputeWindow: disputeWindow,
	}
}

// Handle opens the dispute and moves the order to disputed, freezing any
// release or refund. Only the order's buyer or vendor may dispute, at most one
// dispute may be unresolved per order, and a delivered order is disputable
// only within the dispute window.
func (h *OpenDisputeCommandHandler) Handle(ctx context.Context, cmd OpenDisputeCommand) error {
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

	if !aggregate.BuyerID().IsEqual(cmd.RaisedBy()) && !aggregate.VendorID().IsEqual(cmd.RaisedBy()) {
		return errs.NewPermissionDeniedError(cmd.RaisedBy().String(), "dispute this order")
	}

	if aggregate.Status() == order.Delivered {
		deadline := aggregate.UpdatedAt().Add(h.disputeWindow)
		if time.Now().UTC().After(deadline) {
			return errs.NewConflictError(fmt.Sprintf(
				"dispute window closed at %s", deadline.Format(time.RFC3339)))
		}
	}

	if err = aggregate.OpenDispute(); err != nil {
		return err
	}

	disputeAggregate, err := dispute.NewDispute(cmd.DisputeID(), cmd.OrderID(), cmd.RaisedBy(), cmd.Evidence())
	if err != nil {
		return err
	}

	if err = uow.DisputeRepository().Add(ctx, disputeAggregate); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	err = uow.EventPublisher().Publish(ctx, events.DisputeOpened{
		DisputeID: disputeAggregate.ID(),
		OrderID:   aggregate.ID(),
		RaisedBy:  cmd.RaisedBy(),
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
