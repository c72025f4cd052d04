package commands

import (
	"context"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/domain/events"
	"escrow/internal/pkg/errs"
)

// CancelOrderCommandHandler withdraws unshipped orders and refunds the escrow
// hold to the buyer in the same transaction.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	ledger     ledger.Service
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, ledgerSvc ledger.Service) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledgerSvc,
	}
}

// Handle cancels the order and credits the escrow back to the buyer. Only the
// buyer may cancel, and only before shipment; the status machine rejects
// anything later. A retried cancellation replays the refund instead of
// doubling it.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if !aggregate.BuyerID().IsEqual(cmd.ActorID()) {
		return errs.NewPermissionDeniedError(cmd.ActorID().String(), "cancel this order")
	}

	if err = aggregate.Cancel(); err != nil {
		return err
	}

	_, err = h.ledger.Credit(ctx, uow.WalletRepository(), aggregate.BuyerID(),
		aggregate.EscrowAmount(), "escrow-refund", aggregate.ID().String()+":refund")
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	err = uow.EventPublisher().Publish(ctx, events.OrderCancelled{
		OrderID:        aggregate.ID(),
		RefundedAmount: aggregate.EscrowAmount().Amount(),
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
