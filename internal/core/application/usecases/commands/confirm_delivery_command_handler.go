package commands

import (
	"context"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/domain/events"
)

// ConfirmDeliveryCommandHandler releases escrow to the vendor once the buyer
// confirms receipt. Status transition and vendor credit commit atomically.
type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	ledger     ledger.Service
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmation.
func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory, ledgerSvc ledger.Service) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledgerSvc,
	}
}

// Handle completes the order and credits the escrow amount to the vendor's
// wallet. The aggregate rejects anyone but the buyer, and the release is keyed
// per order, so a retried confirmation replays rather than double-pays.
func (h *ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	if err = aggregate.ConfirmDelivery(cmd.ActorID()); err != nil {
		return err
	}

	entry, err := h.ledger.Credit(ctx, uow.WalletRepository(), aggregate.VendorID(),
		aggregate.EscrowAmount(), "escrow-release", aggregate.ID().String()+":release")
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	err = uow.EventPublisher().Publish(ctx, events.FundsReleased{
		OrderID:       aggregate.ID(),
		VendorID:      aggregate.VendorID(),
		Amount:        aggregate.EscrowAmount().Amount(),
		TransactionID: entry.TransactionID,
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
