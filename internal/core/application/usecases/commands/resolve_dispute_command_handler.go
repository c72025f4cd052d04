package commands

import (
	"context"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/domain/events"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
)

// ResolveDisputeCommandHandler executes mediation verdicts: the frozen escrow
// is split between the parties, the dispute closes, and the order reaches its
// terminal status, all in one transaction.
type ResolveDisputeCommandHandler struct {
	uowFactory DisputeUoWFactory
	ledger     ledger.Service
}

// NewResolveDisputeCommandHandler creates a handler for dispute resolution.
func NewResolveDisputeCommandHandler(uowFactory DisputeUoWFactory, ledgerSvc ledger.Service) ResolveDisputeCommandHandler {
	return ResolveDisputeCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledgerSvc,
	}
}

// Handle applies the verdict. The buyer's share plus the vendor's share must
// equal the frozen escrow exactly; the dispute aggregate rejects anything
// else. Each settlement credit carries its own idempotency key, so a retried
// resolution replays instead of paying twice. A full-refund verdict marks the
// order refunded; any vendor payout, full or split, marks it completed.
func (h *ResolveDisputeCommandHandler) Handle(ctx context.Context, cmd ResolveDisputeCommand) error {
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

	disputeRepo := uow.DisputeRepository()
	disputeAggregate, err := disputeRepo.GetForUpdate(ctx, cmd.DisputeID())
	if err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	orderAggregate, err := orderRepo.GetForUpdate(ctx, disputeAggregate.OrderID())
	if err != nil {
		return err
	}

	escrow := orderAggregate.EscrowAmount()
	toBuyer, err := kernel.NewMoney(cmd.AmountToBuyer(), escrow.Currency())
	if err != nil {
		return err
	}
	toVendor, err := kernel.NewMoney(cmd.AmountToVendor(), escrow.Currency())
	if err != nil {
		return err
	}

	if err = disputeAggregate.Resolve(cmd.Outcome(), toBuyer, toVendor, escrow); err != nil {
		return err
	}

	walletRepo := uow.WalletRepository()
	orderKey := orderAggregate.ID().String()
	if toBuyer.IsPositive() {
		_, err = h.ledger.Credit(ctx, walletRepo, orderAggregate.BuyerID(),
			toBuyer, "dispute-refund", orderKey+":dispute-buyer")
		if err != nil {
			return err
		}
	}
	if toVendor.IsPositive() {
		_, err = h.ledger.Credit(ctx, walletRepo, orderAggregate.VendorID(),
			toVendor, "dispute-payout", orderKey+":dispute-vendor")
		if err != nil {
			return err
		}
	}

	terminal := order.Completed
	if cmd.Outcome() == dispute.ResolvedBuyer {
		terminal = order.Refunded
	}
	if err = orderAggregate.SettleDispute(terminal); err != nil {
		return err
	}

	if err = disputeRepo.Update(ctx, disputeAggregate); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, orderAggregate); err != nil {
		return err
	}

	err = uow.EventPublisher().Publish(ctx, events.DisputeResolved{
		DisputeID:      disputeAggregate.ID(),
		OrderID:        orderAggregate.ID(),
		Outcome:        cmd.Outcome().String(),
		AmountToBuyer:  toBuyer.Amount(),
		AmountToVendor: toVendor.Amount(),
	})
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
