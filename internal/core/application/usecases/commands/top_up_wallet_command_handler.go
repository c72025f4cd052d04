package commands

import (
	"context"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/domain/events"
	"escrow/internal/pkg/retry"
)

// TopUpWalletCommandHandler credits wallets from verified payment events.
// Gateways redeliver webhooks, so the whole unit is keyed on the gateway
// reference and retried on transient storage races.
type TopUpWalletCommandHandler struct {
	uowFactory WalletUoWFactory
	ledger     ledger.Service
}

// NewTopUpWalletCommandHandler creates a handler for wallet top-ups.
func NewTopUpWalletCommandHandler(uowFactory WalletUoWFactory, ledgerSvc ledger.Service) TopUpWalletCommandHandler {
	return TopUpWalletCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledgerSvc,
	}
}

// Handle credits the wallet once per gateway reference. Redelivered events
// replay the original credit without a second mutation. Lost storage races are
// retried with backoff before the webhook is failed back to the gateway.
func (h *TopUpWalletCommandHandler) Handle(ctx context.Context, cmd TopUpWalletCommand) (ledger.Entry, error) {
	if err := cmd.Validate(); err != nil {
		return ledger.Entry{}, err
	}

	var entry ledger.Entry
	err := retry.Transient(ctx, "wallet top-up", func() error {
		var unitErr error
		entry, unitErr = h.handleOnce(ctx, cmd)
		return unitErr
	})
	return entry, err
}

func (h *TopUpWalletCommandHandler) handleOnce(ctx context.Context, cmd TopUpWalletCommand) (ledger.Entry, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ledger.Entry{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	walletRepo := uow.WalletRepository()
	entry, err := h.ledger.Credit(ctx, walletRepo, cmd.UserID(), cmd.Amount(), "topup", "topup:"+cmd.Reference())
	if err != nil {
		return ledger.Entry{}, err
	}

	if !entry.Replayed {
		aggregate, walletErr := walletRepo.GetByUserID(ctx, cmd.UserID())
		if walletErr != nil {
			return ledger.Entry{}, walletErr
		}

		err = uow.EventPublisher().Publish(ctx, events.WalletToppedUp{
			WalletID: aggregate.ID(),
			UserID:   cmd.UserID(),
			Amount:   cmd.Amount().Amount(),
		})
		if err != nil {
			return ledger.Entry{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ledger.Entry{}, err
	}

	return entry, nil
}
