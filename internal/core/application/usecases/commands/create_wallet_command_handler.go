package commands

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/wallet"
)

// CreateWalletCommandHandler opens wallets at account creation.
type CreateWalletCommandHandler struct {
	uowFactory WalletUoWFactory
}

// NewCreateWalletCommandHandler creates a handler for wallet creation.
func NewCreateWalletCommandHandler(uowFactory WalletUoWFactory) CreateWalletCommandHandler {
	return CreateWalletCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle opens an empty wallet for the user. A second wallet for the same user
// surfaces as a conflict from the repository's unique constraint.
func (h *CreateWalletCommandHandler) Handle(ctx context.Context, cmd CreateWalletCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	aggregate, err := wallet.NewWallet(kernel.NewUUID(), cmd.UserID(), cmd.Currency())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.WalletRepository().Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return aggregate.ID(), nil
}
