package commands

import (
	"context"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/ports"
)

// TransferFundsCommandHandler executes wallet-to-wallet transfers. The heavy
// lifting lives in the ledger service's two-phase saga; the handler only
// validates and delegates.
type TransferFundsCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	ledger     ledger.Service
}

// NewTransferFundsCommandHandler creates a handler for wallet transfers.
func NewTransferFundsCommandHandler(uowFactory ports.UnitOfWorkFactory, ledgerSvc ledger.Service) TransferFundsCommandHandler {
	return TransferFundsCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledgerSvc,
	}
}

// Handle moves funds between two wallets. Retrying with the same idempotency
// key resumes or replays the saga without double movement.
func (h *TransferFundsCommandHandler) Handle(ctx context.Context, cmd TransferFundsCommand) (ledger.TransferResult, error) {
	if err := cmd.Validate(); err != nil {
		return ledger.TransferResult{}, err
	}

	return h.ledger.Transfer(ctx, h.uowFactory,
		cmd.FromUserID(), cmd.ToUserID(), cmd.Amount(), cmd.Reason(), cmd.IdempotencyKey())
}
