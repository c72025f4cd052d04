package commands

import (
	"context"
	"time"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/ports"
)

// RecoverPendingTransfersCommandHandler drives the transfer recovery sweep.
// Scheduled by the job manager; safe to run concurrently with live transfers
// because every step re-validates leg state under its own transaction.
type RecoverPendingTransfersCommandHandler struct {
	uowFactory     ports.UnitOfWorkFactory
	ledger         ledger.Service
	pendingTimeout time.Duration
}

// NewRecoverPendingTransfersCommandHandler creates a handler for the sweep.
// pendingTimeout is how long a debit leg may stay pending before it is
// considered stranded.
func NewRecoverPendingTransfersCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	ledgerSvc ledger.Service,
	pendingTimeout time.Duration,
) RecoverPendingTransfersCommandHandler {
	return RecoverPendingTransfersCommandHandler{
		uowFactory:     uowFactory,
		ledger:         ledgerSvc,
		pendingTimeout: pendingTimeout,
	}
}

// Handle finalizes or reverses all stranded legs and returns how many were touched.
func (h *RecoverPendingTransfersCommandHandler) Handle(ctx context.Context, _ RecoverPendingTransfersCommand) (int, error) {
	return h.ledger.RecoverPendingTransfers(ctx, h.uowFactory, h.pendingTimeout)
}
