package commands

import (
	"context"
)

// ReviewDisputeCommandHandler marks disputes as under mediation.
type ReviewDisputeCommandHandler struct {
	uowFactory DisputeUoWFactory
}

// NewReviewDisputeCommandHandler creates a handler for starting dispute review.
func NewReviewDisputeCommandHandler(uowFactory DisputeUoWFactory) ReviewDisputeCommandHandler {
	return ReviewDisputeCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle moves the dispute from open to under review.
func (h *ReviewDisputeCommandHandler) Handle(ctx context.Context, cmd ReviewDisputeCommand) error {
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
	aggregate, err := disputeRepo.GetForUpdate(ctx, cmd.DisputeID())
	if err != nil {
		return err
	}

	if err = aggregate.StartReview(); err != nil {
		return err
	}

	if err = disputeRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
