package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrReviewDisputeCommandIsNotConstructed = errors.New(
	"ReviewDisputeCommand must be created via NewReviewDisputeCommand constructor",
)

// ReviewDisputeCommand represents a mediator picking up an open dispute.
type ReviewDisputeCommand struct { //nolint:recvcheck //using for validation
	disputeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReviewDisputeCommand creates a command to move a dispute under review.
func NewReviewDisputeCommand(disputeID kernel.UUID) (ReviewDisputeCommand, error) {
	cmd := ReviewDisputeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDisputeID(disputeID); err != nil {
		return ReviewDisputeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReviewDisputeCommand) Validate() error {
	return c.guard.Validate(ErrReviewDisputeCommandIsNotConstructed)
}

// DisputeID returns the dispute under review.
func (c ReviewDisputeCommand) DisputeID() kernel.UUID {
	return c.disputeID
}

func (c *ReviewDisputeCommand) setDisputeID(disputeID kernel.UUID) error {
	if err := disputeID.Validate(); err != nil {
		return err
	}

	c.disputeID = disputeID
	return nil
}
