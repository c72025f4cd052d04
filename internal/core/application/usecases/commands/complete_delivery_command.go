package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/tracking"
	"escrow/internal/pkg/guard"
)

var (
	ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
		"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
	)
	ErrDeliveredToIsRequired = errors.New("deliveredTo is required")
)

// CompleteDeliveryCommand represents the carrier recording a successful
// delivery with proof. Completion marks the order delivered but leaves the
// escrow untouched until the buyer confirms.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	trackingID kernel.UUID
	proof      tracking.DeliveryProof

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command to complete a delivery.
// DeliveredTo is the only mandatory proof field.
func NewCompleteDeliveryCommand(trackingID kernel.UUID, proof tracking.DeliveryProof) (CompleteDeliveryCommand, error) {
	cmd := CompleteDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTrackingID(trackingID); err != nil {
		return CompleteDeliveryCommand{}, err
	}
	if proof.DeliveredTo == "" {
		return CompleteDeliveryCommand{}, ErrDeliveredToIsRequired
	}
	cmd.proof = proof

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// TrackingID returns the tracking record identifier.
func (c CompleteDeliveryCommand) TrackingID() kernel.UUID {
	return c.trackingID
}

// Proof returns the delivery evidence.
func (c CompleteDeliveryCommand) Proof() tracking.DeliveryProof {
	return c.proof
}

func (c *CompleteDeliveryCommand) setTrackingID(trackingID kernel.UUID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}

	c.trackingID = trackingID
	return nil
}
