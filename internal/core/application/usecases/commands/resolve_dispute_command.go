package commands

import (
	"errors"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrResolveDisputeCommandIsNotConstructed = errors.New(
		"ResolveDisputeCommand must be created via NewResolveDisputeCommand constructor",
	)
	ErrAmountToBuyerIsNegative  = errors.New("amount to buyer must not be negative")
	ErrAmountToVendorIsNegative = errors.New("amount to vendor must not be negative")
)

// ResolveDisputeCommand represents a mediator's verdict. Both shares are
// explicit and must together account for the full frozen amount; the check
// happens against the order's escrow when the command is handled.
type ResolveDisputeCommand struct { //nolint:recvcheck //using for validation
	disputeID      kernel.UUID
	outcome        dispute.Status
	amountToBuyer  int64
	amountToVendor int64

	guard guard.ConstructorGuard
}

// NewResolveDisputeCommand creates a command to resolve a dispute.
// amountToBuyer and amountToVendor are in minor currency units.
func NewResolveDisputeCommand(disputeID kernel.UUID, outcome dispute.Status, amountToBuyer, amountToVendor int64) (ResolveDisputeCommand, error) {
	cmd := ResolveDisputeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDisputeID(disputeID),
		cmd.setOutcome(outcome),
		cmd.setAmountToBuyer(amountToBuyer),
		cmd.setAmountToVendor(amountToVendor),
	); err != nil {
		return ResolveDisputeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveDisputeCommand) Validate() error {
	return c.guard.Validate(ErrResolveDisputeCommandIsNotConstructed)
}

// DisputeID returns the dispute being resolved.
func (c ResolveDisputeCommand) DisputeID() kernel.UUID {
	return c.disputeID
}

// Outcome returns the verdict.
func (c ResolveDisputeCommand) Outcome() dispute.Status {
	return c.outcome
}

// AmountToBuyer returns the buyer's share in minor units.
func (c ResolveDisputeCommand) AmountToBuyer() int64 {
	return c.amountToBuyer
}

// AmountToVendor returns the vendor's share in minor units.
func (c ResolveDisputeCommand) AmountToVendor() int64 {
	return c.amountToVendor
}

func (c *ResolveDisputeCommand) setDisputeID(disputeID kernel.UUID) error {
	if err := disputeID.Validate(); err != nil {
		return err
	}

	c.disputeID = disputeID
	return nil
}

func (c *ResolveDisputeCommand) setOutcome(outcome dispute.Status) error {
	if err := outcome.Validate(); err != nil {
		return err
	}

	c.outcome = outcome
	return nil
}

func (c *ResolveDisputeCommand) setAmountToBuyer(amountToBuyer int64) error {
	if amountToBuyer < 0 {
		return ErrAmountToBuyerIsNegative
	}

	c.amountToBuyer = amountToBuyer
	return nil
}

func (c *ResolveDisputeCommand) setAmountToVendor(amountToVendor int64) error {
	if amountToVendor < 0 {
		return ErrAmountToVendorIsNegative
	}

	c.amountToVendor = amountToVendor
	return nil
}
