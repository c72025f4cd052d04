package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrOpenDisputeCommandIsNotConstructed = errors.New(
	"OpenDisputeCommand must be created via NewOpenDisputeCommand constructor",
)

// OpenDisputeCommand represents a buyer or vendor asking mediation to freeze
// an order's escrow.
type OpenDisputeCommand struct { //nolint:recvcheck //using for validation
	disputeID kernel.UUID
	orderID   kernel.UUID
	raisedBy  kernel.UUID
	evidence  []string

	guard guard.ConstructorGuard
}

// NewOpenDisputeCommand creates a command to open a dispute. Evidence entries
// are free-form references (descriptions, attachment URLs) and may be empty.
func NewOpenDisputeCommand(disputeID, orderID, raisedBy kernel.UUID, evidence []string) (OpenDisputeCommand, error) {
	cmd := OpenDisputeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDisputeID(disputeID),
		cmd.setOrderID(orderID),
		cmd.setRaisedBy(raisedBy),
	); err != nil {
		return OpenDisputeCommand{}, err
	}
	cmd.evidence = evidence

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OpenDisputeCommand) Validate() error {
	return c.guard.Validate(ErrOpenDisputeCommandIsNotConstructed)
}

// DisputeID returns the client-supplied dispute identifier.
func (c OpenDisputeCommand) DisputeID() kernel.UUID {
	return c.disputeID
}

// OrderID returns the disputed order.
func (c OpenDisputeCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RaisedBy returns the party raising the dispute.
func (c OpenDisputeCommand) RaisedBy() kernel.UUID {
	return c.raisedBy
}

// Evidence returns the supporting references.
func (c OpenDisputeCommand) Evidence() []string {
	return c.evidence
}

func (c *OpenDisputeCommand) setDisputeID(disputeID kernel.UUID) error {
	if err := disputeID.Validate(); err != nil {
		return err
	}

	c.disputeID = disputeID
	return nil
}

func (c *OpenDisputeCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *OpenDisputeCommand) setRaisedBy(raisedBy kernel.UUID) error {
	if err := raisedBy.Validate(); err != nil {
		return err
	}

	c.raisedBy = raisedBy
	return nil
}
