package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrTopUpWalletCommandIsNotConstructed = errors.New(
		"TopUpWalletCommand must be created via NewTopUpWalletCommand constructor",
	)
	ErrPaymentReferenceIsRequired = errors.New("payment reference is required")
)

// TopUpWalletCommand represents a verified payment-gateway event crediting a
// user's wallet. The gateway reference doubles as the idempotency key, so
// webhook redeliveries credit at most once.
type TopUpWalletCommand struct { //nolint:recvcheck //using for validation
	userID    kernel.UUID
	amount    kernel.Money
	reference string

	guard guard.ConstructorGuard
}

// NewTopUpWalletCommand creates a command to credit a wallet from a payment
// event. The reference must be the gateway's unique event identifier.
func NewTopUpWalletCommand(userID kernel.UUID, amount kernel.Money, reference string) (TopUpWalletCommand, error) {
	cmd := TopUpWalletCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setAmount(amount),
		cmd.setReference(reference),
	); err != nil {
		return TopUpWalletCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TopUpWalletCommand) Validate() error {
	return c.guard.Validate(ErrTopUpWalletCommandIsNotConstructed)
}

// UserID returns the wallet owner's identifier.
func (c TopUpWalletCommand) UserID() kernel.UUID {
	return c.userID
}

// Amount returns the credited amount.
func (c TopUpWalletCommand) Amount() kernel.Money {
	return c.amount
}

// Reference returns the gateway event identifier.
func (c TopUpWalletCommand) Reference() string {
	return c.reference
}

func (c *TopUpWalletCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *TopUpWalletCommand) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}

	c.amount = amount
	return nil
}

func (c *TopUpWalletCommand) setReference(reference string) error {
	if reference == "" {
		return ErrPaymentReferenceIsRequired
	}

	c.reference = reference
	return nil
}
