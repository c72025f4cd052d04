package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrCreateWalletCommandIsNotConstructed = errors.New(
	"CreateWalletCommand must be created via NewCreateWalletCommand constructor",
)

// CreateWalletCommand represents a request to open a wallet for a user.
// A user owns exactly one wallet; a second request for the same user conflicts.
type CreateWalletCommand struct { //nolint:recvcheck //using for validation
	userID   kernel.UUID
	currency string

	guard guard.ConstructorGuard
}

// NewCreateWalletCommand creates a command to open a wallet. An empty currency
// falls back to the platform default.
func NewCreateWalletCommand(userID kernel.UUID, currency string) (CreateWalletCommand, error) {
	cmd := CreateWalletCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setUserID(userID); err != nil {
		return CreateWalletCommand{}, err
	}
	cmd.setCurrency(currency)

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateWalletCommand) Validate() error {
	return c.guard.Validate(ErrCreateWalletCommandIsNotConstructed)
}

// UserID returns the wallet owner's identifier.
func (c CreateWalletCommand) UserID() kernel.UUID {
	return c.userID
}

// Currency returns the wallet currency code.
func (c CreateWalletCommand) Currency() string {
	return c.currency
}

func (c *CreateWalletCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *CreateWalletCommand) setCurrency(currency string) {
	if currency == "" {
		currency = kernel.DefaultCurrency
	}

	c.currency = currency
}
