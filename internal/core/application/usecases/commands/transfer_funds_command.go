package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrTransferFundsCommandIsNotConstructed = errors.New(
		"TransferFundsCommand must be created via NewTransferFundsCommand constructor",
	)
	ErrTransferReasonIsRequired = errors.New("transfer reason is required")
	ErrIdempotencyKeyIsRequired = errors.New("idempotency key is required")
)

// TransferFundsCommand represents a direct wallet-to-wallet transfer outside
// the escrow flow, e.g. a platform adjustment or promotional credit.
type TransferFundsCommand struct { //nolint:recvcheck //using for validation
	fromUserID     kernel.UUID
	toUserID       kernel.UUID
	amount         kernel.Money
	reason         string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewTransferFundsCommand creates a command to move funds between two users.
func NewTransferFundsCommand(
	fromUserID kernel.UUID,
	toUserID kernel.UUID,
	amount kernel.Money,
	reason string,
	idempotencyKey string,
) (TransferFundsCommand, error) {
	cmd := TransferFundsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setFromUserID(fromUserID),
		cmd.setToUserID(toUserID),
		cmd.setAmount(amount),
		cmd.setReason(reason),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return TransferFundsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransferFundsCommand) Validate() error {
	return c.guard.Validate(ErrTransferFundsCommandIsNotConstructed)
}

// FromUserID returns the source wallet owner.
func (c TransferFundsCommand) FromUserID() kernel.UUID {
	return c.fromUserID
}

// ToUserID returns the destination wallet owner.
func (c TransferFundsCommand) ToUserID() kernel.UUID {
	return c.toUserID
}

// Amount returns the transferred amount.
func (c TransferFundsCommand) Amount() kernel.Money {
	return c.amount
}

// Reason returns the business reason recorded on both ledger legs.
func (c TransferFundsCommand) Reason() string {
	return c.reason
}

// IdempotencyKey returns the caller's unique key for the whole transfer.
func (c TransferFundsCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *TransferFundsCommand) setFromUserID(fromUserID kernel.UUID) error {
	if err := fromUserID.Validate(); err != nil {
		return err
	}

	c.fromUserID = fromUserID
	return nil
}

func (c *TransferFundsCommand) setToUserID(toUserID kernel.UUID) error {
	if err := toUserID.Validate(); err != nil {
		return err
	}

	c.toUserID = toUserID
	return nil
}

func (c *TransferFundsCommand) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}

	c.amount = amount
	return nil
}

func (c *TransferFundsCommand) setReason(reason string) error {
	if reason == "" {
		return ErrTransferReasonIsRequired
	}

	c.reason = reason
	return nil
}

func (c *TransferFundsCommand) setIdempotencyKey(idempotencyKey string) error {
	if idempotencyKey == "" {
		return ErrIdempotencyKeyIsRequired
	}

	c.idempotencyKey = idempotencyKey
	return nil
}
