package wallet

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

// ErrWalletIsNotConstructed is returned when a Wallet instance was not created
// through NewWallet or RestoreWallet.
var ErrWalletIsNotConstructed = errors.New("Wallet must be created via NewWallet constructor")

// Wallet is the aggregate root owning a user's balance. The balance never goes
// negative: a debit that cannot be covered fails with InsufficientFunds and has
// no effect. Wallets are created at account creation and never deleted.
//
// Mutations return the ledger Transaction that must be persisted in the same
// atomic unit as the balance update.
type Wallet struct {
	id       kernel.UUID
	userID   kernel.UUID
	balance  kernel.Money
	currency string

	isConstructed bool
}

// NewWallet creates an empty wallet for a user in the given currency.
func NewWallet(id kernel.UUID, userID kernel.UUID, currency string) (*Wallet, error) {
	zero, err := kernel.NewMoney(0, currency)
	if err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	return &Wallet{
		id:            id,
		userID:        userID,
		balance:       zero,
		currency:      currency,
		isConstructed: true,
	}, nil
}

// RestoreWallet reconstructs a wallet from persistence.
func RestoreWallet(id kernel.UUID, userID kernel.UUID, balance kernel.Money) (*Wallet, error) {
	w, err := NewWallet(id, userID, balance.Currency())
	if err != nil {
		return nil, err
	}
	w.balance = balance
	return w, nil
}

// ID returns the wallet identifier.
func (w *Wallet) ID() kernel.UUID { return w.id }

// UserID returns the owning user's identifier.
func (w *Wallet) UserID() kernel.UUID { return w.userID }

// Balance returns the current materialized balance.
func (w *Wallet) Balance() kernel.Money { return w.balance }

// Currency returns the wallet currency code.
func (w *Wallet) Currency() string { return w.currency }

// Debit removes amount from the balance and returns the ledger entry to append.
// Fails with InsufficientFunds when the balance cannot cover the amount, with
// no partial effect.
func (w *Wallet) Debit(txID kernel.UUID, amount kernel.Money, reason, idempotencyKey string) (*Transaction, error) {
	if !w.balance.CanCover(amount) {
		return nil, errs.NewInsufficientFundsError(w.id.String(), w.balance.Amount(), amount.Amount())
	}

	before := w.balance.Amount()
	newBalance, err := w.balance.Subtract(amount)
	if err != nil {
		return nil, err
	}

	tx, err := NewTransaction(txID, w.id, Debit, amount, reason, idempotencyKey, before, newBalance.Amount())
	if err != nil {
		return nil, err
	}

	w.balance = newBalance
	return tx, nil
}

// Credit adds amount to the balance and returns the ledger entry to append.
func (w *Wallet) Credit(txID kernel.UUID, amount kernel.Money, reason, idempotencyKey string) (*Transaction, error) {
	before := w.balance.Amount()
	newBalance, err := w.balance.Add(amount)
	if err != nil {
		return nil, err
	}

	tx, err := NewTransaction(txID, w.id, Credit, amount, reason, idempotencyKey, before, newBalance.Amount())
	if err != nil {
		return nil, err
	}

	w.balance = newBalance
	return tx, nil
}

// IsEqual compares two wallets by identifier.
func (w *Wallet) IsEqual(other *Wallet) bool {
	return other != nil && w.id.IsEqual(other.id)
}

// Validate ensures the wallet was created through a constructor. Called when
// reconstructing wallets from persistence.
func (w *Wallet) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWalletIsNotConstructed
	}
	return nil
}
