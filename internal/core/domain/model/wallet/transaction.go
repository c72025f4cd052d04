package wallet

import (
	"fmt"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

// TransactionType is the direction of a ledger entry.
type TransactionType int

const (
	// TypeUnknown represents an invalid or undefined transaction type.
	TypeUnknown TransactionType = iota

	// Debit removes funds from the wallet.
	Debit

	// Credit adds funds to the wallet.
	Credit
)

func transactionTypeStrings() map[TransactionType]string {
	return map[TransactionType]string{
		TypeUnknown: "unknown",
		Debit:       "debit",
		Credit:      "credit",
	}
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	if s, ok := transactionTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// Validate checks the type is debit or credit.
func (t TransactionType) Validate() error {
	if t != Debit && t != Credit {
		return errs.NewValueIsInvalidErrorWithCause("transaction type",
			fmt.Errorf("%d is not a valid transaction type", t))
	}
	return nil
}

// TransferState tracks the saga progress of the debit leg of a cross-wallet
// transfer. Single-leg operations carry TransferNone.
//
// A transfer records its debit leg as TransferPending, applies the credit leg,
// then marks the debit leg TransferCompleted. A recovery sweep finalizes or
// reverses legs left pending past a timeout.
type TransferState int

const (
	// TransferNone marks an ordinary, non-transfer ledger entry.
	TransferNone TransferState = iota

	// TransferPending marks a debit leg whose matching credit has not been confirmed.
	TransferPending

	// TransferCompleted marks a debit leg whose matching credit was applied.
	TransferCompleted

	// TransferReversed marks a debit leg compensated by the recovery sweep.
	TransferReversed
)

func transferStateStrings() map[TransferState]string {
	return map[TransferState]string{
		TransferNone:      "none",
		TransferPending:   "pending",
		TransferCompleted: "completed",
		TransferReversed:  "reversed",
	}
}

// String implements fmt.Stringer.
func (s TransferState) String() string {
	if str, ok := transferStateStrings()[s]; ok {
		return str
	}
	return "none"
}

// Transaction is one append-only ledger entry. Entries are immutable after
// creation except for the transfer saga state of a debit leg.
type Transaction struct {
	id             kernel.UUID
	walletID       kernel.UUID
	txType         TransactionType
	amount         kernel.Money
	reason         string
	idempotencyKey string
	balanceBefore  int64
	balanceAfter   int64
	transferState  TransferState
	createdAt      time.Time

	isConstructed bool
}

// NewTransaction creates a validated ledger entry. The balances are the wallet
// balance observed immediately before and after applying the entry.
func NewTransaction(
	id kernel.UUID,
	walletID kernel.UUID,
	txType TransactionType,
	amount kernel.Money,
	reason string,
	idempotencyKey string,
	balanceBefore int64,
	balanceAfter int64,
) (*Transaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := walletID.Validate(); err != nil {
		return nil, err
	}
	if err := txType.Validate(); err != nil {
		return nil, err
	}
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is not greater than 0", amount.Amount()))
	}
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}
	if idempotencyKey == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	return &Transaction{
		id:             id,
		walletID:       walletID,
		txType:         txType,
		amount:         amount,
		reason:         reason,
		idempotencyKey: idempotencyKey,
		balanceBefore:  balanceBefore,
		balanceAfter:   balanceAfter,
		transferState:  TransferNone,
		createdAt:      time.Now().UTC(),
		isConstructed:  true,
	}, nil
}

// RestoreTransaction reconstructs a ledger entry from persistence without
// re-deriving balances.
func RestoreTransaction(
	id kernel.UUID,
	walletID kernel.UUID,
	txType TransactionType,
	amount kernel.Money,
	reason string,
	idempotencyKey string,
	balanceBefore int64,
	balanceAfter int64,
	transferState TransferState,
	createdAt time.Time,
) (*Transaction, error) {
	tx, err := NewTransaction(id, walletID, txType, amount, reason, idempotencyKey, balanceBefore, balanceAfter)
	if err != nil {
		return nil, err
	}
	tx.transferState = transferState
	tx.createdAt = createdAt
	return tx, nil
}

// ID returns the entry identifier.
func (t *Transaction) ID() kernel.UUID { return t.id }

// WalletID returns the owning wallet identifier.
func (t *Transaction) WalletID() kernel.UUID { return t.walletID }

// Type returns the entry direction.
func (t *Transaction) Type() TransactionType { return t.txType }

// Amount returns the moved amount.
func (t *Transaction) Amount() kernel.Money { return t.amount }

// Reason returns the business reason, e.g. "escrow-hold" or "refund".
func (t *Transaction) Reason() string { return t.reason }

// IdempotencyKey returns the unique key of the logical operation.
func (t *Transaction) IdempotencyKey() string { return t.idempotencyKey }

// BalanceBefore returns the wallet balance before the entry was applied.
func (t *Transaction) BalanceBefore() int64 { return t.balanceBefore }

// BalanceAfter returns the wallet balance after the entry was applied.
func (t *Transaction) BalanceAfter() int64 { return t.balanceAfter }

// TransferState returns the saga state for transfer debit legs.
func (t *Transaction) TransferState() TransferState { return t.transferState }

// CreatedAt returns the entry timestamp.
func (t *Transaction) CreatedAt() time.Time { return t.createdAt }

// MarkTransferPending flags this entry as the debit leg of an in-flight transfer.
// Only valid on debit entries.
func (t *Transaction) MarkTransferPending() error {
	if t.txType != Debit {
		return errs.NewConflictError("only debit legs participate in a transfer saga")
	}
	t.transferState = TransferPending
	return nil
}

// CompleteTransfer marks the debit leg as matched by its credit.
func (t *Transaction) CompleteTransfer() error {
	if t.transferState != TransferPending {
		return errs.NewConflictError(
			fmt.Sprintf("transfer leg is %s, not pending", t.transferState))
	}
	t.transferState = TransferCompleted
	return nil
}

// ReverseTransfer marks the debit leg as compensated. Used by the recovery
// sweep when the credit side could not be confirmed.
func (t *Transaction) ReverseTransfer() error {
	if t.transferState != TransferPending {
		return errs.NewConflictError(
			fmt.Sprintf("transfer leg is %s, not pending", t.transferState))
	}
	t.transferState = TransferReversed
	return nil
}

// Validate ensures the transaction was created through a constructor.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return errs.NewValueIsRequiredError("Transaction must be created via NewTransaction")
	}
	return nil
}
