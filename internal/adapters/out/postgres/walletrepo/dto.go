// Package walletrepo provides data transfer objects and mapping functions for
// wallet persistence. This package implements the repository pattern for the
// wallet aggregate and its append-only transaction ledger, handling the
// conversion between domain entities and database representations.
package walletrepo

import (
	"fmt"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/wallet"
	"escrow/internal/pkg/errs"

	"github.com/google/uuid"
)

// WalletDTO represents the database structure for persisting wallet aggregates.
// One wallet per user is enforced by a unique index on user_id.
type WalletDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	BalanceAmount int64
	Currency      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the database table name for wallet entities.
func (WalletDTO) TableName() string {
	return "wallets"
}

// TransactionDTO represents one immutable ledger entry. The unique index on
// idempotency_key is the hard guarantee that a logical operation lands in the
// ledger at most once, whatever races happen above it.
type TransactionDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	WalletID       uuid.UUID `gorm:"type:uuid;index"`
	TxType         string    `gorm:"column:tx_type"`
	Amount         int64
	Currency       string
	Reason         string
	IdempotencyKey string `gorm:"uniqueIndex"`
	BalanceBefore  int64
	BalanceAfter   int64
	TransferState  string `gorm:"index"`
	CreatedAt      time.Time
}

// TableName specifies the database table name for ledger entries.
func (TransactionDTO) TableName() string {
	return "wallet_transactions"
}

func fromDomain(aggregate *wallet.Wallet) WalletDTO {
	return WalletDTO{
		ID:            aggregate.ID().Bytes(),
		UserID:        aggregate.UserID().Bytes(),
		BalanceAmount: aggregate.Balance().Amount(),
		Currency:      aggregate.Currency(),
	}
}

func toDomain(dto WalletDTO) (*wallet.Wallet, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	balance, err := kernel.NewMoney(dto.BalanceAmount, dto.Currency)
	if err != nil {
		return nil, err
	}

	return wallet.RestoreWallet(id, userID, balance)
}

func transactionFromDomain(tx *wallet.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:             tx.ID().Bytes(),
		WalletID:       tx.WalletID().Bytes(),
		TxType:         tx.Type().String(),
		Amount:         tx.Amount().Amount(),
		Currency:       tx.Amount().Currency(),
		Reason:         tx.Reason(),
		IdempotencyKey: tx.IdempotencyKey(),
		BalanceBefore:  tx.BalanceBefore(),
		BalanceAfter:   tx.BalanceAfter(),
		TransferState:  tx.TransferState().String(),
		CreatedAt:      tx.CreatedAt(),
	}
}

func transactionToDomain(dto TransactionDTO) (*wallet.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	walletID, err := kernel.UUIDFromBytes(dto.WalletID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount, dto.Currency)
	if err != nil {
		return nil, err
	}
	txType, err := transactionTypeFromString(dto.TxType)
	if err != nil {
		return nil, err
	}
	state, err := transferStateFromString(dto.TransferState)
	if err != nil {
		return nil, err
	}

	return wallet.RestoreTransaction(id, walletID, txType, amount,
		dto.Reason, dto.IdempotencyKey, dto.BalanceBefore, dto.BalanceAfter,
		state, dto.CreatedAt)
}

func transactionTypeFromString(raw string) (wallet.TransactionType, error) {
	switch raw {
	case wallet.Debit.String():
		return wallet.Debit, nil
	case wallet.Credit.String():
		return wallet.Credit, nil
	default:
		return wallet.TypeUnknown, errs.NewValueIsInvalidErrorWithCause("txType",
			fmt.Errorf("%q is not a valid transaction type", raw))
	}
}

func transferStateFromString(raw string) (wallet.TransferState, error) {
	switch raw {
	case wallet.TransferNone.String():
		return wallet.TransferNone, nil
	case wallet.TransferPending.String():
		return wallet.TransferPending, nil
	case wallet.TransferCompleted.String():
		return wallet.TransferCompleted, nil
	case wallet.TransferReversed.String():
		return wallet.TransferReversed, nil
	default:
		return wallet.TransferNone, errs.NewValueIsInvalidErrorWithCause("transferState",
			fmt.Errorf("%q is not a valid transfer state", raw))
	}
}
