// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrGetWalletBalanceQueryIsNotConstructed = errors.New(
		"GetWalletBalanceQuery must be created via NewGetWalletBalanceQuery constructor",
	)
)

// GetWalletBalanceQuery retrieves a user's wallet balance together with the
// most recent ledger entries.
//
// Example:
//
//	query, err := NewGetWalletBalanceQuery(userID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetWalletBalanceQueryHandler(db)
//
//	balance, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get wallet balance: %w", err)
//	}
//
//	fmt.Printf("Balance: %d %s\n", balance.Balance, balance.Currency)
type GetWalletBalanceQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetWalletBalanceQuery creates a query for the given user's wallet.
func NewGetWalletBalanceQuery(userID kernel.UUID) (GetWalletBalanceQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetWalletBalanceQuery{}, err
	}

	return GetWalletBalanceQuery{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// UserID returns the wallet owner's identifier.
func (q GetWalletBalanceQuery) UserID() kernel.UUID {
	return q.userID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetWalletBalanceQueryIsNotConstructed if validation fails.
func (q GetWalletBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletBalanceQueryIsNotConstructed)
}

// WalletTransactionResponse is one ledger entry in the wallet read model.
type WalletTransactionResponse struct {
	ID             kernel.UUID
	Type           string
	Amount         int64
	Reason         string
	IdempotencyKey string
	BalanceAfter   int64
	CreatedAt      time.Time
}

// GetWalletBalanceQueryResponse is the wallet read model: the materialized
// balance plus the most recent ledger entries, newest first.
type GetWalletBalanceQueryResponse struct {
	WalletID     kernel.UUID
	UserID       kernel.UUID
	Balance      int64
	Currency     string
	Transactions []WalletTransactionResponse
}
