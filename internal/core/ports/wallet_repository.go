// Package ports defines the persistence and outbound contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/wallet"
)

// WalletRepository is the persistence contract for wallet aggregates and their
// append-only transaction ledger.
//
// Mutating methods participate in the ambient unit-of-work transaction.
// AppendTransaction must enforce a unique constraint on the idempotency key and
// surface a duplicate as errs.ConflictError so concurrent duplicate operations
// converge on exactly one ledger entry.
type WalletRepository interface {
	// Add persists a new wallet aggregate.
	Add(ctx context.Context, aggregate *wallet.Wallet) error

	// Update persists the wallet's materialized balance. Implementations
	// compare-and-set against the previously observed balance and report lost
	// races as transient errors so the caller's retry policy re-runs the unit.
	Update(ctx context.Context, aggregate *wallet.Wallet) error

	// GetByUserID retrieves a user's wallet without locking.
	GetByUserID(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error)

	// GetByUserIDForUpdate retrieves a user's wallet with a row lock, serializing
	// concurrent mutations against the same wallet for the rest of the transaction.
	GetByUserIDForUpdate(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error)

	// GetByIDForUpdate retrieves a wallet by its own identifier with a row lock.
	// Used when only a ledger entry's wallet reference is at hand.
	GetByIDForUpdate(ctx context.Context, walletID kernel.UUID) (*wallet.Wallet, error)

	// AppendTransaction appends one immutable ledger entry.
	AppendTransaction(ctx context.Context, tx *wallet.Transaction) error

	// GetTransactionByKey returns the ledger entry recorded under an
	// idempotency key, or ObjectNotFound when the key was never used.
	GetTransactionByKey(ctx context.Context, idempotencyKey string) (*wallet.Transaction, error)

	// GetTransactionByKeyForUpdate is GetTransactionByKey with a row lock.
	// The transfer saga and the recovery sweep both lock the debit leg before
	// deciding its fate, so only one of them can settle it.
	GetTransactionByKeyForUpdate(ctx context.Context, idempotencyKey string) (*wallet.Transaction, error)

	// GetPendingTransferLegs returns transfer debit legs still pending that
	// were created before the cutoff. Used by the recovery sweep.
	GetPendingTransferLegs(ctx context.Context, olderThan time.Time) ([]*wallet.Transaction, error)

	// UpdateTransferState persists a saga state change on a transfer debit leg.
	// The write compare-and-sets against the pending state and reports a leg
	// already settled by the other side as a conflict.
	UpdateTransferState(ctx context.Context, tx *wallet.Transaction) error
}
