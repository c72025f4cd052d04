package queries

import (
	"context"
	"database/sql"
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recentTransactionLimit caps how many ledger entries the wallet read model
// carries. Older entries stay queryable through the ledger table directly.
const recentTransactionLimit = 20

// GetWalletBalanceQueryHandler retrieves wallet state from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetWalletBalanceQueryHandler struct {
	db *gorm.DB
}

// NewGetWalletBalanceQueryHandler creates a handler for wallet balance queries.
// Requires a GORM database connection for query execution.
func NewGetWalletBalanceQueryHandler(db *gorm.DB) GetWalletBalanceQueryHandler {
	return GetWalletBalanceQueryHandler{db: db}
}

// Handle executes the query for one user's wallet.
// Returns ObjectNotFoundError when the user has no wallet.
func (h GetWalletBalanceQueryHandler) Handle(
	ctx context.Context,
	query GetWalletBalanceQuery,
) (GetWalletBalanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}

	var response GetWalletBalanceQueryResponse

	var walletID uuid.UUID
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			balance_amount,
			currency
		FROM wallets
		WHERE user_id = ?
	`, query.UserID().String()).Row()

	err := row.Scan(&walletID, &response.Balance, &response.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return GetWalletBalanceQueryResponse{}, errs.NewObjectNotFoundError("wallet for user", query.UserID())
	}
	if err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}

	response.WalletID, err = kernel.UUIDFromBytes(walletID[:])
	if err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}
	response.UserID = query.UserID()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tx_type,
			amount,
			reason,
			idempotency_key,
			balance_after,
			created_at
		FROM wallet_transactions
		WHERE wallet_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, response.WalletID.String(), recentTransactionLimit).Rows()
	if err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}
	defer rows.Close()

	response.Transactions = make([]WalletTransactionResponse, 0)
	for rows.Next() {
		var tx WalletTransactionResponse
		var txID uuid.UUID

		err = rows.Scan(
			&txID,
			&tx.Type,
			&tx.Amount,
			&tx.Reason,
			&tx.IdempotencyKey,
			&tx.BalanceAfter,
			&tx.CreatedAt,
		)
		if err != nil {
			return GetWalletBalanceQueryResponse{}, err
		}

		tx.ID, err = kernel.UUIDFromBytes(txID[:])
		if err != nil {
			return GetWalletBalanceQueryResponse{}, err
		}
		response.Transactions = append(response.Transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}

	return response, nil
}
