package walletrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/wallet"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/retry"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWalletRepository implements WalletRepository using GORM.
//
// Balance updates compare-and-set against the balance observed when the
// aggregate was loaded through this instance. A lost race surfaces as a
// transient conflict so the caller's retry policy re-runs the whole unit.
type GormWalletRepository struct {
	db      *gorm.DB
	tracker aggregateTracker

	// balance observed at load time, keyed by wallet ID
	observed map[uuid.UUID]int64
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWalletRepository creates a new GORM wallet repository.
func NewGormWalletRepository(db *gorm.DB, tracker aggregateTracker) *GormWalletRepository {
	return &GormWalletRepository{
		db:       db,
		tracker:  tracker,
		observed: make(map[uuid.UUID]int64),
	}
}

// Add saves a new wallet to the database.
func (r *GormWalletRepository) Add(ctx context.Context, aggregate *wallet.Wallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause(
				fmt.Sprintf("wallet for user %s already exists", aggregate.UserID()), err)
		}
		return err
	}

	r.observed[dto.ID] = dto.BalanceAmount
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists the wallet's materialized balance.
func (r *GormWalletRepository) Update(ctx context.Context, aggregate *wallet.Wallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	q := r.db.WithContext(ctx).Model(&WalletDTO{}).Where("id = ?", dto.ID)
	if prev, ok := r.observed[dto.ID]; ok {
		q = q.Where("balance_amount = ?", prev)
	}

	result := q.Update("balance_amount", dto.BalanceAmount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return retry.MarkTransient(errs.NewConflictError(
			fmt.Sprintf("wallet %s was modified concurrently", aggregate.ID())))
	}

	r.observed[dto.ID] = dto.BalanceAmount
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByUserID retrieves a user's wallet without locking.
func (r *GormWalletRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error) {
	return r.getByUser(ctx, r.db.WithContext(ctx), userID)
}

// GetByUserIDForUpdate retrieves a user's wallet with a row lock. The lock is
// held for the rest of the surrounding transaction, serializing every mutation
// against the same wallet.
func (r *GormWalletRepository) GetByUserIDForUpdate(ctx context.Context, userID kernel.UUID) (*wallet.Wallet, error) {
	return r.getByUser(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

// GetByIDForUpdate retrieves a wallet by its own identifier with a row lock.
func (r *GormWalletRepository) GetByIDForUpdate(ctx context.Context, walletID kernel.UUID) (*wallet.Wallet, error) {
	if err := walletID.Validate(); err != nil {
		return nil, err
	}

	var dto WalletDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", walletID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet", walletID.String())
		}
		return nil, err
	}

	r.observed[dto.ID] = dto.BalanceAmount
	return toDomain(dto)
}

func (r *GormWalletRepository) getByUser(ctx context.Context, db *gorm.DB, userID kernel.UUID) (*wallet.Wallet, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto WalletDTO
	if err := db.First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet for user", userID.String())
		}
		return nil, err
	}

	r.observed[dto.ID] = dto.BalanceAmount
	return toDomain(dto)
}

// AppendTransaction appends one immutable ledger entry. A duplicate
// idempotency key surfaces as a conflict, never as a second entry.
func (r *GormWalletRepository) AppendTransaction(ctx context.Context, tx *wallet.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := transactionFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause(
				fmt.Sprintf("ledger entry with key %q already exists", tx.IdempotencyKey()), err)
		}
		return err
	}

	return nil
}

// GetTransactionByKey returns the ledger entry recorded under an idempotency key.
func (r *GormWalletRepository) GetTransactionByKey(ctx context.Context, idempotencyKey string) (*wallet.Transaction, error) {
	if idempotencyKey == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	var dto TransactionDTO
	err := r.db.WithContext(ctx).First(&dto, "idempotency_key = ?", idempotencyKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("ledger entry", idempotencyKey)
		}
		return nil, err
	}

	return transactionToDomain(dto)
}

// GetTransactionByKeyForUpdate is GetTransactionByKey with a row lock. The
// transfer saga and the recovery sweep serialize on the debit leg through it.
func (r *GormWalletRepository) GetTransactionByKeyForUpdate(ctx context.Context, idempotencyKey string) (*wallet.Transaction, error) {
	if idempotencyKey == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	var dto TransactionDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "idempotency_key = ?", idempotencyKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("ledger entry", idempotencyKey)
		}
		return nil, err
	}

	return transactionToDomain(dto)
}

// GetPendingTransferLegs returns transfer debit legs still pending that were
// created before the cutoff, oldest first.
func (r *GormWalletRepository) GetPendingTransferLegs(ctx context.Context, olderThan time.Time) ([]*wallet.Transaction, error) {
	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Where("transfer_state = ? AND created_at < ?", wallet.TransferPending.String(), olderThan).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	legs := make([]*wallet.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		leg, err := transactionToDomain(dto)
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}

	return legs, nil
}

// UpdateTransferState persists a saga state change on a transfer debit leg.
// Only a pending leg can move; a leg already settled by the saga or the sweep
// surfaces as a conflict so the loser never overwrites the decision.
func (r *GormWalletRepository) UpdateTransferState(ctx context.Context, tx *wallet.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&TransactionDTO{}).
		Where("id = ? AND transfer_state = ?", tx.ID().Bytes(), wallet.TransferPending.String()).
		Update("transfer_state", tx.TransferState().String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError(
			fmt.Sprintf("transfer leg %s is no longer pending", tx.ID()))
	}

	return nil
}
