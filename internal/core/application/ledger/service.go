// Package ledger implements the Wallet Ledger Service: the only component
// permitted to mutate balances. Every mutation executes inside the caller's
// transaction as read balance, validate, write new balance, append ledger
// entry, all or nothing.
//
// Idempotency: each logical operation carries a unique key. The wallet row is
// locked before the key is checked, so a retried or concurrently-duplicated
// call observes the committed entry and returns the original result without a
// second mutation. The ledger table's unique index on the key is the last line
// of defense; a violation there surfaces as a conflict.
//
// Cross-wallet transfers do not assume atomicity across two balance rows.
// They run as a two-phase saga: the debit leg is recorded as pending, the
// credit leg applied, then the debit leg marked complete. Legs left pending
// past a timeout are finalized or reversed by the recovery sweep.
package ledger

import (
	"context"
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/wallet"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

// Entry is the result of a single ledger mutation.
type Entry struct {
	TransactionID kernel.UUID
	BalanceAfter  kernel.Money

	// Replayed is true when the idempotency key had already been used and the
	// original result was returned without a new mutation.
	Replayed bool
}

// TransferResult is the result of a cross-wallet transfer saga.
type TransferResult struct {
	DebitTransactionID  kernel.UUID
	CreditTransactionID kernel.UUID
	Replayed            bool
}

// Service exposes the ledger operations. Debit, Credit, and GetBalance operate
// on a transaction-bound WalletRepository so callers can compose them with
// their own aggregate changes in one atomic unit. Transfer manages its own
// transactions through the unit-of-work factory.
type Service struct{}

// NewService creates a ledger service.
func NewService() Service {
	return Service{}
}

// GetBalance returns the wallet balance for a user.
func (s Service) GetBalance(ctx context.Context, repo ports.WalletRepository, userID kernel.UUID) (kernel.Money, error) {
	w, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		return kernel.Money{}, err
	}
	return w.Balance(), nil
}

// Debit removes amount from the user's wallet within the caller's transaction.
// Fails with InsufficientFunds when the balance cannot cover the amount, with
// zero side effects. A reused idempotency key returns the original entry.
func (s Service) Debit(
	ctx context.Context,
	repo ports.WalletRepository,
	userID kernel.UUID,
	amount kernel.Money,
	reason string,
	idempotencyKey string,
) (Entry, error) {
	return s.apply(ctx, repo, userID, wallet.Debit, amount, reason, idempotencyKey)
}

// Credit adds amount to the user's wallet within the caller's transaction.
// A reused idempotency key returns the original entry.
func (s Service) Credit(
	ctx context.Context,
	repo ports.WalletRepository,
	userID kernel.UUID,
	amount kernel.Money,
	reason string,
	idempotencyKey string,
) (Entry, error) {
	return s.apply(ctx, repo, userID, wallet.Credit, amount, reason, idempotencyKey)
}

// apply is the shared read-validate-write-append path. The wallet row lock is
// taken before the idempotency check so duplicate calls serialize and the
// loser observes the winner's committed entry.
func (s Service) apply(
	ctx context.Context,
	repo ports.WalletRepository,
	userID kernel.UUID,
	txType wallet.TransactionType,
	amount kernel.Money,
	reason string,
	idempotencyKey string,
) (Entry, error) {
	if idempotencyKey == "" {
		return Entry{}, errs.NewValueIsRequiredError("idempotencyKey")
	}

	w, err := repo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return Entry{}, err
	}

	if prior, replayErr := s.replay(ctx, repo, w, idempotencyKey); replayErr != nil {
		return Entry{}, replayErr
	} else if prior != nil {
		return *prior, nil
	}

	var tx *wallet.Transaction
	switch txType {
	case wallet.Debit:
		tx, err = w.Debit(kernel.NewUUID(), amount, reason, idempotencyKey)
	case wallet.Credit:
		tx, err = w.Credit(kernel.NewUUID(), amount, reason, idempotencyKey)
	default:
		return Entry{}, errs.NewValueIsInvalidError("transaction type")
	}
	if err != nil {
		return Entry{}, err
	}

	if err = repo.Update(ctx, w); err != nil {
		return Entry{}, err
	}
	if err = repo.AppendTransaction(ctx, tx); err != nil {
		return Entry{}, err
	}

	return Entry{TransactionID: tx.ID(), BalanceAfter: w.Balance()}, nil
}

// replay returns the original entry when the idempotency key was already used.
func (s Service) replay(
	ctx context.Context,
	repo ports.WalletRepository,
	w *wallet.Wallet,
	idempotencyKey string,
) (*Entry, error) {
	prior, err := repo.GetTransactionByKey(ctx, idempotencyKey)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	balance, err := kernel.NewMoney(prior.BalanceAfter(), w.Currency())
	if err != nil {
		return nil, err
	}
	return &Entry{
		TransactionID: prior.ID(),
		BalanceAfter:  balance,
		Replayed:      true,
	}, nil
}

// Transfer moves amount between two wallets as a two-phase saga. Each leg
// commits in its own transaction; the recovery sweep finalizes or reverses
// legs stranded between phases. Leg idempotency keys are derived from the
// caller's key, so a retried transfer resumes wherever it stopped. The debit
// leg row is the saga's lock record: the credit phase and the sweep both lock
// it before acting, so a reversed transfer can never also pay the recipient.
func (s Service) Transfer(
	ctx context.Context,
	uowFactory ports.UnitOfWorkFactory,
	fromUserID kernel.UUID,
	toUserID kernel.UUID,
	amount kernel.Money,
	reason string,
	idempotencyKey string,
) (TransferResult, error) {
	if idempotencyKey == "" {
		return TransferResult{}, errs.NewValueIsRequiredError("idempotencyKey")
	}
	if fromUserID.IsEqual(toUserID) {
		return TransferResult{}, errs.NewValueIsInvalidErrorWithCause("toUserId",
			errors.New("cannot transfer to the same wallet"))
	}

	debitKey := idempotencyKey + ":debit"
	creditKey := idempotencyKey + ":credit"

	// Phase 1: debit leg, recorded as pending.
	debitEntry, replayed, err := s.transferDebitLeg(ctx, uowFactory, fromUserID, amount, reason, debitKey)
	if err != nil {
		return TransferResult{}, err
	}

	// Phase 2: credit leg. The debit leg is locked and re-checked in the same
	// transaction, so a recovery sweep that already reversed the debit cannot
	// race this credit into paying both sides.
	var creditEntry Entry
	err = s.inTransaction(ctx, uowFactory, func(uow ports.UnitOfWork) error {
		repo := uow.WalletRepository()
		leg, legErr := repo.GetTransactionByKeyForUpdate(ctx, debitKey)
		if legErr != nil {
			return legErr
		}
		if leg.TransferState() == wallet.TransferReversed {
			return errs.NewConflictError(
				"transfer " + idempotencyKey + " was reversed before the credit applied")
		}
		var creditErr error
		creditEntry, creditErr = s.Credit(ctx, repo, toUserID, amount, reason, creditKey)
		return creditErr
	})
	if err != nil {
		return TransferResult{}, err
	}

	// Phase 3: mark the debit leg complete.
	err = s.inTransaction(ctx, uowFactory, func(uow ports.UnitOfWork) error {
		repo := uow.WalletRepository()
		leg, legErr := repo.GetTransactionByKeyForUpdate(ctx, debitKey)
		if legErr != nil {
			return legErr
		}
		switch leg.TransferState() {
		case wallet.TransferCompleted:
			// the sweep finished the job between phases
			return nil
		case wallet.TransferReversed:
			return errs.NewConflictError(
				"transfer " + idempotencyKey + " was reversed before it could complete")
		default:
		}
		if legErr = leg.CompleteTransfer(); legErr != nil {
			return legErr
		}
		return repo.UpdateTransferState(ctx, leg)
	})
	if err != nil {
		return TransferResult{}, err
	}

	return TransferResult{
		DebitTransactionID:  debitEntry.TransactionID,
		CreditTransactionID: creditEntry.TransactionID,
		Replayed:            replayed && creditEntry.Replayed,
	}, nil
}

// transferDebitLeg applies and commits the pending debit leg.
func (s Service) transferDebitLeg(
	ctx context.Context,
	uowFactory ports.UnitOfWorkFactory,
	fromUserID kernel.UUID,
	amount kernel.Money,
	reason string,
	debitKey string,
) (Entry, bool, error) {
	var entry Entry
	err := s.inTransaction(ctx, uowFactory, func(uow ports.UnitOfWork) error {
		repo := uow.WalletRepository()

		w, err := repo.GetByUserIDForUpdate(ctx, fromUserID)
		if err != nil {
			return err
		}

		if prior, replayErr := s.replay(ctx, repo, w, debitKey); replayErr != nil {
			return replayErr
		} else if prior != nil {
			entry = *prior
			return nil
		}

		tx, err := w.Debit(kernel.NewUUID(), amount, reason, debitKey)
		if err != nil {
			return err
		}
		if err = tx.MarkTransferPending(); err != nil {
			return err
		}
		if err = repo.Update(ctx, w); err != nil {
			return err
		}
		if err = repo.AppendTransaction(ctx, tx); err != nil {
			return err
		}

		entry = Entry{TransactionID: tx.ID(), BalanceAfter: w.Balance()}
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return entry, entry.Replayed, nil
}

// RecoverPendingTransfers finalizes or reverses transfer debit legs left
// pending past the timeout. A leg whose credit was applied is marked complete;
// a leg with no credit is compensated by crediting the source wallet back.
// Safe to re-run: every step re-validates current state and each reversal
// carries its own idempotency key.
func (s Service) RecoverPendingTransfers(
	ctx context.Context,
	uowFactory ports.UnitOfWorkFactory,
	pendingTimeout time.Duration,
) (recovered int, err error) {
	cutoff := time.Now().UTC().Add(-pendingTimeout)

	var stuck []*wallet.Transaction
	err = s.inTransaction(ctx, uowFactory, func(uow ports.UnitOfWork) error {
		var listErr error
		stuck, listErr = uow.WalletRepository().GetPendingTransferLegs(ctx, cutoff)
		return listErr
	})
	if err != nil {
		return 0, err
	}

	for _, leg := range stuck {
		if recoverErr := s.recoverLeg(ctx, uowFactory, leg); recoverErr != nil {
			return recovered, recoverErr
		}
		recovered++
	}
	return recovered, nil
}

func (s Service) recoverLeg(ctx context.Context, uowFactory ports.UnitOfWorkFactory, stale *wallet.Transaction) error {
	return s.inTransaction(ctx, uowFactory, func(uow ports.UnitOfWork) error {
		repo := uow.WalletRepository()

		// Lock the leg before deciding its fate: a live saga holds this lock
		// across its credit, so the sweep only ever sees the leg before the
		// credit exists or after it committed, never in between.
		leg, err := repo.GetTransactionByKeyForUpdate(ctx, stale.IdempotencyKey())
		if err != nil {
			return err
		}
		if leg.TransferState() != wallet.TransferPending {
			return nil
		}

		creditKey := transferCreditKey(leg.IdempotencyKey())
		_, err = repo.GetTransactionByKey(ctx, creditKey)
		switch {
		case err == nil:
			// Credit applied; the saga just never finished phase 3.
			if err = leg.CompleteTransfer(); err != nil {
				return err
			}
			return repo.UpdateTransferState(ctx, leg)
		case errors.Is(err, errs.ErrObjectNotFound):
			// No credit: compensate the debit.
			w, lockErr := repo.GetByIDForUpdate(ctx, leg.WalletID())
			if lockErr != nil {
				return lockErr
			}
			reversal, revErr := w.Credit(kernel.NewUUID(), leg.Amount(),
				"transfer-reversal", leg.IdempotencyKey()+":reversal")
			if revErr != nil {
				return revErr
			}
			if revErr = repo.Update(ctx, w); revErr != nil {
				return revErr
			}
			if revErr = repo.AppendTransaction(ctx, reversal); revErr != nil {
				return revErr
			}
			if revErr = leg.ReverseTransfer(); revErr != nil {
				return revErr
			}
			return repo.UpdateTransferState(ctx, leg)
		default:
			return err
		}
	})
}

func transferCreditKey(debitKey string) string {
	const suffix = ":debit"
	base := debitKey
	if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
		base = base[:len(base)-len(suffix)]
	}
	return base + ":credit"
}

func (s Service) inTransaction(ctx context.Context, factory ports.UnitOfWorkFactory, fn func(ports.UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
