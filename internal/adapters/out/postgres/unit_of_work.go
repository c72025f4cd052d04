// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work spans one business mutation: the repositories and
// the event publisher obtained from it share a single database transaction, so
// a ledger entry, the order status it belongs to, and the outbox message
// describing it commit together or not at all.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Add(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
package postgres

import (
	"context"

	"escrow/internal/adapters/out/postgres/disputerepo"
	"escrow/internal/adapters/out/postgres/orderrepo"
	"escrow/internal/adapters/out/postgres/outboxrepo"
	"escrow/internal/adapters/out/postgres/trackingrepo"
	"escrow/internal/adapters/out/postgres/walletrepo"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database
// connections. Each business operation gets a fresh unit of work instance with
// proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. The provided database connection is shared by all created units.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the wallet,
// order, tracking, and dispute repositories plus the outbox publisher.
//
// Repository instances are cached per unit of work: the wallet repository in
// particular carries the balances it observed at load time for its
// compare-and-set updates, and that state must survive across getter calls
// within the same transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB

	walletRepo   *walletrepo.GormWalletRepository
	orderRepo    *orderrepo.GormOrderRepository
	trackingRepo *trackingrepo.GormTrackingRepository
	disputeRepo  *disputerepo.GormDisputeRepository
	publisher    *outboxrepo.GormEventPublisher

	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Calling Begin twice on the same instance is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.resetRepositories()
	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns error if no active transaction exists or if the commit fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	uow.resetRepositories()
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns error if no active transaction exists or if the rollback fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.resetRepositories()
	return err
}

// WalletRepository returns the wallet repository bound to the current
// transaction, creating it on first use.
func (uow *GormUnitOfWork) WalletRepository() ports.WalletRepository {
	if uow.walletRepo == nil {
		uow.walletRepo = walletrepo.NewGormWalletRepository(uow.handle(), uow)
	}
	return uow.walletRepo
}

// OrderRepository returns the order repository bound to the current transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	if uow.orderRepo == nil {
		uow.orderRepo = orderrepo.NewGormOrderRepository(uow.handle(), uow)
	}
	return uow.orderRepo
}

// TrackingRepository returns the tracking repository bound to the current transaction.
func (uow *GormUnitOfWork) TrackingRepository() ports.TrackingRepository {
	if uow.trackingRepo == nil {
		uow.trackingRepo = trackingrepo.NewGormTrackingRepository(uow.handle(), uow)
	}
	return uow.trackingRepo
}

// DisputeRepository returns the dispute repository bound to the current transaction.
func (uow *GormUnitOfWork) DisputeRepository() ports.DisputeRepository {
	if uow.disputeRepo == nil {
		uow.disputeRepo = disputerepo.NewGormDisputeRepository(uow.handle(), uow)
	}
	return uow.disputeRepo
}

// EventPublisher returns the outbox publisher bound to the current transaction.
// Messages it records become visible to the dispatch job only after Commit.
func (uow *GormUnitOfWork) EventPublisher() ports.EventPublisher {
	if uow.publisher == nil {
		uow.publisher = outboxrepo.NewGormEventPublisher(uow.handle())
	}
	return uow.publisher
}

// TrackAggregate registers a domain aggregate as modified within this unit of
// work. Called by repository implementations on add and update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) handle() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// resetRepositories drops cached repository instances so state observed inside
// one transaction never leaks into the next.
func (uow *GormUnitOfWork) resetRepositories() {
	uow.walletRepo = nil
	uow.orderRepo = nil
	uow.trackingRepo = nil
	uow.disputeRepo = nil
	uow.publisher = nil
}
