// Package commands contains the business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// and persistence; money movements additionally route through the ledger
// service so idempotency and balance invariants hold in one place.
package commands

import (
	"context"

	"escrow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each command family declares the narrowest surface it needs; the single
// gorm-backed unit of work satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// WalletRepoFactory provides access to the wallet repository within a transaction.
	WalletRepoFactory interface {
		WalletRepository() ports.WalletRepository
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// TrackingRepoFactory provides access to the tracking repository within a transaction.
	TrackingRepoFactory interface {
		TrackingRepository() ports.TrackingRepository
	}

	// DisputeRepoFactory provides access to the dispute repository within a transaction.
	DisputeRepoFactory interface {
		DisputeRepository() ports.DisputeRepository
	}

	// PublisherFactory provides the outbox-backed event publisher bound to the
	// transaction, so events commit atomically with the state change.
	PublisherFactory interface {
		EventPublisher() ports.EventPublisher
	}

	// WalletUoW manages transactions for wallet-only operations.
	WalletUoW interface {
		TxManager
		WalletRepoFactory
		PublisherFactory
	}

	// WalletUoWFactory creates new wallet unit of work instances.
	WalletUoWFactory interface {
		Create() WalletUoW
	}

	// OrderUoW manages transactions spanning order state and the buyer's or
	// vendor's wallet. Used by every command that moves escrow money together
	// with an order transition.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		WalletRepoFactory
		PublisherFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DeliveryUoW manages transactions spanning order state and delivery
	// tracking. No wallet access: delivery progress never moves money.
	DeliveryUoW interface {
		TxManager
		OrderRepoFactory
		TrackingRepoFactory
		PublisherFactory
	}

	// DeliveryUoWFactory creates new delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// DisputeUoW manages transactions for mediation: dispute state, the
	// disputed order, and both parties' wallets for the settlement credits.
	DisputeUoW interface {
		TxManager
		DisputeRepoFactory
		OrderRepoFactory
		WalletRepoFactory
		PublisherFactory
	}

	// DisputeUoWFactory creates new dispute unit of work instances.
	DisputeUoWFactory interface {
		Create() DisputeUoW
	}
)
