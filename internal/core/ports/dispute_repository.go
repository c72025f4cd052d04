package ports

import (
	"context"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
)

// DisputeRepository is the persistence contract for dispute aggregates.
type DisputeRepository interface {
	// Add persists a new dispute. At most one unresolved dispute may exist per
	// order; implementations surface a second open dispute as a conflict.
	Add(ctx context.Context, aggregate *dispute.Dispute) error

	// Update persists a status or resolution change.
	Update(ctx context.Context, aggregate *dispute.Dispute) error

	// Get retrieves a dispute by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*dispute.Dispute, error)

	// GetForUpdate retrieves a dispute with a row lock so concurrent
	// resolutions are serialized.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*dispute.Dispute, error)

	// GetOpenByOrderID retrieves the unresolved dispute for an order, or
	// ObjectNotFound when none is open.
	GetOpenByOrderID(ctx context.Context, orderID kernel.UUID) (*dispute.Dispute, error)
}
