package ports

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/tracking"
)

// TrackingRepository is the persistence contract for delivery tracking
// aggregates. Stage updates need only compare-and-set semantics on the current
// stage, not wallet-grade locking: they carry no monetary consequence.
type TrackingRepository interface {
	// Add persists a new tracking record.
	Add(ctx context.Context, aggregate *tracking.DeliveryTracking) error

	// Update persists stage, location, and attempt changes. Implementations
	// compare-and-set on the previously observed stage and report lost races
	// as transient errors.
	Update(ctx context.Context, aggregate *tracking.DeliveryTracking) error

	// Get retrieves a tracking record by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*tracking.DeliveryTracking, error)

	// GetByOrderID retrieves the tracking record attached to an order.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*tracking.DeliveryTracking, error)

	// GetByTrackingNumber retrieves a tracking record by its public number.
	GetByTrackingNumber(ctx context.Context, number string) (*tracking.DeliveryTracking, error)
}
