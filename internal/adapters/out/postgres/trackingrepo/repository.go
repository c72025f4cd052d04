package trackingrepo

import (
	"context"
	"errors"
	"fmt"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/tracking"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/retry"

	"gorm.io/gorm"
)

// GormTrackingRepository implements TrackingRepository using GORM.
//
// Tracking rows are not row-locked: stage transitions carry no monetary
// consequence, so updates compare-and-set against the stage observed at load
// time and report lost races as transient conflicts.
type GormTrackingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker

	// stage observed at load time, keyed by canonical tracking ID string
	observed map[string]string
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTrackingRepository creates a new GORM tracking repository.
func NewGormTrackingRepository(db *gorm.DB, tracker aggregateTracker) *GormTrackingRepository {
	return &GormTrackingRepository{
		db:       db,
		tracker:  tracker,
		observed: make(map[string]string),
	}
}

// Add saves a new tracking record to the database. At most one record exists
// per order; a second insert surfaces as a conflict.
func (r *GormTrackingRepository) Add(ctx context.Context, aggregate *tracking.DeliveryTracking) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause(
				fmt.Sprintf("tracking for order %s already exists", aggregate.OrderID()), err)
		}
		return err
	}

	r.observed[aggregate.ID().String()] = dto.CurrentStage
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists stage, location, and attempt changes.
func (r *GormTrackingRepository) Update(ctx context.Context, aggregate *tracking.DeliveryTracking) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	q := r.db.WithContext(ctx).Model(&TrackingDTO{}).Where("id = ?", dto.ID)
	if prev, ok := r.observed[aggregate.ID().String()]; ok {
		q = q.Where("current_stage = ?", prev)
	}

	result := q.Updates(map[string]any{
		"current_stage":        dto.CurrentStage,
		"stage_history":        dto.StageHistory,
		"location_history":     dto.LocationHistory,
		"delivery_attempts":    dto.DeliveryAttempts,
		"actual_delivery_date": dto.ActualDeliveryDate,
		"proof":                dto.Proof,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return retry.MarkTransient(errs.NewConflictError(
			fmt.Sprintf("tracking %s was modified concurrently", aggregate.ID())))
	}

	r.observed[aggregate.ID().String()] = dto.CurrentStage
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a tracking record by its identifier.
func (r *GormTrackingRepository) Get(ctx context.Context, id kernel.UUID) (*tracking.DeliveryTracking, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "id = ?", id.Bytes(), id.String())
}

// GetByOrderID retrieves the tracking record attached to an order.
func (r *GormTrackingRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*tracking.DeliveryTracking, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "order_id = ?", orderID.Bytes(), orderID.String())
}

// GetByTrackingNumber retrieves a tracking record by its public number.
func (r *GormTrackingRepository) GetByTrackingNumber(ctx context.Context, number string) (*tracking.DeliveryTracking, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber")
	}
	return r.first(ctx, "tracking_number = ?", number, number)
}

func (r *GormTrackingRepository) first(ctx context.Context, cond string, arg any, key string) (*tracking.DeliveryTracking, error) {
	var dto TrackingDTO
	if err := r.db.WithContext(ctx).First(&dto, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery tracking", key)
		}
		return nil, err
	}

	aggregate, err := toDomain(dto)
	if err != nil {
		return nil, err
	}
	r.observed[aggregate.ID().String()] = dto.CurrentStage
	return aggregate, nil
}
