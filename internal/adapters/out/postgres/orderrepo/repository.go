package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/retry"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker

	// status observed at load time, keyed by canonical order ID string
	observed map[string]string
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:       db,
		tracker:  tracker,
		observed: make(map[string]string),
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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
				fmt.Sprintf("order %s already exists", aggregate.ID()), err)
		}
		return err
	}

	r.observed[aggregate.ID().String()] = dto.Status
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists a status transition on an existing order. The write
// compare-and-sets against the status observed when the aggregate was loaded
// through this instance, so a transition racing another one loses cleanly.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	q := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID)
	if prev, ok := r.observed[aggregate.ID().String()]; ok {
		q = q.Where("status = ?", prev)
	}

	result := q.Updates(map[string]any{
		"status":     dto.Status,
		"updated_at": dto.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return retry.MarkTransient(errs.NewConflictError(
			fmt.Sprintf("order %s was modified concurrently", aggregate.ID())))
	}

	r.observed[aggregate.ID().String()] = dto.Status
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID without locking.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order with a row lock so concurrent status
// transitions against the same order are serialized.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	r.observed[id.String()] = dto.Status
	return toDomain(dto)
}

// GetAllActive retrieves orders not yet in a terminal status.
func (r *GormOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	terminal := []string{
		order.Completed.String(),
		order.Refunded.String(),
		order.Cancelled.String(),
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", terminal).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
