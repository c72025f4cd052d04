// Package outboxrepo implements the transactional outbox. Domain events are
// serialized into the outbox table inside the same transaction as the state
// change they describe; a background job drains undelivered rows and hands
// them to the notifier. A crash between commit and dispatch therefore delays
// delivery but never loses or invents an event.
package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"escrow/internal/core/domain/events"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutboxDTO represents one serialized domain event awaiting delivery.
// sent_at stays NULL until the dispatch job confirms delivery.
type OutboxDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventName   string    `gorm:"index"`
	AggregateID uuid.UUID `gorm:"type:uuid"`
	Payload     json.RawMessage `gorm:"type:jsonb"`
	CreatedAt   time.Time
	SentAt      *time.Time `gorm:"index"`
}

// TableName specifies the database table name for outbox messages.
func (OutboxDTO) TableName() string {
	return "outbox_messages"
}

// GormEventPublisher implements ports.EventPublisher by inserting outbox rows
// through the transaction handle it was created with. Nothing is visible to
// the dispatch job until that transaction commits.
type GormEventPublisher struct {
	db *gorm.DB
}

// NewGormEventPublisher creates a publisher bound to the given database handle,
// typically an open transaction.
func NewGormEventPublisher(db *gorm.DB) *GormEventPublisher {
	return &GormEventPublisher{db: db}
}

// Publish serializes the events and appends them to the outbox.
func (p *GormEventPublisher) Publish(ctx context.Context, evts ...events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	dtos := make([]OutboxDTO, 0, len(evts))
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return err
		}
		dtos = append(dtos, OutboxDTO{
			ID:          kernel.NewUUID().Bytes(),
			EventName:   evt.Name(),
			AggregateID: evt.AggregateID().Bytes(),
			Payload:     payload,
			CreatedAt:   time.Now().UTC(),
		})
	}

	return p.db.WithContext(ctx).Create(&dtos).Error
}

// GormOutboxReader implements ports.OutboxReader for the dispatch job. It runs
// outside any business transaction on the main connection.
type GormOutboxReader struct {
	db *gorm.DB
}

// NewGormOutboxReader creates a reader over the outbox table.
func NewGormOutboxReader(db *gorm.DB) *GormOutboxReader {
	return &GormOutboxReader{db: db}
}

// GetPending returns up to limit undelivered messages, oldest first.
func (r *GormOutboxReader) GetPending(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []OutboxDTO
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	msgs := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		id, convErr := kernel.UUIDFromBytes(dto.ID[:])
		if convErr != nil {
			return nil, convErr
		}
		aggregateID, convErr := kernel.UUIDFromBytes(dto.AggregateID[:])
		if convErr != nil {
			return nil, convErr
		}
		msgs = append(msgs, ports.OutboxMessage{
			ID:          id,
			EventName:   dto.EventName,
			AggregateID: aggregateID,
			Payload:     dto.Payload,
			CreatedAt:   dto.CreatedAt,
		})
	}

	return msgs, nil
}

// MarkSent flags messages as delivered so they are not dispatched again.
func (r *GormOutboxReader) MarkSent(ctx context.Context, ids []kernel.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&OutboxDTO{}).
		Where("id IN ?", raw).
		Update("sent_at", now).Error
}
