package ports

import (
	"context"
	"time"

	"escrow/internal/core/domain/events"
	"escrow/internal/core/domain/model/kernel"
)

// OutboxMessage is one serialized domain event awaiting delivery. Messages are
// written in the same transaction as the state change they describe and drained
// asynchronously by the dispatch job.
type OutboxMessage struct {
	ID          kernel.UUID
	EventName   string
	AggregateID kernel.UUID
	Payload     []byte
	CreatedAt   time.Time
}

// EventPublisher records domain events for delivery. Implementations bound to
// a unit of work persist the message atomically with the business mutation;
// nothing is delivered until the transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.Event) error
}

// OutboxReader gives the dispatch job access to undelivered messages.
type OutboxReader interface {
	// GetPending returns up to limit undelivered messages, oldest first.
	GetPending(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkSent flags messages as delivered so they are not dispatched again.
	MarkSent(ctx context.Context, ids []kernel.UUID) error
}

// Notifier is the external notification dispatcher boundary. Delivery is
// fire-and-forget from the core's perspective; a failed Notify leaves the
// message pending for the next sweep.
type Notifier interface {
	Notify(ctx context.Context, msg OutboxMessage) error
}
