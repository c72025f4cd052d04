package queries

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/guard"
)

var (
	ErrGetTrackingQueryIsNotConstructed = errors.New(
		"GetTrackingQuery must be created via NewGetTrackingQueryByOrderID or NewGetTrackingQueryByNumber constructor",
	)
)

// GetTrackingQuery retrieves the full delivery tracking record for an order.
// A query is keyed by exactly one of order ID or tracking number.
//
// Example:
//
//	query, err := NewGetTrackingQueryByOrderID(orderID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetTrackingQueryHandler(db)
//
//	record, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get tracking: %w", err)
//	}
//
//	fmt.Printf("Shipment %s is %s\n", record.TrackingNumber, record.CurrentStage)
type GetTrackingQuery struct {
	orderID        kernel.UUID
	trackingNumber string

	guard guard.ConstructorGuard
}

// NewGetTrackingQueryByOrderID creates a query keyed by the order identifier.
func NewGetTrackingQueryByOrderID(orderID kernel.UUID) (GetTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingQuery{}, err
	}

	return GetTrackingQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewGetTrackingQueryByNumber creates a query keyed by the public tracking number.
func NewGetTrackingQueryByNumber(trackingNumber string) (GetTrackingQuery, error) {
	if trackingNumber == "" {
		return GetTrackingQuery{}, errs.NewValueIsRequiredError("trackingNumber")
	}

	return GetTrackingQuery{
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order key, zero when the query is keyed by number.
func (q GetTrackingQuery) OrderID() kernel.UUID {
	return q.orderID
}

// TrackingNumber returns the number key, empty when the query is keyed by order.
func (q GetTrackingQuery) TrackingNumber() string {
	return q.trackingNumber
}

// Validate ensures the query was created through a constructor.
// Returns ErrGetTrackingQueryIsNotConstructed if validation fails.
func (q GetTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingQueryIsNotConstructed)
}

// StageEventResponse is one stage transition in the tracking read model.
type StageEventResponse struct {
	Stage       string
	Location    string
	Description string
	Actor       string
	OccurredAt  time.Time
}

// LocationUpdateResponse is one live location sample in the tracking read model.
type LocationUpdateResponse struct {
	Latitude   float64
	Longitude  float64
	Address    string
	AccuracyM  float64
	RecordedAt time.Time
}

// DeliveryAttemptResponse is one failed delivery attempt in the tracking read model.
type DeliveryAttemptResponse struct {
	Number        int
	Reason        string
	NextAttemptAt *time.Time
	RecordedAt    time.Time
}

// DeliveryProofResponse is the completion evidence in the tracking read model.
type DeliveryProofResponse struct {
	DeliveredTo string
	Signature   string
	PhotoURL    string
	Notes       string
}

// GetTrackingQueryResponse is the full tracking read model, histories included.
// Proof is nil until the delivery is completed.
type GetTrackingQueryResponse struct {
	ID                 kernel.UUID
	OrderID            kernel.UUID
	TrackingNumber     string
	CurrentStage       string
	StageHistory       []StageEventResponse
	LocationHistory    []LocationUpdateResponse
	DeliveryAttempts   []DeliveryAttemptResponse
	EstimatedDelivery  time.Time
	ActualDeliveryDate *time.Time
	Proof              *DeliveryProofResponse
}
