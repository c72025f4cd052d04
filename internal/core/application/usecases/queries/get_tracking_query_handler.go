package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingQueryHandler retrieves delivery tracking state from the database.
// Histories are stored as JSON documents alongside the tracking row, so one
// row fetch yields the complete read model.
type GetTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingQueryHandler creates a handler for tracking queries.
// Requires a GORM database connection for query execution.
func NewGetTrackingQueryHandler(db *gorm.DB) GetTrackingQueryHandler {
	return GetTrackingQueryHandler{db: db}
}

// Handle executes the query for one tracking record.
// Returns ObjectNotFoundError when no record matches the key.
func (h GetTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingQuery,
) (GetTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingQueryResponse{}, err
	}

	const baseQuery = `
		SELECT
			id,
			order_id,
			tracking_number,
			current_stage,
			stage_history,
			location_history,
			delivery_attempts,
			estimated_delivery,
			actual_delivery_date,
			proof
		FROM delivery_trackings
	`

	var row *sql.Row
	var key any
	if query.TrackingNumber() != "" {
		key = query.TrackingNumber()
		row = h.db.WithContext(ctx).Raw(baseQuery+"WHERE tracking_number = ?", key).Row()
	} else {
		key = query.OrderID()
		row = h.db.WithContext(ctx).Raw(baseQuery+"WHERE order_id = ?", query.OrderID().String()).Row()
	}

	var response GetTrackingQueryResponse
	var id, orderID uuid.UUID
	var stageHistory, locationHistory, deliveryAttempts []byte
	var proof []byte
	var actualDelivery sql.NullTime

	err := row.Scan(
		&id,
		&orderID,
		&response.TrackingNumber,
		&response.CurrentStage,
		&stageHistory,
		&locationHistory,
		&deliveryAttempts,
		&response.EstimatedDelivery,
		&actualDelivery,
		&proof,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetTrackingQueryResponse{}, errs.NewObjectNotFoundError("delivery tracking", key)
	}
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	response.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}
	response.OrderID, err = kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}
	if actualDelivery.Valid {
		at := actualDelivery.Time
		response.ActualDeliveryDate = &at
	}

	if err = unmarshalHistory(stageHistory, &response.StageHistory); err != nil {
		return GetTrackingQueryResponse{}, err
	}
	if err = unmarshalHistory(locationHistory, &response.LocationHistory); err != nil {
		return GetTrackingQueryResponse{}, err
	}
	if err = unmarshalHistory(deliveryAttempts, &response.DeliveryAttempts); err != nil {
		return GetTrackingQueryResponse{}, err
	}

	if len(proof) > 0 {
		var p DeliveryProofResponse
		if err = json.Unmarshal(proof, &p); err != nil {
			return GetTrackingQueryResponse{}, err
		}
		response.Proof = &p
	}

	return response, nil
}

// unmarshalHistory decodes a JSON history column, tolerating NULL for records
// persisted before the column existed.
func unmarshalHistory[T any](raw []byte, target *[]T) error {
	*target = make([]T, 0)
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
