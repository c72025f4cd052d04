// Package trackingrepo provides data transfer objects and mapping functions
// for delivery tracking persistence. Histories (stage events, location
// samples, delivery attempts) are append-only JSON documents stored with the
// tracking row, so the aggregate loads and saves in one round trip.
package trackingrepo

import (
	"encoding/json"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// TrackingDTO represents the database structure for persisting delivery
// tracking aggregates. The public tracking number carries its own unique index
// for lookups from outside the order context.
type TrackingDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID       `gorm:"type:uuid;uniqueIndex"`
	TrackingNumber     string          `gorm:"uniqueIndex"`
	CurrentStage       string          `gorm:"index"`
	StageHistory       json.RawMessage `gorm:"type:jsonb"`
	LocationHistory    json.RawMessage `gorm:"type:jsonb"`
	DeliveryAttempts   json.RawMessage `gorm:"type:jsonb"`
	EstimatedDelivery  time.Time
	ActualDeliveryDate *time.Time
	Proof              json.RawMessage `gorm:"type:jsonb"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the database table name for tracking entities.
func (TrackingDTO) TableName() string {
	return "delivery_trackings"
}

type stageEventDTO struct {
	Stage       string    `json:"stage"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type locationUpdateDTO struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Address    string    `json:"address,omitempty"`
	AccuracyM  float64   `json:"accuracyM,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

type deliveryAttemptDTO struct {
	Number        int        `json:"number"`
	Reason        string     `json:"reason"`
	NextAttemptAt *time.Time `json:"nextAttemptAt,omitempty"`
	RecordedAt    time.Time  `json:"recordedAt"`
}

type deliveryProofDTO struct {
	DeliveredTo string `json:"deliveredTo"`
	Signature   string `json:"signature,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// fromDomain converts a tracking domain aggregate to its database representation.
func fromDomain(aggregate *tracking.DeliveryTracking) (TrackingDTO, error) {
	stages := make([]stageEventDTO, 0, len(aggregate.StageHistory()))
	for _, ev := range aggregate.StageHistory() {
		stages = append(stages, stageEventDTO{
			Stage:       ev.Stage.String(),
			Location:    ev.Location,
			Description: ev.Description,
			Actor:       ev.Actor,
			OccurredAt:  ev.OccurredAt,
		})
	}

	locations := make([]locationUpdateDTO, 0, len(aggregate.LocationHistory()))
	for _, lu := range aggregate.LocationHistory() {
		locations = append(locations, locationUpdateDTO{
			Latitude:   lu.Latitude,
			Longitude:  lu.Longitude,
			Address:    lu.Address,
			AccuracyM:  lu.AccuracyM,
			RecordedAt: lu.RecordedAt,
		})
	}

	attempts := make([]deliveryAttemptDTO, 0, len(aggregate.DeliveryAttempts()))
	for _, da := range aggregate.DeliveryAttempts() {
		attempts = append(attempts, deliveryAttemptDTO{
			Number:        da.Number,
			Reason:        da.Reason,
			NextAttemptAt: da.NextAttemptAt,
			RecordedAt:    da.RecordedAt,
		})
	}

	rawStages, err := json.Marshal(stages)
	if err != nil {
		return TrackingDTO{}, err
	}
	rawLocations, err := json.Marshal(locations)
	if err != nil {
		return TrackingDTO{}, err
	}
	rawAttempts, err := json.Marshal(attempts)
	if err != nil {
		return TrackingDTO{}, err
	}

	var rawProof json.RawMessage
	if p := aggregate.Proof(); p != nil {
		rawProof, err = json.Marshal(deliveryProofDTO{
			DeliveredTo: p.DeliveredTo,
			Signature:   p.Signature,
			PhotoURL:    p.PhotoURL,
			Notes:       p.Notes,
		})
		if err != nil {
			return TrackingDTO{}, err
		}
	}

	return TrackingDTO{
		ID:                 aggregate.ID().Bytes(),
		OrderID:            aggregate.OrderID().Bytes(),
		TrackingNumber:     aggregate.TrackingNumber(),
		CurrentStage:       aggregate.CurrentStage().String(),
		StageHistory:       rawStages,
		LocationHistory:    rawLocations,
		DeliveryAttempts:   rawAttempts,
		EstimatedDelivery:  aggregate.EstimatedDelivery(),
		ActualDeliveryDate: aggregate.ActualDeliveryDate(),
		Proof:              rawProof,
	}, nil
}

// toDomain converts a database DTO to a tracking domain aggregate.
func toDomain(dto TrackingDTO) (*tracking.DeliveryTracking, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	stage, err := tracking.StageFromString(dto.CurrentStage)
	if err != nil {
		return nil, err
	}

	var rawStages []stageEventDTO
	if err = unmarshalHistory(dto.StageHistory, &rawStages); err != nil {
		return nil, err
	}
	stages := make([]tracking.StageEvent, 0, len(rawStages))
	for _, ev := range rawStages {
		s, stageErr := tracking.StageFromString(ev.Stage)
		if stageErr != nil {
			return nil, stageErr
		}
		stages = append(stages, tracking.StageEvent{
			Stage:       s,
			Location:    ev.Location,
			Description: ev.Description,
			Actor:       ev.Actor,
			OccurredAt:  ev.OccurredAt,
		})
	}

	var rawLocations []locationUpdateDTO
	if err = unmarshalHistory(dto.LocationHistory, &rawLocations); err != nil {
		return nil, err
	}
	locations := make([]tracking.LocationUpdate, 0, len(rawLocations))
	for _, lu := range rawLocations {
		locations = append(locations, tracking.LocationUpdate{
			Latitude:   lu.Latitude,
			Longitude:  lu.Longitude,
			Address:    lu.Address,
			AccuracyM:  lu.AccuracyM,
			RecordedAt: lu.RecordedAt,
		})
	}

	var rawAttempts []deliveryAttemptDTO
	if err = unmarshalHistory(dto.DeliveryAttempts, &rawAttempts); err != nil {
		return nil, err
	}
	attempts := make([]tracking.DeliveryAttempt, 0, len(rawAttempts))
	for _, da := range rawAttempts {
		attempts = append(attempts, tracking.DeliveryAttempt{
			Number:        da.Number,
			Reason:        da.Reason,
			NextAttemptAt: da.NextAttemptAt,
			RecordedAt:    da.RecordedAt,
		})
	}

	var proof *tracking.DeliveryProof
	if len(dto.Proof) > 0 {
		var p deliveryProofDTO
		if err = json.Unmarshal(dto.Proof, &p); err != nil {
			return nil, err
		}
		proof = &tracking.DeliveryProof{
			DeliveredTo: p.DeliveredTo,
			Signature:   p.Signature,
			PhotoURL:    p.PhotoURL,
			Notes:       p.Notes,
		}
	}

	return tracking.RestoreDeliveryTracking(id, orderID, dto.TrackingNumber,
		stage, stages, locations, attempts,
		dto.EstimatedDelivery, dto.ActualDeliveryDate, proof)
}

func unmarshalHistory[T any](raw json.RawMessage, target *[]T) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
