// Package disputerepo provides data transfer objects and mapping functions for
// dispute persistence.
package disputerepo

import (
	"encoding/json"
	"time"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/google/uuid"
)

// DisputeDTO represents the database structure for persisting dispute
// aggregates. The resolution columns stay NULL until mediation concludes.
type DisputeDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID       `gorm:"type:uuid;index"`
	RaisedBy       uuid.UUID       `gorm:"type:uuid"`
	Evidence       json.RawMessage `gorm:"type:jsonb"`
	Status         string          `gorm:"index"`
	AmountToBuyer  *int64
	AmountToVendor *int64
	Currency       string
	OpenedAt       time.Time
	ResolvedAt     *time.Time
}

// TableName specifies the database table name for dispute entities.
func (DisputeDTO) TableName() string {
	return "disputes"
}

// fromDomain converts a dispute domain aggregate to its database representation.
func fromDomain(aggregate *dispute.Dispute) (DisputeDTO, error) {
	rawEvidence, err := json.Marshal(aggregate.Evidence())
	if err != nil {
		return DisputeDTO{}, err
	}

	dto := DisputeDTO{
		ID:         aggregate.ID().Bytes(),
		OrderID:    aggregate.OrderID().Bytes(),
		RaisedBy:   aggregate.RaisedBy().Bytes(),
		Evidence:   rawEvidence,
		Status:     aggregate.Status().String(),
		OpenedAt:   aggregate.OpenedAt(),
		ResolvedAt: aggregate.ResolvedAt(),
	}

	if res := aggregate.Resolution(); res != nil {
		toBuyer := res.AmountToBuyer.Amount()
		toVendor := res.AmountToVendor.Amount()
		dto.AmountToBuyer = &toBuyer
		dto.AmountToVendor = &toVendor
		dto.Currency = res.AmountToBuyer.Currency()
	}

	return dto, nil
}

// toDomain converts a database DTO to a dispute domain aggregate.
func toDomain(dto DisputeDTO) (*dispute.Dispute, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	raisedBy, err := kernel.UUIDFromBytes(dto.RaisedBy[:])
	if err != nil {
		return nil, err
	}
	status, err := statusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var evidence []string
	if len(dto.Evidence) > 0 {
		if err = json.Unmarshal(dto.Evidence, &evidence); err != nil {
			return nil, err
		}
	}

	var resolution *dispute.Resolution
	if dto.AmountToBuyer != nil && dto.AmountToVendor != nil {
		toBuyer, resErr := kernel.NewMoney(*dto.AmountToBuyer, dto.Currency)
		if resErr != nil {
			return nil, resErr
		}
		toVendor, resErr := kernel.NewMoney(*dto.AmountToVendor, dto.Currency)
		if resErr != nil {
			return nil, resErr
		}
		resolution = &dispute.Resolution{
			AmountToBuyer:  toBuyer,
			AmountToVendor: toVendor,
		}
	}

	return dispute.RestoreDispute(id, orderID, raisedBy, evidence, status,
		resolution, dto.OpenedAt, dto.ResolvedAt)
}

func statusFromString(raw string) (dispute.Status, error) {
	for _, s := range []dispute.Status{
		dispute.Open, dispute.UnderReview,
		dispute.ResolvedBuyer, dispute.ResolvedVendor, dispute.ResolvedSplit,
	} {
		if s.String() == raw {
			return s, nil
		}
	}
	return dispute.StatusUnknown, errs.NewValueIsInvalidError("dispute status " + raw)
}
