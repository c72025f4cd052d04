// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. This package implements the repository pattern for the
// order domain aggregate, handling the conversion between domain entities and
// database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items are a JSON document: they are immutable after creation and only
// ever read back whole, so relational decomposition buys nothing.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID      uuid.UUID       `gorm:"type:uuid;index"`
	VendorID     uuid.UUID       `gorm:"type:uuid;index"`
	LineItems    json.RawMessage `gorm:"type:jsonb"`
	TotalAmount  int64
	EscrowAmount int64
	DeliveryFee  int64
	Currency     string
	Status       string `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// lineItemDTO is the JSON shape of one purchased product line.
type lineItemDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unitPrice"`
	Currency  string    `json:"currency"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items := make([]lineItemDTO, 0, len(aggregate.LineItems()))
	for _, li := range aggregate.LineItems() {
		items = append(items, lineItemDTO{
			ProductID: li.ProductID.Bytes(),
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice.Amount(),
			Currency:  li.UnitPrice.Currency(),
		})
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		BuyerID:      aggregate.BuyerID().Bytes(),
		VendorID:     aggregate.VendorID().Bytes(),
		LineItems:    raw,
		TotalAmount:  aggregate.TotalAmount().Amount(),
		EscrowAmount: aggregate.EscrowAmount().Amount(),
		DeliveryFee:  aggregate.DeliveryFee().Amount(),
		Currency:     aggregate.TotalAmount().Currency(),
		Status:       aggregate.Status().String(),
		CreatedAt:    aggregate.CreatedAt(),
		UpdatedAt:    aggregate.UpdatedAt(),
	}, nil
}

// toDomain converts a database DTO to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	var rawItems []lineItemDTO
	if len(dto.LineItems) > 0 {
		if err = json.Unmarshal(dto.LineItems, &rawItems); err != nil {
			return nil, err
		}
	}

	items := make([]order.LineItem, 0, len(rawItems))
	for _, li := range rawItems {
		productID, itemErr := kernel.UUIDFromBytes(li.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		unitPrice, itemErr := kernel.NewMoney(li.UnitPrice, li.Currency)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, order.LineItem{
			ProductID: productID,
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: unitPrice,
		})
	}

	total, err := kernel.NewMoney(dto.TotalAmount, dto.Currency)
	if err != nil {
		return nil, err
	}
	escrow, err := kernel.NewMoney(dto.EscrowAmount, dto.Currency)
	if err != nil {
		return nil, err
	}
	fee, err := kernel.NewMoney(dto.DeliveryFee, dto.Currency)
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, buyerID, vendorID, items, total, escrow, fee,
		status, dto.CreatedAt, dto.UpdatedAt)
}
