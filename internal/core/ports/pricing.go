package ports

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
)

// DeliveryInfo describes where an order ships, as supplied at creation time.
type DeliveryInfo struct {
	Address string
	City    string
}

// FeeBreakdown is the delivery fee decomposition returned by the pricing
// engine. Total always equals BaseFee + DistanceFee + ServiceFee.
type FeeBreakdown struct {
	BaseFee     kernel.Money
	DistanceFee kernel.Money
	ServiceFee  kernel.Money
	Total       kernel.Money
}

// PricingEngine supplies the delivery-fee breakdown consumed when an order is
// created. Implementations must be side-effect free: quoting never mutates
// state, so a failed order creation leaves nothing behind.
type PricingEngine interface {
	Quote(ctx context.Context, items []order.LineItem, info DeliveryInfo) (FeeBreakdown, error)
}
