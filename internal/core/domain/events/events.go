// Package events defines the domain events the core publishes for external
// consumers (notification dispatchers, analytics). Events are fire-and-forget:
// they are persisted to the outbox in the same transaction as the state change
// and drained asynchronously. The core never depends on a consumer.
package events

import (
	"time"

	"escrow/internal/core/domain/model/kernel"
)

// Event is a domain fact to be relayed outside the core.
type Event interface {
	// Name is the stable event identifier consumers subscribe to.
	Name() string

	// AggregateID identifies the aggregate the event belongs to.
	AggregateID() kernel.UUID
}

// OrderCreated is published when an order and its escrow hold are committed.
type OrderCreated struct {
	OrderID      kernel.UUID `json:"orderId"`
	BuyerID      kernel.UUID `json:"buyerId"`
	VendorID     kernel.UUID `json:"vendorId"`
	EscrowAmount int64       `json:"escrowAmount"`
	Currency     string      `json:"currency"`
}

func (e OrderCreated) Name() string             { return "order.created" }
func (e OrderCreated) AggregateID() kernel.UUID { return e.OrderID }

// OrderConfirmed is published when the vendor accepts an order.
type OrderConfirmed struct {
	OrderID  kernel.UUID `json:"orderId"`
	VendorID kernel.UUID `json:"vendorId"`
}

func (e OrderConfirmed) Name() string             { return "order.confirmed" }
func (e OrderConfirmed) AggregateID() kernel.UUID { return e.OrderID }

// OrderShipped is published when the package leaves the vendor and tracking begins.
type OrderShipped struct {
	OrderID        kernel.UUID `json:"orderId"`
	TrackingID     kernel.UUID `json:"trackingId"`
	TrackingNumber string      `json:"trackingNumber"`
}

func (e OrderShipped) Name() string             { return "order.shipped" }
func (e OrderShipped) AggregateID() kernel.UUID { return e.OrderID }

// OrderCancelled is published when an order is withdrawn and the hold refunded.
type OrderCancelled struct {
	OrderID        kernel.UUID `json:"orderId"`
	RefundedAmount int64       `json:"refundedAmount"`
}

func (e OrderCancelled) Name() string             { return "order.cancelled" }
func (e OrderCancelled) AggregateID() kernel.UUID { return e.OrderID }

// StageChanged is published on every accepted delivery stage transition.
type StageChanged struct {
	TrackingID kernel.UUID `json:"trackingId"`
	OrderID    kernel.UUID `json:"orderId"`
	Stage      string      `json:"stage"`
	Location   string      `json:"location,omitempty"`
	Actor      string      `json:"actor,omitempty"`
}

func (e StageChanged) Name() string             { return "delivery.stage_changed" }
func (e StageChanged) AggregateID() kernel.UUID { return e.TrackingID }

// OrderDelivered is published when delivery completes. It does not release
// funds; release waits for explicit buyer confirmation.
type OrderDelivered struct {
	TrackingID  kernel.UUID `json:"trackingId"`
	OrderID     kernel.UUID `json:"orderId"`
	DeliveredTo string      `json:"deliveredTo"`
	DeliveredAt time.Time   `json:"deliveredAt"`
}

func (e OrderDelivered) Name() string             { return "delivery.completed" }
func (e OrderDelivered) AggregateID() kernel.UUID { return e.OrderID }

// DeliveryEscalated is published when failed attempts reach the policy limit.
// It is a dispute candidate signal; no mutation accompanies it.
type DeliveryEscalated struct {
	TrackingID   kernel.UUID `json:"trackingId"`
	OrderID      kernel.UUID `json:"orderId"`
	AttemptCount int         `json:"attemptCount"`
	LastReason   string      `json:"lastReason"`
}

func (e DeliveryEscalated) Name() string             { return "delivery.escalated" }
func (e DeliveryEscalated) AggregateID() kernel.UUID { return e.OrderID }

// FundsReleased is published when the escrow is credited to the vendor.
type FundsReleased struct {
	OrderID       kernel.UUID `json:"orderId"`
	VendorID      kernel.UUID `json:"vendorId"`
	Amount        int64       `json:"amount"`
	TransactionID kernel.UUID `json:"transactionId"`
}

func (e FundsReleased) Name() string             { return "escrow.funds_released" }
func (e FundsReleased) AggregateID() kernel.UUID { return e.OrderID }

// DisputeOpened is published when mediation freezes an order's escrow.
type DisputeOpened struct {
	DisputeID kernel.UUID `json:"disputeId"`
	OrderID   kernel.UUID `json:"orderId"`
	RaisedBy  kernel.UUID `json:"raisedBy"`
}

func (e DisputeOpened) Name() string             { return "dispute.opened" }
func (e DisputeOpened) AggregateID() kernel.UUID { return e.OrderID }

// DisputeResolved is published when mediation splits the escrow.
type DisputeResolved struct {
	DisputeID      kernel.UUID `json:"disputeId"`
	OrderID        kernel.UUID `json:"orderId"`
	Outcome        string      `json:"outcome"`
	AmountToBuyer  int64       `json:"amountToBuyer"`
	AmountToVendor int64       `json:"amountToVendor"`
}

func (e DisputeResolved) Name() string             { return "dispute.resolved" }
func (e DisputeResolved) AggregateID() kernel.UUID { return e.OrderID }

// WalletToppedUp is published when a verified gateway event credits a wallet.
type WalletToppedUp struct {
	WalletID kernel.UUID `json:"walletId"`
	UserID   kernel.UUID `json:"userId"`
	Amount   int64       `json:"amount"`
}

func (e WalletToppedUp) Name() string             { return "wallet.topped_up" }
func (e WalletToppedUp) AggregateID() kernel.UUID { return e.WalletID }
