package commands

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrShipOrderCommandIsNotConstructed = errors.New(
		"ShipOrderCommand must be created via NewShipOrderCommand constructor",
	)
	ErrEstimatedDeliveryIsRequired = errors.New("estimated delivery date is required")
)

// ShipOrderCommand represents a vendor handing a funded order to logistics.
// Shipping opens the delivery tracking record.
type ShipOrderCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	actorID           kernel.UUID
	estimatedDelivery time.Time

	guard guard.ConstructorGuard
}

// NewShipOrderCommand creates a command to mark an order as shipped.
func NewShipOrderCommand(orderID, actorID kernel.UUID, estimatedDelivery time.Time) (ShipOrderCommand, error) {
	cmd := ShipOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setEstimatedDelivery(estimatedDelivery),
	); err != nil {
		return ShipOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ShipOrderCommand) Validate() error {
	return c.guard.Validate(ErrShipOrderCommandIsNotConstructed)
}

// OrderID returns the order being shipped.
func (c ShipOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the party shipping the order.
func (c ShipOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// EstimatedDelivery returns the promised delivery date.
func (c ShipOrderCommand) EstimatedDelivery() time.Time {
	return c.estimatedDelivery
}

func (c *ShipOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ShipOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *ShipOrderCommand) setEstimatedDelivery(estimatedDelivery time.Time) error {
	if estimatedDelivery.IsZero() {
		return ErrEstimatedDeliveryIsRequired
	}

	c.estimatedDelivery = estimatedDelivery
	return nil
}
