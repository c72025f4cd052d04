package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrLineItemsAreRequired       = errors.New("at least one line item is required")
	ErrDeliveryAddressIsRequired  = errors.New("delivery address is required")
)

// CreateOrderCommand represents a buyer's request to place an order with a
// vendor. Placing an order immediately moves the full amount, items plus the
// quoted delivery fee, from the buyer's wallet into escrow.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(orderID, buyerID, vendorID, items, "12 Allen Ave", "Ikeja")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, pricing, ledgerSvc)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	buyerID   kernel.UUID
	vendorID  kernel.UUID
	lineItems []order.LineItem
	address   string
	city      string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place an order. Validates that all
// identifiers are set, at least one line item is present, and a delivery
// address was provided. Line item pricing is validated by the order aggregate.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	buyerID kernel.UUID,
	vendorID kernel.UUID,
	lineItems []order.LineItem,
	address string,
	city string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBuyerID(buyerID),
		cmd.setVendorID(vendorID),
		cmd.setLineItems(lineItems),
		cmd.setAddress(address),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.city = city

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the client-supplied order identifier.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BuyerID returns the purchasing party.
func (c CreateOrderCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// VendorID returns the selling party.
func (c CreateOrderCommand) VendorID() kernel.UUID {
	return c.vendorID
}

// LineItems returns the ordered items.
func (c CreateOrderCommand) LineItems() []order.LineItem {
	return c.lineItems
}

// Address returns the delivery street address.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// City returns the delivery city.
func (c CreateOrderCommand) City() string {
	return c.city
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}

	c.buyerID = buyerID
	return nil
}

func (c *CreateOrderCommand) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}

	c.vendorID = vendorID
	return nil
}

func (c *CreateOrderCommand) setLineItems(lineItems []order.LineItem) error {
	if len(lineItems) == 0 {
		return ErrLineItemsAreRequired
	}

	c.lineItems = lineItems
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}

	c.address = address
	return nil
}
