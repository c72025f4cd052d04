package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	orderID, buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	items := testLineItems(t)

	cmd, err := commands.NewCreateOrderCommand(orderID, buyerID, vendorID, items, "12 Allen Ave", "Ikeja")
	require.NoError(t, err)

	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, buyerID, cmd.BuyerID())
	assert.Equal(t, vendorID, cmd.VendorID())
	assert.Equal(t, items, cmd.LineItems())
	assert.Equal(t, "12 Allen Ave", cmd.Address())
	assert.Equal(t, "Ikeja", cmd.City())
	assert.NoError(t, cmd.Validate())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), testLineItems(t), "12 Allen Ave", "Ikeja")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_NoLineItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), []order.LineItem{}, "12 Allen Ave", "Ikeja")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrLineItemsAreRequired)
}

func TestNewCreateOrderCommand_EmptyAddress(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), testLineItems(t), "", "Ikeja")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrDeliveryAddressIsRequired)
}

func TestCreateOrderCommand_ZeroValueFailsValidation(t *testing.T) {
	var cmd commands.CreateOrderCommand
	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
