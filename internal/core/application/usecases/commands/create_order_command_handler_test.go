package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/wallet"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

type MockPricingEngine struct{ mock.Mock }

func (m *MockPricingEngine) Quote(ctx context.Context, items []order.LineItem, info ports.DeliveryInfo) (ports.FeeBreakdown, error) {
	args := m.Called(ctx, items, info)
	return args.Get(0).(ports.FeeBreakdown), args.Error(1)
}

func testMoney(t *testing.T, amount int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount, kernel.DefaultCurrency)
	require.NoError(t, err)
	return m
}

func testWallet(t *testing.T, userID kernel.UUID, balance int64) *wallet.Wallet {
	t.Helper()
	w, err := wallet.RestoreWallet(kernel.NewUUID(), userID, testMoney(t, balance))
	require.NoError(t, err)
	return w
}

func testLineItems(t *testing.T) []order.LineItem {
	t.Helper()
	return []order.LineItem{{
		ProductID: kernel.NewUUID(),
		Name:      "ceramic mug",
		Quantity:  2,
		UnitPrice: testMoney(t, 4750),
	}}
}

func feeQuote(t *testing.T, total int64) ports.FeeBreakdown {
	t.Helper()
	return ports.FeeBreakdown{
		BaseFee:     testMoney(t, total),
		DistanceFee: testMoney(t, 0),
		ServiceFee:  testMoney(t, 0),
		Total:       testMoney(t, total),
	}
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	orderID, buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	items := testLineItems(t) // subtotal 9500

	cmd, err := commands.NewCreateOrderCommand(orderID, buyerID, vendorID, items, "12 Allen Ave", "Ikeja")
	require.NoError(t, err)

	buyerWallet := testWallet(t, buyerID, 10000)

	pricing := new(MockPricingEngine)
	pricing.On("Quote", ctx, items, ports.DeliveryInfo{Address: "12 Allen Ave", City: "Ikeja"}).
		Return(feeQuote(t, 500), nil).Once()

	walletRepo := new(MockWalletRepository)
	walletRepo.On("GetByUserIDForUpdate", ctx, buyerID).Return(buyerWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, orderID.String()+":hold").
		Return(nil, errs.NewObjectNotFoundError("transaction", orderID.String()+":hold")).Once()
	walletRepo.On("Update", ctx, buyerWallet).Return(nil).Once()
	walletRepo.On("AppendTransaction", ctx, mock.Anything).Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Add", ctx, mock.Anything).Return(nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("WalletRepository").Return(walletRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewCreateOrderCommandHandler(orderUoWFactory{uow: uow}, pricing, ledger.NewService())
	result, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	// full total (9500 items + 500 fee) leaves the escrow hold at 10000
	assert.Equal(t, int64(0), buyerWallet.Balance().Amount())
	assert.Equal(t, cmd.OrderID(), result.OrderID)
	assert.NoError(t, result.WalletTransactionID.Validate())
	assert.Equal(t, int64(0), result.RemainingBalance.Amount())
	pricing.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	orderID, buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	items := testLineItems(t)

	cmd, err := commands.NewCreateOrderCommand(orderID, buyerID, vendorID, items, "12 Allen Ave", "Ikeja")
	require.NoError(t, err)

	buyerWallet := testWallet(t, buyerID, 500)

	pricing := new(MockPricingEngine)
	pricing.On("Quote", ctx, items, mock.Anything).Return(feeQuote(t, 500), nil).Once()

	walletRepo := new(MockWalletRepository)
	walletRepo.On("GetByUserIDForUpdate", ctx, buyerID).Return(buyerWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("transaction", "unused")).Once()

	orderRepo := new(MockOrderRepository)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("WalletRepository").Return(walletRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCreateOrderCommandHandler(orderUoWFactory{uow: uow}, pricing, ledger.NewService())
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInsufficientFunds)
	assert.Equal(t, int64(500), buyerWallet.Balance().Amount())
	orderRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	walletRepo.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_NotConstructedCommand(t *testing.T) {
	handler := commands.NewCreateOrderCommandHandler(
		orderUoWFactory{uow: new(MockUoW)}, new(MockPricingEngine), ledger.NewService())

	_, err := handler.Handle(context.Background(), commands.CreateOrderCommand{})
	assert.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
