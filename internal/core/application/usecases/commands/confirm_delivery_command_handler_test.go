package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"
)

func testOrderInStatus(t *testing.T, buyerID, vendorID kernel.UUID, amount int64, status order.Status) *order.Order {
	t.Helper()
	now := time.Now().UTC()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), buyerID, vendorID,
		testLineItems(t),
		testMoney(t, amount), testMoney(t, amount), testMoney(t, 500),
		status, now, now,
	)
	require.NoError(t, err)
	return o
}

func TestConfirmDeliveryCommandHandler_Handle_ReleasesEscrowToVendor(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	delivered := testOrderInStatus(t, buyerID, vendorID, 10000, order.Delivered)

	cmd, err := commands.NewConfirmDeliveryCommand(delivered.ID(), buyerID)
	require.NoError(t, err)

	vendorWallet := testWallet(t, vendorID, 0)
	releaseKey := delivered.ID().String() + ":release"

	walletRepo := new(MockWalletRepository)
	walletRepo.On("GetByUserIDForUpdate", ctx, vendorID).Return(vendorWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, releaseKey).
		Return(nil, errs.NewObjectNotFoundError("transaction", releaseKey)).Once()
	walletRepo.On("Update", ctx, vendorWallet).Return(nil).Once()
	walletRepo.On("AppendTransaction", ctx, mock.Anything).Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, delivered.ID()).Return(delivered, nil).Once()
	orderRepo.On("Update", ctx, delivered).Return(nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("WalletRepository").Return(walletRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewConfirmDeliveryCommandHandler(orderUoWFactory{uow: uow}, ledger.NewService())
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.Completed, delivered.Status())
	assert.Equal(t, int64(10000), vendorWallet.Balance().Amount())
	walletRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestConfirmDeliveryCommandHandler_Handle_OnlyBuyerMayConfirm(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	delivered := testOrderInStatus(t, buyerID, vendorID, 10000, order.Delivered)

	cmd, err := commands.NewConfirmDeliveryCommand(delivered.ID(), vendorID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, delivered.ID()).Return(delivered, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewConfirmDeliveryCommandHandler(orderUoWFactory{uow: uow}, ledger.NewService())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	assert.Equal(t, order.Delivered, delivered.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestConfirmDeliveryCommandHandler_Handle_RejectsUndeliveredOrder(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	shipped := testOrderInStatus(t, buyerID, vendorID, 10000, order.Shipped)

	cmd, err := commands.NewConfirmDeliveryCommand(shipped.ID(), buyerID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, shipped.ID()).Return(shipped, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewConfirmDeliveryCommandHandler(orderUoWFactory{uow: uow}, ledger.NewService())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
