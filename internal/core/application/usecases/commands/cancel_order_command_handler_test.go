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
	"escrow/internal/pkg/errs"
)

func TestCancelOrderCommandHandler_Handle_RefundsBuyer(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	pending := testOrderInStatus(t, buyerID, vendorID, 10000, order.PendingVendorConfirmation)

	cmd, err := commands.NewCancelOrderCommand(pending.ID(), buyerID)
	require.NoError(t, err)

	buyerWallet := testWallet(t, buyerID, 0)
	refundKey := pending.ID().String() + ":refund"

	walletRepo := new(MockWalletRepository)
	walletRepo.On("GetByUserIDForUpdate", ctx, buyerID).Return(buyerWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, refundKey).
		Return(nil, errs.NewObjectNotFoundError("transaction", refundKey)).Once()
	walletRepo.On("Update", ctx, buyerWallet).Return(nil).Once()
	walletRepo.On("AppendTransaction", ctx, mock.Anything).Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, pending.ID()).Return(pending, nil).Once()
	orderRepo.On("Update", ctx, pending).Return(nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("WalletRepository").Return(walletRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow: uow}, ledger.NewService())
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.Cancelled, pending.Status())
	assert.Equal(t, int64(10000), buyerWallet.Balance().Amount())
	walletRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_RejectsAfterShipment(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	shipped := testOrderInStatus(t, buyerID, vendorID, 10000, order.Shipped)

	cmd, err := commands.NewCancelOrderCommand(shipped.ID(), buyerID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, shipped.ID()).Return(shipped, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow: uow}, ledger.NewService())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, order.Shipped, shipped.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCancelOrderCommandHandler_Handle_OnlyBuyerMayCancel(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	pending := testOrderInStatus(t, buyerID, vendorID, 10000, order.PendingVendorConfirmation)

	cmd, err := commands.NewCancelOrderCommand(pending.ID(), vendorID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, pending.ID()).Return(pending, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(orderUoWFactory{uow: uow}, ledger.NewService())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
}
