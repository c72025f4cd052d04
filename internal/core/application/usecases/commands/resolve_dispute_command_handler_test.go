package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"
)

func testOpenDispute(t *testing.T, orderID, raisedBy kernel.UUID) *dispute.Dispute {
	t.Helper()
	d, err := dispute.NewDispute(kernel.NewUUID(), orderID, raisedBy, []string{"item arrived broken"})
	require.NoError(t, err)
	return d
}

func TestResolveDisputeCommandHandler_Handle_SplitsEscrow(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	disputed := testOrderInStatus(t, buyerID, vendorID, 10000, order.Disputed)
	openDispute := testOpenDispute(t, disputed.ID(), buyerID)

	cmd, err := commands.NewResolveDisputeCommand(openDispute.ID(), dispute.ResolvedSplit, 6000, 4000)
	require.NoError(t, err)

	buyerWallet := testWallet(t, buyerID, 0)
	vendorWallet := testWallet(t, vendorID, 0)
	buyerKey := disputed.ID().String() + ":dispute-buyer"
	vendorKey := disputed.ID().String() + ":dispute-vendor"

	walletRepo := new(MockWalletRepository)
	walletRepo.On("GetByUserIDForUpdate", ctx, buyerID).Return(buyerWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, buyerKey).
		Return(nil, errs.NewObjectNotFoundError("transaction", buyerKey)).Once()
	walletRepo.On("GetByUserIDForUpdate", ctx, vendorID).Return(vendorWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, vendorKey).
		Return(nil, errs.NewObjectNotFoundError("transaction", vendorKey)).Once()
	walletRepo.On("Update", ctx, mock.Anything).Return(nil).Twice()
	walletRepo.On("AppendTransaction", ctx, mock.Anything).Return(nil).Twice()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, disputed.ID()).Return(disputed, nil).Once()
	orderRepo.On("Update", ctx, disputed).Return(nil).Once()

	disputeRepo := new(MockDisputeRepository)
	disputeRepo.On("GetForUpdate", ctx, openDispute.ID()).Return(openDispute, nil).Once()
	disputeRepo.On("Update", ctx, openDispute).Return(nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DisputeRepository").Return(disputeRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("WalletRepository").Return(walletRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewResolveDisputeCommandHandler(disputeUoWFactory{uow: uow}, ledger.NewService())
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, dispute.ResolvedSplit, openDispute.Status())
	assert.Equal(t, order.Completed, disputed.Status())
	assert.Equal(t, int64(6000), buyerWallet.Balance().Amount())
	assert.Equal(t, int64(4000), vendorWallet.Balance().Amount())
	walletRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestResolveDisputeCommandHandler_Handle_FullRefundMarksOrderRefunded(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	disputed := testOrderInStatus(t, buyerID, vendorID, 10000, order.Disputed)
	openDispute := testOpenDispute(t, disputed.ID(), buyerID)

	cmd, err := commands.NewResolveDisputeCommand(openDispute.ID(), dispute.ResolvedBuyer, 10000, 0)
	require.NoError(t, err)

	buyerWallet := testWallet(t, buyerID, 0)
	buyerKey := disputed.ID().String() + ":dispute-buyer"

	walletRepo := new(MockWalletRepository)
	walletRepo.On("GetByUserIDForUpdate", ctx, buyerID).Return(buyerWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, buyerKey).
		Return(nil, errs.NewObjectNotFoundError("transaction", buyerKey)).Once()
	walletRepo.On("Update", ctx, buyerWallet).Return(nil).Once()
	walletRepo.On("AppendTransaction", ctx, mock.Anything).Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, disputed.ID()).Return(disputed, nil).Once()
	orderRepo.On("Update", ctx, disputed).Return(nil).Once()

	disputeRepo := new(MockDisputeRepository)
	disputeRepo.On("GetForUpdate", ctx, openDispute.ID()).Return(openDispute, nil).Once()
	disputeRepo.On("Update", ctx, openDispute).Return(nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DisputeRepository").Return(disputeRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("WalletRepository").Return(walletRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewResolveDisputeCommandHandler(disputeUoWFactory{uow: uow}, ledger.NewService())
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.Refunded, disputed.Status())
	assert.Equal(t, int64(10000), buyerWallet.Balance().Amount())
	// no vendor credit at all on a full refund
	walletRepo.AssertNumberOfCalls(t, "AppendTransaction", 1)
}

func TestResolveDisputeCommandHandler_Handle_RejectsSharesNotCoveringEscrow(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	disputed := testOrderInStatus(t, buyerID, vendorID, 10000, order.Disputed)
	openDispute := testOpenDispute(t, disputed.ID(), buyerID)

	// 6000 + 3000 leaves 1000 of the escrow unaccounted for
	cmd, err := commands.NewResolveDisputeCommand(openDispute.ID(), dispute.ResolvedSplit, 6000, 3000)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, disputed.ID()).Return(disputed, nil).Once()

	disputeRepo := new(MockDisputeRepository)
	disputeRepo.On("GetForUpdate", ctx, openDispute.ID()).Return(openDispute, nil).Once()

	walletRepo := new(MockWalletRepository)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DisputeRepository").Return(disputeRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewResolveDisputeCommandHandler(disputeUoWFactory{uow: uow}, ledger.NewService())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, dispute.Open, openDispute.Status())
	walletRepo.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestResolveDisputeCommandHandler_Handle_RejectsInconsistentVerdict(t *testing.T) {
	ctx := context.Background()
	buyerID, vendorID := kernel.NewUUID(), kernel.NewUUID()
	disputed := testOrderInStatus(t, buyerID, vendorID, 10000, order.Disputed)
	openDispute := testOpenDispute(t, disputed.ID(), buyerID)

	// buyer-favored verdict cannot leave money with the vendor
	cmd, err := commands.NewResolveDisputeCommand(openDispute.ID(), dispute.ResolvedBuyer, 4000, 6000)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetForUpdate", ctx, disputed.ID()).Return(disputed, nil).Once()

	disputeRepo := new(MockDisputeRepository)
	disputeRepo.On("GetForUpdate", ctx, openDispute.ID()).Return(openDispute, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DisputeRepository").Return(disputeRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewResolveDisputeCommandHandler(disputeUoWFactory{uow: uow}, ledger.NewService())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, dispute.Open, openDispute.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
