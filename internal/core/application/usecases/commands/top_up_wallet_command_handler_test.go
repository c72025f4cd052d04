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
	"escrow/internal/core/domain/model/wallet"
	"escrow/internal/pkg/errs"
)

func TestTopUpWalletCommandHandler_Handle_CreditsWallet(t *testing.T) {
	ctx := context.Background()
	userID := kernel.NewUUID()
	userWallet := testWallet(t, userID, 1000)

	cmd, err := commands.NewTopUpWalletCommand(userID, testMoney(t, 5000), "evt_8812")
	require.NoError(t, err)

	walletRepo := new(MockWalletRepository)
	walletRepo.On("GetByUserIDForUpdate", ctx, userID).Return(userWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, "topup:evt_8812").
		Return(nil, errs.NewObjectNotFoundError("transaction", "topup:evt_8812")).Once()
	walletRepo.On("Update", ctx, userWallet).Return(nil).Once()
	walletRepo.On("AppendTransaction", ctx, mock.Anything).Return(nil).Once()
	walletRepo.On("GetByUserID", ctx, userID).Return(userWallet, nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("WalletRepository").Return(walletRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewTopUpWalletCommandHandler(walletUoWFactory{uow: uow}, ledger.NewService())
	entry, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, entry.Replayed)
	assert.Equal(t, int64(6000), entry.BalanceAfter.Amount())
	walletRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestTopUpWalletCommandHandler_Handle_RedeliveredWebhookReplays(t *testing.T) {
	ctx := context.Background()
	userID := kernel.NewUUID()
	userWallet := testWallet(t, userID, 6000)

	priorTx, err := wallet.RestoreTransaction(
		kernel.NewUUID(), userWallet.ID(), wallet.Credit, testMoney(t, 5000),
		"topup", "topup:evt_8812", 1000, 6000, wallet.TransferNone, time.Now().UTC())
	require.NoError(t, err)

	cmd, err := commands.NewTopUpWalletCommand(userID, testMoney(t, 5000), "evt_8812")
	require.NoError(t, err)

	walletRepo := new(MockWalletRepository)
	walletRepo.On("GetByUserIDForUpdate", ctx, userID).Return(userWallet, nil).Once()
	walletRepo.On("GetTransactionByKey", ctx, "topup:evt_8812").Return(priorTx, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("WalletRepository").Return(walletRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewTopUpWalletCommandHandler(walletUoWFactory{uow: uow}, ledger.NewService())
	entry, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, entry.Replayed)
	assert.Equal(t, int64(6000), entry.BalanceAfter.Amount())
	assert.Equal(t, int64(6000), userWallet.Balance().Amount())
	// replay publishes nothing and appends nothing
	uow.AssertNotCalled(t, "EventPublisher")
	walletRepo.AssertNotCalled(t, "AppendTransaction", mock.Anything, mock.Anything)
}
