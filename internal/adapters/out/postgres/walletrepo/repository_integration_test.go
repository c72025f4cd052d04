package walletrepo_test

import (
	"context"
	"testing"
	"time"

	"escrow/internal/adapters/out/postgres/walletrepo"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/wallet"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/retry"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// WalletRepositoryIntegrationTestSuite provides integration tests for
// WalletRepository using PostgreSQL containers to verify persistence behavior,
// the idempotency-key unique constraint, and balance compare-and-set.
type WalletRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *walletrepo.GormWalletRepository
	tracker    *MockAggregateTracker
}

func (suite *WalletRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&walletrepo.WalletDTO{},
		&walletrepo.TransactionDTO{},
	))
}

func (suite *WalletRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *WalletRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE wallets CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE wallet_transactions CASCADE").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	suite.repository = walletrepo.NewGormWalletRepository(suite.db, suite.tracker)
}

func (suite *WalletRepositoryIntegrationTestSuite) newFundedWallet(balance int64) *wallet.Wallet {
	money, err := kernel.NewMoney(balance, kernel.DefaultCurrency)
	suite.Require().NoError(err)
	w, err := wallet.RestoreWallet(kernel.NewUUID(), kernel.NewUUID(), money)
	suite.Require().NoError(err)
	return w
}

func (suite *WalletRepositoryIntegrationTestSuite) TestAdd_And_GetByUserID() {
	ctx := context.Background()
	w := suite.newFundedWallet(5000)

	suite.Require().NoError(suite.repository.Add(ctx, w))

	loaded, err := suite.repository.GetByUserID(ctx, w.UserID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(w.ID()))
	suite.Equal(int64(5000), loaded.Balance().Amount())
	suite.Equal(kernel.DefaultCurrency, loaded.Currency())
}

func (suite *WalletRepositoryIntegrationTestSuite) TestAdd_SecondWalletForUser_Conflict() {
	ctx := context.Background()
	w := suite.newFundedWallet(0)
	suite.Require().NoError(suite.repository.Add(ctx, w))

	duplicate, err := wallet.NewWallet(kernel.NewUUID(), w.UserID(), kernel.DefaultCurrency)
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, duplicate)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)
}

func (suite *WalletRepositoryIntegrationTestSuite) TestGetByUserID_Unknown_NotFound() {
	_, err := suite.repository.GetByUserID(context.Background(), kernel.NewUUID())
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *WalletRepositoryIntegrationTestSuite) TestUpdate_PersistsBalance() {
	ctx := context.Background()
	w := suite.newFundedWallet(5000)
	suite.Require().NoError(suite.repository.Add(ctx, w))

	loaded, err := suite.repository.GetByUserIDForUpdate(ctx, w.UserID())
	suite.Require().NoError(err)

	amount, err := kernel.NewMoney(2000, kernel.DefaultCurrency)
	suite.Require().NoError(err)
	_, err = loaded.Debit(kernel.NewUUID(), amount, "escrow-hold", "order-77:hold")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	reloaded, err := suite.repository.GetByUserID(ctx, w.UserID())
	suite.Require().NoError(err)
	suite.Equal(int64(3000), reloaded.Balance().Amount())
}

func (suite *WalletRepositoryIntegrationTestSuite) TestUpdate_LostRace_TransientConflict() {
	ctx := context.Background()
	w := suite.newFundedWallet(5000)
	suite.Require().NoError(suite.repository.Add(ctx, w))

	// Two repository instances observe the same balance.
	repoA := walletrepo.NewGormWalletRepository(suite.db, suite.tracker)
	repoB := walletrepo.NewGormWalletRepository(suite.db, suite.tracker)

	loadedA, err := repoA.GetByUserID(ctx, w.UserID())
	suite.Require().NoError(err)
	loadedB, err := repoB.GetByUserID(ctx, w.UserID())
	suite.Require().NoError(err)

	amount, err := kernel.NewMoney(1000, kernel.DefaultCurrency)
	suite.Require().NoError(err)

	_, err = loadedA.Debit(kernel.NewUUID(), amount, "escrow-hold", "order-a:hold")
	suite.Require().NoError(err)
	suite.Require().NoError(repoA.Update(ctx, loadedA))

	// B's write is stale now and must lose.
	_, err = loadedB.Debit(kernel.NewUUID(), amount, "escrow-hold", "order-b:hold")
	suite.Require().NoError(err)

	err = repoB.Update(ctx, loadedB)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)
	suite.ErrorIs(err, retry.ErrTransient)
}

func (suite *WalletRepositoryIntegrationTestSuite) TestAppendTransaction_DuplicateKey_Conflict() {
	ctx := context.Background()
	w := suite.newFundedWallet(5000)
	suite.Require().NoError(suite.repository.Add(ctx, w))

	amount, err := kernel.NewMoney(1000, kernel.DefaultCurrency)
	suite.Require().NoError(err)

	first, err := w.Debit(kernel.NewUUID(), amount, "escrow-hold", "order-9:hold")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AppendTransaction(ctx, first))

	second, err := w.Debit(kernel.NewUUID(), amount, "escrow-hold", "order-9:hold")
	suite.Require().NoError(err)

	err = suite.repository.AppendTransaction(ctx, second)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)
}

func (suite *WalletRepositoryIntegrationTestSuite) TestGetTransactionByKey_Roundtrip() {
	ctx := context.Background()
	w := suite.newFundedWallet(5000)
	suite.Require().NoError(suite.repository.Add(ctx, w))

	amount, err := kernel.NewMoney(1500, kernel.DefaultCurrency)
	suite.Require().NoError(err)

	tx, err := w.Debit(kernel.NewUUID(), amount, "escrow-hold", "order-12:hold")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AppendTransaction(ctx, tx))

	loaded, err := suite.repository.GetTransactionByKey(ctx, "order-12:hold")
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(tx.ID()))
	suite.Equal(wallet.Debit, loaded.Type())
	suite.Equal(int64(1500), loaded.Amount().Amount())
	suite.Equal(int64(5000), loaded.BalanceBefore())
	suite.Equal(int64(3500), loaded.BalanceAfter())
	suite.Equal(wallet.TransferNone, loaded.TransferState())

	_, err = suite.repository.GetTransactionByKey(ctx, "never-used")
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *WalletRepositoryIntegrationTestSuite) TestPendingTransferLegs_SweepLifecycle() {
	ctx := context.Background()
	w := suite.newFundedWallet(9000)
	suite.Require().NoError(suite.repository.Add(ctx, w))

	amount, err := kernel.NewMoney(3000, kernel.DefaultCurrency)
	suite.Require().NoError(err)

	leg, err := w.Debit(kernel.NewUUID(), amount, "transfer", "xfer-1:debit")
	suite.Require().NoError(err)
	suite.Require().NoError(leg.MarkTransferPending())
	suite.Require().NoError(suite.repository.AppendTransaction(ctx, leg))

	plain, err := w.Debit(kernel.NewUUID(), amount, "escrow-hold", "order-3:hold")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.AppendTransaction(ctx, plain))

	cutoff := time.Now().UTC().Add(time.Second)
	pending, err := suite.repository.GetPendingTransferLegs(ctx, cutoff)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("xfer-1:debit", pending[0].IdempotencyKey())

	suite.Require().NoError(pending[0].CompleteTransfer())
	suite.Require().NoError(suite.repository.UpdateTransferState(ctx, pending[0]))

	pending, err = suite.repository.GetPendingTransferLegs(ctx, cutoff)
	suite.Require().NoError(err)
	suite.Empty(pending)

	completed, err := suite.repository.GetTransactionByKey(ctx, "xfer-1:debit")
	suite.Require().NoError(err)
	suite.Equal(wallet.TransferCompleted, completed.TransferState())
}

func (suite *WalletRepositoryIntegrationTestSuite) TestUpdateTransferState_SecondSettleConflicts() {
	ctx := context.Background()
	w := suite.newFundedWallet(9000)
	suite.Require().NoError(suite.repository.Add(ctx, w))

	amount, err := kernel.NewMoney(3000, kernel.DefaultCurrency)
	suite.Require().NoError(err)

	leg, err := w.Debit(kernel.NewUUID(), amount, "transfer", "xfer-2:debit")
	suite.Require().NoError(err)
	suite.Require().NoError(leg.MarkTransferPending())
	suite.Require().NoError(suite.repository.AppendTransaction(ctx, leg))

	locked, err := suite.repository.GetTransactionByKeyForUpdate(ctx, "xfer-2:debit")
	suite.Require().NoError(err)
	suite.Require().NoError(locked.CompleteTransfer())
	suite.Require().NoError(suite.repository.UpdateTransferState(ctx, locked))

	// the losing side of a settle race still holds a pending copy; its write
	// must not overwrite the recorded decision
	suite.Require().NoError(leg.ReverseTransfer())
	err = suite.repository.UpdateTransferState(ctx, leg)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)

	settled, err := suite.repository.GetTransactionByKey(ctx, "xfer-2:debit")
	suite.Require().NoError(err)
	suite.Equal(wallet.TransferCompleted, settled.TransferState())
}

func TestWalletRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(WalletRepositoryIntegrationTestSuite))
}
