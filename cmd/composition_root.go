package cmd

import (
	"log/slog"

	"escrow/internal/adapters/out/notify"
	"escrow/internal/adapters/out/postgres"
	"escrow/internal/adapters/out/postgres/outboxrepo"
	"escrow/internal/adapters/out/pricing"
	"escrow/internal/core/application/ledger"
	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/application/usecases/queries"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/ports"
	"escrow/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. Handlers are cheap
// value types, so each Create* call builds a fresh one over the shared
// unit-of-work factory.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	ledgerSvc  ledger.Service
	pricingEng ports.PricingEngine
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		ledgerSvc:  ledger.NewService(),
		pricingEng: pricing.NewTableEngine(kernel.DefaultCurrency),
	}
}

func (c *CompositionRoot) walletUoWFactory() commands.WalletUoWFactory {
	return FuncWalletUoWFactory(func() commands.WalletUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) disputeUoWFactory() commands.DisputeUoWFactory {
	return FuncDisputeUoWFactory(func() commands.DisputeUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.pricingEng, c.ledgerSvc)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateShipOrderCommandHandler() commands.ShipOrderCommandHandler {
	return commands.NewShipOrderCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.ledgerSvc)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory(), c.ledgerSvc)
}

func (c *CompositionRoot) CreateUpdateDeliveryStageCommandHandler() commands.UpdateDeliveryStageCommandHandler {
	return commands.NewUpdateDeliveryStageCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateAddLocationUpdateCommandHandler() commands.AddLocationUpdateCommandHandler {
	return commands.NewAddLocationUpdateCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateAddDeliveryAttemptCommandHandler() commands.AddDeliveryAttemptCommandHandler {
	return commands.NewAddDeliveryAttemptCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateOpenDisputeCommandHandler() commands.OpenDisputeCommandHandler {
	return commands.NewOpenDisputeCommandHandler(c.disputeUoWFactory(), c.config.DisputeWindow)
}

func (c *CompositionRoot) CreateReviewDisputeCommandHandler() commands.ReviewDisputeCommandHandler {
	return commands.NewReviewDisputeCommandHandler(c.disputeUoWFactory())
}

func (c *CompositionRoot) CreateResolveDisputeCommandHandler() commands.ResolveDisputeCommandHandler {
	return commands.NewResolveDisputeCommandHandler(c.disputeUoWFactory(), c.ledgerSvc)
}

func (c *CompositionRoot) CreateCreateWalletCommandHandler() commands.CreateWalletCommandHandler {
	return commands.NewCreateWalletCommandHandler(c.walletUoWFactory())
}

func (c *CompositionRoot) CreateTopUpWalletCommandHandler() commands.TopUpWalletCommandHandler {
	return commands.NewTopUpWalletCommandHandler(c.walletUoWFactory(), c.ledgerSvc)
}

func (c *CompositionRoot) CreateTransferFundsCommandHandler() commands.TransferFundsCommandHandler {
	return commands.NewTransferFundsCommandHandler(&c.uowFactory, c.ledgerSvc)
}

func (c *CompositionRoot) CreateRecoverPendingTransfersCommandHandler() commands.RecoverPendingTransfersCommandHandler {
	return commands.NewRecoverPendingTransfersCommandHandler(
		&c.uowFactory, c.ledgerSvc, c.config.TransferPendingTimeout)
}

func (c *CompositionRoot) CreateGetWalletBalanceQueryHandler() queries.GetWalletBalanceQueryHandler {
	return queries.NewGetWalletBalanceQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTrackingQueryHandler() queries.GetTrackingQueryHandler {
	return queries.NewGetTrackingQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

// CreateJobManager assembles the background jobs: outbox dispatch and
// pending-transfer recovery.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(
		outboxrepo.NewGormOutboxReader(c.gormDB),
		notify.NewSlogNotifier(logger),
		c.CreateRecoverPendingTransfersCommandHandler(),
		logger,
	)
}

type FuncWalletUoWFactory func() commands.WalletUoW

func (f FuncWalletUoWFactory) Create() commands.WalletUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncDisputeUoWFactory func() commands.DisputeUoW

func (f FuncDisputeUoWFactory) Create() commands.DisputeUoW {
	return f()
}
