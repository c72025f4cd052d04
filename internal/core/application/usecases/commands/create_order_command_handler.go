package commands

import (
	"context"

	"escrow/internal/core/application/ledger"
	"escrow/internal/core/domain/events"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"
)

// CreateOrderResult reports the outcome of placing an order: the escrow-hold
// ledger entry and the buyer's remaining balance.
type CreateOrderResult struct {
	OrderID             kernel.UUID
	WalletTransactionID kernel.UUID
	RemainingBalance    kernel.Money
}

// CreateOrderCommandHandler places orders and funds their escrow in one atomic
// unit. The delivery fee is quoted before the transaction opens; the quote is
// side-effect free, so a rejected order leaves nothing behind.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	pricing    ports.PricingEngine
	ledger     ledger.Service
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	pricing ports.PricingEngine,
	ledgerSvc ledger.Service,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		ledger:     ledgerSvc,
	}
}

// Handle quotes the delivery fee, creates the order, and debits the buyer's
// wallet for the full amount. When the buyer cannot cover the total, the whole
// unit rolls back: no order record and no ledger entry.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	quote, err := h.pricing.Quote(ctx, cmd.LineItems(), ports.DeliveryInfo{
		Address: cmd.Address(),
		City:    cmd.City(),
	})
	if err != nil {
		return CreateOrderResult{}, err
	}

	total, err := orderTotal(cmd.LineItems(), quote.Total)
	if err != nil {
		return CreateOrderResult{}, err
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.BuyerID(), cmd.VendorID(),
		cmd.LineItems(), total, quote.Total)
	if err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry, err := h.ledger.Debit(ctx, uow.WalletRepository(), cmd.BuyerID(),
		aggregate.EscrowAmount(), "escrow-hold", cmd.OrderID().String()+":hold")
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return CreateOrderResult{}, err
	}

	err = uow.EventPublisher().Publish(ctx, events.OrderCreated{
		OrderID:      aggregate.ID(),
		BuyerID:      aggregate.BuyerID(),
		VendorID:     aggregate.VendorID(),
		EscrowAmount: aggregate.EscrowAmount().Amount(),
		Currency:     aggregate.EscrowAmount().Currency(),
	})
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{
		OrderID:             aggregate.ID(),
		WalletTransactionID: entry.TransactionID,
		RemainingBalance:    entry.BalanceAfter,
	}, nil
}

// orderTotal sums the line item subtotals and the quoted delivery fee.
func orderTotal(items []order.LineItem, deliveryFee kernel.Money) (kernel.Money, error) {
	total := kernel.MustNewMoney(0, deliveryFee.Currency())
	for _, li := range items {
		subtotal, err := li.Subtotal()
		if err != nil {
			return kernel.Money{}, err
		}
		total, err = total.Add(subtotal)
		if err != nil {
			return kernel.Money{}, err
		}
	}
	return total.Add(deliveryFee)
}
