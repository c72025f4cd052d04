// Package http is the inbound HTTP adapter. It translates JSON requests into
// commands and queries and maps application errors onto status codes.
package http

import (
	"crypto/subtle"
	"net/http"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/application/usecases/queries"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/tracking"
	"escrow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	confirmOrderHandler     commands.ConfirmOrderCommandHandler
	shipOrderHandler        commands.ShipOrderCommandHandler
	cancelOrderHandler      commands.CancelOrderCommandHandler
	confirmDeliveryHandler  commands.ConfirmDeliveryCommandHandler
	updateStageHandler      commands.UpdateDeliveryStageCommandHandler
	addLocationHandler      commands.AddLocationUpdateCommandHandler
	addAttemptHandler       commands.AddDeliveryAttemptCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	openDisputeHandler      commands.OpenDisputeCommandHandler
	reviewDisputeHandler    commands.ReviewDisputeCommandHandler
	resolveDisputeHandler   commands.ResolveDisputeCommandHandler
	createWalletHandler     commands.CreateWalletCommandHandler
	topUpWalletHandler      commands.TopUpWalletCommandHandler
	transferFundsHandler    commands.TransferFundsCommandHandler

	// Query handlers
	walletBalanceHandler queries.GetWalletBalanceQueryHandler
	trackingHandler      queries.GetTrackingQueryHandler
	activeOrdersHandler  queries.GetActiveOrdersQueryHandler

	// Shared secret checked on gateway webhook calls.
	webhookToken string
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	confirmOrderHandler commands.ConfirmOrderCommandHandler,
	shipOrderHandler commands.ShipOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	updateStageHandler commands.UpdateDeliveryStageCommandHandler,
	addLocationHandler commands.AddLocationUpdateCommandHandler,
	addAttemptHandler commands.AddDeliveryAttemptCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	openDisputeHandler commands.OpenDisputeCommandHandler,
	reviewDisputeHandler commands.ReviewDisputeCommandHandler,
	resolveDisputeHandler commands.ResolveDisputeCommandHandler,
	createWalletHandler commands.CreateWalletCommandHandler,
	topUpWalletHandler commands.TopUpWalletCommandHandler,
	transferFundsHandler commands.TransferFundsCommandHandler,
	walletBalanceHandler queries.GetWalletBalanceQueryHandler,
	trackingHandler queries.GetTrackingQueryHandler,
	activeOrdersHandler queries.GetActiveOrdersQueryHandler,
	webhookToken string,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		confirmOrderHandler:     confirmOrderHandler,
		shipOrderHandler:        shipOrderHandler,
		cancelOrderHandler:      cancelOrderHandler,
		confirmDeliveryHandler:  confirmDeliveryHandler,
		updateStageHandler:      updateStageHandler,
		addLocationHandler:      addLocationHandler,
		addAttemptHandler:       addAttemptHandler,
		completeDeliveryHandler: completeDeliveryHandler,
		openDisputeHandler:      openDisputeHandler,
		reviewDisputeHandler:    reviewDisputeHandler,
		resolveDisputeHandler:   resolveDisputeHandler,
		createWalletHandler:     createWalletHandler,
		topUpWalletHandler:      topUpWalletHandler,
		transferFundsHandler:    transferFundsHandler,
		walletBalanceHandler:    walletBalanceHandler,
		trackingHandler:         trackingHandler,
		activeOrdersHandler:     activeOrdersHandler,
		webhookToken:            webhookToken,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/:orderId/confirm", s.ConfirmOrder)
	api.POST("/orders/:orderId/ship", s.ShipOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/confirm-delivery", s.ConfirmDelivery)

	api.GET("/tracking/:orderId", s.GetTracking)
	api.POST("/tracking/:trackingId/stage", s.UpdateStage)
	api.POST("/tracking/:trackingId/location", s.AddLocation)
	api.POST("/tracking/:trackingId/attempt", s.AddAttempt)
	api.POST("/tracking/:trackingId/complete", s.CompleteDelivery)

	api.POST("/disputes", s.OpenDispute)
	api.POST("/disputes/:disputeId/review", s.ReviewDispute)
	api.POST("/disputes/:disputeId/resolve", s.ResolveDispute)

	api.POST("/wallets", s.CreateWallet)
	api.GET("/wallets/:userId", s.GetWalletBalance)
	api.POST("/wallets/transfer", s.TransferFunds)

	e.POST("/webhooks/payment", s.PaymentWebhook)
	e.GET("/health", s.Health)
}

func fail(ctx echo.Context, err error) error {
	status, body := errorBody(err)
	return ctx.JSON(status, body)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func pathUUID(ctx echo.Context, param string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(param))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

// CreateOrder handles POST /api/v1/orders. It reserves the buyer's funds in
// escrow and returns the debit alongside the new order id.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	buyerID, err := kernel.UUIDFromString(req.BuyerID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("buyerId", err))
	}
	vendorID, err := kernel.UUIDFromString(req.VendorID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("vendorId", err))
	}

	items := make([]order.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, prodErr := kernel.UUIDFromString(item.ProductID)
		if prodErr != nil {
			return fail(ctx, errs.NewValueIsInvalidErrorWithCause("productId", prodErr))
		}
		price, priceErr := kernel.NewMoney(item.UnitPrice, item.Currency)
		if priceErr != nil {
			return fail(ctx, priceErr)
		}
		items = append(items, order.LineItem{
			ProductID: productID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), buyerID, vendorID, items, req.Address, req.City)
	if err != nil {
		return fail(ctx, err)
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{
		OrderID:             result.OrderID.String(),
		WalletTransactionID: result.WalletTransactionID.String(),
		RemainingBalance: MoneyResponse{
			Amount:   result.RemainingBalance.Amount(),
			Currency: result.RemainingBalance.Currency(),
		},
	})
}

// ConfirmOrder handles POST /api/v1/orders/:orderId/confirm.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("actorId", err))
	}

	cmd, err := commands.NewConfirmOrderCommand(orderID, actorID)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.confirmOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ShipOrder handles POST /api/v1/orders/:orderId/ship. Shipping creates the
// delivery tracking record for the order.
func (s *Server) ShipOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return fail(ctx, err)
	}

	var req ShipOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("actorId", err))
	}

	cmd, err := commands.NewShipOrderCommand(orderID, actorID, req.EstimatedDelivery)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.shipOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel. Cancelling refunds
// the escrow back to the buyer.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("actorId", err))
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actorID)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmDelivery handles POST /api/v1/orders/:orderId/confirm-delivery. Only
// the buyer may release the escrow to the vendor.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return fail(ctx, err)
	}

	var req ActorRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("actorId", err))
	}

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, actorID)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// UpdateStage handles POST /api/v1/tracking/:trackingId/stage.
func (s *Server) UpdateStage(ctx echo.Context) error {
	trackingID, err := pathUUID(ctx, "trackingId")
	if err != nil {
		return fail(ctx, err)
	}

	var req UpdateStageRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	stage, err := tracking.StageFromString(req.Stage)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewUpdateDeliveryStageCommand(trackingID, stage, req.Location, req.Description, req.Actor)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.updateStageHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AddLocation handles POST /api/v1/tracking/:trackingId/location.
func (s *Server) AddLocation(ctx echo.Context) error {
	trackingID, err := pathUUID(ctx, "trackingId")
	if err != nil {
		return fail(ctx, err)
	}

	var req LocationUpdateRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewAddLocationUpdateCommand(
		trackingID, req.Latitude, req.Longitude, req.Address, req.AccuracyM, req.RecordedAt)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.addLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AddAttempt handles POST /api/v1/tracking/:trackingId/attempt.
func (s *Server) AddAttempt(ctx echo.Context) error {
	trackingID, err := pathUUID(ctx, "trackingId")
	if err != nil {
		return fail(ctx, err)
	}

	var req DeliveryAttemptRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewAddDeliveryAttemptCommand(trackingID, req.Number, req.Reason, req.NextAttemptAt)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.addAttemptHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CompleteDelivery handles POST /api/v1/tracking/:trackingId/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	trackingID, err := pathUUID(ctx, "trackingId")
	if err != nil {
		return fail(ctx, err)
	}

	var req CompleteDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	proof := tracking.DeliveryProof{
		DeliveredTo: req.Proof.DeliveredTo,
		Signature:   req.Proof.Signature,
		PhotoURL:    req.Proof.PhotoURL,
		Notes:       req.Proof.Notes,
	}
	cmd, err := commands.NewCompleteDeliveryCommand(trackingID, proof)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// OpenDispute handles POST /api/v1/disputes.
func (s *Server) OpenDispute(ctx echo.Context) error {
	var req OpenDisputeRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}
	raisedBy, err := kernel.UUIDFromString(req.RaisedBy)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("raisedBy", err))
	}

	disputeID := kernel.NewUUID()
	cmd, err := commands.NewOpenDisputeCommand(disputeID, orderID, raisedBy, req.Evidence)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.openDisputeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, OpenDisputeResponse{DisputeID: disputeID.String()})
}

// ReviewDispute handles POST /api/v1/disputes/:disputeId/review.
func (s *Server) ReviewDispute(ctx echo.Context) error {
	disputeID, err := pathUUID(ctx, "disputeId")
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewReviewDisputeCommand(disputeID)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.reviewDisputeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ResolveDispute handles POST /api/v1/disputes/:disputeId/resolve.
func (s *Server) ResolveDispute(ctx echo.Context) error {
	disputeID, err := pathUUID(ctx, "disputeId")
	if err != nil {
		return fail(ctx, err)
	}

	var req ResolveDisputeRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	var outcome dispute.Status
	switch req.Outcome {
	case dispute.ResolvedBuyer.String():
		outcome = dispute.ResolvedBuyer
	case dispute.ResolvedVendor.String():
		outcome = dispute.ResolvedVendor
	case dispute.ResolvedSplit.String():
		outcome = dispute.ResolvedSplit
	default:
		return fail(ctx, errs.NewValueIsInvalidError("outcome"))
	}

	cmd, err := commands.NewResolveDisputeCommand(disputeID, outcome, req.AmountToBuyer, req.AmountToVendor)
	if err != nil {
		return fail(ctx, err)
	}
	if err = s.resolveDisputeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CreateWallet handles POST /api/v1/wallets.
func (s *Server) CreateWallet(ctx echo.Context) error {
	var req CreateWalletRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("userId", err))
	}

	cmd, err := commands.NewCreateWalletCommand(userID, req.Currency)
	if err != nil {
		return fail(ctx, err)
	}
	walletID, err := s.createWalletHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, CreateWalletResponse{WalletID: walletID.String()})
}

// GetWalletBalance handles GET /api/v1/wallets/:userId.
func (s *Server) GetWalletBalance(ctx echo.Context) error {
	userID, err := pathUUID(ctx, "userId")
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewGetWalletBalanceQuery(userID)
	if err != nil {
		return fail(ctx, err)
	}
	wallet, err := s.walletBalanceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	transactions := make([]WalletTransactionResponse, len(wallet.Transactions))
	for i, tx := range wallet.Transactions {
		transactions[i] = WalletTransactionResponse{
			ID:             tx.ID.String(),
			Type:           tx.Type,
			Amount:         tx.Amount,
			Reason:         tx.Reason,
			IdempotencyKey: tx.IdempotencyKey,
			BalanceAfter:   tx.BalanceAfter,
			CreatedAt:      tx.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, WalletResponse{
		WalletID:     wallet.WalletID.String(),
		UserID:       wallet.UserID.String(),
		Balance:      MoneyResponse{Amount: wallet.Balance, Currency: wallet.Currency},
		Transactions: transactions,
	})
}

// TransferFunds handles POST /api/v1/wallets/transfer.
func (s *Server) TransferFunds(ctx echo.Context) error {
	var req TransferRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	fromUserID, err := kernel.UUIDFromString(req.FromUserID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("fromUserId", err))
	}
	toUserID, err := kernel.UUIDFromString(req.ToUserID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("toUserId", err))
	}
	amount, err := kernel.NewMoney(req.Amount, req.Currency)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewTransferFundsCommand(fromUserID, toUserID, amount, req.Reason, req.IdempotencyKey)
	if err != nil {
		return fail(ctx, err)
	}
	result, err := s.transferFundsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, TransferResponse{
		DebitTransactionID:  result.DebitTransactionID.String(),
		CreditTransactionID: result.CreditTransactionID.String(),
		Replayed:            result.Replayed,
	})
}

// PaymentWebhook handles POST /webhooks/payment. The gateway authenticates
// with a shared token in the X-Webhook-Token header. The gateway event
// reference makes retried deliveries replay the original credit.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	token := ctx.Request().Header.Get("X-Webhook-Token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.webhookToken)) != 1 {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: "invalid webhook token",
		})
	}

	var req PaymentWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("userId", err))
	}
	amount, err := kernel.NewMoney(req.Amount, req.Currency)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewTopUpWalletCommand(userID, amount, req.Reference)
	if err != nil {
		return fail(ctx, err)
	}
	entry, err := s.topUpWalletHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, TopUpResponse{
		TransactionID: entry.TransactionID.String(),
		Balance: MoneyResponse{
			Amount:   entry.BalanceAfter.Amount(),
			Currency: entry.BalanceAfter.Currency(),
		},
		Replayed: entry.Replayed,
	})
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.activeOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]ActiveOrderResponse, len(orders))
	for i, ord := range orders {
		response[i] = ActiveOrderResponse{
			OrderID:      ord.ID.String(),
			BuyerID:      ord.BuyerID.String(),
			VendorID:     ord.VendorID.String(),
			EscrowAmount: MoneyResponse{Amount: ord.EscrowAmount, Currency: ord.Currency},
			Status:       ord.Status,
			CreatedAt:    ord.CreatedAt,
			UpdatedAt:    ord.UpdatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetTracking handles GET /api/v1/tracking/:orderId.
func (s *Server) GetTracking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewGetTrackingQueryByOrderID(orderID)
	if err != nil {
		return fail(ctx, err)
	}
	record, err := s.trackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	stages := make([]StageEventResponse, len(record.StageHistory))
	for i, ev := range record.StageHistory {
		stages[i] = StageEventResponse{
			Stage:       ev.Stage,
			Location:    ev.Location,
			Description: ev.Description,
			Actor:       ev.Actor,
			OccurredAt:  ev.OccurredAt,
		}
	}
	locations := make([]LocationPingResponse, len(record.LocationHistory))
	for i, loc := range record.LocationHistory {
		locations[i] = LocationPingResponse{
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
			Address:    loc.Address,
			AccuracyM:  loc.AccuracyM,
			RecordedAt: loc.RecordedAt,
		}
	}
	attempts := make([]AttemptResponse, len(record.DeliveryAttempts))
	for i, att := range record.DeliveryAttempts {
		attempts[i] = AttemptResponse{
			Number:        att.Number,
			Reason:        att.Reason,
			NextAttemptAt: att.NextAttemptAt,
			RecordedAt:    att.RecordedAt,
		}
	}
	var proof *ProofResponse
	if record.Proof != nil {
		proof = &ProofResponse{
			DeliveredTo: record.Proof.DeliveredTo,
			Signature:   record.Proof.Signature,
			PhotoURL:    record.Proof.PhotoURL,
			Notes:       record.Proof.Notes,
		}
	}

	return ctx.JSON(http.StatusOK, TrackingResponse{
		TrackingID:         record.ID.String(),
		OrderID:            record.OrderID.String(),
		TrackingNumber:     record.TrackingNumber,
		CurrentStage:       record.CurrentStage,
		StageHistory:       stages,
		LocationHistory:    locations,
		DeliveryAttempts:   attempts,
		EstimatedDelivery:  record.EstimatedDelivery,
		ActualDeliveryDate: record.ActualDeliveryDate,
		Proof:              proof,
	})
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
