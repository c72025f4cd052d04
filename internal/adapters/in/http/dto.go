package http

import "time"

// MoneyResponse carries an amount in minor units plus its ISO currency code.
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// LineItemRequest is one purchased item in an order creation request.
type LineItemRequest struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Currency  string `json:"currency"`
}

// CreateOrderRequest opens an order and funds its escrow from the buyer wallet.
type CreateOrderRequest struct {
	BuyerID  string            `json:"buyerId"`
	VendorID string            `json:"vendorId"`
	Items    []LineItemRequest `json:"items"`
	Address  string            `json:"address"`
	City     string            `json:"city"`
}

// CreateOrderResponse reports the new order together with the escrow debit.
type CreateOrderResponse struct {
	OrderID             string        `json:"orderId"`
	WalletTransactionID string        `json:"walletTransactionId"`
	RemainingBalance    MoneyResponse `json:"remainingBalance"`
}

// ActorRequest identifies the party performing an order transition.
type ActorRequest struct {
	ActorID string `json:"actorId"`
}

// ShipOrderRequest moves a confirmed order into transit.
type ShipOrderRequest struct {
	ActorID           string    `json:"actorId"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
}

// UpdateStageRequest advances a delivery tracking to the given stage.
type UpdateStageRequest struct {
	Stage       string `json:"stage"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Actor       string `json:"actor"`
}

// LocationUpdateRequest appends a GPS ping to the tracking history.
type LocationUpdateRequest struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Address    string    `json:"address"`
	AccuracyM  float64   `json:"accuracyM"`
	RecordedAt time.Time `json:"recordedAt"`
}

// DeliveryAttemptRequest records a failed delivery attempt.
type DeliveryAttemptRequest struct {
	Number        int        `json:"number"`
	Reason        string     `json:"reason"`
	NextAttemptAt *time.Time `json:"nextAttemptAt,omitempty"`
}

// DeliveryProofRequest is the handover evidence closing a delivery.
type DeliveryProofRequest struct {
	DeliveredTo string `json:"deliveredTo"`
	Signature   string `json:"signature"`
	PhotoURL    string `json:"photoUrl"`
	Notes       string `json:"notes"`
}

// CompleteDeliveryRequest marks a tracking as delivered with proof.
type CompleteDeliveryRequest struct {
	Proof DeliveryProofRequest `json:"proof"`
}

// OpenDisputeRequest freezes an order's escrow pending mediation.
type OpenDisputeRequest struct {
	OrderID  string   `json:"orderId"`
	RaisedBy string   `json:"raisedBy"`
	Evidence []string `json:"evidence"`
}

// OpenDisputeResponse returns the identifier of the opened dispute.
type OpenDisputeResponse struct {
	DisputeID string `json:"disputeId"`
}

// ResolveDisputeRequest settles a dispute with one of the terminal outcomes.
// Outcome is "resolved_buyer", "resolved_vendor", or "resolved_split". The
// two shares must sum to the frozen escrow exactly.
type ResolveDisputeRequest struct {
	Outcome        string `json:"outcome"`
	AmountToBuyer  int64  `json:"amountToBuyer"`
	AmountToVendor int64  `json:"amountToVendor"`
}

// CreateWalletRequest provisions a wallet for a user.
type CreateWalletRequest struct {
	UserID   string `json:"userId"`
	Currency string `json:"currency"`
}

// CreateWalletResponse returns the identifier of the created wallet.
type CreateWalletResponse struct {
	WalletID string `json:"walletId"`
}

// TransferRequest moves funds between two user wallets.
type TransferRequest struct {
	FromUserID     string `json:"fromUserId"`
	ToUserID       string `json:"toUserId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Reason         string `json:"reason"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// TransferResponse reports both legs of a completed transfer.
type TransferResponse struct {
	DebitTransactionID  string `json:"debitTransactionId"`
	CreditTransactionID string `json:"creditTransactionId"`
	Replayed            bool   `json:"replayed"`
}

// PaymentWebhookRequest is the gateway notification crediting a wallet.
// Reference is the gateway event id and doubles as the idempotency key.
type PaymentWebhookRequest struct {
	UserID    string `json:"userId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

// TopUpResponse reports the ledger credit produced by a top-up.
type TopUpResponse struct {
	TransactionID string        `json:"transactionId"`
	Balance       MoneyResponse `json:"balance"`
	Replayed      bool          `json:"replayed"`
}

// WalletTransactionResponse is one ledger entry in the wallet view.
type WalletTransactionResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Amount         int64     `json:"amount"`
	Reason         string    `json:"reason"`
	IdempotencyKey string    `json:"idempotencyKey"`
	BalanceAfter   int64     `json:"balanceAfter"`
	CreatedAt      time.Time `json:"createdAt"`
}

// WalletResponse is the wallet balance view with recent transactions.
type WalletResponse struct {
	WalletID     string                      `json:"walletId"`
	UserID       string                      `json:"userId"`
	Balance      MoneyResponse               `json:"balance"`
	Transactions []WalletTransactionResponse `json:"transactions"`
}

// ActiveOrderResponse is one in-flight order in the active orders view.
type ActiveOrderResponse struct {
	OrderID      string        `json:"orderId"`
	BuyerID      string        `json:"buyerId"`
	VendorID     string        `json:"vendorId"`
	EscrowAmount MoneyResponse `json:"escrowAmount"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// StageEventResponse is one stage transition in the tracking view.
type StageEventResponse struct {
	Stage       string    `json:"stage"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// LocationPingResponse is one GPS sample in the tracking view.
type LocationPingResponse struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Address    string    `json:"address"`
	AccuracyM  float64   `json:"accuracyM"`
	RecordedAt time.Time `json:"recordedAt"`
}

// AttemptResponse is one failed delivery attempt in the tracking view.
type AttemptResponse struct {
	Number        int        `json:"number"`
	Reason        string     `json:"reason"`
	NextAttemptAt *time.Time `json:"nextAttemptAt,omitempty"`
	RecordedAt    time.Time  `json:"recordedAt"`
}

// ProofResponse is the handover evidence in the tracking view.
type ProofResponse struct {
	DeliveredTo string `json:"deliveredTo"`
	Signature   string `json:"signature"`
	PhotoURL    string `json:"photoUrl"`
	Notes       string `json:"notes"`
}

// TrackingResponse is the full delivery tracking view.
type TrackingResponse struct {
	TrackingID         string                 `json:"trackingId"`
	OrderID            string                 `json:"orderId"`
	TrackingNumber     string                 `json:"trackingNumber"`
	CurrentStage       string                 `json:"currentStage"`
	StageHistory       []StageEventResponse   `json:"stageHistory"`
	LocationHistory    []LocationPingResponse `json:"locationHistory"`
	DeliveryAttempts   []AttemptResponse      `json:"deliveryAttempts"`
	EstimatedDelivery  time.Time              `json:"estimatedDelivery"`
	ActualDeliveryDate *time.Time             `json:"actualDeliveryDate,omitempty"`
	Proof              *ProofResponse         `json:"proof,omitempty"`
}
