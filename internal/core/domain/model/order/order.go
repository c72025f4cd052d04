package order

import (
	"errors"
	"fmt"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder factory method.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// LineItem is one purchased product line on an order.
type LineItem struct {
	ProductID kernel.UUID
	Name      string
	Quantity  int
	UnitPrice kernel.Money
}

// Validate checks the line item fields.
func (li LineItem) Validate() error {
	if err := li.ProductID.Validate(); err != nil {
		return err
	}
	if li.Name == "" {
		return errs.NewValueIsRequiredError("line item name")
	}
	if li.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", li.Quantity))
	}
	if err := li.UnitPrice.Validate(); err != nil {
		return err
	}
	return nil
}

// Subtotal returns quantity times unit price.
func (li LineItem) Subtotal() (kernel.Money, error) {
	total := kernel.MustNewMoney(0, li.UnitPrice.Currency())
	for i := 0; i < li.Quantity; i++ {
		var err error
		total, err = total.Add(li.UnitPrice)
		if err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}

// Order is the aggregate root for a marketplace escrow purchase.
//
// Invariants:
//   - escrowAmount is immutable once funds are held (i.e. from creation)
//   - status transitions only along the state machine in status.go
//   - buyer and vendor are distinct parties
type Order struct {
	id           kernel.UUID
	buyerID      kernel.UUID
	vendorID     kernel.UUID
	lineItems    []LineItem
	totalAmount  kernel.Money
	escrowAmount kernel.Money
	deliveryFee  kernel.Money
	status       Status
	createdAt    time.Time
	updatedAt    time.Time

	isConstructed bool
}

// NewOrder creates an order in PendingVendorConfirmation with its escrow amount
// fixed to the total. The caller is responsible for applying the matching
// escrow debit in the same atomic unit.
//
// The total must equal the sum of the line item subtotals plus the delivery fee.
func NewOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	vendorID kernel.UUID,
	lineItems []LineItem,
	totalAmount kernel.Money,
	deliveryFee kernel.Money,
) (*Order, error) {
	if err := errors.Join(id.Validate(), buyerID.Validate(), vendorID.Validate()); err != nil {
		return nil, err
	}
	if buyerID.IsEqual(vendorID) {
		return nil, errs.NewValueIsInvalidErrorWithCause("vendorId",
			errors.New("buyer and vendor must differ"))
	}
	if len(lineItems) == 0 {
		return nil, errs.NewValueIsRequiredError("lineItems")
	}
	if err := totalAmount.Validate(); err != nil {
		return nil, err
	}
	if !totalAmount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("totalAmount",
			fmt.Errorf("%d is not greater than 0", totalAmount.Amount()))
	}
	if err := deliveryFee.Validate(); err != nil {
		return nil, err
	}

	expected := kernel.MustNewMoney(0, totalAmount.Currency())
	for _, li := range lineItems {
		if err := li.Validate(); err != nil {
			return nil, err
		}
		subtotal, err := li.Subtotal()
		if err != nil {
			return nil, err
		}
		expected, err = expected.Add(subtotal)
		if err != nil {
			return nil, err
		}
	}
	expected, err := expected.Add(deliveryFee)
	if err != nil {
		return nil, err
	}
	if !expected.IsEqual(totalAmount) {
		return nil, errs.NewValueIsInvalidErrorWithCause("totalAmount",
			fmt.Errorf("%s does not match items plus delivery fee %s", totalAmount, expected))
	}

	now := time.Now().UTC()
	return &Order{
		id:            id,
		buyerID:       buyerID,
		vendorID:      vendorID,
		lineItems:     lineItems,
		totalAmount:   totalAmount,
		escrowAmount:  totalAmount,
		deliveryFee:   deliveryFee,
		status:        PendingVendorConfirmation,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// creation pricing checks.
func RestoreOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	vendorID kernel.UUID,
	lineItems []LineItem,
	totalAmount kernel.Money,
	escrowAmount kernel.Money,
	deliveryFee kernel.Money,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(), buyerID.Validate(), vendorID.Validate(),
		totalAmount.Validate(), escrowAmount.Validate(), status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		buyerID:       buyerID,
		vendorID:      vendorID,
		lineItems:     lineItems,
		totalAmount:   totalAmount,
		escrowAmount:  escrowAmount,
		deliveryFee:   deliveryFee,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// BuyerID returns the buyer's identifier.
func (o *Order) BuyerID() kernel.UUID { return o.buyerID }

// VendorID returns the vendor's identifier.
func (o *Order) VendorID() kernel.UUID { return o.vendorID }

// LineItems returns the purchased lines.
func (o *Order) LineItems() []LineItem { return o.lineItems }

// TotalAmount returns the amount the buyer paid.
func (o *Order) TotalAmount() kernel.Money { return o.totalAmount }

// EscrowAmount returns the amount held in escrow. Immutable after creation.
func (o *Order) EscrowAmount() kernel.Money { return o.escrowAmount }

// DeliveryFee returns the quoted delivery fee included in the total.
func (o *Order) DeliveryFee() kernel.Money { return o.deliveryFee }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last transition timestamp.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Confirm records vendor acceptance: PendingVendorConfirmation -> EscrowFunded.
func (o *Order) Confirm() error {
	return o.transition(EscrowFunded)
}

// Ship records the package leaving the vendor: EscrowFunded -> Shipped.
func (o *Order) Ship() error {
	return o.transition(Shipped)
}

// MarkDelivered records delivery completion: Shipped -> Delivered. Funds stay
// in escrow until the buyer confirms.
func (o *Order) MarkDelivered() error {
	return o.transition(Delivered)
}

// ConfirmDelivery records buyer acknowledgement and settles the order:
// Delivered -> Completed. Only the buyer may confirm; the caller releases the
// escrow credit in the same atomic unit.
func (o *Order) ConfirmDelivery(actorID kernel.UUID) error {
	if !actorID.IsEqual(o.buyerID) {
		return errs.NewPermissionDeniedError(actorID.String(), "confirm delivery for this order")
	}
	return o.transition(Completed)
}

// Cancel withdraws the order before shipment. The caller refunds the escrow
// hold in the same atomic unit.
func (o *Order) Cancel() error {
	return o.transition(Cancelled)
}

// OpenDispute freezes the escrow: Shipped|Delivered -> Disputed.
func (o *Order) OpenDispute() error {
	return o.transition(Disputed)
}

// SettleDispute leaves Disputed for the terminal status decided by mediation,
// Completed or Refunded.
func (o *Order) SettleDispute(outcome Status) error {
	if outcome != Completed && outcome != Refunded {
		return errs.NewValueIsInvalidErrorWithCause("outcome",
			fmt.Errorf("%s is not a dispute settlement status", outcome))
	}
	return o.transition(outcome)
}

func (o *Order) transition(next Status) error {
	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.updatedAt = time.Now().UTC()
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// Validate ensures the order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}
