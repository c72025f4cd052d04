package order

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

// Status represents the escrow lifecycle state of an order.
//
// Status is a value object that validates state transitions against a
// precomputed transition table and provides string representations for
// persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// PendingVendorConfirmation is the initial status: the order exists, the
	// escrow debit has been applied, and the vendor has not yet accepted.
	PendingVendorConfirmation

	// EscrowFunded means the vendor accepted the order while the buyer's funds
	// remain held in escrow.
	EscrowFunded

	// Shipped means the package left the vendor and delivery tracking exists.
	Shipped

	// Delivered means delivery completion was recorded. Funds stay in escrow
	// until the buyer confirms.
	Delivered

	// Disputed freezes any further release or refund until mediation resolves.
	Disputed

	// Completed is terminal: escrow was released to the vendor (or split in
	// the vendor's favor).
	Completed

	// Refunded is terminal: escrow was returned to the buyer.
	Refunded

	// Cancelled is terminal: the order was withdrawn before shipment and the
	// hold refunded.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:             "unknown",
		PendingVendorConfirmation: "pending_vendor_confirmation",
		EscrowFunded:              "escrow_funded",
		Shipped:                   "shipped",
		Delivered:                 "delivered",
		Disputed:                  "disputed",
		Completed:                 "completed",
		Refunded:                  "refunded",
		Cancelled:                 "cancelled",
	}
}

// transitions is the closed set of permitted status changes. Statuses absent
// from the map are terminal.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		PendingVendorConfirmation: {EscrowFunded, Cancelled},
		EscrowFunded:              {Shipped, Cancelled},
		Shipped:                   {Delivered, Disputed},
		Delivered:                 {Completed, Disputed},
		Disputed:                  {Completed, Refunded},
	}
}

// String implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a persisted status string.
func StatusFromString(raw string) (Status, error) {
	for status, str := range statusStrings() {
		if str == raw && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", raw))
}

// Validate checks the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := statusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	_, ok := transitions()[s]
	return s != StatusUnknown && !ok
}

// CanTransitionTo reports whether the transition table permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next if the transition is permitted, or a ConflictError
// naming the rejected jump.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(next) {
		return StatusUnknown, errs.NewConflictError(
			fmt.Sprintf("order status may not change from %s to %s", s, next))
	}
	return next, nil
}
