package tracking

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

// Stage is a discrete, ordered point in an order's physical delivery lifecycle.
// The numeric value doubles as the stage's rank in the canonical sequence, so
// forward-only progression is a simple comparison rather than a string lookup.
type Stage int

const (
	// StageUnknown represents an invalid or undefined stage.
	StageUnknown Stage = iota

	OrderConfirmed
	VendorNotified
	PackagePrepared
	PickupScheduled
	PickupInProgress
	PickedUp
	InTransit
	AtDistributionCenter
	OutForDelivery
	Delivered
)

func stageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:         "UNKNOWN",
		OrderConfirmed:       "ORDER_CONFIRMED",
		VendorNotified:       "VENDOR_NOTIFIED",
		PackagePrepared:      "PACKAGE_PREPARED",
		PickupScheduled:      "PICKUP_SCHEDULED",
		PickupInProgress:     "PICKUP_IN_PROGRESS",
		PickedUp:             "PICKED_UP",
		InTransit:            "IN_TRANSIT",
		AtDistributionCenter: "AT_DISTRIBUTION_CENTER",
		OutForDelivery:       "OUT_FOR_DELIVERY",
		Delivered:            "DELIVERED",
	}
}

// String implements fmt.Stringer and is safe on any Stage value.
func (s Stage) String() string {
	if str, ok := stageStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StageFromString parses a persisted or transport-level stage identifier.
func StageFromString(raw string) (Stage, error) {
	for stage, str := range stageStrings() {
		if str == raw && stage != StageUnknown {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage",
		fmt.Errorf("%q is not a valid delivery stage", raw))
}

// Validate checks the Stage is part of the canonical sequence.
func (s Stage) Validate() error {
	if s < OrderConfirmed || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("stage",
			fmt.Errorf("%d is not a valid delivery stage", s))
	}
	return nil
}

// Rank returns the stage's position in the canonical sequence, starting at 1.
func (s Stage) Rank() int {
	return int(s)
}

// IsTerminal reports whether the stage ends the tracking lifecycle.
func (s Stage) IsTerminal() bool {
	return s == Delivered
}

// CanAdvanceTo reports whether moving to next respects forward-only
// progression. Holding the same stage and skipping forward are both allowed.
func (s Stage) CanAdvanceTo(next Stage) bool {
	return next.Validate() == nil && next.Rank() >= s.Rank()
}

// AdvanceTo returns next if the move is forward, or a ConflictError for a
// regression.
func (s Stage) AdvanceTo(next Stage) (Stage, error) {
	if err := next.Validate(); err != nil {
		return StageUnknown, err
	}
	if next.Rank() < s.Rank() {
		return StageUnknown, errs.NewConflictError(
			fmt.Sprintf("delivery stage may not regress from %s to %s", s, next))
	}
	return next, nil
}
