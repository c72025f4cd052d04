package dispute

import (
	"errors"
	"fmt"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

// ErrDisputeIsNotConstructed is returned when a Dispute instance was not
// created through NewDispute or RestoreDispute.
var ErrDisputeIsNotConstructed = errors.New("Dispute must be created via NewDispute constructor")

// Status represents the mediation state of a dispute.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Open is the initial status after a party raises the dispute.
	Open

	// UnderReview means a mediator picked up the case.
	UnderReview

	// ResolvedBuyer is terminal: the full escrow went back to the buyer.
	ResolvedBuyer

	// ResolvedVendor is terminal: the full escrow went to the vendor.
	ResolvedVendor

	// ResolvedSplit is terminal: the escrow was divided between both parties.
	ResolvedSplit
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "unknown",
		Open:           "open",
		UnderReview:    "under_review",
		ResolvedBuyer:  "resolved_buyer",
		ResolvedVendor: "resolved_vendor",
		ResolvedSplit:  "resolved_split",
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks the Status is one of the defined mediation states.
func (s Status) Validate() error {
	if s < Open || s > ResolvedSplit {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid dispute status", s))
	}
	return nil
}

// IsResolved reports whether the dispute reached a terminal outcome.
func (s Status) IsResolved() bool {
	return s == ResolvedBuyer || s == ResolvedVendor || s == ResolvedSplit
}

// Resolution is the outcome of mediation: how the escrow splits between buyer
// and vendor. Amounts always sum to the escrow amount exactly.
type Resolution struct {
	AmountToBuyer  kernel.Money
	AmountToVendor kernel.Money
}

// Dispute is the aggregate for one order's mediation case.
type Dispute struct {
	id         kernel.UUID
	orderID    kernel.UUID
	raisedBy   kernel.UUID
	evidence   []string
	status     Status
	resolution *Resolution
	openedAt   time.Time
	resolvedAt *time.Time

	isConstructed bool
}

// NewDispute opens a dispute raised by one of the order's parties. Evidence is
// free-form (descriptions, photo URLs) and must not be empty.
func NewDispute(id, orderID, raisedBy kernel.UUID, evidence []string) (*Dispute, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), raisedBy.Validate()); err != nil {
		return nil, err
	}
	if len(evidence) == 0 {
		return nil, errs.NewValueIsRequiredError("evidence")
	}

	return &Dispute{
		id:            id,
		orderID:       orderID,
		raisedBy:      raisedBy,
		evidence:      evidence,
		status:        Open,
		openedAt:      time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreDispute reconstructs a dispute from persistence.
func RestoreDispute(
	id, orderID, raisedBy kernel.UUID,
	evidence []string,
	status Status,
	resolution *Resolution,
	openedAt time.Time,
	resolvedAt *time.Time,
) (*Dispute, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), raisedBy.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Dispute{
		id:            id,
		orderID:       orderID,
		raisedBy:      raisedBy,
		evidence:      evidence,
		status:        status,
		resolution:    resolution,
		openedAt:      openedAt,
		resolvedAt:    resolvedAt,
		isConstructed: true,
	}, nil
}

// ID returns the dispute identifier.
func (d *Dispute) ID() kernel.UUID { return d.id }

// OrderID returns the disputed order's identifier.
func (d *Dispute) OrderID() kernel.UUID { return d.orderID }

// RaisedBy returns the identifier of the party that opened the dispute.
func (d *Dispute) RaisedBy() kernel.UUID { return d.raisedBy }

// Evidence returns the submitted evidence entries.
func (d *Dispute) Evidence() []string { return d.evidence }

// Status returns the current mediation status.
func (d *Dispute) Status() Status { return d.status }

// Resolution returns the outcome split, or nil while unresolved.
func (d *Dispute) Resolution() *Resolution { return d.resolution }

// OpenedAt returns when the dispute was raised.
func (d *Dispute) OpenedAt() time.Time { return d.openedAt }

// ResolvedAt returns when the dispute was resolved, or nil.
func (d *Dispute) ResolvedAt() *time.Time { return d.resolvedAt }

// StartReview moves the dispute to UnderReview.
func (d *Dispute) StartReview() error {
	if d.status != Open {
		return errs.NewConflictError(
			fmt.Sprintf("dispute is %s, review requires open", d.status))
	}
	d.status = UnderReview
	return nil
}

// Resolve records the mediation outcome. The split must conserve the escrow
// exactly and match the outcome: a buyer outcome sends everything to the buyer,
// a vendor outcome everything to the vendor, and a split gives both parties a
// positive share. Resolving twice is a conflict.
func (d *Dispute) Resolve(outcome Status, toBuyer, toVendor, escrowAmount kernel.Money) error {
	if d.status.IsResolved() {
		return errs.NewConflictError("dispute is already resolved")
	}
	if !outcome.IsResolved() {
		return errs.NewValueIsInvalidErrorWithCause("outcome",
			fmt.Errorf("%s is not a resolution outcome", outcome))
	}

	total, err := toBuyer.Add(toVendor)
	if err != nil {
		return err
	}
	if !total.IsEqual(escrowAmount) {
		return errs.NewValueIsInvalidErrorWithCause("resolution",
			fmt.Errorf("%s + %s does not equal escrow %s", toBuyer, toVendor, escrowAmount))
	}

	switch outcome {
	case ResolvedBuyer:
		if !toVendor.IsZero() {
			return errs.NewValueIsInvalidErrorWithCause("amountToVendor",
				errors.New("buyer outcome must send nothing to the vendor"))
		}
	case ResolvedVendor:
		if !toBuyer.IsZero() {
			return errs.NewValueIsInvalidErrorWithCause("amountToBuyer",
				errors.New("vendor outcome must send nothing to the buyer"))
		}
	case ResolvedSplit:
		if toBuyer.IsZero() || toVendor.IsZero() {
			return errs.NewValueIsInvalidErrorWithCause("resolution",
				errors.New("split outcome requires a positive share for both parties"))
		}
	}

	now := time.Now().UTC()
	d.status = outcome
	d.resolution = &Resolution{AmountToBuyer: toBuyer, AmountToVendor: toVendor}
	d.resolvedAt = &now
	return nil
}

// Validate ensures the dispute was created through a constructor.
func (d *Dispute) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDisputeIsNotConstructed
	}
	return nil
}
