package tracking

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

// ErrTrackingIsNotConstructed is returned when a DeliveryTracking instance was
// not created through NewDeliveryTracking or RestoreDeliveryTracking.
var ErrTrackingIsNotConstructed = errors.New(
	"DeliveryTracking must be created via NewDeliveryTracking constructor")

// StageEvent is one entry in the stage history.
type StageEvent struct {
	Stage       Stage
	Location    string
	Description string
	Actor       string
	OccurredAt  time.Time
}

// LocationUpdate is one entry in the live location history. Location updates
// are append-only and are not a prerequisite for any stage transition.
type LocationUpdate struct {
	Latitude   float64
	Longitude  float64
	Address    string
	AccuracyM  float64
	RecordedAt time.Time
}

// DeliveryAttempt records one failed delivery attempt. Attempts never regress
// the current stage.
type DeliveryAttempt struct {
	Number        int
	Reason        string
	NextAttemptAt *time.Time
	RecordedAt    time.Time
}

// DeliveryProof captures how a completed delivery was evidenced.
type DeliveryProof struct {
	DeliveredTo string
	Signature   string
	PhotoURL    string
	Notes       string
}

// DeliveryTracking is the aggregate owning an order's physical delivery state.
// It is created once logistics is assigned and becomes terminal at Delivered.
type DeliveryTracking struct {
	id                 kernel.UUID
	orderID            kernel.UUID
	trackingNumber     string
	currentStage       Stage
	stageHistory       []StageEvent
	locationHistory    []LocationUpdate
	deliveryAttempts   []DeliveryAttempt
	estimatedDelivery  time.Time
	actualDeliveryDate *time.Time
	proof              *DeliveryProof

	isConstructed bool
}

// NewDeliveryTracking creates a tracking record at OrderConfirmed with the
// initiating event in its stage history.
func NewDeliveryTracking(
	id kernel.UUID,
	orderID kernel.UUID,
	trackingNumber string,
	estimatedDelivery time.Time,
) (*DeliveryTracking, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber")
	}

	return &DeliveryTracking{
		id:             id,
		orderID:        orderID,
		trackingNumber: trackingNumber,
		currentStage:   OrderConfirmed,
		stageHistory: []StageEvent{{
			Stage:       OrderConfirmed,
			Description: "order confirmed and tracking initiated",
			Actor:       "system",
			OccurredAt:  time.Now().UTC(),
		}},
		estimatedDelivery: estimatedDelivery,
		isConstructed:     true,
	}, nil
}

// RestoreDeliveryTracking reconstructs a tracking record from persistence.
func RestoreDeliveryTracking(
	id kernel.UUID,
	orderID kernel.UUID,
	trackingNumber string,
	currentStage Stage,
	stageHistory []StageEvent,
	locationHistory []LocationUpdate,
	deliveryAttempts []DeliveryAttempt,
	estimatedDelivery time.Time,
	actualDeliveryDate *time.Time,
	proof *DeliveryProof,
) (*DeliveryTracking, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), currentStage.Validate()); err != nil {
		return nil, err
	}
	if trackingNumber == "" {
		return nil, errs.NewValueIsRequiredError("trackingNumber")
	}

	return &DeliveryTracking{
		id:                 id,
		orderID:            orderID,
		trackingNumber:     trackingNumber,
		currentStage:       currentStage,
		stageHistory:       stageHistory,
		locationHistory:    locationHistory,
		deliveryAttempts:   deliveryAttempts,
		estimatedDelivery:  estimatedDelivery,
		actualDeliveryDate: actualDeliveryDate,
		proof:              proof,
		isConstructed:      true,
	}, nil
}

// GenerateTrackingNumber produces a "TRK-<year>-<6 chars>" tracking number.
func GenerateTrackingNumber(now time.Time) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		suffix[i] = alphabet[n.Int64()]
	}
	return fmt.Sprintf("TRK-%d-%s", now.Year(), suffix)
}

// ID returns the tracking identifier.
func (d *DeliveryTracking) ID() kernel.UUID { return d.id }

// OrderID returns the tracked order's identifier.
func (d *DeliveryTracking) OrderID() kernel.UUID { return d.orderID }

// TrackingNumber returns the customer-facing tracking number.
func (d *DeliveryTracking) TrackingNumber() string { return d.trackingNumber }

// CurrentStage returns the current delivery stage.
func (d *DeliveryTracking) CurrentStage() Stage { return d.currentStage }

// StageHistory returns the accepted stage events in order.
func (d *DeliveryTracking) StageHistory() []StageEvent { return d.stageHistory }

// LocationHistory returns the recorded location updates in order.
func (d *DeliveryTracking) LocationHistory() []LocationUpdate { return d.locationHistory }

// DeliveryAttempts returns the recorded failed attempts in order.
func (d *DeliveryTracking) DeliveryAttempts() []DeliveryAttempt { return d.deliveryAttempts }

// EstimatedDelivery returns the promised delivery date.
func (d *DeliveryTracking) EstimatedDelivery() time.Time { return d.estimatedDelivery }

// ActualDeliveryDate returns when delivery completed, or nil.
func (d *DeliveryTracking) ActualDeliveryDate() *time.Time { return d.actualDeliveryDate }

// UpdateStage advances the current stage. Regression is rejected with a
// conflict; skipping forward is allowed. The accepted event is appended to the
// stage history.
func (d *DeliveryTracking) UpdateStage(newStage Stage, location, description, actor string) error {
	if d.currentStage.IsTerminal() {
		return errs.NewConflictError("delivery is already completed")
	}

	next, err := d.currentStage.AdvanceTo(newStage)
	if err != nil {
		return err
	}

	d.currentStage = next
	d.stageHistory = append(d.stageHistory, StageEvent{
		Stage:       next,
		Location:    location,
		Description: description,
		Actor:       actor,
		OccurredAt:  time.Now().UTC(),
	})
	return nil
}

// AddLocationUpdate appends a live location fix. No stage consequence.
func (d *DeliveryTracking) AddLocationUpdate(lat, lon float64, address string, accuracyM float64, at time.Time) error {
	if lat < -90 || lat > 90 {
		return errs.NewValueIsInvalidErrorWithCause("latitude",
			fmt.Errorf("%f is out of range", lat))
	}
	if lon < -180 || lon > 180 {
		return errs.NewValueIsInvalidErrorWithCause("longitude",
			fmt.Errorf("%f is out of range", lon))
	}

	d.locationHistory = append(d.locationHistory, LocationUpdate{
		Latitude:   lat,
		Longitude:  lon,
		Address:    address,
		AccuracyM:  accuracyM,
		RecordedAt: at,
	})
	return nil
}

// AddDeliveryAttempt records a failed attempt without changing the current
// stage. Attempt numbers must be sequential. Returns the total attempt count,
// which the caller compares against the escalation policy.
func (d *DeliveryTracking) AddDeliveryAttempt(number int, reason string, nextAttemptAt *time.Time) (int, error) {
	if d.currentStage.IsTerminal() {
		return 0, errs.NewConflictError("delivery is already completed")
	}
	if reason == "" {
		return 0, errs.NewValueIsRequiredError("reason")
	}
	if number != len(d.deliveryAttempts)+1 {
		return 0, errs.NewConflictError(fmt.Sprintf(
			"attempt number %d does not follow %d recorded attempts", number, len(d.deliveryAttempts)))
	}

	d.deliveryAttempts = append(d.deliveryAttempts, DeliveryAttempt{
		Number:        number,
		Reason:        reason,
		NextAttemptAt: nextAttemptAt,
		RecordedAt:    time.Now().UTC(),
	})
	return len(d.deliveryAttempts), nil
}

// CompleteDelivery moves the stage to Delivered and stamps the actual delivery
// date. Fund release is deliberately not coupled to this: release happens only
// on explicit buyer confirmation.
func (d *DeliveryTracking) CompleteDelivery(proof DeliveryProof) error {
	if proof.DeliveredTo == "" {
		return errs.NewValueIsRequiredError("deliveredTo")
	}
	if err := d.UpdateStage(Delivered, "", fmt.Sprintf("delivered to %s", proof.DeliveredTo), "driver"); err != nil {
		return err
	}

	now := time.Now().UTC()
	d.actualDeliveryDate = &now
	d.proof = &proof
	return nil
}

// Proof returns the delivery evidence, or nil before completion.
func (d *DeliveryTracking) Proof() *DeliveryProof { return d.proof }

// Validate ensures the tracking record was created through a constructor.
func (d *DeliveryTracking) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrTrackingIsNotConstructed
	}
	return nil
}
