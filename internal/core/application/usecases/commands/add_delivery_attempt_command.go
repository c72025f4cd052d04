package commands

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var (
	ErrAddDeliveryAttemptCommandIsNotConstructed = errors.New(
		"AddDeliveryAttemptCommand must be created via NewAddDeliveryAttemptCommand constructor",
	)
	ErrAttemptReasonIsRequired = errors.New("attempt reason is required")
)

// AddDeliveryAttemptCommand represents a failed delivery attempt reported by
// the carrier, optionally with a rescheduled next attempt.
type AddDeliveryAttemptCommand struct { //nolint:recvcheck //using for validation
	trackingID    kernel.UUID
	number        int
	reason        string
	nextAttemptAt *time.Time

	guard guard.ConstructorGuard
}

// NewAddDeliveryAttemptCommand creates a command to record a failed attempt.
// The number must continue the sequence already recorded on the tracking record.
func NewAddDeliveryAttemptCommand(
	trackingID kernel.UUID,
	number int,
	reason string,
	nextAttemptAt *time.Time,
) (AddDeliveryAttemptCommand, error) {
	cmd := AddDeliveryAttemptCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTrackingID(trackingID),
		cmd.setReason(reason),
	); err != nil {
		return AddDeliveryAttemptCommand{}, err
	}
	cmd.number = number
	cmd.nextAttemptAt = nextAttemptAt

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddDeliveryAttemptCommand) Validate() error {
	return c.guard.Validate(ErrAddDeliveryAttemptCommandIsNotConstructed)
}

// TrackingID returns the tracking record identifier.
func (c AddDeliveryAttemptCommand) TrackingID() kernel.UUID {
	return c.trackingID
}

// Number returns the attempt's sequence number.
func (c AddDeliveryAttemptCommand) Number() int {
	return c.number
}

// Reason returns why the attempt failed.
func (c AddDeliveryAttemptCommand) Reason() string {
	return c.reason
}

// NextAttemptAt returns the rescheduled attempt time, when known.
func (c AddDeliveryAttemptCommand) NextAttemptAt() *time.Time {
	return c.nextAttemptAt
}

func (c *AddDeliveryAttemptCommand) setTrackingID(trackingID kernel.UUID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}

	c.trackingID = trackingID
	return nil
}

func (c *AddDeliveryAttemptCommand) setReason(reason string) error {
	if reason == "" {
		return ErrAttemptReasonIsRequired
	}

	c.reason = reason
	return nil
}
