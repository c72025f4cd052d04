package commands

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/guard"
)

var ErrAddLocationUpdateCommandIsNotConstructed = errors.New(
	"AddLocationUpdateCommand must be created via NewAddLocationUpdateCommand constructor",
)

// AddLocationUpdateCommand represents a live position fix reported by the
// carrier while a package is in transit.
type AddLocationUpdateCommand struct { //nolint:recvcheck //using for validation
	trackingID kernel.UUID
	latitude   float64
	longitude  float64
	address    string
	accuracyM  float64
	recordedAt time.Time

	guard guard.ConstructorGuard
}

// NewAddLocationUpdateCommand creates a command to append a location fix.
// Coordinate range checks live in the tracking aggregate. A zero recordedAt
// defaults to now.
func NewAddLocationUpdateCommand(
	trackingID kernel.UUID,
	latitude float64,
	longitude float64,
	address string,
	accuracyM float64,
	recordedAt time.Time,
) (AddLocationUpdateCommand, error) {
	cmd := AddLocationUpdateCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTrackingID(trackingID); err != nil {
		return AddLocationUpdateCommand{}, err
	}
	cmd.latitude = latitude
	cmd.longitude = longitude
	cmd.address = address
	cmd.accuracyM = accuracyM
	cmd.recordedAt = recordedAt
	if cmd.recordedAt.IsZero() {
		cmd.recordedAt = time.Now().UTC()
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddLocationUpdateCommand) Validate() error {
	return c.guard.Validate(ErrAddLocationUpdateCommandIsNotConstructed)
}

// TrackingID returns the tracking record identifier.
func (c AddLocationUpdateCommand) TrackingID() kernel.UUID {
	return c.trackingID
}

// Latitude returns the reported latitude.
func (c AddLocationUpdateCommand) Latitude() float64 {
	return c.latitude
}

// Longitude returns the reported longitude.
func (c AddLocationUpdateCommand) Longitude() float64 {
	return c.longitude
}

// Address returns the reverse-geocoded address, when available.
func (c AddLocationUpdateCommand) Address() string {
	return c.address
}

// AccuracyM returns the fix accuracy in meters.
func (c AddLocationUpdateCommand) AccuracyM() float64 {
	return c.accuracyM
}

// RecordedAt returns when the fix was taken.
func (c AddLocationUpdateCommand) RecordedAt() time.Time {
	return c.recordedAt
}

func (c *AddLocationUpdateCommand) setTrackingID(trackingID kernel.UUID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}

	c.trackingID = trackingID
	return nil
}
