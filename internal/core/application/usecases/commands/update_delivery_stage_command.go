package commands

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/tracking"
	"escrow/internal/pkg/guard"
)

var (
	ErrUpdateDeliveryStageCommandIsNotConstructed = errors.New(
		"UpdateDeliveryStageCommand must be created via NewUpdateDeliveryStageCommand constructor",
	)
	ErrStageActorIsRequired = errors.New("actor is required")
)

// UpdateDeliveryStageCommand represents a logistics actor reporting delivery
// progress. Stages only move forward; the final Delivered stage goes through
// CompleteDeliveryCommand because it requires proof.
type UpdateDeliveryStageCommand struct { //nolint:recvcheck //using for validation
	trackingID  kernel.UUID
	stage       tracking.Stage
	location    string
	description string
	actor       string

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryStageCommand creates a command to advance a delivery stage.
func NewUpdateDeliveryStageCommand(
	trackingID kernel.UUID,
	stage tracking.Stage,
	location string,
	description string,
	actor string,
) (UpdateDeliveryStageCommand, error) {
	cmd := UpdateDeliveryStageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTrackingID(trackingID),
		cmd.setStage(stage),
		cmd.setActor(actor),
	); err != nil {
		return UpdateDeliveryStageCommand{}, err
	}
	cmd.location = location
	cmd.description = description

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDeliveryStageCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStageCommandIsNotConstructed)
}

// TrackingID returns the tracking record identifier.
func (c UpdateDeliveryStageCommand) TrackingID() kernel.UUID {
	return c.trackingID
}

// Stage returns the reported stage.
func (c UpdateDeliveryStageCommand) Stage() tracking.Stage {
	return c.stage
}

// Location returns where the stage change was observed.
func (c UpdateDeliveryStageCommand) Location() string {
	return c.location
}

// Description returns the free-form stage note.
func (c UpdateDeliveryStageCommand) Description() string {
	return c.description
}

// Actor returns who reported the change.
func (c UpdateDeliveryStageCommand) Actor() string {
	return c.actor
}

func (c *UpdateDeliveryStageCommand) setTrackingID(trackingID kernel.UUID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}

	c.trackingID = trackingID
	return nil
}

func (c *UpdateDeliveryStageCommand) setStage(stage tracking.Stage) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	c.stage = stage
	return nil
}

func (c *UpdateDeliveryStageCommand) setActor(actor string) error {
	if actor == "" {
		return ErrStageActorIsRequired
	}

	c.actor = actor
	return nil
}
