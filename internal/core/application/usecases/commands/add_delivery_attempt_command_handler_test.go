package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/events"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/tracking"
	"escrow/internal/pkg/errs"
)

func testTracking(t *testing.T, orderID kernel.UUID) *tracking.DeliveryTracking {
	t.Helper()
	record, err := tracking.NewDeliveryTracking(
		kernel.NewUUID(), orderID,
		tracking.GenerateTrackingNumber(time.Now().UTC()),
		time.Now().UTC().Add(72*time.Hour),
	)
	require.NoError(t, err)
	return record
}

func TestAddDeliveryAttemptCommandHandler_Handle_RecordsAttempt(t *testing.T) {
	ctx := context.Background()
	record := testTracking(t, kernel.NewUUID())

	cmd, err := commands.NewAddDeliveryAttemptCommand(record.ID(), 1, "recipient not home", nil)
	require.NoError(t, err)

	trackingRepo := new(MockTrackingRepository)
	trackingRepo.On("Get", ctx, record.ID()).Return(record, nil).Once()
	trackingRepo.On("Update", ctx, record).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TrackingRepository").Return(trackingRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewAddDeliveryAttemptCommandHandler(deliveryUoWFactory{uow: uow})
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Len(t, record.DeliveryAttempts(), 1)
	// below the limit: no escalation event
	uow.AssertNotCalled(t, "EventPublisher")
}

func TestAddDeliveryAttemptCommandHandler_Handle_EscalatesAtLimit(t *testing.T) {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	record := testTracking(t, orderID)
	for i := 1; i < commands.EscalationAttemptLimit; i++ {
		_, err := record.AddDeliveryAttempt(i, "recipient not home", nil)
		require.NoError(t, err)
	}

	cmd, err := commands.NewAddDeliveryAttemptCommand(
		record.ID(), commands.EscalationAttemptLimit, "address not found", nil)
	require.NoError(t, err)

	trackingRepo := new(MockTrackingRepository)
	trackingRepo.On("Get", ctx, record.ID()).Return(record, nil).Once()
	trackingRepo.On("Update", ctx, record).Return(nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.MatchedBy(func(evts []events.Event) bool {
		if len(evts) != 1 {
			return false
		}
		escalated, ok := evts[0].(events.DeliveryEscalated)
		return ok &&
			escalated.OrderID.IsEqual(orderID) &&
			escalated.AttemptCount == commands.EscalationAttemptLimit &&
			escalated.LastReason == "address not found"
	})).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TrackingRepository").Return(trackingRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewAddDeliveryAttemptCommandHandler(deliveryUoWFactory{uow: uow})
	require.NoError(t, handler.Handle(ctx, cmd))

	publisher.AssertExpectations(t)
}

func TestAddDeliveryAttemptCommandHandler_Handle_RejectsOutOfSequenceNumber(t *testing.T) {
	ctx := context.Background()
	record := testTracking(t, kernel.NewUUID())

	cmd, err := commands.NewAddDeliveryAttemptCommand(record.ID(), 3, "recipient not home", nil)
	require.NoError(t, err)

	trackingRepo := new(MockTrackingRepository)
	trackingRepo.On("Get", ctx, record.ID()).Return(record, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("TrackingRepository").Return(trackingRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewAddDeliveryAttemptCommandHandler(deliveryUoWFactory{uow: uow})
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Empty(t, record.DeliveryAttempts())
}
