package tracking_test

import (
	"strings"
	"testing"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/tracking"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracking(t *testing.T) *tracking.DeliveryTracking {
	t.Helper()
	d, err := tracking.NewDeliveryTracking(
		kernel.NewUUID(), kernel.NewUUID(),
		tracking.GenerateTrackingNumber(time.Now()),
		time.Now().Add(72*time.Hour),
	)
	require.NoError(t, err)
	return d
}

func TestNewDeliveryTracking(t *testing.T) {
	d := newTestTracking(t)

	assert.Equal(t, tracking.OrderConfirmed, d.CurrentStage())
	require.Len(t, d.StageHistory(), 1)
	assert.Equal(t, tracking.OrderConfirmed, d.StageHistory()[0].Stage)
	assert.Nil(t, d.ActualDeliveryDate())
}

func TestGenerateTrackingNumber(t *testing.T) {
	n := tracking.GenerateTrackingNumber(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(n, "TRK-2026-"))
	assert.Len(t, n, len("TRK-2026-")+6)
}

func TestDeliveryTracking_UpdateStage(t *testing.T) {
	t.Run("forward_progression", func(t *testing.T) {
		d := newTestTracking(t)

		require.NoError(t, d.UpdateStage(tracking.VendorNotified, "Lagos", "vendor pinged", "system"))
		require.NoError(t, d.UpdateStage(tracking.PickedUp, "Lagos depot", "", "driver"))

		assert.Equal(t, tracking.PickedUp, d.CurrentStage())
		assert.Len(t, d.StageHistory(), 3)
	})

	t.Run("regression_rejected", func(t *testing.T) {
		d := newTestTracking(t)
		require.NoError(t, d.UpdateStage(tracking.InTransit, "", "", "driver"))

		err := d.UpdateStage(tracking.PackagePrepared, "", "", "driver")

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, tracking.InTransit, d.CurrentStage())
		assert.Len(t, d.StageHistory(), 2)
	})

	t.Run("same_stage_allowed", func(t *testing.T) {
		d := newTestTracking(t)
		require.NoError(t, d.UpdateStage(tracking.InTransit, "Ibadan", "", "driver"))

		require.NoError(t, d.UpdateStage(tracking.InTransit, "Oyo", "checkpoint", "driver"))
		assert.Len(t, d.StageHistory(), 3)
	})

	t.Run("terminal_stage_locked", func(t *testing.T) {
		d := newTestTracking(t)
		require.NoError(t, d.CompleteDelivery(tracking.DeliveryProof{DeliveredTo: "buyer"}))

		err := d.UpdateStage(tracking.Delivered, "", "", "driver")
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestDeliveryTracking_AddLocationUpdate(t *testing.T) {
	d := newTestTracking(t)

	require.NoError(t, d.AddLocationUpdate(6.5244, 3.3792, "Lagos", 12, time.Now()))
	require.NoError(t, d.AddLocationUpdate(6.4541, 3.3947, "Victoria Island", 8, time.Now()))

	assert.Len(t, d.LocationHistory(), 2)
	// location updates never move the stage
	assert.Equal(t, tracking.OrderConfirmed, d.CurrentStage())

	require.Error(t, d.AddLocationUpdate(91, 0, "nowhere", 0, time.Now()))
	require.Error(t, d.AddLocationUpdate(0, -200, "nowhere", 0, time.Now()))
}

func TestDeliveryTracking_AddDeliveryAttempt(t *testing.T) {
	d := newTestTracking(t)
	require.NoError(t, d.UpdateStage(tracking.OutForDelivery, "", "", "driver"))

	count, err := d.AddDeliveryAttempt(1, "customer not available", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	// failed attempts do not regress the stage
	assert.Equal(t, tracking.OutForDelivery, d.CurrentStage())

	t.Run("attempt_numbers_are_sequential", func(t *testing.T) {
		_, err := d.AddDeliveryAttempt(5, "wrong address", nil)
		require.ErrorIs(t, err, errs.ErrConflict)

		count, err := d.AddDeliveryAttempt(2, "wrong address", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("reason_required", func(t *testing.T) {
		_, err := d.AddDeliveryAttempt(3, "", nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestDeliveryTracking_CompleteDelivery(t *testing.T) {
	d := newTestTracking(t)
	require.NoError(t, d.UpdateStage(tracking.OutForDelivery, "", "", "driver"))

	require.NoError(t, d.CompleteDelivery(tracking.DeliveryProof{
		DeliveredTo: "Ngozi A.",
		Signature:   "sig-data",
	}))

	assert.Equal(t, tracking.Delivered, d.CurrentStage())
	require.NotNil(t, d.ActualDeliveryDate())

	t.Run("double_completion_is_conflict", func(t *testing.T) {
		err := d.CompleteDelivery(tracking.DeliveryProof{DeliveredTo: "Ngozi A."})
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("proof_requires_recipient", func(t *testing.T) {
		fresh := newTestTracking(t)
		err := fresh.CompleteDelivery(tracking.DeliveryProof{})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestStage_Sequence(t *testing.T) {
	canonical := []tracking.Stage{
		tracking.OrderConfirmed, tracking.VendorNotified, tracking.PackagePrepared,
		tracking.PickupScheduled, tracking.PickupInProgress, tracking.PickedUp,
		tracking.InTransit, tracking.AtDistributionCenter, tracking.OutForDelivery,
		tracking.Delivered,
	}

	for i := 1; i < len(canonical); i++ {
		assert.Greater(t, canonical[i].Rank(), canonical[i-1].Rank())
	}

	round, err := tracking.StageFromString("AT_DISTRIBUTION_CENTER")
	require.NoError(t, err)
	assert.Equal(t, tracking.AtDistributionCenter, round)

	_, err = tracking.StageFromString("WAREHOUSE")
	require.Error(t, err)
}
