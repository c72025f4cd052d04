package order_test

import (
	"testing"

	"escrow/internal/core/domain/model/order"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending_vendor_confirmation", order.PendingVendorConfirmation.String())
	assert.Equal(t, "escrow_funded", order.EscrowFunded.String())
	assert.Equal(t, "disputed", order.Disputed.String())
	assert.Equal(t, "unknown", order.StatusUnknown.String())
	assert.Equal(t, "unknown", order.Status(99).String())
}

func TestStatusFromString(t *testing.T) {
	s, err := order.StatusFromString("shipped")
	require.NoError(t, err)
	assert.Equal(t, order.Shipped, s)

	_, err = order.StatusFromString("unknown")
	require.Error(t, err)

	_, err = order.StatusFromString("teleported")
	require.Error(t, err)
}

func TestStatus_TransitionTable(t *testing.T) {
	allowed := []struct {
		from, to order.Status
	}{
		{order.PendingVendorConfirmation, order.EscrowFunded},
		{order.PendingVendorConfirmation, order.Cancelled},
		{order.EscrowFunded, order.Shipped},
		{order.EscrowFunded, order.Cancelled},
		{order.Shipped, order.Delivered},
		{order.Shipped, order.Disputed},
		{order.Delivered, order.Completed},
		{order.Delivered, order.Disputed},
		{order.Disputed, order.Completed},
		{order.Disputed, order.Refunded},
	}
	for _, tr := range allowed {
		t.Run(tr.from.String()+"_to_"+tr.to.String(), func(t *testing.T) {
			next, err := tr.from.TransitionTo(tr.to)
			require.NoError(t, err)
			assert.Equal(t, tr.to, next)
		})
	}

	rejected := []struct {
		from, to order.Status
	}{
		{order.PendingVendorConfirmation, order.Shipped},
		{order.PendingVendorConfirmation, order.Completed},
		{order.EscrowFunded, order.Delivered},
		{order.EscrowFunded, order.Disputed},
		{order.Shipped, order.Cancelled},
		{order.Delivered, order.Cancelled},
		{order.Delivered, order.Refunded},
		{order.Completed, order.Refunded},
		{order.Refunded, order.Completed},
		{order.Cancelled, order.EscrowFunded},
	}
	for _, tr := range rejected {
		t.Run(tr.from.String()+"_to_"+tr.to.String()+"_rejected", func(t *testing.T) {
			_, err := tr.from.TransitionTo(tr.to)
			require.ErrorIs(t, err, errs.ErrConflict)
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Completed.IsTerminal())
	assert.True(t, order.Refunded.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.PendingVendorConfirmation.IsTerminal())
	assert.False(t, order.Disputed.IsTerminal())
	assert.False(t, order.StatusUnknown.IsTerminal())
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.Shipped.Validate())
	require.Error(t, order.StatusUnknown.Validate())
	require.Error(t, order.Status(42).Validate())
}
