package kernel_test

import (
	"math"
	"testing"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		wantErr  bool
	}{
		{"valid", 1500, "NGN", false},
		{"zero_amount", 0, "USD", false},
		{"negative_amount", -1, "NGN", true},
		{"empty_currency", 100, "", true},
		{"short_currency", 100, "NG", true},
		{"lowercase_currency", 100, "ngn", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := kernel.NewMoney(tt.amount, tt.currency)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.amount, m.Amount())
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestMoney_Add(t *testing.T) {
	a := kernel.MustNewMoney(1000, "NGN")
	b := kernel.MustNewMoney(500, "NGN")

	sum, err := a.Add(b)

	require.NoError(t, err)
	assert.Equal(t, int64(1500), sum.Amount())
	// operands are unchanged
	assert.Equal(t, int64(1000), a.Amount())
}

func TestMoney_Add_Overflow(t *testing.T) {
	a := kernel.MustNewMoney(math.MaxInt64-100, "NGN")
	b := kernel.MustNewMoney(101, "NGN")

	_, err := a.Add(b)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	// the largest representable sum still works
	sum, err := a.Add(kernel.MustNewMoney(100, "NGN"))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), sum.Amount())
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := kernel.MustNewMoney(1000, "NGN")
	b := kernel.MustNewMoney(500, "USD")

	_, err := a.Add(b)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestMoney_Subtract(t *testing.T) {
	t.Run("within_balance", func(t *testing.T) {
		a := kernel.MustNewMoney(1000, "NGN")
		b := kernel.MustNewMoney(400, "NGN")

		diff, err := a.Subtract(b)

		require.NoError(t, err)
		assert.Equal(t, int64(600), diff.Amount())
	})

	t.Run("would_go_negative", func(t *testing.T) {
		a := kernel.MustNewMoney(100, "NGN")
		b := kernel.MustNewMoney(400, "NGN")

		_, err := a.Subtract(b)

		require.Error(t, err)
	})
}

func TestMoney_CanCover(t *testing.T) {
	balance := kernel.MustNewMoney(10000, "NGN")

	assert.True(t, balance.CanCover(kernel.MustNewMoney(10000, "NGN")))
	assert.True(t, balance.CanCover(kernel.MustNewMoney(1, "NGN")))
	assert.False(t, balance.CanCover(kernel.MustNewMoney(10001, "NGN")))
	assert.False(t, balance.CanCover(kernel.MustNewMoney(1, "USD")))
}

func TestMoney_Validate_ZeroValue(t *testing.T) {
	var m kernel.Money

	require.Error(t, m.Validate())
	require.NoError(t, kernel.MustNewMoney(0, "NGN").Validate())
}
