package errs_test

import (
	"errors"
	"testing"

	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("walletId", "123", cause)

		assert.Equal(t, "walletId", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: walletId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.True(t, errors.Is(err, errs.ErrObjectNotFound))
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("amount")

		assert.Equal(t, "amount", err.ParamName)
		assert.Equal(t, "value is invalid: amount", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("currency", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: currency (cause: invalid format)", err.Error())
		assert.True(t, errors.Is(err, errs.ErrValueIsInvalid))
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("buyerId")

	assert.Equal(t, "buyerId", err.ParamName)
	assert.Equal(t, "value is required: buyerId", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
}

func TestInsufficientFundsError(t *testing.T) {
	err := errs.NewInsufficientFundsError("w-1", 500, 1000)

	assert.Equal(t, "w-1", err.WalletID)
	assert.Equal(t, int64(500), err.Balance)
	assert.Equal(t, int64(1000), err.Amount)
	assert.Equal(t, "insufficient funds: wallet w-1 has 500, needs 1000", err.Error())
	assert.True(t, errors.Is(err, errs.ErrInsufficientFunds))
}

func TestPermissionDeniedError(t *testing.T) {
	err := errs.NewPermissionDeniedError("vendor-7", "confirm delivery")

	assert.Equal(t, "permission denied: vendor-7 may not confirm delivery", err.Error())
	assert.True(t, errors.Is(err, errs.ErrPermissionDenied))
}

func TestConflictError(t *testing.T) {
	t.Run("NewConflictError", func(t *testing.T) {
		err := errs.NewConflictError("escrow already released")

		assert.Equal(t, "conflict: escrow already released", err.Error())
		assert.True(t, errors.Is(err, errs.ErrConflict))
	})

	t.Run("NewConflictErrorWithCause", func(t *testing.T) {
		cause := errors.New("duplicated key")
		err := errs.NewConflictErrorWithCause("idempotency key taken", cause)

		assert.Equal(t, "conflict: idempotency key taken (cause: duplicated key)", err.Error())
		assert.Equal(t, cause, err.Cause)
	})
}

func TestUnavailableError(t *testing.T) {
	cause := errors.New("serialization failure")
	err := errs.NewUnavailableError("debit wallet", cause)

	assert.Equal(t, "unavailable: debit wallet (cause: serialization failure)", err.Error())
	assert.True(t, errors.Is(err, errs.ErrUnavailable))
}

func TestSanitizeNewlines(t *testing.T) {
	err := errs.NewConflictError("first line\nsecond line")

	assert.Contains(t, err.Error(), "first line second line")
	assert.NotContains(t, err.Error(), "\n")
}
