package kernel

import (
	"fmt"
	"math"

	"escrow/internal/pkg/errs"
)

// DefaultCurrency is the currency assigned to wallets when the caller does not
// specify one.
const DefaultCurrency = "NGN"

// Money is a value object pairing an amount in minor currency units with its
// ISO 4217 currency code. Amounts are always non-negative; the direction of a
// movement is carried by the transaction type, not the sign.
//
// Money is immutable: arithmetic returns new values.
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a Money value. The amount must be non-negative and the
// currency a three-letter uppercase ISO code.
func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amount))
	}
	if err := validateCurrency(currency); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustNewMoney creates a Money value and panics on invalid input.
// Intended for constants and tests.
func MustNewMoney(amount int64, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func validateCurrency(currency string) error {
	if currency == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter ISO code", currency))
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return errs.NewValueIsInvalidErrorWithCause("currency",
				fmt.Errorf("%q is not a three-letter ISO code", currency))
		}
	}
	return nil
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the ISO currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// Add returns the sum of two Money values of the same currency. Fails when
// the sum would overflow int64.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if m.amount > math.MaxInt64-other.amount {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d + %d overflows", m.amount, other.amount))
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns the difference of two Money values of the same currency.
// Fails when the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.amount > m.amount {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("cannot subtract %d from %d", other.amount, m.amount))
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// CanCover reports whether m is large enough to pay other.
func (m Money) CanCover(other Money) bool {
	return m.currency == other.currency && m.amount >= other.amount
}

// IsEqual compares two Money values by amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// String formats the value as "<amount> <currency>", e.g. "1500 NGN".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amount, m.currency)
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%s does not match %s", other.currency, m.currency))
	}
	return nil
}

// Validate returns an error for zero-value Money, which indicates construction
// bypassed NewMoney.
func (m Money) Validate() error {
	if m.currency == "" {
		return errs.NewValueIsRequiredError("Money must be created via NewMoney")
	}
	return nil
}
