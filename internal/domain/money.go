package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a two-currency monetary value held by a till. Every till
// operation carries both components; either may be zero, and arithmetic
// results may be negative (differences, shortfalls).
type Amount struct {
	USD decimal.Decimal `json:"usd"`
	LBP decimal.Decimal `json:"lbp"`
}

// NewAmount builds an Amount from its two components.
func NewAmount(usd, lbp decimal.Decimal) Amount {
	return Amount{USD: usd, LBP: lbp}
}

// AmountFromInts is a convenience constructor for whole-unit amounts.
func AmountFromInts(usd, lbp int64) Amount {
	return Amount{USD: decimal.NewFromInt(usd), LBP: decimal.NewFromInt(lbp)}
}

// ZeroAmount returns the additive identity.
func ZeroAmount() Amount {
	return Amount{USD: decimal.Zero, LBP: decimal.Zero}
}

// Add returns a + b per currency.
func (a Amount) Add(b Amount) Amount {
	return Amount{USD: a.USD.Add(b.USD), LBP: a.LBP.Add(b.LBP)}
}

// Sub returns a - b per currency.
func (a Amount) Sub(b Amount) Amount {
	return Amount{USD: a.USD.Sub(b.USD), LBP: a.LBP.Sub(b.LBP)}
}

// Neg returns the negation of both components.
func (a Amount) Neg() Amount {
	return Amount{USD: a.USD.Neg(), LBP: a.LBP.Neg()}
}

// IsZero reports whether both components are zero.
func (a Amount) IsZero() bool {
	return a.USD.IsZero() && a.LBP.IsZero()
}

// IsNonNegative reports whether both components are >= 0. Amounts entering
// the ledger must satisfy this; intermediate differences need not.
func (a Amount) IsNonNegative() bool {
	return !a.USD.IsNegative() && !a.LBP.IsNegative()
}

// Equal reports per-currency equality.
func (a Amount) Equal(b Amount) bool {
	return a.USD.Equal(b.USD) && a.LBP.Equal(b.LBP)
}

// Total collapses the amount into USD terms: usd + lbp/rate. The rate must
// have been validated with ValidateRate before reaching this point.
func (a Amount) Total(rate decimal.Decimal) decimal.Decimal {
	return a.USD.Add(a.LBP.Div(rate))
}

// String renders the amount for logs and CLI output.
func (a Amount) String() string {
	return fmt.Sprintf("%s USD / %s LBP", a.USD.String(), a.LBP.String())
}

// ValidateRate rejects zero or negative exchange rates at the input
// boundary, before any reconciliation arithmetic runs.
func ValidateRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidRate
	}
	return nil
}
