package domain

import (
	"time"
)

// CreditStatus is the lifecycle state of a receivable.
type CreditStatus string

const (
	CreditStatusUnpaid CreditStatus = "unpaid"
	CreditStatusPaid   CreditStatus = "paid"
)

// Credit is money owed to the business by a person. It is created unpaid,
// accumulates partial payments per currency, and flips to paid exactly once
// when both components are settled.
type Credit struct {
	ID            string       `json:"id"`
	BranchID      int64        `json:"branch_id"`
	Person        string       `json:"person"`
	Cause         string       `json:"cause,omitempty"`
	Amount        Amount       `json:"amount"`
	PaidAmount    Amount       `json:"paid_amount"`
	Status        CreditStatus `json:"status"`
	AutoGenerated bool         `json:"auto_generated"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewCreditRecord builds an unpaid credit from a recorded credit
// transaction.
func NewCreditRecord(id string, branchID int64, t Transaction, now time.Time) *Credit {
	return &Credit{
		ID:            id,
		BranchID:      branchID,
		Person:        t.Person,
		Cause:         t.Cause,
		Amount:        t.Amount,
		PaidAmount:    ZeroAmount(),
		Status:        CreditStatusUnpaid,
		AutoGenerated: t.AutoGenerated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Remaining is the still-owed amount per currency.
func (c *Credit) Remaining() Amount {
	return c.Amount.Sub(c.PaidAmount)
}

// ApplyPayment adds a partial or full payment. Each component must be
// non-negative and must not exceed the remaining owed amount in that
// currency. Once both components reach the owed amount the credit becomes
// paid; the transition is one-way.
func (c *Credit) ApplyPayment(payment Amount, now time.Time) error {
	if !payment.IsNonNegative() {
		return ErrInvalidAmount
	}

	remaining := c.Remaining()
	if payment.USD.GreaterThan(remaining.USD) || payment.LBP.GreaterThan(remaining.LBP) {
		return ErrOverpayment
	}

	c.PaidAmount = c.PaidAmount.Add(payment)
	if c.PaidAmount.USD.GreaterThanOrEqual(c.Amount.USD) &&
		c.PaidAmount.LBP.GreaterThanOrEqual(c.Amount.LBP) {
		c.Status = CreditStatusPaid
	}
	c.UpdatedAt = now

	return nil
}

// IsPaid reports whether the credit is fully settled.
func (c *Credit) IsPaid() bool {
	return c.Status == CreditStatusPaid
}
