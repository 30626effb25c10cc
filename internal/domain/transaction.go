package domain

import (
	"time"
)

// Kind tags a ledger transaction. Go has no variant types, so every
// consumer switches exhaustively over Kind and treats an unknown tag as an
// error; the constructors below are the only way a valid kind enters the
// ledger.
type Kind string

const (
	KindCredit        Kind = "credit"
	KindCreditPayment Kind = "credit_payment"
	KindPayment       Kind = "payment"
	KindSale          Kind = "sale"
	KindWithdrawal    Kind = "withdrawal"
)

// DeductionSource says which cash pool a payment is deducted from.
type DeductionSource string

const (
	// SourceCurrent deducts from the day's main till.
	SourceCurrent DeductionSource = "current"
	// SourceOtherPool deducts from the secondary withdrawal pool and does
	// not touch the till net.
	SourceOtherPool DeductionSource = "other_pool"
)

// Transaction is a single uncommitted till movement. Fields beyond ID,
// Kind, Amount and CreatedAt are kind-specific: Person for credits and
// credit payments, Reference for the credit a payment settles, Cause for
// payments and withdrawals, DeductionSource for payments only.
type Transaction struct {
	ID              string          `json:"id"`
	Kind            Kind            `json:"kind"`
	Amount          Amount          `json:"amount"`
	Person          string          `json:"person,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Cause           string          `json:"cause,omitempty"`
	DeductionSource DeductionSource `json:"deduction_source,omitempty"`
	AutoGenerated   bool            `json:"auto_generated"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewSale records money coming into the till from a sale.
func NewSale(id string, amount Amount, now time.Time) (Transaction, error) {
	t := Transaction{ID: id, Kind: KindSale, Amount: amount, CreatedAt: now}
	return t, t.Validate()
}

// NewCredit records money owed to the business by a person.
func NewCredit(id string, amount Amount, person string, now time.Time) (Transaction, error) {
	t := Transaction{ID: id, Kind: KindCredit, Amount: amount, Person: person, CreatedAt: now}
	return t, t.Validate()
}

// NewCreditPayment records cash received against an outstanding credit.
// creditID references the credit being settled.
func NewCreditPayment(id string, amount Amount, person, creditID string, now time.Time) (Transaction, error) {
	t := Transaction{
		ID:        id,
		Kind:      KindCreditPayment,
		Amount:    amount,
		Person:    person,
		Reference: creditID,
		CreatedAt: now,
	}
	return t, t.Validate()
}

// NewPayment records an outflow deducted from the given pool.
func NewPayment(id string, amount Amount, cause string, source DeductionSource, now time.Time) (Transaction, error) {
	t := Transaction{
		ID:              id,
		Kind:            KindPayment,
		Amount:          amount,
		Cause:           cause,
		DeductionSource: source,
		CreatedAt:       now,
	}
	return t, t.Validate()
}

// NewWithdrawal records cash moved out of the till into the secondary pool.
func NewWithdrawal(id string, amount Amount, cause string, now time.Time) (Transaction, error) {
	t := Transaction{ID: id, Kind: KindWithdrawal, Amount: amount, Cause: cause, CreatedAt: now}
	return t, t.Validate()
}

// Validate checks the kind-specific required fields. Amounts recorded into
// the ledger are never negative; signs come from Contribution.
func (t *Transaction) Validate() error {
	if !t.Amount.IsNonNegative() {
		return ErrInvalidAmount
	}

	switch t.Kind {
	case KindSale:
		return nil
	case KindCredit:
		if t.Person == "" {
			return ErrMissingPerson
		}
		return nil
	case KindCreditPayment:
		if t.Person == "" {
			return ErrMissingPerson
		}
		if t.Reference == "" {
			return ErrMissingReference
		}
		return nil
	case KindPayment:
		if t.Cause == "" {
			return ErrMissingCause
		}
		if t.DeductionSource != SourceCurrent && t.DeductionSource != SourceOtherPool {
			return ErrInvalidDeductionSource
		}
		return nil
	case KindWithdrawal:
		if t.Cause == "" {
			return ErrMissingCause
		}
		return nil
	default:
		return ErrInvalidKind
	}
}

// Contribution is the transaction's signed effect on the till net,
// per currency. Sales and credit payments bring cash in; credits, till
// payments and withdrawals take cash out. Payments deducted from the
// secondary pool never touch the till, so they contribute zero. This is
// the single place that rule lives.
func (t *Transaction) Contribution() Amount {
	switch t.Kind {
	case KindSale, KindCreditPayment:
		return t.Amount
	case KindCredit, KindWithdrawal:
		return t.Amount.Neg()
	case KindPayment:
		if t.DeductionSource == SourceOtherPool {
			return ZeroAmount()
		}
		return t.Amount.Neg()
	default:
		return ZeroAmount()
	}
}
