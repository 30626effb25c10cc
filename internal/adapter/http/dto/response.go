package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkhoury/tillbook/internal/domain"
)

// AmountFromDomain converts a domain amount to its wire form.
func AmountFromDomain(a domain.Amount) AmountPayload {
	return AmountPayload{USD: a.USD, LBP: a.LBP}
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID              string        `json:"id"`
	Kind            string        `json:"kind"`
	Amount          AmountPayload `json:"amount"`
	Person          string        `json:"person,omitempty"`
	Reference       string        `json:"reference,omitempty"`
	Cause           string        `json:"cause,omitempty"`
	DeductionSource string        `json:"deduction_source,omitempty"`
	AutoGenerated   bool          `json:"auto_generated"`
	CreatedAt       time.Time     `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		Kind:            string(t.Kind),
		Amount:          AmountFromDomain(t.Amount),
		Person:          t.Person,
		Reference:       t.Reference,
		Cause:           t.Cause,
		DeductionSource: string(t.DeductionSource),
		AutoGenerated:   t.AutoGenerated,
		CreatedAt:       t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(entries []domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(entries))
	for i, t := range entries {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// SessionResponse represents a branch's day session in API responses.
// Net is the expected closing balance for the ledger as it stands.
type SessionResponse struct {
	BranchID        int64                  `json:"branch_id"`
	Date            string                 `json:"date"`
	State           string                 `json:"state"`
	ExpectedOpening AmountPayload          `json:"expected_opening"`
	Opening         AmountPayload          `json:"opening"`
	Net             AmountPayload          `json:"net"`
	OpeningUserID   string                 `json:"opening_user_id,omitempty"`
	CloserUserID    string                 `json:"closer_user_id,omitempty"`
	Entries         []*TransactionResponse `json:"entries"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// SessionFromDomain converts a domain day session to response.
func SessionFromDomain(s *domain.DaySession) *SessionResponse {
	return &SessionResponse{
		BranchID:        s.BranchID,
		Date:            s.Date.Format("2006-01-02"),
		State:           string(s.State),
		ExpectedOpening: AmountFromDomain(s.ExpectedOpening),
		Opening:         AmountFromDomain(s.Opening),
		Net:             AmountFromDomain(s.Net()),
		OpeningUserID:   s.OpeningUserID,
		CloserUserID:    s.CloserUserID,
		Entries:         TransactionsFromDomain(s.Ledger.All()),
		UpdatedAt:       s.UpdatedAt,
	}
}

// GateResponse represents a reconciliation gate outcome in API responses.
type GateResponse struct {
	Net        AmountPayload   `json:"net"`
	Counted    AmountPayload   `json:"counted"`
	Difference decimal.Decimal `json:"difference"`
	Tolerance  decimal.Decimal `json:"tolerance"`
	Allowed    bool            `json:"allowed"`
}

// GateFromDomain converts a domain gate result to response.
func GateFromDomain(g *domain.GateResult, tolerance decimal.Decimal) *GateResponse {
	return &GateResponse{
		Net:        AmountFromDomain(g.Net),
		Counted:    AmountFromDomain(g.Counted),
		Difference: g.Difference,
		Tolerance:  tolerance,
		Allowed:    g.Allowed,
	}
}

// DailyBalanceResponse represents a closing snapshot in API responses.
type DailyBalanceResponse struct {
	ID           string        `json:"id"`
	BranchID     int64         `json:"branch_id"`
	Date         string        `json:"date"`
	Opening      AmountPayload `json:"opening"`
	Closing      AmountPayload `json:"closing"`
	CloserUserID string        `json:"closer_user_id"`
	CreatedAt    time.Time     `json:"created_at"`
}

// BalanceFromDomain converts a domain daily balance to response.
func BalanceFromDomain(b *domain.DailyBalance) *DailyBalanceResponse {
	return &DailyBalanceResponse{
		ID:           b.ID,
		BranchID:     b.BranchID,
		Date:         b.Date.Format("2006-01-02"),
		Opening:      AmountFromDomain(b.Opening),
		Closing:      AmountFromDomain(b.Closing),
		CloserUserID: b.CloserUserID,
		CreatedAt:    b.CreatedAt,
	}
}

// BalancesFromDomain converts domain daily balances to responses.
func BalancesFromDomain(balances []*domain.DailyBalance) []*DailyBalanceResponse {
	result := make([]*DailyBalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// CreditResponse represents a receivable in API responses.
type CreditResponse struct {
	ID            string        `json:"id"`
	BranchID      int64         `json:"branch_id"`
	Person        string        `json:"person"`
	Cause         string        `json:"cause,omitempty"`
	Amount        AmountPayload `json:"amount"`
	PaidAmount    AmountPayload `json:"paid_amount"`
	Remaining     AmountPayload `json:"remaining"`
	Status        string        `json:"status"`
	AutoGenerated bool          `json:"auto_generated"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CreditFromDomain converts a domain credit to response.
func CreditFromDomain(c *domain.Credit) *CreditResponse {
	return &CreditResponse{
		ID:            c.ID,
		BranchID:      c.BranchID,
		Person:        c.Person,
		Cause:         c.Cause,
		Amount:        AmountFromDomain(c.Amount),
		PaidAmount:    AmountFromDomain(c.PaidAmount),
		Remaining:     AmountFromDomain(c.Remaining()),
		Status:        string(c.Status),
		AutoGenerated: c.AutoGenerated,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// CreditsFromDomain converts domain credits to responses.
func CreditsFromDomain(credits []*domain.Credit) []*CreditResponse {
	result := make([]*CreditResponse, len(credits))
	for i, c := range credits {
		result[i] = CreditFromDomain(c)
	}
	return result
}

// DifferenceResponse represents a recorded cash discrepancy in API responses.
type DifferenceResponse struct {
	ID         string        `json:"id"`
	BranchID   int64         `json:"branch_id"`
	UserID     string        `json:"user_id"`
	Date       string        `json:"date"`
	Stage      string        `json:"stage"`
	Difference AmountPayload `json:"difference"`
	CreatedAt  time.Time     `json:"created_at"`
}

// DifferenceFromDomain converts a domain cash difference to response.
func DifferenceFromDomain(d *domain.CashDifference) *DifferenceResponse {
	return &DifferenceResponse{
		ID:         d.ID,
		BranchID:   d.BranchID,
		UserID:     d.UserID,
		Date:       d.Date.Format("2006-01-02"),
		Stage:      string(d.Stage),
		Difference: AmountFromDomain(d.Difference),
		CreatedAt:  d.CreatedAt,
	}
}

// DifferencesFromDomain converts domain cash differences to responses.
func DifferencesFromDomain(diffs []*domain.CashDifference) []*DifferenceResponse {
	result := make([]*DifferenceResponse, len(diffs))
	for i, d := range diffs {
		result[i] = DifferenceFromDomain(d)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
