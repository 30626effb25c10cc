package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// AmountPayload carries a two-currency amount on the wire.
type AmountPayload struct {
	USD decimal.Decimal `json:"usd"`
	LBP decimal.Decimal `json:"lbp"`
}

// ToDomain converts to a domain amount.
func (a AmountPayload) ToDomain() domain.Amount {
	return domain.NewAmount(a.USD, a.LBP)
}

// ConfirmOpeningRequest confirms the physically counted opening cash.
type ConfirmOpeningRequest struct {
	UserID  string        `json:"user_id"`
	Counted AmountPayload `json:"counted"`
}

// ToUseCaseInput converts to use case input.
func (r *ConfirmOpeningRequest) ToUseCaseInput(branchID int64) usecase.ConfirmOpeningInput {
	return usecase.ConfirmOpeningInput{
		BranchID: branchID,
		UserID:   r.UserID,
		Counted:  r.Counted.ToDomain(),
	}
}

// RecordEntryRequest records a new ledger entry.
type RecordEntryRequest struct {
	Kind            string        `json:"kind"`
	Amount          AmountPayload `json:"amount"`
	Person          string        `json:"person,omitempty"`
	Reference       string        `json:"reference,omitempty"`
	Cause           string        `json:"cause,omitempty"`
	DeductionSource string        `json:"deduction_source,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordEntryRequest) ToUseCaseInput(branchID int64) usecase.RecordEntryInput {
	return usecase.RecordEntryInput{
		BranchID:        branchID,
		Kind:            domain.Kind(r.Kind),
		Amount:          r.Amount.ToDomain(),
		Person:          r.Person,
		Reference:       r.Reference,
		Cause:           r.Cause,
		DeductionSource: domain.DeductionSource(r.DeductionSource),
	}
}

// UpdateEntryRequest edits an existing ledger entry.
type UpdateEntryRequest struct {
	Amount          AmountPayload `json:"amount"`
	Person          string        `json:"person,omitempty"`
	Reference       string        `json:"reference,omitempty"`
	Cause           string        `json:"cause,omitempty"`
	DeductionSource string        `json:"deduction_source,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput(branchID int64, entryID string) usecase.UpdateEntryInput {
	return usecase.UpdateEntryInput{
		BranchID:        branchID,
		EntryID:         entryID,
		Amount:          r.Amount.ToDomain(),
		Person:          r.Person,
		Reference:       r.Reference,
		Cause:           r.Cause,
		DeductionSource: domain.DeductionSource(r.DeductionSource),
	}
}

// RequestCloseRequest asks to move the day into closing confirmation.
// Date, when present, overrides the session date (YYYY-MM-DD).
type RequestCloseRequest struct {
	UserID string  `json:"user_id"`
	Date   *string `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RequestCloseRequest) ToUseCaseInput(branchID int64) (usecase.RequestCloseInput, error) {
	input := usecase.RequestCloseInput{
		BranchID: branchID,
		UserID:   r.UserID,
	}

	if r.Date != nil {
		date, err := time.Parse("2006-01-02", *r.Date)
		if err != nil {
			return usecase.RequestCloseInput{}, err
		}
		input.Date = &date
	}

	return input, nil
}

// ConfirmCloseRequest confirms the physically counted closing cash.
type ConfirmCloseRequest struct {
	Counted AmountPayload `json:"counted"`
}

// ToUseCaseInput converts to use case input.
func (r *ConfirmCloseRequest) ToUseCaseInput(branchID int64) usecase.ConfirmCloseInput {
	return usecase.ConfirmCloseInput{
		BranchID: branchID,
		Counted:  r.Counted.ToDomain(),
	}
}

// RecordCreditPaymentRequest applies a payment against a credit.
type RecordCreditPaymentRequest struct {
	BranchID int64         `json:"branch_id"`
	Amount   AmountPayload `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordCreditPaymentRequest) ToUseCaseInput(creditID string) usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		BranchID: r.BranchID,
		CreditID: creditID,
		Amount:   r.Amount.ToDomain(),
	}
}
