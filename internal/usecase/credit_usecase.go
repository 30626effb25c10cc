package usecase

import (
	"context"
	"time"

	"github.com/nkhoury/tillbook/internal/domain"
)

// CreditUseCase handles receivables: listing what is owed and applying
// payments against a specific credit. A payment both settles the stored
// credit and drops a credit_payment entry into the branch's open ledger so
// the cash shows up in the day's net.
type CreditUseCase struct {
	txManager  TxManager
	creditRepo CreditRepository
	sessions   SessionStore
	idGen      IDGenerator
}

// NewCreditUseCase creates a new CreditUseCase.
func NewCreditUseCase(
	txManager TxManager,
	creditRepo CreditRepository,
	sessions SessionStore,
	idGen IDGenerator,
) *CreditUseCase {
	return &CreditUseCase{
		txManager:  txManager,
		creditRepo: creditRepo,
		sessions:   sessions,
		idGen:      idGen,
	}
}

// GetCredit retrieves a credit by ID.
func (uc *CreditUseCase) GetCredit(ctx context.Context, id string) (*domain.Credit, error) {
	return uc.creditRepo.GetByID(ctx, id)
}

// ListUnpaidInput pages through a branch's outstanding credits.
type ListUnpaidInput struct {
	BranchID int64
	Limit    int
	Offset   int
}

// ListUnpaid lists outstanding credits; paid credits never appear here.
func (uc *CreditUseCase) ListUnpaid(ctx context.Context, input ListUnpaidInput) ([]*domain.Credit, error) {
	limit, offset := clampLimit(input.Limit, input.Offset)
	return uc.creditRepo.ListUnpaid(ctx, input.BranchID, limit, offset)
}

// RecordPaymentInput applies a payment against one credit.
type RecordPaymentInput struct {
	BranchID int64
	CreditID string
	Amount   domain.Amount
}

// RecordPayment applies a partial or full payment to the credit under a
// row lock, then records the incoming cash in the branch's open day
// ledger. The branch day must be open for entry, since the cash lands in
// the till.
func (uc *CreditUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Credit, error) {
	session, err := uc.sessions.Load(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}
	if !session.CanRecordEntries() {
		return nil, domain.ErrWrongDayState
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	credit, err := uc.creditRepo.GetByIDForUpdate(ctx, tx, input.CreditID)
	if err != nil {
		return nil, err
	}

	if err := credit.ApplyPayment(input.Amount, now); err != nil {
		return nil, err
	}

	if err := uc.creditRepo.UpdatePayment(ctx, tx, credit.ID, credit.PaidAmount, credit.Status, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	entry, err := domain.NewCreditPayment(uc.idGen.Generate(), input.Amount, credit.Person, credit.ID, now)
	if err != nil {
		return nil, err
	}
	if err := session.Ledger.Add(entry); err != nil {
		return nil, err
	}
	session.UpdatedAt = now

	if err := uc.sessions.Save(ctx, session); err != nil {
		return credit, err
	}

	return credit, nil
}
