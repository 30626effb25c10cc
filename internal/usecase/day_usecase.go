package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkhoury/tillbook/internal/domain"
)

// DayUseCase drives the close-day workflow for a branch: opening
// confirmation, ledger entry for the open day, and the gated closing
// commit. The session store holds the only mutable state; every operation
// loads the session, mutates a copy, persists what must be persisted, and
// checkpoints the session last. A failed persistence call therefore leaves
// the workflow exactly where it was.
type DayUseCase struct {
	txManager   TxManager
	sessions    SessionStore
	txRepo      TransactionRepository
	creditRepo  CreditRepository
	balanceRepo DailyBalanceRepository
	diffRepo    DifferenceRepository
	idGen       IDGenerator
	retrier     Retrier
	policy      domain.GatePolicy
}

// NewDayUseCase creates a new DayUseCase.
func NewDayUseCase(
	txManager TxManager,
	sessions SessionStore,
	txRepo TransactionRepository,
	creditRepo CreditRepository,
	balanceRepo DailyBalanceRepository,
	diffRepo DifferenceRepository,
	idGen IDGenerator,
	retrier Retrier,
	policy domain.GatePolicy,
) (*DayUseCase, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &DayUseCase{
		txManager:   txManager,
		sessions:    sessions,
		txRepo:      txRepo,
		creditRepo:  creditRepo,
		balanceRepo: balanceRepo,
		diffRepo:    diffRepo,
		idGen:       idGen,
		retrier:     retrier,
		policy:      policy,
	}, nil
}

// Policy exposes the configured gate policy.
func (uc *DayUseCase) Policy() domain.GatePolicy {
	return uc.policy
}

// GetSession returns the branch's current day session, bootstrapping a new
// one from the latest committed daily balance when none exists or when the
// stored session's day has already been closed.
func (uc *DayUseCase) GetSession(ctx context.Context, branchID int64) (*domain.DaySession, error) {
	now := time.Now().UTC()

	latest, err := uc.balanceRepo.GetLatest(ctx, branchID)
	if err != nil && err != domain.ErrBalanceNotFound {
		return nil, err
	}

	session, loadErr := uc.sessions.Load(ctx, branchID)
	if loadErr == nil {
		// A session whose date was already closed is stale: the commit
		// succeeded but the checkpoint after it did not.
		if latest == nil || session.Date.After(latest.Date) {
			return session, nil
		}
	} else if loadErr != domain.ErrSessionNotFound {
		return nil, loadErr
	}

	session = uc.bootstrapSession(branchID, latest, now)
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (uc *DayUseCase) bootstrapSession(branchID int64, latest *domain.DailyBalance, now time.Time) *domain.DaySession {
	date := domain.DateOnly(now)
	opening := domain.ZeroAmount()

	if latest != nil {
		opening = latest.Closing
		if !date.After(latest.Date) {
			date = latest.Date.AddDate(0, 0, 1)
		}
	}

	return domain.NewDaySession(branchID, date, opening, now)
}

// ConfirmOpeningInput carries the operator's physical opening count.
type ConfirmOpeningInput struct {
	BranchID int64
	UserID   string
	Counted  domain.Amount
}

// ConfirmOpening moves the day from AwaitingOpeningConfirmation to
// OpenForEntry. A counted/expected mismatch records an opening difference,
// and a shortfall additionally books an auto-generated credit against the
// responsible user. The confirmed count becomes the day's opening.
func (uc *DayUseCase) ConfirmOpening(ctx context.Context, input ConfirmOpeningInput) (*domain.DaySession, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingUser
	}
	if !input.Counted.IsNonNegative() {
		return nil, domain.ErrInvalidAmount
	}

	session, err := uc.GetSession(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}
	if session.State != domain.StateAwaitingOpening {
		return nil, domain.ErrWrongDayState
	}

	now := time.Now().UTC()
	diff := input.Counted.Sub(session.ExpectedOpening)

	if !diff.IsZero() {
		record := &domain.CashDifference{
			ID:         uc.idGen.Generate(),
			BranchID:   input.BranchID,
			UserID:     input.UserID,
			Date:       session.Date,
			Stage:      domain.StageOpening,
			Difference: diff,
			CreatedAt:  now,
		}
		if err := uc.diffRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("record opening difference: %w", err)
		}
	}

	if shortfall, ok := openingShortfall(diff); ok {
		credit, err := domain.NewCredit(uc.idGen.Generate(), shortfall, input.UserID, now)
		if err != nil {
			return nil, err
		}
		credit.Cause = "opening difference"
		credit.AutoGenerated = true
		if err := session.Ledger.Add(credit); err != nil {
			return nil, err
		}
	}

	session.Opening = input.Counted
	session.OpeningUserID = input.UserID
	session.State = domain.StateOpenForEntry
	session.UpdatedAt = now

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// openingShortfall extracts the missing-cash portion of an opening
// difference, per currency. A surplus in one currency never offsets a
// shortfall in the other.
func openingShortfall(diff domain.Amount) (domain.Amount, bool) {
	short := domain.ZeroAmount()
	if diff.USD.IsNegative() {
		short.USD = diff.USD.Neg()
	}
	if diff.LBP.IsNegative() {
		short.LBP = diff.LBP.Neg()
	}
	if short.IsZero() {
		return domain.Amount{}, false
	}
	return short, true
}

// RecordEntryInput carries a new ledger entry.
type RecordEntryInput struct {
	BranchID        int64
	Kind            domain.Kind
	Amount          domain.Amount
	Person          string
	Reference       string
	Cause           string
	DeductionSource domain.DeductionSource
}

// RecordEntry appends a transaction to the open day's ledger.
func (uc *DayUseCase) RecordEntry(ctx context.Context, input RecordEntryInput) (*domain.Transaction, error) {
	session, err := uc.GetSession(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}
	if !session.CanRecordEntries() {
		return nil, domain.ErrWrongDayState
	}

	now := time.Now().UTC()
	entry, err := uc.buildEntry(input, now)
	if err != nil {
		return nil, err
	}

	if err := session.Ledger.Add(entry); err != nil {
		return nil, err
	}
	session.UpdatedAt = now

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (uc *DayUseCase) buildEntry(input RecordEntryInput, now time.Time) (domain.Transaction, error) {
	id := uc.idGen.Generate()

	switch input.Kind {
	case domain.KindSale:
		return domain.NewSale(id, input.Amount, now)
	case domain.KindCredit:
		return domain.NewCredit(id, input.Amount, input.Person, now)
	case domain.KindCreditPayment:
		return domain.NewCreditPayment(id, input.Amount, input.Person, input.Reference, now)
	case domain.KindPayment:
		return domain.NewPayment(id, input.Amount, input.Cause, input.DeductionSource, now)
	case domain.KindWithdrawal:
		return domain.NewWithdrawal(id, input.Amount, input.Cause, now)
	default:
		return domain.Transaction{}, domain.ErrInvalidKind
	}
}

// UpdateEntryInput carries edits to an existing ledger entry. Kind cannot
// change; auto-generated entries reject edits.
type UpdateEntryInput struct {
	BranchID        int64
	EntryID         string
	Amount          domain.Amount
	Person          string
	Reference       string
	Cause           string
	DeductionSource domain.DeductionSource
}

// UpdateEntry edits an entry of the open day's ledger.
func (uc *DayUseCase) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.Transaction, error) {
	session, err := uc.GetSession(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}
	if !session.CanRecordEntries() {
		return nil, domain.ErrWrongDayState
	}

	updated := domain.Transaction{
		ID:              input.EntryID,
		Amount:          input.Amount,
		Person:          input.Person,
		Reference:       input.Reference,
		Cause:           input.Cause,
		DeductionSource: input.DeductionSource,
	}
	if err := session.Ledger.Update(updated); err != nil {
		return nil, err
	}
	session.UpdatedAt = time.Now().UTC()

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	entry, err := session.Ledger.Get(input.EntryID)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// RemoveEntry deletes an entry from the open day's ledger.
func (uc *DayUseCase) RemoveEntry(ctx context.Context, branchID int64, entryID string) error {
	session, err := uc.GetSession(ctx, branchID)
	if err != nil {
		return err
	}
	if !session.CanRecordEntries() {
		return domain.ErrWrongDayState
	}

	if err := session.Ledger.Remove(entryID); err != nil {
		return err
	}
	session.UpdatedAt = time.Now().UTC()

	return uc.sessions.Save(ctx, session)
}

// RequestCloseInput asks to move the day into closing confirmation.
type RequestCloseInput struct {
	BranchID int64
	UserID   string
	Date     *time.Time
}

// RequestClose moves the day from OpenForEntry to
// AwaitingClosingConfirmation, recording the closer and an optional date
// override.
func (uc *DayUseCase) RequestClose(ctx context.Context, input RequestCloseInput) (*domain.DaySession, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingUser
	}

	session, err := uc.GetSession(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}
	if session.State != domain.StateOpenForEntry {
		return nil, domain.ErrWrongDayState
	}

	session.CloserUserID = input.UserID
	if input.Date != nil {
		session.Date = domain.DateOnly(*input.Date)
	}
	session.State = domain.StateAwaitingClosing
	session.UpdatedAt = time.Now().UTC()

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// CancelClose returns an AwaitingClosingConfirmation day to OpenForEntry.
func (uc *DayUseCase) CancelClose(ctx context.Context, branchID int64) (*domain.DaySession, error) {
	session, err := uc.GetSession(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if session.State != domain.StateAwaitingClosing {
		return nil, domain.ErrWrongDayState
	}

	session.State = domain.StateOpenForEntry
	session.CloserUserID = ""
	session.UpdatedAt = time.Now().UTC()

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ConfirmCloseInput carries the operator's physical closing count.
type ConfirmCloseInput struct {
	BranchID int64
	Counted  domain.Amount
}

// ConfirmClose runs the reconciliation gate and, when it passes, commits
// the whole day in one database transaction: the daily balance snapshot,
// every ledger entry, credit records for credit entries, and the closing
// difference if any. On success the session rolls into the next day with
// opening = this day's closing. Any commit failure leaves the session
// untouched so the operator can retry; a (branch, date) uniqueness
// violation surfaces as domain.ErrDayAlreadyClosed.
func (uc *DayUseCase) ConfirmClose(ctx context.Context, input ConfirmCloseInput) (*domain.DailyBalance, error) {
	if !input.Counted.IsNonNegative() {
		return nil, domain.ErrInvalidAmount
	}

	session, err := uc.GetSession(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}
	if session.State != domain.StateAwaitingClosing {
		return nil, domain.ErrWrongDayState
	}

	gate, err := domain.CheckGate(session.Net(), input.Counted, uc.policy)
	if err != nil {
		return nil, err
	}
	if !gate.Allowed {
		return nil, fmt.Errorf("%w: difference %s exceeds tolerance %s",
			domain.ErrGateNotSatisfied, gate.Difference.String(), uc.policy.Tolerance.String())
	}

	now := time.Now().UTC()
	balance := &domain.DailyBalance{
		ID:           uc.idGen.Generate(),
		BranchID:     session.BranchID,
		Date:         session.Date,
		Opening:      session.Opening,
		Closing:      input.Counted,
		CloserUserID: session.CloserUserID,
		CreatedAt:    now,
	}

	closingDiff := input.Counted.Sub(gate.Net)

	commit := func() error {
		return uc.commitDay(ctx, session, balance, closingDiff, now)
	}
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, commit)
	} else {
		err = commit()
	}
	if err != nil {
		return nil, err
	}

	next := domain.NewDaySession(session.BranchID, session.Date.AddDate(0, 0, 1), input.Counted, now)
	if err := uc.sessions.Save(ctx, next); err != nil {
		// The day is committed; GetSession rebuilds from the stored balance
		// on the next load.
		return balance, fmt.Errorf("day closed but session checkpoint failed: %w", err)
	}

	return balance, nil
}

func (uc *DayUseCase) commitDay(
	ctx context.Context,
	session *domain.DaySession,
	balance *domain.DailyBalance,
	closingDiff domain.Amount,
	now time.Time,
) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.balanceRepo.Create(ctx, tx, balance); err != nil {
		return err
	}

	if err := uc.txRepo.CreateBatch(ctx, tx, session.BranchID, session.Date, session.Ledger.All()); err != nil {
		return err
	}

	for _, entry := range session.Ledger.Credits {
		credit := domain.NewCreditRecord(uc.idGen.Generate(), session.BranchID, entry, now)
		if err := uc.creditRepo.Create(ctx, tx, credit); err != nil {
			return err
		}
	}

	if !closingDiff.IsZero() {
		record := &domain.CashDifference{
			ID:         uc.idGen.Generate(),
			BranchID:   session.BranchID,
			UserID:     session.CloserUserID,
			Date:       session.Date,
			Stage:      domain.StageClosing,
			Difference: closingDiff,
			CreatedAt:  now,
		}
		if err := uc.diffRepo.CreateTx(ctx, tx, record); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// PreviewClose computes the gate outcome for a proposed count without
// committing anything, so the UI can show the operator where they stand.
func (uc *DayUseCase) PreviewClose(ctx context.Context, branchID int64, counted domain.Amount) (*domain.GateResult, error) {
	session, err := uc.GetSession(ctx, branchID)
	if err != nil {
		return nil, err
	}

	gate, err := domain.CheckGate(session.Net(), counted, uc.policy)
	if err != nil {
		return nil, err
	}

	return &gate, nil
}

// Tolerance returns the configured closing tolerance, mostly for response
// payloads.
func (uc *DayUseCase) Tolerance() decimal.Decimal {
	return uc.policy.Tolerance
}
