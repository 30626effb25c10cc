package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
	"github.com/nkhoury/tillbook/internal/usecase/mocks"
)

func openSession(t *testing.T, sessions *mocks.MockSessionStore, branchID int64) *domain.DaySession {
	t.Helper()
	now := time.Now().UTC()
	session := domain.NewDaySession(branchID, now, domain.ZeroAmount(), now)
	session.State = domain.StateOpenForEntry
	if err := sessions.Save(context.Background(), session); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return session
}

func unpaidCredit(id string, branchID int64, usd int64) *domain.Credit {
	return &domain.Credit{
		ID:       id,
		BranchID: branchID,
		Person:   "walid",
		Amount:   domain.AmountFromInts(usd, 0),
		Status:   domain.CreditStatusUnpaid,
	}
}

func TestCreditUseCase_RecordPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	creditRepo := mocks.NewMockCreditRepository(ctrl)
	sessions := mocks.NewMockSessionStore()
	uc := usecase.NewCreditUseCase(mocks.NewMockTxManager(), creditRepo, sessions, mocks.NewMockIDGenerator())

	openSession(t, sessions, 1)
	credit := unpaidCredit("cr-1", 1, 100)

	creditRepo.EXPECT().
		GetByIDForUpdate(gomock.Any(), gomock.Any(), "cr-1").
		Return(credit, nil)
	creditRepo.EXPECT().
		UpdatePayment(gomock.Any(), gomock.Any(), "cr-1", domain.AmountFromInts(40, 0), domain.CreditStatusUnpaid, gomock.Any()).
		Return(nil)

	got, err := uc.RecordPayment(context.Background(), usecase.RecordPaymentInput{
		BranchID: 1,
		CreditID: "cr-1",
		Amount:   domain.AmountFromInts(40, 0),
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if got.IsPaid() {
		t.Error("credit marked paid after partial payment")
	}

	// The incoming cash lands in the open day's ledger.
	session, err := sessions.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(session.Ledger.CreditPayments) != 1 {
		t.Fatalf("ledger has %d credit payments, want 1", len(session.Ledger.CreditPayments))
	}
	entry := session.Ledger.CreditPayments[0]
	if entry.Reference != "cr-1" {
		t.Errorf("entry reference = %s, want the credit ID", entry.Reference)
	}
	if !entry.Amount.Equal(domain.AmountFromInts(40, 0)) {
		t.Errorf("entry amount = %s", entry.Amount)
	}
}

func TestCreditUseCase_RecordPayment_SettlesCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	creditRepo := mocks.NewMockCreditRepository(ctrl)
	sessions := mocks.NewMockSessionStore()
	uc := usecase.NewCreditUseCase(mocks.NewMockTxManager(), creditRepo, sessions, mocks.NewMockIDGenerator())

	openSession(t, sessions, 1)
	credit := unpaidCredit("cr-1", 1, 100)

	creditRepo.EXPECT().
		GetByIDForUpdate(gomock.Any(), gomock.Any(), "cr-1").
		Return(credit, nil)
	creditRepo.EXPECT().
		UpdatePayment(gomock.Any(), gomock.Any(), "cr-1", domain.AmountFromInts(100, 0), domain.CreditStatusPaid, gomock.Any()).
		Return(nil)

	got, err := uc.RecordPayment(context.Background(), usecase.RecordPaymentInput{
		BranchID: 1,
		CreditID: "cr-1",
		Amount:   domain.AmountFromInts(100, 0),
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if !got.IsPaid() {
		t.Error("credit not marked paid after full payment")
	}
}

func TestCreditUseCase_RecordPayment_Overpayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	creditRepo := mocks.NewMockCreditRepository(ctrl)
	sessions := mocks.NewMockSessionStore()
	uc := usecase.NewCreditUseCase(mocks.NewMockTxManager(), creditRepo, sessions, mocks.NewMockIDGenerator())

	openSession(t, sessions, 1)

	creditRepo.EXPECT().
		GetByIDForUpdate(gomock.Any(), gomock.Any(), "cr-1").
		Return(unpaidCredit("cr-1", 1, 100), nil)

	_, err := uc.RecordPayment(context.Background(), usecase.RecordPaymentInput{
		BranchID: 1,
		CreditID: "cr-1",
		Amount:   domain.AmountFromInts(150, 0),
	})
	if !errors.Is(err, domain.ErrOverpayment) {
		t.Errorf("expected ErrOverpayment, got %v", err)
	}

	// Nothing recorded in the ledger.
	session, _ := sessions.Load(context.Background(), 1)
	if session.Ledger.Size() != 0 {
		t.Errorf("ledger has %d entries after rejected payment", session.Ledger.Size())
	}
}

func TestCreditUseCase_RecordPayment_DayNotOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	creditRepo := mocks.NewMockCreditRepository(ctrl)
	sessions := mocks.NewMockSessionStore()
	uc := usecase.NewCreditUseCase(mocks.NewMockTxManager(), creditRepo, sessions, mocks.NewMockIDGenerator())

	now := time.Now().UTC()
	session := domain.NewDaySession(1, now, domain.ZeroAmount(), now)
	if err := sessions.Save(context.Background(), session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := uc.RecordPayment(context.Background(), usecase.RecordPaymentInput{
		BranchID: 1,
		CreditID: "cr-1",
		Amount:   domain.AmountFromInts(10, 0),
	})
	if !errors.Is(err, domain.ErrWrongDayState) {
		t.Errorf("expected ErrWrongDayState, got %v", err)
	}
}

func TestCreditUseCase_ListUnpaid_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	creditRepo := mocks.NewMockCreditRepository(ctrl)
	sessions := mocks.NewMockSessionStore()
	uc := usecase.NewCreditUseCase(mocks.NewMockTxManager(), creditRepo, sessions, mocks.NewMockIDGenerator())

	creditRepo.EXPECT().
		ListUnpaid(gomock.Any(), int64(1), usecase.DefaultListLimit, 0).
		Return(nil, nil)
	if _, err := uc.ListUnpaid(context.Background(), usecase.ListUnpaidInput{BranchID: 1}); err != nil {
		t.Fatalf("ListUnpaid: %v", err)
	}

	creditRepo.EXPECT().
		ListUnpaid(gomock.Any(), int64(1), usecase.MaxListLimit, 0).
		Return(nil, nil)
	if _, err := uc.ListUnpaid(context.Background(), usecase.ListUnpaidInput{BranchID: 1, Limit: 10000}); err != nil {
		t.Fatalf("ListUnpaid: %v", err)
	}
}
