package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
	"github.com/nkhoury/tillbook/internal/usecase/mocks"
)

func TestBalanceUseCase_GetLatestBalance(t *testing.T) {
	balanceRepo := mocks.NewMockDailyBalanceRepository()
	uc := usecase.NewBalanceUseCase(balanceRepo, mocks.NewMockTransactionRepository(), mocks.NewMockDifferenceRepository())
	ctx := context.Background()

	if _, err := uc.GetLatestBalance(ctx, 1); !errors.Is(err, domain.ErrBalanceNotFound) {
		t.Errorf("expected ErrBalanceNotFound, got %v", err)
	}

	date := domain.DateOnly(time.Now().UTC())
	for i := 0; i < 3; i++ {
		err := balanceRepo.Create(ctx, nil, &domain.DailyBalance{
			ID:       domain.DateOnly(date.AddDate(0, 0, -i)).Format("2006-01-02"),
			BranchID: 1,
			Date:     date.AddDate(0, 0, -i),
			Closing:  domain.AmountFromInts(int64(100+i), 0),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	latest, err := uc.GetLatestBalance(ctx, 1)
	if err != nil {
		t.Fatalf("GetLatestBalance: %v", err)
	}
	if !latest.Date.Equal(date) {
		t.Errorf("latest date = %s, want %s", latest.Date, date)
	}
}

func TestBalanceUseCase_ListDayTransactions(t *testing.T) {
	txRepo := mocks.NewMockTransactionRepository()
	uc := usecase.NewBalanceUseCase(mocks.NewMockDailyBalanceRepository(), txRepo, mocks.NewMockDifferenceRepository())
	ctx := context.Background()

	date := domain.DateOnly(time.Now().UTC())
	sale, _ := domain.NewSale("s1", domain.AmountFromInts(50, 0), time.Now())
	if err := txRepo.CreateBatch(ctx, nil, 1, date, []domain.Transaction{sale}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	// The timestamp collapses to its date before hitting the repository.
	entries, err := uc.ListDayTransactions(ctx, 1, date.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("ListDayTransactions: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}

func TestBalanceUseCase_ListDifferences(t *testing.T) {
	diffRepo := mocks.NewMockDifferenceRepository()
	uc := usecase.NewBalanceUseCase(mocks.NewMockDailyBalanceRepository(), mocks.NewMockTransactionRepository(), diffRepo)
	ctx := context.Background()

	err := diffRepo.Create(ctx, &domain.CashDifference{
		ID:         "d1",
		BranchID:   1,
		Stage:      domain.StageOpening,
		Difference: domain.AmountFromInts(-10, 0),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	diffs, err := uc.ListDifferences(ctx, usecase.ListDifferencesInput{BranchID: 1})
	if err != nil {
		t.Fatalf("ListDifferences: %v", err)
	}
	if len(diffs) != 1 {
		t.Errorf("got %d differences, want 1", len(diffs))
	}

	other, err := uc.ListDifferences(ctx, usecase.ListDifferencesInput{BranchID: 2})
	if err != nil {
		t.Fatalf("ListDifferences: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("branch 2 sees %d differences", len(other))
	}
}
