package usecase

import (
	"context"
	"time"

	"github.com/nkhoury/tillbook/internal/domain"
)

// BalanceUseCase serves the append-only history of closed days.
type BalanceUseCase struct {
	balanceRepo DailyBalanceRepository
	txRepo      TransactionRepository
	diffRepo    DifferenceRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	balanceRepo DailyBalanceRepository,
	txRepo TransactionRepository,
	diffRepo DifferenceRepository,
) *BalanceUseCase {
	return &BalanceUseCase{
		balanceRepo: balanceRepo,
		txRepo:      txRepo,
		diffRepo:    diffRepo,
	}
}

// ListBalancesInput pages through a branch's daily balances.
type ListBalancesInput struct {
	BranchID int64
	Limit    int
	Offset   int
}

// ListBalances returns closing snapshots, newest first.
func (uc *BalanceUseCase) ListBalances(ctx context.Context, input ListBalancesInput) ([]*domain.DailyBalance, error) {
	limit, offset := clampLimit(input.Limit, input.Offset)
	return uc.balanceRepo.ListByBranch(ctx, input.BranchID, limit, offset)
}

// GetLatestBalance returns the most recent closing snapshot for a branch.
func (uc *BalanceUseCase) GetLatestBalance(ctx context.Context, branchID int64) (*domain.DailyBalance, error) {
	return uc.balanceRepo.GetLatest(ctx, branchID)
}

// ListDayTransactions returns the committed entries of a closed day.
func (uc *BalanceUseCase) ListDayTransactions(ctx context.Context, branchID int64, date time.Time) ([]domain.Transaction, error) {
	return uc.txRepo.ListByDay(ctx, branchID, domain.DateOnly(date))
}

// ListDifferencesInput pages through recorded cash differences.
type ListDifferencesInput struct {
	BranchID int64
	Limit    int
	Offset   int
}

// ListDifferences returns recorded opening/closing discrepancies.
func (uc *BalanceUseCase) ListDifferences(ctx context.Context, input ListDifferencesInput) ([]*domain.CashDifference, error) {
	limit, offset := clampLimit(input.Limit, input.Offset)
	return uc.diffRepo.ListByBranch(ctx, input.BranchID, limit, offset)
}
