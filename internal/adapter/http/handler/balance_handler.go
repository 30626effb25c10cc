package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nkhoury/tillbook/internal/adapter/http/dto"
	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	ListBalances(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.DailyBalance, error)
	GetLatestBalance(ctx context.Context, branchID int64) (*domain.DailyBalance, error)
	ListDayTransactions(ctx context.Context, branchID int64, date time.Time) ([]domain.Transaction, error)
	ListDifferences(ctx context.Context, input usecase.ListDifferencesInput) ([]*domain.CashDifference, error)
}

// BalanceHandler handles closed-day history HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// List lists a branch's closing snapshots, newest first.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	balances, err := h.balanceUC.ListBalances(r.Context(), usecase.ListBalancesInput{
		BranchID: branchID,
		Limit:    parseIntQuery(r, "limit", usecase.DefaultListLimit),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Latest returns the most recent closing snapshot for a branch.
func (h *BalanceHandler) Latest(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	balance, err := h.balanceUC.GetLatestBalance(r.Context(), branchID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get latest balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// DayTransactions returns the committed entries of a closed day.
func (h *BalanceHandler) DayTransactions(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	entries, err := h.balanceUC.ListDayTransactions(r.Context(), branchID, date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(entries))
}

// Differences lists recorded opening and closing cash discrepancies.
func (h *BalanceHandler) Differences(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	diffs, err := h.balanceUC.ListDifferences(r.Context(), usecase.ListDifferencesInput{
		BranchID: branchID,
		Limit:    parseIntQuery(r, "limit", usecase.DefaultListLimit),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list differences", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DifferencesFromDomain(diffs))
}
