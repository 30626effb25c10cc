package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nkhoury/tillbook/internal/adapter/http/dto"
	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/infrastructure/metrics"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// DayService defines the behavior needed by DayHandler.
type DayService interface {
	GetSession(ctx context.Context, branchID int64) (*domain.DaySession, error)
	ConfirmOpening(ctx context.Context, input usecase.ConfirmOpeningInput) (*domain.DaySession, error)
	RecordEntry(ctx context.Context, input usecase.RecordEntryInput) (*domain.Transaction, error)
	UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) (*domain.Transaction, error)
	RemoveEntry(ctx context.Context, branchID int64, entryID string) error
	RequestClose(ctx context.Context, input usecase.RequestCloseInput) (*domain.DaySession, error)
	CancelClose(ctx context.Context, branchID int64) (*domain.DaySession, error)
	ConfirmClose(ctx context.Context, input usecase.ConfirmCloseInput) (*domain.DailyBalance, error)
	PreviewClose(ctx context.Context, branchID int64, counted domain.Amount) (*domain.GateResult, error)
	Policy() domain.GatePolicy
}

// DayHandler handles close-day workflow HTTP requests.
type DayHandler struct {
	dayUC   DayService
	metrics *metrics.Metrics
}

// NewDayHandler creates a new DayHandler. Metrics may be nil.
func NewDayHandler(dayUC DayService, m *metrics.Metrics) *DayHandler {
	return &DayHandler{dayUC: dayUC, metrics: m}
}

// GetSession returns the branch's current day session.
func (h *DayHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	session, err := h.dayUC.GetSession(r.Context(), branchID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get day session", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// ConfirmOpening confirms the counted opening cash and opens the day.
func (h *DayHandler) ConfirmOpening(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	var req dto.ConfirmOpeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.dayUC.ConfirmOpening(r.Context(), req.ToUseCaseInput(branchID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to confirm opening", err.Error())
		return
	}

	if h.metrics != nil && !session.Opening.Equal(session.ExpectedOpening) {
		h.metrics.DifferencesRecorded.WithLabelValues(string(domain.StageOpening)).Inc()
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// RecordEntry appends a transaction to the open day's ledger.
func (h *DayHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	var req dto.RecordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.dayUC.RecordEntry(r.Context(), req.ToUseCaseInput(branchID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record entry", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.EntriesRecorded.WithLabelValues(string(entry.Kind)).Inc()
		if entry.Kind == domain.KindCredit {
			h.metrics.CreditsCreated.Inc()
		}
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(*entry))
}

// UpdateEntry edits an entry of the open day's ledger.
func (h *DayHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	entryID := chi.URLParam(r, "entryID")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.dayUC.UpdateEntry(r.Context(), req.ToUseCaseInput(branchID, entryID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(*entry))
}

// RemoveEntry deletes an entry from the open day's ledger.
func (h *DayHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	entryID := chi.URLParam(r, "entryID")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	if err := h.dayUC.RemoveEntry(r.Context(), branchID, entryID); err != nil {
		writeError(w, mapDomainError(err), "failed to remove entry", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.EntriesRemoved.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

// RequestClose moves the day into closing confirmation.
func (h *DayHandler) RequestClose(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	var req dto.RequestCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(branchID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	session, err := h.dayUC.RequestClose(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to request close", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// CancelClose returns a day awaiting closing confirmation to open for entry.
func (h *DayHandler) CancelClose(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	session, err := h.dayUC.CancelClose(r.Context(), branchID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel close", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// PreviewClose evaluates the closing gate for a proposed count without
// committing.
func (h *DayHandler) PreviewClose(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	var req dto.ConfirmCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	gate, err := h.dayUC.PreviewClose(r.Context(), branchID, req.Counted.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to preview close", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.GateFromDomain(gate, h.dayUC.Policy().Tolerance))
}

// ConfirmClose runs the gate and commits the day.
func (h *DayHandler) ConfirmClose(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	var req dto.ConfirmCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	balance, err := h.dayUC.ConfirmClose(r.Context(), req.ToUseCaseInput(branchID))
	if err != nil {
		h.countCloseFailure(err)
		writeError(w, mapDomainError(err), "failed to close day", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.GateChecks.WithLabelValues("pass").Inc()
		h.metrics.DaysClosed.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.BalanceFromDomain(balance))
}

func (h *DayHandler) countCloseFailure(err error) {
	if h.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, domain.ErrGateNotSatisfied):
		h.metrics.GateChecks.WithLabelValues("fail").Inc()
	case errors.Is(err, domain.ErrDayAlreadyClosed):
		h.metrics.CloseConflicts.Inc()
	}
}
