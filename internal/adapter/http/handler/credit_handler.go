package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nkhoury/tillbook/internal/adapter/http/dto"
	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/infrastructure/metrics"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// CreditService defines the behavior needed by CreditHandler.
type CreditService interface {
	GetCredit(ctx context.Context, id string) (*domain.Credit, error)
	ListUnpaid(ctx context.Context, input usecase.ListUnpaidInput) ([]*domain.Credit, error)
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Credit, error)
}

// CreditHandler handles credit-related HTTP requests.
type CreditHandler struct {
	creditUC CreditService
	metrics  *metrics.Metrics
}

// NewCreditHandler creates a new CreditHandler. Metrics may be nil.
func NewCreditHandler(creditUC CreditService, m *metrics.Metrics) *CreditHandler {
	return &CreditHandler{creditUC: creditUC, metrics: m}
}

// Get retrieves a credit by ID.
func (h *CreditHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "creditID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing credit ID", "")
		return
	}

	credit, err := h.creditUC.GetCredit(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get credit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditFromDomain(credit))
}

// ListUnpaid lists a branch's outstanding credits.
func (h *CreditHandler) ListUnpaid(w http.ResponseWriter, r *http.Request) {
	branchID, err := parseBranchID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid branch ID", err.Error())
		return
	}

	credits, err := h.creditUC.ListUnpaid(r.Context(), usecase.ListUnpaidInput{
		BranchID: branchID,
		Limit:    parseIntQuery(r, "limit", usecase.DefaultListLimit),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list credits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditsFromDomain(credits))
}

// RecordPayment applies a payment against a credit.
func (h *CreditHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "creditID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing credit ID", "")
		return
	}

	var req dto.RecordCreditPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	credit, err := h.creditUC.RecordPayment(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.PaymentsApplied.Inc()
		if credit.IsPaid() {
			h.metrics.CreditsSettled.Inc()
		}
	}

	writeJSON(w, http.StatusOK, dto.CreditFromDomain(credit))
}
