package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/nkhoury/tillbook/internal/adapter/http/dto"
	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
)

type dayServiceStub struct {
	getSessionFn     func(ctx context.Context, branchID int64) (*domain.DaySession, error)
	confirmOpeningFn func(ctx context.Context, input usecase.ConfirmOpeningInput) (*domain.DaySession, error)
	recordEntryFn    func(ctx context.Context, input usecase.RecordEntryInput) (*domain.Transaction, error)
	updateEntryFn    func(ctx context.Context, input usecase.UpdateEntryInput) (*domain.Transaction, error)
	removeEntryFn    func(ctx context.Context, branchID int64, entryID string) error
	requestCloseFn   func(ctx context.Context, input usecase.RequestCloseInput) (*domain.DaySession, error)
	cancelCloseFn    func(ctx context.Context, branchID int64) (*domain.DaySession, error)
	confirmCloseFn   func(ctx context.Context, input usecase.ConfirmCloseInput) (*domain.DailyBalance, error)
	previewCloseFn   func(ctx context.Context, branchID int64, counted domain.Amount) (*domain.GateResult, error)
}

func (s *dayServiceStub) GetSession(ctx context.Context, branchID int64) (*domain.DaySession, error) {
	return s.getSessionFn(ctx, branchID)
}

func (s *dayServiceStub) ConfirmOpening(ctx context.Context, input usecase.ConfirmOpeningInput) (*domain.DaySession, error) {
	return s.confirmOpeningFn(ctx, input)
}

func (s *dayServiceStub) RecordEntry(ctx context.Context, input usecase.RecordEntryInput) (*domain.Transaction, error) {
	return s.recordEntryFn(ctx, input)
}

func (s *dayServiceStub) UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) (*domain.Transaction, error) {
	return s.updateEntryFn(ctx, input)
}

func (s *dayServiceStub) RemoveEntry(ctx context.Context, branchID int64, entryID string) error {
	return s.removeEntryFn(ctx, branchID, entryID)
}

func (s *dayServiceStub) RequestClose(ctx context.Context, input usecase.RequestCloseInput) (*domain.DaySession, error) {
	return s.requestCloseFn(ctx, input)
}

func (s *dayServiceStub) CancelClose(ctx context.Context, branchID int64) (*domain.DaySession, error) {
	return s.cancelCloseFn(ctx, branchID)
}

func (s *dayServiceStub) ConfirmClose(ctx context.Context, input usecase.ConfirmCloseInput) (*domain.DailyBalance, error) {
	return s.confirmCloseFn(ctx, input)
}

func (s *dayServiceStub) PreviewClose(ctx context.Context, branchID int64, counted domain.Amount) (*domain.GateResult, error) {
	return s.previewCloseFn(ctx, branchID, counted)
}

func (s *dayServiceStub) Policy() domain.GatePolicy {
	return domain.GatePolicy{Rate: decimal.NewFromInt(90000), Tolerance: decimal.NewFromInt(20)}
}

func testSession() *domain.DaySession {
	now := time.Now().UTC()
	return domain.NewDaySession(1, now, domain.AmountFromInts(100, 0), now)
}

func TestDayHandler_GetSession(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		getSessionFn: func(ctx context.Context, branchID int64) (*domain.DaySession, error) {
			if branchID != 3 {
				t.Fatalf("expected branch 3, got %d", branchID)
			}
			return testSession(), nil
		},
	}, nil)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/branches/3/day", nil), "branchID", "3")
	rec := httptest.NewRecorder()

	handler.GetSession(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.State != string(domain.StateAwaitingOpening) {
		t.Fatalf("expected awaiting opening state, got %s", resp.State)
	}
}

func TestDayHandler_GetSession_InvalidBranchID(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		getSessionFn: func(ctx context.Context, branchID int64) (*domain.DaySession, error) {
			t.Fatal("GetSession should not be called for an invalid branch ID")
			return nil, nil
		},
	}, nil)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/branches/x/day", nil), "branchID", "x")
	rec := httptest.NewRecorder()

	handler.GetSession(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDayHandler_ConfirmOpening(t *testing.T) {
	var captured usecase.ConfirmOpeningInput
	handler := NewDayHandler(&dayServiceStub{
		confirmOpeningFn: func(ctx context.Context, input usecase.ConfirmOpeningInput) (*domain.DaySession, error) {
			captured = input
			s := testSession()
			s.State = domain.StateOpenForEntry
			s.Opening = input.Counted
			return s, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.ConfirmOpeningRequest{
		UserID:  "user-1",
		Counted: dto.AmountPayload{USD: decimal.NewFromInt(90), LBP: decimal.Zero},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/branches/1/day/opening", bytes.NewReader(body)), "branchID", "1")
	rec := httptest.NewRecorder()

	handler.ConfirmOpening(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "user-1" || captured.BranchID != 1 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if !captured.Counted.USD.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected counted 90 USD, got %s", captured.Counted.USD)
	}
}

func TestDayHandler_ConfirmOpening_WrongState(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		confirmOpeningFn: func(ctx context.Context, input usecase.ConfirmOpeningInput) (*domain.DaySession, error) {
			return nil, domain.ErrWrongDayState
		},
	}, nil)

	body, _ := json.Marshal(dto.ConfirmOpeningRequest{UserID: "user-1"})
	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/branches/1/day/opening", bytes.NewReader(body)), "branchID", "1")
	rec := httptest.NewRecorder()

	handler.ConfirmOpening(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDayHandler_RecordEntry(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		recordEntryFn: func(ctx context.Context, input usecase.RecordEntryInput) (*domain.Transaction, error) {
			sale, err := domain.NewSale("t-1", input.Amount, time.Now())
			return &sale, err
		},
	}, nil)

	body, _ := json.Marshal(dto.RecordEntryRequest{
		Kind:   "sale",
		Amount: dto.AmountPayload{USD: decimal.NewFromInt(50), LBP: decimal.Zero},
	})
	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/branches/1/day/entries", bytes.NewReader(body)), "branchID", "1")
	rec := httptest.NewRecorder()

	handler.RecordEntry(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Kind != "sale" || resp.ID != "t-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDayHandler_RecordEntry_ValidationError(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		recordEntryFn: func(ctx context.Context, input usecase.RecordEntryInput) (*domain.Transaction, error) {
			return nil, domain.ErrMissingCause
		},
	}, nil)

	body, _ := json.Marshal(dto.RecordEntryRequest{Kind: "withdrawal"})
	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/branches/1/day/entries", bytes.NewReader(body)), "branchID", "1")
	rec := httptest.NewRecorder()

	handler.RecordEntry(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDayHandler_RemoveEntry_Immutable(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		removeEntryFn: func(ctx context.Context, branchID int64, entryID string) error {
			return domain.ErrEntryImmutable
		},
	}, nil)

	req := setChiURLParams(httptest.NewRequest(http.MethodDelete, "/branches/1/day/entries/e-1", nil),
		map[string]string{"branchID": "1", "entryID": "e-1"})
	rec := httptest.NewRecorder()

	handler.RemoveEntry(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestDayHandler_ConfirmClose(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		confirmCloseFn: func(ctx context.Context, input usecase.ConfirmCloseInput) (*domain.DailyBalance, error) {
			return &domain.DailyBalance{
				ID:       "b-1",
				BranchID: input.BranchID,
				Date:     domain.DateOnly(time.Now().UTC()),
				Closing:  input.Counted,
			}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.ConfirmCloseRequest{
		Counted: dto.AmountPayload{USD: decimal.NewFromInt(140), LBP: decimal.Zero},
	})
	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/branches/1/day/close/confirm", bytes.NewReader(body)), "branchID", "1")
	rec := httptest.NewRecorder()

	handler.ConfirmClose(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.DailyBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "b-1" {
		t.Fatalf("unexpected balance: %+v", resp)
	}
}

func TestDayHandler_ConfirmClose_GateFailure(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		confirmCloseFn: func(ctx context.Context, input usecase.ConfirmCloseInput) (*domain.DailyBalance, error) {
			return nil, fmt.Errorf("%w: difference 30 exceeds tolerance 20", domain.ErrGateNotSatisfied)
		},
	}, nil)

	body, _ := json.Marshal(dto.ConfirmCloseRequest{})
	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/branches/1/day/close/confirm", bytes.NewReader(body)), "branchID", "1")
	rec := httptest.NewRecorder()

	handler.ConfirmClose(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDayHandler_PreviewClose(t *testing.T) {
	handler := NewDayHandler(&dayServiceStub{
		previewCloseFn: func(ctx context.Context, branchID int64, counted domain.Amount) (*domain.GateResult, error) {
			return &domain.GateResult{
				Net:        domain.AmountFromInts(100, 0),
				Counted:    counted,
				Difference: decimal.NewFromInt(5),
				Allowed:    true,
			}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.ConfirmCloseRequest{
		Counted: dto.AmountPayload{USD: decimal.NewFromInt(105), LBP: decimal.Zero},
	})
	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/branches/1/day/close/preview", bytes.NewReader(body)), "branchID", "1")
	rec := httptest.NewRecorder()

	handler.PreviewClose(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.GateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Allowed {
		t.Fatal("expected the gate to allow")
	}
	if !resp.Tolerance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected tolerance 20, got %s", resp.Tolerance)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return setChiURLParams(r, map[string]string{key: value})
}

func setChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
