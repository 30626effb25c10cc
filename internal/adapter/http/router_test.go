package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nkhoury/tillbook/internal/adapter/http/handler"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/branches/{branchID}/day/",
		"POST /api/v1/branches/{branchID}/day/opening",
		"POST /api/v1/branches/{branchID}/day/entries",
		"PUT /api/v1/branches/{branchID}/day/entries/{entryID}",
		"DELETE /api/v1/branches/{branchID}/day/entries/{entryID}",
		"POST /api/v1/branches/{branchID}/day/close/request",
		"POST /api/v1/branches/{branchID}/day/close/cancel",
		"POST /api/v1/branches/{branchID}/day/close/preview",
		"POST /api/v1/branches/{branchID}/day/close/confirm",
		"GET /api/v1/branches/{branchID}/credits",
		"GET /api/v1/branches/{branchID}/balances/",
		"GET /api/v1/branches/{branchID}/balances/latest",
		"GET /api/v1/branches/{branchID}/balances/{date}/transactions",
		"GET /api/v1/branches/{branchID}/differences",
		"GET /api/v1/credits/{creditID}",
		"POST /api/v1/credits/{creditID}/payments",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig() RouterConfig {
	return RouterConfig{
		DayHandler:     handler.NewDayHandler(nil, nil),
		CreditHandler:  handler.NewCreditHandler(nil, nil),
		BalanceHandler: handler.NewBalanceHandler(nil),
		HealthHandler:  &handler.HealthHandler{},
		Logger:         zerolog.Nop(),
	}
}
