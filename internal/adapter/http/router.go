package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nkhoury/tillbook/internal/adapter/http/handler"
	"github.com/nkhoury/tillbook/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	DayHandler     *handler.DayHandler
	CreditHandler  *handler.CreditHandler
	BalanceHandler *handler.BalanceHandler
	HealthHandler  *handler.HealthHandler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Per-branch close-day workflow and history
		r.Route("/branches/{branchID}", func(r chi.Router) {
			r.Route("/day", func(r chi.Router) {
				r.Get("/", cfg.DayHandler.GetSession)
				r.Post("/opening", cfg.DayHandler.ConfirmOpening)

				r.Post("/entries", cfg.DayHandler.RecordEntry)
				r.Put("/entries/{entryID}", cfg.DayHandler.UpdateEntry)
				r.Delete("/entries/{entryID}", cfg.DayHandler.RemoveEntry)

				r.Post("/close/request", cfg.DayHandler.RequestClose)
				r.Post("/close/cancel", cfg.DayHandler.CancelClose)
				r.Post("/close/preview", cfg.DayHandler.PreviewClose)
				r.Post("/close/confirm", cfg.DayHandler.ConfirmClose)
			})

			r.Get("/credits", cfg.CreditHandler.ListUnpaid)

			r.Route("/balances", func(r chi.Router) {
				r.Get("/", cfg.BalanceHandler.List)
				r.Get("/latest", cfg.BalanceHandler.Latest)
				r.Get("/{date}/transactions", cfg.BalanceHandler.DayTransactions)
			})

			r.Get("/differences", cfg.BalanceHandler.Differences)
		})

		// Credits addressed by ID
		r.Route("/credits", func(r chi.Router) {
			r.Get("/{creditID}", cfg.CreditHandler.Get)
			r.Post("/{creditID}/payments", cfg.CreditHandler.RecordPayment)
		})
	})

	return r
}
