package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the business-level Prometheus metrics; HTTP-level metrics
// live in the middleware package.
type Metrics struct {
	// Ledger metrics
	EntriesRecorded *prometheus.CounterVec
	EntriesRemoved  prometheus.Counter

	// Close-day metrics
	DaysClosed     prometheus.Counter
	GateChecks     *prometheus.CounterVec
	CloseConflicts prometheus.Counter

	// Credit metrics
	CreditsCreated  prometheus.Counter
	CreditsSettled  prometheus.Counter
	PaymentsApplied prometheus.Counter

	// Difference metrics
	DifferencesRecorded *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EntriesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tillbook_ledger_entries_recorded_total",
				Help: "Total ledger entries recorded, by kind",
			},
			[]string{"kind"},
		),
		EntriesRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillbook_ledger_entries_removed_total",
			Help: "Total ledger entries removed before commit",
		}),

		DaysClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillbook_days_closed_total",
			Help: "Total days successfully closed",
		}),
		GateChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tillbook_gate_checks_total",
				Help: "Total closing gate evaluations, by result",
			},
			[]string{"result"},
		),
		CloseConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillbook_close_conflicts_total",
			Help: "Total close attempts rejected because the day was already closed",
		}),

		CreditsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillbook_credits_created_total",
			Help: "Total credits created",
		}),
		CreditsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillbook_credits_settled_total",
			Help: "Total credits fully paid",
		}),
		PaymentsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tillbook_credit_payments_applied_total",
			Help: "Total payments applied against credits",
		}),

		DifferencesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tillbook_cash_differences_total",
				Help: "Total cash differences recorded, by stage",
			},
			[]string{"stage"},
		),
	}
}
