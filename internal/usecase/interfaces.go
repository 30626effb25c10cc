package usecase

import (
	"context"
	"time"

	"github.com/nkhoury/tillbook/internal/domain"
)

// TransactionRepository defines data access for committed ledger entries.
type TransactionRepository interface {
	CreateBatch(ctx context.Context, tx Tx, branchID int64, date time.Time, entries []domain.Transaction) error
	ListByDay(ctx context.Context, branchID int64, date time.Time) ([]domain.Transaction, error)
}

// CreditRepository defines data access for credit receivables.
type CreditRepository interface {
	Create(ctx context.Context, tx Tx, credit *domain.Credit) error
	GetByID(ctx context.Context, id string) (*domain.Credit, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Credit, error)
	UpdatePayment(ctx context.Context, tx Tx, id string, paid domain.Amount, status domain.CreditStatus, updatedAt time.Time) error
	ListUnpaid(ctx context.Context, branchID int64, limit, offset int) ([]*domain.Credit, error)
}

// DailyBalanceRepository defines data access for closing snapshots.
// Create must surface domain.ErrDayAlreadyClosed when the (branch, date)
// uniqueness constraint is violated.
type DailyBalanceRepository interface {
	Create(ctx context.Context, tx Tx, balance *domain.DailyBalance) error
	GetLatest(ctx context.Context, branchID int64) (*domain.DailyBalance, error)
	ListByBranch(ctx context.Context, branchID int64, limit, offset int) ([]*domain.DailyBalance, error)
}

// DifferenceRepository defines data access for opening/closing differences.
type DifferenceRepository interface {
	Create(ctx context.Context, diff *domain.CashDifference) error
	CreateTx(ctx context.Context, tx Tx, diff *domain.CashDifference) error
	ListByBranch(ctx context.Context, branchID int64, limit, offset int) ([]*domain.CashDifference, error)
}

// SessionStore checkpoints the serializable day session per branch.
// Load returns domain.ErrSessionNotFound when no session exists.
type SessionStore interface {
	Load(ctx context.Context, branchID int64) (*domain.DaySession, error)
	Save(ctx context.Context, session *domain.DaySession) error
}

// Tx represents a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Retrier retries an operation on transient persistence errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
