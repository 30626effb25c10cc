package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// pgErrUniqueViolation guards the one-balance-per-(branch, date) rule;
// the constraint in the store is the single source of truth for close
// conflicts.
const pgErrUniqueViolation = "23505"

// DailyBalanceRepository implements usecase.DailyBalanceRepository.
type DailyBalanceRepository struct {
	pool *pgxpool.Pool
}

// NewDailyBalanceRepository creates a new DailyBalanceRepository.
func NewDailyBalanceRepository(pool *pgxpool.Pool) *DailyBalanceRepository {
	return &DailyBalanceRepository{pool: pool}
}

const insertDailyBalanceSQL = `
INSERT INTO daily_balances (
	id, branch_id, balance_date, opening_usd, opening_lbp,
	closing_usd, closing_lbp, closer_user_id, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Create inserts the closing snapshot. A duplicate (branch, date) surfaces
// as domain.ErrDayAlreadyClosed.
func (r *DailyBalanceRepository) Create(ctx context.Context, tx usecase.Tx, balance *domain.DailyBalance) error {
	_, err := r.querier(tx).Exec(ctx, insertDailyBalanceSQL,
		balance.ID,
		balance.BranchID,
		timeToPgDate(balance.Date),
		decimalToNumeric(balance.Opening.USD),
		decimalToNumeric(balance.Opening.LBP),
		decimalToNumeric(balance.Closing.USD),
		decimalToNumeric(balance.Closing.LBP),
		balance.CloserUserID,
		timeToPgTimestamptz(balance.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDayAlreadyClosed
		}
		return err
	}

	return nil
}

const selectDailyBalanceSQL = `
SELECT id, branch_id, balance_date, opening_usd, opening_lbp,
       closing_usd, closing_lbp, closer_user_id, created_at
FROM daily_balances`

// GetLatest returns the newest closing snapshot for a branch.
func (r *DailyBalanceRepository) GetLatest(ctx context.Context, branchID int64) (*domain.DailyBalance, error) {
	row := r.pool.QueryRow(ctx,
		selectDailyBalanceSQL+" WHERE branch_id = $1 ORDER BY balance_date DESC LIMIT 1",
		branchID,
	)

	return r.scanBalance(row)
}

// ListByBranch returns closing snapshots, newest first.
func (r *DailyBalanceRepository) ListByBranch(ctx context.Context, branchID int64, limit, offset int) ([]*domain.DailyBalance, error) {
	rows, err := r.pool.Query(ctx,
		selectDailyBalanceSQL+" WHERE branch_id = $1 ORDER BY balance_date DESC LIMIT $2 OFFSET $3",
		branchID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.DailyBalance
	for rows.Next() {
		balance, err := r.scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, rows.Err()
}

func (r *DailyBalanceRepository) scanBalance(row pgx.Row) (*domain.DailyBalance, error) {
	var (
		b          domain.DailyBalance
		date       pgtype.Date
		oUSD, oLBP pgtype.Numeric
		cUSD, cLBP pgtype.Numeric
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(&b.ID, &b.BranchID, &date, &oUSD, &oLBP, &cUSD, &cLBP,
		&b.CloserUserID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}

	b.Date = domain.DateOnly(date.Time)
	b.Opening = domain.NewAmount(numericToDecimal(oUSD), numericToDecimal(oLBP))
	b.Closing = domain.NewAmount(numericToDecimal(cUSD), numericToDecimal(cLBP))
	b.CreatedAt = createdAt.Time

	return &b, nil
}

func (r *DailyBalanceRepository) querier(tx usecase.Tx) querier {
	if tx != nil {
		return tx.(*Tx).PgxTx()
	}
	return r.pool
}
