package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// DifferenceRepository implements usecase.DifferenceRepository.
type DifferenceRepository struct {
	pool *pgxpool.Pool
}

// NewDifferenceRepository creates a new DifferenceRepository.
func NewDifferenceRepository(pool *pgxpool.Pool) *DifferenceRepository {
	return &DifferenceRepository{pool: pool}
}

const insertDifferenceSQL = `
INSERT INTO cash_differences (
	id, branch_id, user_id, diff_date, stage, diff_usd, diff_lbp, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Create inserts a difference record outside any transaction (opening
// confirmation).
func (r *DifferenceRepository) Create(ctx context.Context, diff *domain.CashDifference) error {
	return r.insert(ctx, r.pool, diff)
}

// CreateTx inserts a difference record inside a close transaction.
func (r *DifferenceRepository) CreateTx(ctx context.Context, tx usecase.Tx, diff *domain.CashDifference) error {
	return r.insert(ctx, tx.(*Tx).PgxTx(), diff)
}

func (r *DifferenceRepository) insert(ctx context.Context, q querier, diff *domain.CashDifference) error {
	_, err := q.Exec(ctx, insertDifferenceSQL,
		diff.ID,
		diff.BranchID,
		diff.UserID,
		timeToPgDate(diff.Date),
		string(diff.Stage),
		decimalToNumeric(diff.Difference.USD),
		decimalToNumeric(diff.Difference.LBP),
		timeToPgTimestamptz(diff.CreatedAt),
	)

	return err
}

const listDifferencesSQL = `
SELECT id, branch_id, user_id, diff_date, stage, diff_usd, diff_lbp, created_at
FROM cash_differences
WHERE branch_id = $1
ORDER BY diff_date DESC, created_at DESC
LIMIT $2 OFFSET $3`

// ListByBranch returns recorded differences, newest first.
func (r *DifferenceRepository) ListByBranch(ctx context.Context, branchID int64, limit, offset int) ([]*domain.CashDifference, error) {
	rows, err := r.pool.Query(ctx, listDifferencesSQL, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var diffs []*domain.CashDifference
	for rows.Next() {
		var (
			d         domain.CashDifference
			date      pgtype.Date
			stage     string
			usd, lbp  pgtype.Numeric
			createdAt pgtype.Timestamptz
		)
		err := rows.Scan(&d.ID, &d.BranchID, &d.UserID, &date, &stage, &usd, &lbp, &createdAt)
		if err != nil {
			return nil, err
		}

		d.Date = domain.DateOnly(date.Time)
		d.Stage = domain.DifferenceStage(stage)
		d.Difference = domain.NewAmount(numericToDecimal(usd), numericToDecimal(lbp))
		d.CreatedAt = createdAt.Time
		diffs = append(diffs, &d)
	}

	return diffs, rows.Err()
}
