package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
// Committed ledger entries are append-only; the day they belong to is
// fixed at commit time.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const insertTransactionSQL = `
INSERT INTO transactions (
	id, branch_id, tx_date, kind, amount_usd, amount_lbp,
	person, reference, cause, deduction_source, auto_generated, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// CreateBatch inserts all of a day's entries inside the close transaction.
func (r *TransactionRepository) CreateBatch(ctx context.Context, tx usecase.Tx, branchID int64, date time.Time, entries []domain.Transaction) error {
	q := r.querier(tx)

	for _, e := range entries {
		_, err := q.Exec(ctx, insertTransactionSQL,
			e.ID,
			branchID,
			timeToPgDate(date),
			string(e.Kind),
			decimalToNumeric(e.Amount.USD),
			decimalToNumeric(e.Amount.LBP),
			e.Person,
			e.Reference,
			e.Cause,
			string(e.DeductionSource),
			e.AutoGenerated,
			timeToPgTimestamptz(e.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

const listTransactionsByDaySQL = `
SELECT id, kind, amount_usd, amount_lbp, person, reference, cause,
       deduction_source, auto_generated, created_at
FROM transactions
WHERE branch_id = $1 AND tx_date = $2
ORDER BY created_at, id`

// ListByDay returns the committed entries of one branch day.
func (r *TransactionRepository) ListByDay(ctx context.Context, branchID int64, date time.Time) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, listTransactionsByDaySQL, branchID, timeToPgDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Transaction
	for rows.Next() {
		var (
			e            domain.Transaction
			kind, source string
			usd, lbp     pgtype.Numeric
			createdAt    pgtype.Timestamptz
		)
		err := rows.Scan(&e.ID, &kind, &usd, &lbp, &e.Person, &e.Reference,
			&e.Cause, &source, &e.AutoGenerated, &createdAt)
		if err != nil {
			return nil, err
		}

		e.Kind = domain.Kind(kind)
		e.DeductionSource = domain.DeductionSource(source)
		e.Amount = domain.NewAmount(numericToDecimal(usd), numericToDecimal(lbp))
		e.CreatedAt = createdAt.Time
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *TransactionRepository) querier(tx usecase.Tx) querier {
	if tx != nil {
		return tx.(*Tx).PgxTx()
	}
	return r.pool
}
