package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// CreditRepository implements usecase.CreditRepository.
type CreditRepository struct {
	pool *pgxpool.Pool
}

// NewCreditRepository creates a new CreditRepository.
func NewCreditRepository(pool *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{pool: pool}
}

const insertCreditSQL = `
INSERT INTO credits (
	id, branch_id, person, cause, amount_usd, amount_lbp,
	paid_usd, paid_lbp, status, auto_generated, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Create inserts a new credit, typically inside a close transaction.
func (r *CreditRepository) Create(ctx context.Context, tx usecase.Tx, credit *domain.Credit) error {
	_, err := r.querier(tx).Exec(ctx, insertCreditSQL,
		credit.ID,
		credit.BranchID,
		credit.Person,
		credit.Cause,
		decimalToNumeric(credit.Amount.USD),
		decimalToNumeric(credit.Amount.LBP),
		decimalToNumeric(credit.PaidAmount.USD),
		decimalToNumeric(credit.PaidAmount.LBP),
		string(credit.Status),
		credit.AutoGenerated,
		timeToPgTimestamptz(credit.CreatedAt),
		timeToPgTimestamptz(credit.UpdatedAt),
	)

	return err
}

const selectCreditSQL = `
SELECT id, branch_id, person, cause, amount_usd, amount_lbp,
       paid_usd, paid_lbp, status, auto_generated, created_at, updated_at
FROM credits
WHERE id = $1`

// GetByID retrieves a credit by ID.
func (r *CreditRepository) GetByID(ctx context.Context, id string) (*domain.Credit, error) {
	return r.scanCredit(r.pool.QueryRow(ctx, selectCreditSQL, id))
}

// GetByIDForUpdate retrieves a credit with a FOR UPDATE row lock.
func (r *CreditRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Credit, error) {
	return r.scanCredit(r.querier(tx).QueryRow(ctx, selectCreditSQL+" FOR UPDATE", id))
}

const updateCreditPaymentSQL = `
UPDATE credits
SET paid_usd = $2, paid_lbp = $3, status = $4, updated_at = $5
WHERE id = $1`

// UpdatePayment persists the paid amounts and status after a payment.
func (r *CreditRepository) UpdatePayment(ctx context.Context, tx usecase.Tx, id string, paid domain.Amount, status domain.CreditStatus, updatedAt time.Time) error {
	tag, err := r.querier(tx).Exec(ctx, updateCreditPaymentSQL,
		id,
		decimalToNumeric(paid.USD),
		decimalToNumeric(paid.LBP),
		string(status),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCreditNotFound
	}

	return nil
}

const listUnpaidCreditsSQL = `
SELECT id, branch_id, person, cause, amount_usd, amount_lbp,
       paid_usd, paid_lbp, status, auto_generated, created_at, updated_at
FROM credits
WHERE branch_id = $1 AND status = 'unpaid'
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

// ListUnpaid lists a branch's outstanding credits.
func (r *CreditRepository) ListUnpaid(ctx context.Context, branchID int64, limit, offset int) ([]*domain.Credit, error) {
	rows, err := r.pool.Query(ctx, listUnpaidCreditsSQL, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credits []*domain.Credit
	for rows.Next() {
		credit, err := r.scanCredit(rows)
		if err != nil {
			return nil, err
		}
		credits = append(credits, credit)
	}

	return credits, rows.Err()
}

func (r *CreditRepository) scanCredit(row pgx.Row) (*domain.Credit, error) {
	var (
		c                    domain.Credit
		status               string
		usd, lbp, pUSD, pLBP pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&c.ID, &c.BranchID, &c.Person, &c.Cause, &usd, &lbp,
		&pUSD, &pLBP, &status, &c.AutoGenerated, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCreditNotFound
		}
		return nil, err
	}

	c.Amount = domain.NewAmount(numericToDecimal(usd), numericToDecimal(lbp))
	c.PaidAmount = domain.NewAmount(numericToDecimal(pUSD), numericToDecimal(pLBP))
	c.Status = domain.CreditStatus(status)
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

func (r *CreditRepository) querier(tx usecase.Tx) querier {
	if tx != nil {
		return tx.(*Tx).PgxTx()
	}
	return r.pool
}
