package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/domain"
)

const creditColumns = `id, user_id, contractor_id, individual_id, project_id,
	category_id, target_account_id, total_debt, created_at, updated_at`

// CreditRepository implements usecase.CreditRepository.
type CreditRepository struct {
	pool *pgxpool.Pool
}

// NewCreditRepository creates a new CreditRepository.
func NewCreditRepository(pool *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{pool: pool}
}

// Create inserts a new credit record.
func (r *CreditRepository) Create(ctx context.Context, credit *domain.Credit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO credits (`+creditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		credit.ID,
		credit.UserID,
		textOrNull(credit.ContractorID),
		textOrNull(credit.IndividualID),
		textOrNull(credit.ProjectID),
		textOrNull(credit.CategoryID),
		textOrNull(credit.TargetAccountID),
		decimalToNumeric(credit.TotalDebt),
		timeToPgTimestamptz(credit.CreatedAt),
		timeToPgTimestamptz(credit.UpdatedAt),
	)

	return err
}

// GetByKey retrieves the credit record for one counterparty key. The
// contractor-wins precedence is already baked into the key.
func (r *CreditRepository) GetByKey(ctx context.Context, userID string, key domain.CreditKey) (*domain.Credit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+creditColumns+`
		FROM credits
		WHERE user_id = $1
			AND COALESCE(contractor_id, '') = $2
			AND COALESCE(individual_id, '') = $3
			AND COALESCE(project_id, '') = $4`,
		userID, key.ContractorID, key.IndividualID, key.ProjectID)

	credit, err := scanCredit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCreditNotFound
	}

	return credit, err
}

// AddToDebt increments the accumulated debt of a credit record.
func (r *CreditRepository) AddToDebt(ctx context.Context, userID, id string, delta decimal.Decimal, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credits
		SET total_debt = total_debt + $3, updated_at = $4
		WHERE user_id = $1 AND id = $2`,
		userID, id, decimalToNumeric(delta), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCreditNotFound
	}

	return nil
}

// DeleteByKey removes the whole credit record for one counterparty key.
func (r *CreditRepository) DeleteByKey(ctx context.Context, userID string, key domain.CreditKey) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM credits
		WHERE user_id = $1
			AND COALESCE(contractor_id, '') = $2
			AND COALESCE(individual_id, '') = $3
			AND COALESCE(project_id, '') = $4`,
		userID, key.ContractorID, key.IndividualID, key.ProjectID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// List lists a tenant's open credit records, newest first.
func (r *CreditRepository) List(ctx context.Context, userID string) ([]*domain.Credit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+creditColumns+`
		FROM credits
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credits []*domain.Credit
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		credits = append(credits, credit)
	}

	return credits, rows.Err()
}

func scanCredit(row pgx.Row) (*domain.Credit, error) {
	var (
		c                 domain.Credit
		debt              pgtype.Numeric
		created, updated  pgtype.Timestamptz
		contractor, indiv pgtype.Text
		project, category pgtype.Text
		targetAccount     pgtype.Text
	)

	err := row.Scan(
		&c.ID, &c.UserID, &contractor, &indiv, &project,
		&category, &targetAccount, &debt, &created, &updated,
	)
	if err != nil {
		return nil, err
	}

	c.ContractorID = textFromNull(contractor)
	c.IndividualID = textFromNull(indiv)
	c.ProjectID = textFromNull(project)
	c.CategoryID = textFromNull(category)
	c.TargetAccountID = textFromNull(targetAccount)
	c.TotalDebt = numericToDecimal(debt)
	c.CreatedAt = created.Time
	c.UpdatedAt = updated.Time

	return &c, nil
}
