package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/finbook/internal/domain"
)

const taxPaymentColumns = `id, user_id, company_id, amount, related_event_id, date, created_at`

// TaxPaymentRepository implements usecase.TaxPaymentRepository.
type TaxPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewTaxPaymentRepository creates a new TaxPaymentRepository.
func NewTaxPaymentRepository(pool *pgxpool.Pool) *TaxPaymentRepository {
	return &TaxPaymentRepository{pool: pool}
}

// Create inserts a new tax payment.
func (r *TaxPaymentRepository) Create(ctx context.Context, payment *domain.TaxPayment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tax_payments (`+taxPaymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payment.ID,
		payment.UserID,
		textOrNull(payment.CompanyID),
		decimalToNumeric(payment.Amount),
		textOrNull(payment.RelatedEventID),
		timeToPgTimestamptz(payment.Date),
		timeToPgTimestamptz(payment.CreatedAt),
	)

	return err
}

// GetByID retrieves a tax payment by id within a tenant.
func (r *TaxPaymentRepository) GetByID(ctx context.Context, userID, id string) (*domain.TaxPayment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+taxPaymentColumns+`
		FROM tax_payments
		WHERE user_id = $1 AND id = $2`,
		userID, id)

	payment, err := scanTaxPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaxPaymentNotFound
	}

	return payment, err
}

// List lists a tenant's tax payments, newest first.
func (r *TaxPaymentRepository) List(ctx context.Context, userID string) ([]*domain.TaxPayment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taxPaymentColumns+`
		FROM tax_payments
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.TaxPayment
	for rows.Next() {
		payment, err := scanTaxPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// Delete removes one tax payment. Absent ids delete zero rows.
func (r *TaxPaymentRepository) Delete(ctx context.Context, userID, id string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tax_payments WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteByRelatedEvent removes all payments referencing one source event.
func (r *TaxPaymentRepository) DeleteByRelatedEvent(ctx context.Context, userID, eventID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM tax_payments
		WHERE user_id = $1 AND related_event_id = $2`,
		userID, eventID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func scanTaxPayment(row pgx.Row) (*domain.TaxPayment, error) {
	var (
		p             domain.TaxPayment
		company       pgtype.Text
		amount        pgtype.Numeric
		relatedEvent  pgtype.Text
		date, created pgtype.Timestamptz
	)

	err := row.Scan(&p.ID, &p.UserID, &company, &amount, &relatedEvent, &date, &created)
	if err != nil {
		return nil, err
	}

	p.CompanyID = textFromNull(company)
	p.Amount = numericToDecimal(amount)
	p.RelatedEventID = textFromNull(relatedEvent)
	p.Date = date.Time
	p.CreatedAt = created.Time

	return &p, nil
}
