package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/finbook/internal/domain"
	"github.com/iho/finbook/internal/usecase"
)

const eventColumns = `id, user_id, type, amount,
	is_transfer, is_withdrawal, is_work_act, is_deal_tranche, is_closed, exclude_from_totals,
	date, date_key, day_of_year, cell_index,
	account_id, company_id, individual_id, contractor_id, counterparty_individual_id,
	category_id, project_id, prepayment_id,
	from_account_id, to_account_id, from_company_id, to_company_id, from_individual_id, to_individual_id,
	total_deal_amount, related_event_id, transfer_group_id, created_at`

// EventRepository implements usecase.EventRepository.
type EventRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool, retrier *Retrier) *EventRepository {
	return &EventRepository{pool: pool, retrier: retrier}
}

// Create inserts a new event within a transaction.
func (r *EventRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.Event) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)`,
		event.ID,
		event.UserID,
		string(event.Type),
		decimalToNumeric(event.Amount),
		event.IsTransfer,
		event.IsWithdrawal,
		event.IsWorkAct,
		event.IsDealTranche,
		event.IsClosed,
		event.ExcludeFromTotals,
		timeToPgTimestamptz(event.Date),
		event.DateKey,
		event.DayOfYear,
		event.CellIndex,
		textOrNull(event.AccountID),
		textOrNull(event.CompanyID),
		textOrNull(event.IndividualID),
		textOrNull(event.ContractorID),
		textOrNull(event.CounterpartyIndividualID),
		textOrNull(event.CategoryID),
		textOrNull(event.ProjectID),
		textOrNull(event.PrepaymentID),
		textOrNull(event.FromAccountID),
		textOrNull(event.ToAccountID),
		textOrNull(event.FromCompanyID),
		textOrNull(event.ToCompanyID),
		textOrNull(event.FromIndividualID),
		textOrNull(event.ToIndividualID),
		decimalToNumeric(event.TotalDealAmount),
		textOrNull(event.RelatedEventID),
		textOrNull(event.TransferGroupID),
		timeToPgTimestamptz(event.CreatedAt),
	)

	return err
}

// GetByID retrieves an event by id within a tenant.
func (r *EventRepository) GetByID(ctx context.Context, userID, id string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = $1 AND id = $2`,
		userID, id)

	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}

	return event, err
}

// Update rewrites the mutable columns of an event.
func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE events
		SET amount = $3,
			date = $4,
			date_key = $5,
			day_of_year = $6,
			account_id = $7,
			company_id = $8,
			individual_id = $9,
			contractor_id = $10,
			category_id = $11,
			project_id = $12,
			exclude_from_totals = $13,
			is_closed = $14
		WHERE user_id = $1 AND id = $2`,
		event.UserID,
		event.ID,
		decimalToNumeric(event.Amount),
		timeToPgTimestamptz(event.Date),
		event.DateKey,
		event.DayOfYear,
		textOrNull(event.AccountID),
		textOrNull(event.CompanyID),
		textOrNull(event.IndividualID),
		textOrNull(event.ContractorID),
		textOrNull(event.CategoryID),
		textOrNull(event.ProjectID),
		event.ExcludeFromTotals,
		event.IsClosed,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// Delete removes one event within a transaction. Absent ids delete zero rows.
func (r *EventRepository) Delete(ctx context.Context, tx usecase.Transaction, userID, id string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM events WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// ListUpTo lists all events dated at or before asOf, oldest first.
func (r *EventRepository) ListUpTo(ctx context.Context, userID string, asOf time.Time) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = $1 AND date <= $2
		ORDER BY date, created_at`,
		userID, timeToPgTimestamptz(asOf))
	if err != nil {
		return nil, err
	}

	return scanEvents(rows)
}

// List lists events matching one filter selector.
func (r *EventRepository) List(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error) {
	var (
		rows pgx.Rows
		err  error
	)

	switch {
	case filter.DateKey != "":
		rows, err = r.pool.Query(ctx, `
			SELECT `+eventColumns+`
			FROM events
			WHERE user_id = $1 AND date_key = $2
			ORDER BY cell_index, created_at`,
			userID, filter.DateKey)

	case filter.DayOfYear != 0:
		rows, err = r.pool.Query(ctx, `
			SELECT `+eventColumns+`
			FROM events
			WHERE user_id = $1 AND day_of_year = $2
			ORDER BY date, cell_index`,
			userID, filter.DayOfYear)

	default:
		start := time.Time{}
		if filter.Start != nil {
			start = *filter.Start
		}
		end := time.Now().UTC()
		if filter.End != nil {
			end = *filter.End
		}
		rows, err = r.pool.Query(ctx, `
			SELECT `+eventColumns+`
			FROM events
			WHERE user_id = $1 AND date >= $2 AND date <= $3
			ORDER BY date, created_at`,
			userID, timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	}
	if err != nil {
		return nil, err
	}

	return scanEvents(rows)
}

// ListByDealKey lists all events sharing one deal identity key. NULL links
// and the domain's "" convention compare equal.
func (r *EventRepository) ListByDealKey(ctx context.Context, userID string, key domain.DealKey) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = $1
			AND COALESCE(project_id, '') = $2
			AND COALESCE(category_id, '') = $3
			AND COALESCE(contractor_id, '') = $4
			AND COALESCE(counterparty_individual_id, '') = $5
		ORDER BY date, created_at`,
		userID, key.ProjectID, key.CategoryID, key.ContractorID, key.CounterpartyIndividualID)
	if err != nil {
		return nil, err
	}

	return scanEvents(rows)
}

// DeleteByDealKey removes every event under one deal key. Runs with the
// deadlock retrier: teardown deletes many rows while cascades from other
// requests may hold conflicting locks.
func (r *EventRepository) DeleteByDealKey(ctx context.Context, userID string, key domain.DealKey) (int64, error) {
	var count int64

	err := r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, `
			DELETE FROM events
			WHERE user_id = $1
				AND COALESCE(project_id, '') = $2
				AND COALESCE(category_id, '') = $3
				AND COALESCE(contractor_id, '') = $4
				AND COALESCE(counterparty_individual_id, '') = $5`,
			userID, key.ProjectID, key.CategoryID, key.ContractorID, key.CounterpartyIndividualID)
		if err != nil {
			return err
		}
		count = tag.RowsAffected()
		return nil
	})

	return count, err
}

// DeleteByRelatedEvent removes all events referencing relatedEventID.
func (r *EventRepository) DeleteByRelatedEvent(ctx context.Context, userID, relatedEventID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM events
		WHERE user_id = $1 AND related_event_id = $2`,
		userID, relatedEventID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// LatestOpenable finds the most recent tranche or anchor for a deal key
// dated at or before the given instant, excluding one event id.
func (r *EventRepository) LatestOpenable(ctx context.Context, userID string, key domain.DealKey, before time.Time, excludeID string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = $1
			AND id <> $2
			AND date <= $3
			AND (is_deal_tranche OR total_deal_amount > 0)
			AND COALESCE(project_id, '') = $4
			AND COALESCE(category_id, '') = $5
			AND COALESCE(contractor_id, '') = $6
			AND COALESCE(counterparty_individual_id, '') = $7
		ORDER BY date DESC, created_at DESC
		LIMIT 1`,
		userID, excludeID, timeToPgTimestamptz(before),
		key.ProjectID, key.CategoryID, key.ContractorID, key.CounterpartyIndividualID)

	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}

	return event, err
}

// SetClosed flips the closed flag of one event.
func (r *EventRepository) SetClosed(ctx context.Context, userID, id string, closed bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE events SET is_closed = $3 WHERE user_id = $1 AND id = $2`,
		userID, id, closed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// NextCellIndex returns the first free display slot for a tenant day.
func (r *EventRepository) NextCellIndex(ctx context.Context, userID, dateKey string) (int, error) {
	var next int

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(cell_index) + 1, 0)
		FROM events
		WHERE user_id = $1 AND date_key = $2`,
		userID, dateKey).Scan(&next)
	if err != nil {
		return 0, err
	}

	return next, nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		e             domain.Event
		typ           string
		amount, total pgtype.Numeric
		date, created pgtype.Timestamptz
		links         [16]pgtype.Text
	)

	err := row.Scan(
		&e.ID, &e.UserID, &typ, &amount,
		&e.IsTransfer, &e.IsWithdrawal, &e.IsWorkAct, &e.IsDealTranche, &e.IsClosed, &e.ExcludeFromTotals,
		&date, &e.DateKey, &e.DayOfYear, &e.CellIndex,
		&links[0], &links[1], &links[2], &links[3], &links[4],
		&links[5], &links[6], &links[7],
		&links[8], &links[9], &links[10], &links[11], &links[12], &links[13],
		&total, &links[14], &links[15], &created,
	)
	if err != nil {
		return nil, err
	}

	e.Type = domain.EventType(typ)
	e.Amount = numericToDecimal(amount)
	e.TotalDealAmount = numericToDecimal(total)
	e.Date = date.Time
	e.CreatedAt = created.Time

	// Same order as eventColumns.
	e.AccountID = textFromNull(links[0])
	e.CompanyID = textFromNull(links[1])
	e.IndividualID = textFromNull(links[2])
	e.ContractorID = textFromNull(links[3])
	e.CounterpartyIndividualID = textFromNull(links[4])
	e.CategoryID = textFromNull(links[5])
	e.ProjectID = textFromNull(links[6])
	e.PrepaymentID = textFromNull(links[7])
	e.FromAccountID = textFromNull(links[8])
	e.ToAccountID = textFromNull(links[9])
	e.FromCompanyID = textFromNull(links[10])
	e.ToCompanyID = textFromNull(links[11])
	e.FromIndividualID = textFromNull(links[12])
	e.ToIndividualID = textFromNull(links[13])
	e.RelatedEventID = textFromNull(links[14])
	e.TransferGroupID = textFromNull(links[15])

	return &e, nil
}

func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
