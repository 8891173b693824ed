package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/domain"
	"github.com/iho/finbook/internal/infrastructure/metrics"
)

// EventUseCase handles event log mutations and reads. Every successful
// create or delete is followed by a synchronous, best-effort cascade pass.
type EventUseCase struct {
	txManager  TransactionManager
	eventRepo  EventRepository
	outboxRepo OutboxRepository
	cascade    *CascadeEngine
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewEventUseCase creates a new EventUseCase. metrics may be nil.
func NewEventUseCase(
	txManager TransactionManager,
	eventRepo EventRepository,
	outboxRepo OutboxRepository,
	cascade *CascadeEngine,
	idGen IDGenerator,
	m *metrics.Metrics,
) *EventUseCase {
	return &EventUseCase{
		txManager:  txManager,
		eventRepo:  eventRepo,
		outboxRepo: outboxRepo,
		cascade:    cascade,
		idGen:      idGen,
		metrics:    m,
	}
}

// CreateEventInput represents input for creating an event. One of Date,
// DateKey or DayOfYear must be present.
type CreateEventInput struct {
	Type      string
	Amount    decimal.Decimal
	Date      *time.Time
	DateKey   string
	DayOfYear int
	CellIndex *int

	IsTransfer        bool
	IsWithdrawal      bool
	IsWorkAct         bool
	IsDealTranche     bool
	IsClosed          bool
	ExcludeFromTotals bool

	AccountID                string
	CompanyID                string
	IndividualID             string
	ContractorID             string
	CounterpartyIndividualID string
	CategoryID               string
	ProjectID                string
	PrepaymentID             string

	FromAccountID    string
	ToAccountID      string
	FromCompanyID    string
	ToCompanyID      string
	FromIndividualID string
	ToIndividualID   string

	TotalDealAmount decimal.Decimal
	RelatedEventID  string
	TransferGroupID string
}

// CreateEvent validates, persists and cascades a new event.
func (uc *EventUseCase) CreateEvent(ctx context.Context, userID string, input CreateEventInput) (*domain.Event, error) {
	date, dateKey, dayOfYear, err := deriveEventDate(input.Date, input.DateKey, input.DayOfYear)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	cellIndex := 0
	if input.CellIndex != nil {
		cellIndex = *input.CellIndex
	} else {
		cellIndex, err = uc.eventRepo.NextCellIndex(ctx, userID, dateKey)
		if err != nil {
			return nil, fmt.Errorf("assign cell index: %w", err)
		}
	}

	event := &domain.Event{
		ID:                       uc.idGen.Generate(),
		UserID:                   userID,
		Type:                     domain.EventType(input.Type),
		Amount:                   input.Amount,
		IsTransfer:               input.IsTransfer,
		IsWithdrawal:             input.IsWithdrawal,
		IsWorkAct:                input.IsWorkAct,
		IsDealTranche:            input.IsDealTranche,
		IsClosed:                 input.IsClosed,
		ExcludeFromTotals:        input.ExcludeFromTotals,
		Date:                     date,
		DateKey:                  dateKey,
		DayOfYear:                dayOfYear,
		CellIndex:                cellIndex,
		AccountID:                input.AccountID,
		CompanyID:                input.CompanyID,
		IndividualID:             input.IndividualID,
		ContractorID:             input.ContractorID,
		CounterpartyIndividualID: input.CounterpartyIndividualID,
		CategoryID:               input.CategoryID,
		ProjectID:                input.ProjectID,
		PrepaymentID:             input.PrepaymentID,
		FromAccountID:            input.FromAccountID,
		ToAccountID:              input.ToAccountID,
		FromCompanyID:            input.FromCompanyID,
		ToCompanyID:              input.ToCompanyID,
		FromIndividualID:         input.FromIndividualID,
		ToIndividualID:           input.ToIndividualID,
		TotalDealAmount:          input.TotalDealAmount,
		RelatedEventID:           input.RelatedEventID,
		TransferGroupID:          input.TransferGroupID,
		CreatedAt:                now,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := writeEventTx(ctx, uc.txManager, uc.eventRepo, uc.outboxRepo, uc.idGen, event); err != nil {
		return nil, err
	}

	uc.cascade.OnEventCreated(ctx, event)

	if uc.metrics != nil {
		uc.metrics.EventsCreated.Inc()
		uc.metrics.EventAmount.Observe(event.Amount.InexactFloat64())
	}

	return event, nil
}

// UpdateEventInput represents a patch on an existing event. Nil fields are
// left untouched.
type UpdateEventInput struct {
	Date              *time.Time
	Amount            *decimal.Decimal
	AccountID         *string
	CompanyID         *string
	IndividualID      *string
	ContractorID      *string
	CategoryID        *string
	ProjectID         *string
	ExcludeFromTotals *bool
}

// UpdateEvent applies a patch to an event owned by userID.
func (uc *EventUseCase) UpdateEvent(ctx context.Context, userID, id string, patch UpdateEventInput) (*domain.Event, error) {
	event, err := uc.eventRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		date := patch.Date.UTC()
		event.Date = date
		event.DateKey = date.Format(domain.DateKeyLayout)
		event.DayOfYear = date.YearDay()
	}
	if patch.Amount != nil {
		event.Amount = *patch.Amount
	}
	if patch.AccountID != nil {
		event.AccountID = *patch.AccountID
	}
	if patch.CompanyID != nil {
		event.CompanyID = *patch.CompanyID
	}
	if patch.IndividualID != nil {
		event.IndividualID = *patch.IndividualID
	}
	if patch.ContractorID != nil {
		event.ContractorID = *patch.ContractorID
	}
	if patch.CategoryID != nil {
		event.CategoryID = *patch.CategoryID
	}
	if patch.ProjectID != nil {
		event.ProjectID = *patch.ProjectID
	}
	if patch.ExcludeFromTotals != nil {
		event.ExcludeFromTotals = *patch.ExcludeFromTotals
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := uc.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// DeleteEvent removes an event and runs the delete cascade. Idempotent:
// deleting an absent id succeeds with a zero count.
func (uc *EventUseCase) DeleteEvent(ctx context.Context, userID, id string) (int64, error) {
	return uc.deleteEvent(ctx, userID, id, CascadeOptions{})
}

func (uc *EventUseCase) deleteEvent(ctx context.Context, userID, id string, opts CascadeOptions) (int64, error) {
	event, err := uc.eventRepo.GetByID(ctx, userID, id)
	if errors.Is(err, domain.ErrEventNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	count, err := uc.eventRepo.Delete(ctx, tx, userID, id)
	if err != nil {
		return 0, err
	}

	change := domain.NewEventChange(uc.idGen.Generate(), domain.ChangeTypeEventDeleted, event, time.Now().UTC())
	if err := uc.outboxRepo.Create(ctx, tx, change); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	if count > 0 {
		uc.cascade.OnEventDeleted(ctx, event, opts)
	}

	if uc.metrics != nil && count > 0 {
		uc.metrics.EventsDeleted.Inc()
		uc.metrics.CascadeDeletes.Observe(float64(count))
	}

	return count, nil
}

// GetEvent retrieves an event by id.
func (uc *EventUseCase) GetEvent(ctx context.Context, userID, id string) (*domain.Event, error) {
	return uc.eventRepo.GetByID(ctx, userID, id)
}

// ListEvents lists events matching the filter. An empty filter returns the
// full log up to now.
func (uc *EventUseCase) ListEvents(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error) {
	if filter.Empty() {
		return uc.eventRepo.ListUpTo(ctx, userID, time.Now().UTC())
	}

	return uc.eventRepo.List(ctx, userID, filter)
}

// ListEventsByDealKey lists all events sharing one deal identity key.
func (uc *EventUseCase) ListEventsByDealKey(ctx context.Context, userID string, key domain.DealKey) ([]*domain.Event, error) {
	return uc.eventRepo.ListByDealKey(ctx, userID, key)
}

// deriveEventDate resolves the three date-deriving inputs into the stored
// triple. Precedence: instant, then day bucket, then day of year.
func deriveEventDate(date *time.Time, dateKey string, dayOfYear int) (time.Time, string, int, error) {
	switch {
	case date != nil:
		d := date.UTC()
		return d, d.Format(domain.DateKeyLayout), d.YearDay(), nil

	case dateKey != "":
		d, err := time.Parse(domain.DateKeyLayout, dateKey)
		if err != nil {
			return time.Time{}, "", 0, fmt.Errorf("%w: bad date key %q", domain.ErrMissingDate, dateKey)
		}
		return d, dateKey, d.YearDay(), nil

	case dayOfYear > 0:
		year := time.Now().UTC().Year()
		d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear-1)
		return d, d.Format(domain.DateKeyLayout), dayOfYear, nil
	}

	return time.Time{}, "", 0, domain.ErrMissingDate
}

// writeEventTx persists one event and its outbox record atomically. Legs of
// a multi-event operation each go through their own call; cross-event
// atomicity is deliberately not provided.
func writeEventTx(
	ctx context.Context,
	txManager TransactionManager,
	eventRepo EventRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	event *domain.Event,
) error {
	tx, err := txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := eventRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	change := domain.NewEventChange(idGen.Generate(), domain.ChangeTypeEventCreated, event, time.Now().UTC())
	if err := outboxRepo.Create(ctx, tx, change); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
