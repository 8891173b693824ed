package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/domain"
)

// TransferUseCase builds and persists the one or two events behind a
// transfer operation. Legs are written sequentially, each atomic with its
// outbox record; cross-leg atomicity is deliberately not provided.
type TransferUseCase struct {
	txManager   TransactionManager
	eventRepo   EventRepository
	outboxRepo  OutboxRepository
	catalogRepo CatalogRepository
	idGen       IDGenerator
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	eventRepo EventRepository,
	outboxRepo OutboxRepository,
	catalogRepo CatalogRepository,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		eventRepo:   eventRepo,
		outboxRepo:  outboxRepo,
		catalogRepo: catalogRepo,
		idGen:       idGen,
	}
}

// TransferInput describes one transfer operation. Purpose selects the
// sub-case: empty for a generic transfer, "personal" (+reason
// "personal_use") for a withdrawal, "inter_company" for a two-leg
// cross-company movement.
type TransferInput struct {
	Amount  decimal.Decimal
	Date    *time.Time
	DateKey string

	Purpose string
	Reason  string

	FromAccountID    string
	ToAccountID      string
	FromCompanyID    string
	ToCompanyID      string
	FromIndividualID string
	ToIndividualID   string

	CategoryID string
}

// CreateTransfer builds the transfer legs and persists them in order.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, userID string, input TransferInput) ([]*domain.Event, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	date, dateKey, dayOfYear, err := deriveEventDate(input.Date, input.DateKey, 0)
	if err != nil {
		return nil, err
	}

	legs, err := uc.buildLegs(ctx, userID, input, date, dateKey, dayOfYear)
	if err != nil {
		return nil, err
	}

	for _, leg := range legs {
		cellIndex, err := uc.eventRepo.NextCellIndex(ctx, userID, leg.DateKey)
		if err != nil {
			return nil, fmt.Errorf("assign cell index: %w", err)
		}
		leg.CellIndex = cellIndex

		if err := writeEventTx(ctx, uc.txManager, uc.eventRepo, uc.outboxRepo, uc.idGen, leg); err != nil {
			return nil, err
		}
	}

	return legs, nil
}

func (uc *TransferUseCase) buildLegs(
	ctx context.Context,
	userID string,
	input TransferInput,
	date time.Time,
	dateKey string,
	dayOfYear int,
) ([]*domain.Event, error) {
	now := time.Now().UTC()
	groupID := uc.idGen.Generate()

	base := domain.Event{
		UserID:    userID,
		Amount:    input.Amount.Abs(),
		Date:      date,
		DateKey:   dateKey,
		DayOfYear: dayOfYear,
		CreatedAt: now,
	}

	switch input.Purpose {
	case "":
		if err := validateEndpoints(input); err != nil {
			return nil, err
		}

		leg := base
		leg.ID = uc.idGen.Generate()
		leg.Type = domain.EventTypeTransfer
		leg.IsTransfer = true
		leg.TransferGroupID = groupID
		leg.FromAccountID = input.FromAccountID
		leg.ToAccountID = input.ToAccountID
		leg.FromCompanyID = input.FromCompanyID
		leg.ToCompanyID = input.ToCompanyID
		leg.FromIndividualID = input.FromIndividualID
		leg.ToIndividualID = input.ToIndividualID

		return []*domain.Event{&leg}, nil

	case domain.TransferPurposePersonal:
		// A withdrawal is a real expense: the destination is outside the
		// tracked entity graph, so there is no "to" side to record. The
		// purpose alone is not enough; the reason marker has to agree.
		if input.Reason != domain.TransferReasonPersonalUse {
			return nil, domain.ErrInvalidPurpose
		}
		if input.FromAccountID == "" {
			return nil, domain.ErrMissingFromAccount
		}

		leg := base
		leg.ID = uc.idGen.Generate()
		leg.Type = domain.EventTypeExpense
		leg.IsWithdrawal = true
		leg.AccountID = input.FromAccountID
		leg.CategoryID = input.CategoryID

		return []*domain.Event{&leg}, nil

	case domain.TransferPurposeInterCompany:
		if input.FromCompanyID == "" || input.ToCompanyID == "" {
			return nil, domain.ErrMissingCompanyPair
		}
		if input.FromCompanyID == input.ToCompanyID {
			return nil, domain.ErrSameEndpoint
		}

		categoryID := input.CategoryID
		if categoryID == "" {
			category, err := uc.catalogRepo.FindOrCreate(ctx, &domain.Entity{
				ID:        uc.idGen.Generate(),
				UserID:    userID,
				Kind:      domain.EntityKindCategory,
				Name:      domain.InterCompanyCategoryName,
				CreatedAt: now,
			})
			if err != nil {
				return nil, fmt.Errorf("resolve inter-company category: %w", err)
			}
			categoryID = category.ID
		}

		out := base
		out.ID = uc.idGen.Generate()
		out.Type = domain.EventTypeExpense
		out.TransferGroupID = groupID
		out.CompanyID = input.FromCompanyID
		out.AccountID = input.FromAccountID
		out.CategoryID = categoryID

		in := base
		in.ID = uc.idGen.Generate()
		in.Type = domain.EventTypeIncome
		in.TransferGroupID = groupID
		in.CompanyID = input.ToCompanyID
		in.AccountID = input.ToAccountID
		in.CategoryID = categoryID

		return []*domain.Event{&out, &in}, nil
	}

	return nil, domain.ErrInvalidPurpose
}

// validateEndpoints checks the generic-transfer endpoint invariants: at
// least one endpoint somewhere, and no dimension transferring to itself.
func validateEndpoints(input TransferInput) error {
	pairs := [][2]string{
		{input.FromAccountID, input.ToAccountID},
		{input.FromCompanyID, input.ToCompanyID},
		{input.FromIndividualID, input.ToIndividualID},
	}

	any := false
	for _, pair := range pairs {
		if pair[0] != "" || pair[1] != "" {
			any = true
		}
		if pair[0] != "" && pair[0] == pair[1] {
			return domain.ErrSameEndpoint
		}
	}

	if !any {
		return domain.ErrMissingEndpoint
	}

	return nil
}
