package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/finbook/internal/domain"
)

// CascadeEngine maintains derived records (credits, tax payments, deal
// state) whenever source events are created or deleted. All side effects
// are best-effort: a failed step is logged and never fails the primary
// event mutation, which has already been committed.
type CascadeEngine struct {
	eventRepo   EventRepository
	creditRepo  CreditRepository
	taxRepo     TaxPaymentRepository
	catalogRepo CatalogRepository
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewCascadeEngine creates a new CascadeEngine.
func NewCascadeEngine(
	eventRepo EventRepository,
	creditRepo CreditRepository,
	taxRepo TaxPaymentRepository,
	catalogRepo CatalogRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *CascadeEngine {
	return &CascadeEngine{
		eventRepo:   eventRepo,
		creditRepo:  creditRepo,
		taxRepo:     taxRepo,
		catalogRepo: catalogRepo,
		idGen:       idGen,
		logger:      logger,
	}
}

// CascadeOptions controls which cascade directions run.
type CascadeOptions struct {
	// SkipTaxPayments suppresses the event->tax-payment direction. Set by
	// the tax-payment deletion path to break the mutual cascade cycle.
	SkipTaxPayments bool
}

// OnEventCreated runs the create-side cascades.
func (c *CascadeEngine) OnEventCreated(ctx context.Context, event *domain.Event) {
	// A work-act finalizes the tranche or anchor it references.
	if event.IsWorkAct && event.RelatedEventID != "" {
		if err := c.eventRepo.SetClosed(ctx, event.UserID, event.RelatedEventID, true); err != nil {
			c.warn(event, "close related event", err)
		}
	}

	if !c.isCreditIncome(ctx, event) {
		return
	}

	key := domain.CreditKeyForEvent(event)
	now := time.Now().UTC()

	credit, err := c.creditRepo.GetByKey(ctx, event.UserID, key)
	switch {
	case errors.Is(err, domain.ErrCreditNotFound):
		credit = &domain.Credit{
			ID:              c.idGen.Generate(),
			UserID:          event.UserID,
			ContractorID:    key.ContractorID,
			IndividualID:    key.IndividualID,
			ProjectID:       event.ProjectID,
			CategoryID:      event.CategoryID,
			TargetAccountID: event.AccountID,
			TotalDebt:       event.Amount.Abs(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := c.creditRepo.Create(ctx, credit); err != nil {
			c.warn(event, "create credit", err)
		}

	case err != nil:
		c.warn(event, "look up credit", err)

	default:
		if err := c.creditRepo.AddToDebt(ctx, event.UserID, credit.ID, event.Amount.Abs(), now); err != nil {
			c.warn(event, "increment credit debt", err)
		}
	}
}

// OnEventDeleted runs the delete-side cascades. The event has already been
// removed from the log; every step here is idempotent.
func (c *CascadeEngine) OnEventDeleted(ctx context.Context, event *domain.Event, opts CascadeOptions) {
	if c.isCreditIncome(ctx, event) {
		// Deleting any credit income removes the whole credit line, not
		// just the deleted amount. Observed behavior, kept verbatim.
		if _, err := c.creditRepo.DeleteByKey(ctx, event.UserID, domain.CreditKeyForEvent(event)); err != nil {
			c.warn(event, "delete credit", err)
		}
	}

	if !opts.SkipTaxPayments {
		if _, err := c.taxRepo.DeleteByRelatedEvent(ctx, event.UserID, event.ID); err != nil {
			c.warn(event, "delete tax payment", err)
		}
	}

	c.cascadeDealState(ctx, event)
}

// cascadeDealState applies the deal lifecycle transitions driven by a
// deletion. State is reconstructible from event presence; the only stored
// bit is IsClosed on anchors and tranches.
func (c *CascadeEngine) cascadeDealState(ctx context.Context, event *domain.Event) {
	switch {
	case event.IsDealAnchor():
		// Full teardown: every tranche and work-act under the deal key goes.
		// A zero key matches every keyless event in the tenant, so a
		// degenerate anchor tears down nothing.
		if event.DealKey().Zero() {
			return
		}
		if _, err := c.eventRepo.DeleteByDealKey(ctx, event.UserID, event.DealKey()); err != nil {
			c.warn(event, "tear down deal", err)
		}

	case event.IsDealTranche:
		if _, err := c.eventRepo.DeleteByRelatedEvent(ctx, event.UserID, event.ID); err != nil {
			c.warn(event, "delete referencing work-acts", err)
		}

		if event.DealKey().Zero() {
			return
		}
		prev, err := c.eventRepo.LatestOpenable(ctx, event.UserID, event.DealKey(), event.Date, event.ID)
		if errors.Is(err, domain.ErrEventNotFound) {
			return
		}
		if err != nil {
			c.warn(event, "find previous tranche", err)
			return
		}
		if err := c.eventRepo.SetClosed(ctx, event.UserID, prev.ID, false); err != nil {
			c.warn(event, "reopen previous tranche", err)
		}

	case event.IsWorkAct && event.RelatedEventID != "":
		if err := c.eventRepo.SetClosed(ctx, event.UserID, event.RelatedEventID, false); err != nil &&
			!errors.Is(err, domain.ErrEventNotFound) {
			c.warn(event, "reopen related event", err)
		}
	}
}

// isCreditIncome reports whether the event is income against a credit
// category with an addressable counterparty.
func (c *CascadeEngine) isCreditIncome(ctx context.Context, event *domain.Event) bool {
	if event.Type != domain.EventTypeIncome || event.CategoryID == "" {
		return false
	}
	if domain.CreditKeyForEvent(event).Zero() {
		return false
	}

	category, err := c.catalogRepo.GetByID(ctx, event.UserID, event.CategoryID)
	if err != nil {
		if !errors.Is(err, domain.ErrEntityNotFound) {
			c.warn(event, "resolve category", err)
		}
		return false
	}

	return domain.IsCreditCategoryName(category.Name)
}

func (c *CascadeEngine) warn(event *domain.Event, step string, err error) {
	c.logger.Warn().
		Err(err).
		Str("event_id", event.ID).
		Str("user_id", event.UserID).
		Str("step", step).
		Msg("cascade step failed")
}
