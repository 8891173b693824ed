package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/domain"
)

// TaxPaymentUseCase handles manual tax payment entries and the
// payment-initiated side of the bidirectional cascade.
type TaxPaymentUseCase struct {
	taxRepo TaxPaymentRepository
	events  *EventUseCase
	idGen   IDGenerator
	logger  zerolog.Logger
}

// NewTaxPaymentUseCase creates a new TaxPaymentUseCase.
func NewTaxPaymentUseCase(
	taxRepo TaxPaymentRepository,
	events *EventUseCase,
	idGen IDGenerator,
	logger zerolog.Logger,
) *TaxPaymentUseCase {
	return &TaxPaymentUseCase{
		taxRepo: taxRepo,
		events:  events,
		idGen:   idGen,
		logger:  logger,
	}
}

// CreateTaxPaymentInput represents a manual tax payment entry.
type CreateTaxPaymentInput struct {
	CompanyID      string
	Amount         decimal.Decimal
	Date           time.Time
	RelatedEventID string
}

// CreateTaxPayment records a manual tax payment.
func (uc *TaxPaymentUseCase) CreateTaxPayment(ctx context.Context, userID string, input CreateTaxPaymentInput) (*domain.TaxPayment, error) {
	payment := &domain.TaxPayment{
		ID:             uc.idGen.Generate(),
		UserID:         userID,
		CompanyID:      input.CompanyID,
		Amount:         input.Amount,
		RelatedEventID: input.RelatedEventID,
		Date:           input.Date.UTC(),
		CreatedAt:      time.Now().UTC(),
	}

	if err := payment.Validate(); err != nil {
		return nil, err
	}

	if err := uc.taxRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// GetTaxPayment retrieves a tax payment by id.
func (uc *TaxPaymentUseCase) GetTaxPayment(ctx context.Context, userID, id string) (*domain.TaxPayment, error) {
	return uc.taxRepo.GetByID(ctx, userID, id)
}

// ListTaxPayments lists a tenant's tax payments.
func (uc *TaxPaymentUseCase) ListTaxPayments(ctx context.Context, userID string) ([]*domain.TaxPayment, error) {
	return uc.taxRepo.List(ctx, userID)
}

// DeleteTaxPayment removes a tax payment and its source event. The event
// deletion runs with the reverse tax cascade suppressed, so the mutual
// cascade cannot recurse. Idempotent on absent ids.
func (uc *TaxPaymentUseCase) DeleteTaxPayment(ctx context.Context, userID, id string) (int64, error) {
	payment, err := uc.taxRepo.GetByID(ctx, userID, id)
	if errors.Is(err, domain.ErrTaxPaymentNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := uc.taxRepo.Delete(ctx, userID, id)
	if err != nil {
		return 0, err
	}

	if count > 0 && payment.RelatedEventID != "" {
		if _, err := uc.events.deleteEvent(ctx, userID, payment.RelatedEventID, CascadeOptions{SkipTaxPayments: true}); err != nil {
			uc.logger.Warn().
				Err(err).
				Str("tax_payment_id", id).
				Str("event_id", payment.RelatedEventID).
				Msg("source event deletion failed")
		}
	}

	return count, nil
}
