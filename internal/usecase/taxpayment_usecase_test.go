package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/domain"
)

type taxFixture struct {
	uc     *TaxPaymentUseCase
	events *eventFixture
	taxes  *fakeTaxPaymentRepo
}

func newTaxFixture() *taxFixture {
	events := newEventFixture()
	return &taxFixture{
		uc:     NewTaxPaymentUseCase(events.taxes, events.uc, &seqIDGen{}, zerolog.Nop()),
		events: events,
		taxes:  events.taxes,
	}
}

func TestCreateTaxPayment(t *testing.T) {
	ctx := context.Background()
	f := newTaxFixture()

	payment, err := f.uc.CreateTaxPayment(ctx, testUser, CreateTaxPaymentInput{
		CompanyID: "com-1",
		Amount:    decimal.NewFromInt(60),
		Date:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.ID == "" {
		t.Error("expected a generated id")
	}

	got, err := f.uc.GetTaxPayment(ctx, testUser, payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected amount 60, got %s", got.Amount)
	}
}

func TestDeleteTaxPaymentIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newTaxFixture()

	count, err := f.uc.DeleteTaxPayment(ctx, testUser, "never-existed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0 for absent id, got %d", count)
	}
}

func TestDeleteTaxPaymentRemovesSourceEvent(t *testing.T) {
	ctx := context.Background()
	f := newTaxFixture()

	event, err := f.events.uc.CreateEvent(ctx, testUser, CreateEventInput{
		Type:      "expense",
		Amount:    decimal.NewFromInt(60),
		DateKey:   "2026-03-01",
		CompanyID: "com-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err := f.uc.CreateTaxPayment(ctx, testUser, CreateTaxPaymentInput{
		CompanyID:      "com-1",
		Amount:         decimal.NewFromInt(60),
		Date:           event.Date,
		RelatedEventID: event.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := f.uc.DeleteTaxPayment(ctx, testUser, payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	// The source event goes with the payment, and the reverse cascade is
	// suppressed so the mutual link cannot loop.
	if _, err := f.events.uc.GetEvent(ctx, testUser, event.ID); err == nil {
		t.Error("expected the source event to be deleted")
	}
	if len(f.taxes.payments) != 0 {
		t.Errorf("expected no payments left, got %d", len(f.taxes.payments))
	}
}

func TestDeleteEventRemovesLinkedTaxPayment(t *testing.T) {
	ctx := context.Background()
	f := newTaxFixture()

	event, err := f.events.uc.CreateEvent(ctx, testUser, CreateEventInput{
		Type:      "expense",
		Amount:    decimal.NewFromInt(60),
		DateKey:   "2026-03-01",
		CompanyID: "com-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.uc.CreateTaxPayment(ctx, testUser, CreateTaxPaymentInput{
		CompanyID:      "com-1",
		Amount:         decimal.NewFromInt(60),
		Date:           event.Date,
		RelatedEventID: event.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.events.uc.DeleteEvent(ctx, testUser, event.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.taxes.payments) != 0 {
		t.Errorf("expected the linked payment to cascade away, got %d", len(f.taxes.payments))
	}
}

func TestCreateTaxPaymentValidation(t *testing.T) {
	f := newTaxFixture()

	_, err := f.uc.CreateTaxPayment(context.Background(), testUser, CreateTaxPaymentInput{
		CompanyID: "com-1",
		Amount:    decimal.NewFromInt(-60),
		Date:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	_, err = f.uc.CreateTaxPayment(context.Background(), testUser, CreateTaxPaymentInput{
		CompanyID: "com-1",
		Amount:    decimal.NewFromInt(60),
	})
	if !errors.Is(err, domain.ErrMissingDate) {
		t.Fatalf("expected ErrMissingDate, got %v", err)
	}
}
