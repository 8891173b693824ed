package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/domain"
)

// In-memory fakes shared by the usecase tests.

type fakeTx struct{}

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeTxManager struct{ begun int }

func (m *fakeTxManager) Begin(ctx context.Context) (Transaction, error) {
	m.begun++
	return fakeTx{}, nil
}

type seqIDGen struct{ n int }

func (g *seqIDGen) Generate() string {
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

type fakeEventRepo struct {
	events map[string]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, tx Transaction, e *domain.Event) error {
	clone := *e
	r.events[e.ID] = &clone
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, userID, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrEventNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	stored, ok := r.events[e.ID]
	if !ok || stored.UserID != e.UserID {
		return domain.ErrEventNotFound
	}
	clone := *e
	r.events[e.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, tx Transaction, userID, id string) (int64, error) {
	e, ok := r.events[id]
	if !ok || e.UserID != userID {
		return 0, nil
	}
	delete(r.events, id)
	return 1, nil
}

func (r *fakeEventRepo) ListUpTo(ctx context.Context, userID string, asOf time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.events {
		if e.UserID == userID && !e.Date.After(asOf) {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeEventRepo) List(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.events {
		if e.UserID != userID {
			continue
		}
		switch {
		case filter.DateKey != "":
			if e.DateKey != filter.DateKey {
				continue
			}
		case filter.DayOfYear != 0:
			if e.DayOfYear != filter.DayOfYear {
				continue
			}
		default:
			if filter.Start != nil && e.Date.Before(*filter.Start) {
				continue
			}
			if filter.End != nil && e.Date.After(*filter.End) {
				continue
			}
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeEventRepo) ListByDealKey(ctx context.Context, userID string, key domain.DealKey) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.events {
		if e.UserID == userID && e.DealKey() == key {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) DeleteByDealKey(ctx context.Context, userID string, key domain.DealKey) (int64, error) {
	var count int64
	for id, e := range r.events {
		if e.UserID == userID && e.DealKey() == key {
			delete(r.events, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeEventRepo) DeleteByRelatedEvent(ctx context.Context, userID, relatedEventID string) (int64, error) {
	var count int64
	for id, e := range r.events {
		if e.UserID == userID && e.RelatedEventID == relatedEventID {
			delete(r.events, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeEventRepo) LatestOpenable(ctx context.Context, userID string, key domain.DealKey, before time.Time, excludeID string) (*domain.Event, error) {
	var candidates []*domain.Event
	for _, e := range r.events {
		if e.UserID != userID || e.ID == excludeID || e.DealKey() != key {
			continue
		}
		if !e.IsDealTranche && !e.IsDealAnchor() {
			continue
		}
		if e.Date.After(before) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return nil, domain.ErrEventNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].Date.Equal(candidates[j].Date) {
			return candidates[i].Date.After(candidates[j].Date)
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	clone := *candidates[0]
	return &clone, nil
}

func (r *fakeEventRepo) SetClosed(ctx context.Context, userID, id string, closed bool) error {
	e, ok := r.events[id]
	if !ok || e.UserID != userID {
		return domain.ErrEventNotFound
	}
	e.IsClosed = closed
	return nil
}

func (r *fakeEventRepo) NextCellIndex(ctx context.Context, userID, dateKey string) (int, error) {
	next := 0
	for _, e := range r.events {
		if e.UserID == userID && e.DateKey == dateKey && e.CellIndex >= next {
			next = e.CellIndex + 1
		}
	}
	return next, nil
}

type fakeCatalogRepo struct {
	entities map[string]*domain.Entity
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{entities: make(map[string]*domain.Entity)}
}

func (r *fakeCatalogRepo) put(e *domain.Entity) { r.entities[e.ID] = e }

func (r *fakeCatalogRepo) FindOrCreate(ctx context.Context, candidate *domain.Entity) (*domain.Entity, error) {
	for _, e := range r.entities {
		if e.UserID == candidate.UserID && e.Kind == candidate.Kind && strings.EqualFold(e.Name, candidate.Name) {
			return e, nil
		}
	}
	clone := *candidate
	r.entities[clone.ID] = &clone
	return &clone, nil
}

func (r *fakeCatalogRepo) GetByID(ctx context.Context, userID, id string) (*domain.Entity, error) {
	e, ok := r.entities[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrEntityNotFound
	}
	return e, nil
}

func (r *fakeCatalogRepo) GetByName(ctx context.Context, userID string, kind domain.EntityKind, name string) (*domain.Entity, error) {
	for _, e := range r.entities {
		if e.UserID == userID && e.Kind == kind && strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return nil, domain.ErrEntityNotFound
}

func (r *fakeCatalogRepo) List(ctx context.Context, userID string, kind domain.EntityKind) ([]*domain.Entity, error) {
	var out []*domain.Entity
	for _, e := range r.entities {
		if e.UserID == userID && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCreditRepo struct {
	credits map[string]*domain.Credit
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{credits: make(map[string]*domain.Credit)}
}

func (r *fakeCreditRepo) Create(ctx context.Context, c *domain.Credit) error {
	clone := *c
	r.credits[c.ID] = &clone
	return nil
}

func (r *fakeCreditRepo) GetByKey(ctx context.Context, userID string, key domain.CreditKey) (*domain.Credit, error) {
	for _, c := range r.credits {
		if c.UserID == userID && c.Key() == key {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCreditNotFound
}

func (r *fakeCreditRepo) AddToDebt(ctx context.Context, userID, id string, delta decimal.Decimal, updatedAt time.Time) error {
	c, ok := r.credits[id]
	if !ok || c.UserID != userID {
		return domain.ErrCreditNotFound
	}
	c.TotalDebt = c.TotalDebt.Add(delta)
	c.UpdatedAt = updatedAt
	return nil
}

func (r *fakeCreditRepo) DeleteByKey(ctx context.Context, userID string, key domain.CreditKey) (int64, error) {
	var count int64
	for id, c := range r.credits {
		if c.UserID == userID && c.Key() == key {
			delete(r.credits, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeCreditRepo) List(ctx context.Context, userID string) ([]*domain.Credit, error) {
	var out []*domain.Credit
	for _, c := range r.credits {
		if c.UserID == userID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeTaxPaymentRepo struct {
	payments map[string]*domain.TaxPayment
}

func newFakeTaxPaymentRepo() *fakeTaxPaymentRepo {
	return &fakeTaxPaymentRepo{payments: make(map[string]*domain.TaxPayment)}
}

func (r *fakeTaxPaymentRepo) Create(ctx context.Context, p *domain.TaxPayment) error {
	clone := *p
	r.payments[p.ID] = &clone
	return nil
}

func (r *fakeTaxPaymentRepo) GetByID(ctx context.Context, userID, id string) (*domain.TaxPayment, error) {
	p, ok := r.payments[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrTaxPaymentNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeTaxPaymentRepo) List(ctx context.Context, userID string) ([]*domain.TaxPayment, error) {
	var out []*domain.TaxPayment
	for _, p := range r.payments {
		if p.UserID == userID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeTaxPaymentRepo) Delete(ctx context.Context, userID, id string) (int64, error) {
	p, ok := r.payments[id]
	if !ok || p.UserID != userID {
		return 0, nil
	}
	delete(r.payments, id)
	return 1, nil
}

func (r *fakeTaxPaymentRepo) DeleteByRelatedEvent(ctx context.Context, userID, eventID string) (int64, error) {
	var count int64
	for id, p := range r.payments {
		if p.UserID == userID && p.RelatedEventID == eventID {
			delete(r.payments, id)
			count++
		}
	}
	return count, nil
}

type fakeOutboxRepo struct {
	records []*domain.OutboxEvent
}

func (r *fakeOutboxRepo) Create(ctx context.Context, tx Transaction, e *domain.OutboxEvent) error {
	r.records = append(r.records, e)
	return nil
}

func (r *fakeOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var out []*domain.OutboxEvent
	for _, e := range r.records {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	for _, e := range r.records {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (r *fakeOutboxRepo) DeletePublished(ctx context.Context, before time.Time) error {
	kept := r.records[:0]
	for _, e := range r.records {
		if !e.Published || e.PublishedAt == nil || e.PublishedAt.After(before) {
			kept = append(kept, e)
		}
	}
	r.records = kept
	return nil
}
