package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/domain"
)

// EventRepository defines data access for the event log.
type EventRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.Event) error
	GetByID(ctx context.Context, userID, id string) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	// Delete removes one event and reports the number of rows removed;
	// deleting an absent id is not an error.
	Delete(ctx context.Context, tx Transaction, userID, id string) (int64, error)
	ListUpTo(ctx context.Context, userID string, asOf time.Time) ([]*domain.Event, error)
	List(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error)
	ListByDealKey(ctx context.Context, userID string, key domain.DealKey) ([]*domain.Event, error)
	DeleteByDealKey(ctx context.Context, userID string, key domain.DealKey) (int64, error)
	DeleteByRelatedEvent(ctx context.Context, userID, relatedEventID string) (int64, error)
	// LatestOpenable finds the most recent tranche or anchor for a deal key
	// dated at or before the given instant, excluding one event id.
	// Ordering: latest date first, then latest creation time.
	LatestOpenable(ctx context.Context, userID string, key domain.DealKey, before time.Time, excludeID string) (*domain.Event, error)
	SetClosed(ctx context.Context, userID, id string, closed bool) error
	// NextCellIndex returns the first free display slot for a tenant day.
	NextCellIndex(ctx context.Context, userID, dateKey string) (int, error)
}

// CatalogRepository defines data access for the entity catalog.
type CatalogRepository interface {
	// FindOrCreate returns the entity with the candidate's (userID, kind,
	// name), inserting the candidate when no such entity exists yet.
	FindOrCreate(ctx context.Context, candidate *domain.Entity) (*domain.Entity, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Entity, error)
	GetByName(ctx context.Context, userID string, kind domain.EntityKind, name string) (*domain.Entity, error)
	List(ctx context.Context, userID string, kind domain.EntityKind) ([]*domain.Entity, error)
}

// CreditRepository defines data access for derived credit records.
type CreditRepository interface {
	Create(ctx context.Context, credit *domain.Credit) error
	GetByKey(ctx context.Context, userID string, key domain.CreditKey) (*domain.Credit, error)
	AddToDebt(ctx context.Context, userID, id string, delta decimal.Decimal, updatedAt time.Time) error
	DeleteByKey(ctx context.Context, userID string, key domain.CreditKey) (int64, error)
	List(ctx context.Context, userID string) ([]*domain.Credit, error)
}

// TaxPaymentRepository defines data access for tax payment records.
type TaxPaymentRepository interface {
	Create(ctx context.Context, payment *domain.TaxPayment) error
	GetByID(ctx context.Context, userID, id string) (*domain.TaxPayment, error)
	List(ctx context.Context, userID string) ([]*domain.TaxPayment, error)
	Delete(ctx context.Context, userID, id string) (int64, error)
	DeleteByRelatedEvent(ctx context.Context, userID, eventID string) (int64, error)
}

// OutboxRepository defines data access for pending broadcast records.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
