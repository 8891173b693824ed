package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/finbook/internal/domain"
)

// CatalogUseCase handles the entity catalog: find-or-create by name plus
// lookups. No balances live here; every number is derived from events.
type CatalogUseCase struct {
	catalogRepo CatalogRepository
	idGen       IDGenerator
	retailName  string
}

// NewCatalogUseCase creates a new CatalogUseCase.
func NewCatalogUseCase(catalogRepo CatalogRepository, idGen IDGenerator, retailName string) *CatalogUseCase {
	return &CatalogUseCase{
		catalogRepo: catalogRepo,
		idGen:       idGen,
		retailName:  retailName,
	}
}

// FindOrCreate resolves an entity by name, creating it when absent.
func (uc *CatalogUseCase) FindOrCreate(ctx context.Context, userID string, kind domain.EntityKind, name string) (*domain.Entity, error) {
	if !domain.ValidKind(kind) {
		return nil, domain.ErrInvalidEntityKind
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyEntityName
	}

	candidate := &domain.Entity{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		Kind:      kind,
		Name:      name,
		Retail:    kind == domain.EntityKindIndividual && strings.EqualFold(name, uc.retailName),
		CreatedAt: time.Now().UTC(),
	}

	return uc.catalogRepo.FindOrCreate(ctx, candidate)
}

// Get retrieves an entity by id.
func (uc *CatalogUseCase) Get(ctx context.Context, userID, id string) (*domain.Entity, error) {
	return uc.catalogRepo.GetByID(ctx, userID, id)
}

// List lists a tenant's entities of one kind.
func (uc *CatalogUseCase) List(ctx context.Context, userID string, kind domain.EntityKind) ([]*domain.Entity, error) {
	if !domain.ValidKind(kind) {
		return nil, domain.ErrInvalidEntityKind
	}

	return uc.catalogRepo.List(ctx, userID, kind)
}

// CatalogBatch caches find-or-create resolutions for one bulk import.
// The cache is owned by the batch and dies with it, so nothing leaks
// across tenants or imports when the process is reused.
type CatalogBatch struct {
	uc     *CatalogUseCase
	userID string
	cache  map[string]*domain.Entity
}

// NewBatch starts a per-import resolution batch for one tenant.
func (uc *CatalogUseCase) NewBatch(userID string) *CatalogBatch {
	return &CatalogBatch{
		uc:     uc,
		userID: userID,
		cache:  make(map[string]*domain.Entity),
	}
}

// FindOrCreate resolves an entity by name, hitting the store at most once
// per (kind, name) for the lifetime of the batch.
func (b *CatalogBatch) FindOrCreate(ctx context.Context, kind domain.EntityKind, name string) (*domain.Entity, error) {
	key := string(kind) + "\x00" + strings.ToLower(strings.TrimSpace(name))
	if entity, ok := b.cache[key]; ok {
		return entity, nil
	}

	entity, err := b.uc.FindOrCreate(ctx, b.userID, kind, name)
	if err != nil {
		return nil, err
	}

	b.cache[key] = entity

	return entity, nil
}
