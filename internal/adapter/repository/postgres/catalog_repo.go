package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/finbook/internal/domain"
)

// CatalogRepository implements usecase.CatalogRepository.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// FindOrCreate returns the entity with the candidate's (userID, kind, name),
// inserting the candidate when no such entity exists. Concurrent imports of
// the same name resolve to one row via the unique index on
// (user_id, kind, lower(name)).
func (r *CatalogRepository) FindOrCreate(ctx context.Context, candidate *domain.Entity) (*domain.Entity, error) {
	row := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO entities (id, user_id, kind, name, retail, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, kind, lower(name)) DO NOTHING
			RETURNING id, user_id, kind, name, retail, created_at
		)
		SELECT id, user_id, kind, name, retail, created_at FROM inserted
		UNION ALL
		SELECT id, user_id, kind, name, retail, created_at
		FROM entities
		WHERE user_id = $2 AND kind = $3 AND lower(name) = lower($4)
		LIMIT 1`,
		candidate.ID,
		candidate.UserID,
		string(candidate.Kind),
		candidate.Name,
		candidate.Retail,
		timeToPgTimestamptz(candidate.CreatedAt),
	)

	return scanEntity(row)
}

// GetByID retrieves an entity by id within a tenant.
func (r *CatalogRepository) GetByID(ctx context.Context, userID, id string) (*domain.Entity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, kind, name, retail, created_at
		FROM entities
		WHERE user_id = $1 AND id = $2`,
		userID, id)

	entity, err := scanEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntityNotFound
	}

	return entity, err
}

// GetByName retrieves an entity by kind and case-insensitive name.
func (r *CatalogRepository) GetByName(ctx context.Context, userID string, kind domain.EntityKind, name string) (*domain.Entity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, kind, name, retail, created_at
		FROM entities
		WHERE user_id = $1 AND kind = $2 AND lower(name) = lower($3)`,
		userID, string(kind), name)

	entity, err := scanEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntityNotFound
	}

	return entity, err
}

// List lists a tenant's entities of one kind, by name.
func (r *CatalogRepository) List(ctx context.Context, userID string, kind domain.EntityKind) ([]*domain.Entity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, kind, name, retail, created_at
		FROM entities
		WHERE user_id = $1 AND kind = $2
		ORDER BY name`,
		userID, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*domain.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

func scanEntity(row pgx.Row) (*domain.Entity, error) {
	var (
		e       domain.Entity
		kind    string
		created pgtype.Timestamptz
	)

	if err := row.Scan(&e.ID, &e.UserID, &kind, &e.Name, &e.Retail, &created); err != nil {
		return nil, err
	}

	e.Kind = domain.EntityKind(kind)
	e.CreatedAt = created.Time

	return &e, nil
}
