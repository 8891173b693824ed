package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/finbook/internal/adapter/http/dto"
	"github.com/iho/finbook/internal/domain"
)

// CatalogService defines the behavior needed by CatalogHandler.
type CatalogService interface {
	FindOrCreate(ctx context.Context, userID string, kind domain.EntityKind, name string) (*domain.Entity, error)
	Get(ctx context.Context, userID, id string) (*domain.Entity, error)
	List(ctx context.Context, userID string, kind domain.EntityKind) ([]*domain.Entity, error)
}

// CatalogHandler handles catalog entity HTTP requests.
type CatalogHandler struct {
	catalogUC CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogUC CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC}
}

// Create resolves an entity by kind and name, creating it on first sight.
// Repeated requests with the same name return the existing entity.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req dto.CreateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entity, err := h.catalogUC.FindOrCreate(r.Context(), userID, domain.EntityKind(req.Kind), req.Name)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to resolve entity", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntityFromDomain(entity))
}

// Get retrieves an entity by ID.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entity ID", "")
		return
	}

	entity, err := h.catalogUC.Get(r.Context(), userID, id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get entity", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntityFromDomain(entity))
}

// List lists entities of the kind named by the query parameter.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	kind := domain.EntityKind(r.URL.Query().Get("kind"))

	entities, err := h.catalogUC.List(r.Context(), userID, kind)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list entities", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntitiesFromDomain(entities))
}
