package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/finbook/internal/adapter/http/dto"
	"github.com/iho/finbook/internal/domain"
	"github.com/iho/finbook/internal/usecase"
)

// EventService defines the behavior needed by EventHandler.
type EventService interface {
	CreateEvent(ctx context.Context, userID string, input usecase.CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, userID, id string) (*domain.Event, error)
	UpdateEvent(ctx context.Context, userID, id string, patch usecase.UpdateEventInput) (*domain.Event, error)
	DeleteEvent(ctx context.Context, userID, id string) (int64, error)
	ListEvents(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error)
}

// EventHandler handles event-related HTTP requests.
type EventHandler struct {
	eventUC EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventUC EventService) *EventHandler {
	return &EventHandler{eventUC: eventUC}
}

// Create records a new event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.eventUC.CreateEvent(r.Context(), userID, req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create event", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// Get retrieves an event by ID.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	event, err := h.eventUC.GetEvent(r.Context(), userID, id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get event", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

// Update applies a partial patch to an event.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	var req dto.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.eventUC.UpdateEvent(r.Context(), userID, id, req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update event", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

// Delete removes an event and everything derived from it. Deleting an event
// that is already gone is not an error.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	deleted, err := h.eventUC.DeleteEvent(r.Context(), userID, id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete event", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: deleted})
}

// List lists events, optionally filtered by date_key, day_of_year or a
// start/end window.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	filter := domain.EventFilter{
		DateKey:   r.URL.Query().Get("date_key"),
		DayOfYear: parseIntQuery(r, "day_of_year", 0),
		Start:     parseTimeQuery(r, "start"),
		End:       parseTimeQuery(r, "end"),
	}

	events, err := h.eventUC.ListEvents(r.Context(), userID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEventsResponse{
		Events: dto.EventsFromDomain(events),
		Total:  int64(len(events)),
	})
}
