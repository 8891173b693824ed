package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/adapter/http/dto"
	"github.com/iho/finbook/internal/adapter/http/middleware"
	"github.com/iho/finbook/internal/domain"
	"github.com/iho/finbook/internal/usecase"
)

type eventServiceStub struct {
	createFn func(ctx context.Context, userID string, input usecase.CreateEventInput) (*domain.Event, error)
	getFn    func(ctx context.Context, userID, id string) (*domain.Event, error)
	updateFn func(ctx context.Context, userID, id string, patch usecase.UpdateEventInput) (*domain.Event, error)
	deleteFn func(ctx context.Context, userID, id string) (int64, error)
	listFn   func(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error)
}

func (s *eventServiceStub) CreateEvent(ctx context.Context, userID string, input usecase.CreateEventInput) (*domain.Event, error) {
	return s.createFn(ctx, userID, input)
}

func (s *eventServiceStub) GetEvent(ctx context.Context, userID, id string) (*domain.Event, error) {
	return s.getFn(ctx, userID, id)
}

func (s *eventServiceStub) UpdateEvent(ctx context.Context, userID, id string, patch usecase.UpdateEventInput) (*domain.Event, error) {
	return s.updateFn(ctx, userID, id, patch)
}

func (s *eventServiceStub) DeleteEvent(ctx context.Context, userID, id string) (int64, error) {
	return s.deleteFn(ctx, userID, id)
}

func (s *eventServiceStub) ListEvents(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error) {
	return s.listFn(ctx, userID, filter)
}

func withTenant(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func TestEventHandler_Create_Success(t *testing.T) {
	event := &domain.Event{
		ID:     "ev-1",
		Type:   domain.EventTypeIncome,
		Amount: decimal.NewFromInt(100),
	}

	var capturedUser string
	var captured usecase.CreateEventInput
	handler := NewEventHandler(&eventServiceStub{
		createFn: func(ctx context.Context, userID string, input usecase.CreateEventInput) (*domain.Event, error) {
			capturedUser = userID
			captured = input
			return event, nil
		},
	})

	body, _ := json.Marshal(dto.CreateEventRequest{
		Type:    "income",
		Amount:  decimal.NewFromInt(100),
		DateKey: "2026-03-15",
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req = withTenant(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if capturedUser != "user-1" {
		t.Fatalf("expected tenant user-1, got %s", capturedUser)
	}
	if captured.Type != "income" || captured.DateKey != "2026-03-15" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.EventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "ev-1" {
		t.Fatalf("expected event ID ev-1, got %s", resp.ID)
	}
}

func TestEventHandler_Create_MissingTenant(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		createFn: func(ctx context.Context, userID string, input usecase.CreateEventInput) (*domain.Event, error) {
			t.Fatal("CreateEvent should not be called without a tenant")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateEventRequest{Type: "income", Amount: decimal.NewFromInt(1)})
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestEventHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		createFn: func(ctx context.Context, userID string, input usecase.CreateEventInput) (*domain.Event, error) {
			t.Fatal("CreateEvent should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString("{invalid json"))
	req = withTenant(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEventHandler_Create_ValidationError(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		createFn: func(ctx context.Context, userID string, input usecase.CreateEventInput) (*domain.Event, error) {
			return nil, domain.ErrMissingDate
		},
	})

	body, _ := json.Marshal(dto.CreateEventRequest{Type: "income", Amount: decimal.NewFromInt(1)})
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req = withTenant(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEventHandler_Get_NotFound(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		getFn: func(ctx context.Context, userID, id string) (*domain.Event, error) {
			return nil, domain.ErrEventNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/events/ev-1", nil)
	req = withTenant(req, "user-1")
	req = setChiURLParam(req, "id", "ev-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEventHandler_Delete_ReportsCount(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		deleteFn: func(ctx context.Context, userID, id string) (int64, error) {
			if userID != "user-1" || id != "ev-1" {
				t.Fatalf("unexpected delete args: %s %s", userID, id)
			}
			return 3, nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/events/ev-1", nil)
	req = withTenant(req, "user-1")
	req = setChiURLParam(req, "id", "ev-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.DeleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", resp.Deleted)
	}
}

func TestEventHandler_List_PassesFilter(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		listFn: func(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error) {
			if filter.DateKey != "2026-03-15" || filter.DayOfYear != 74 {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return []*domain.Event{{ID: "ev-1"}, {ID: "ev-2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/events?date_key=2026-03-15&day_of_year=74", nil)
	req = withTenant(req, "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListEventsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Events) != 2 || resp.Total != 2 {
		t.Fatalf("expected 2 events, got %+v", resp)
	}
}

func TestEventHandler_List_ServiceError(t *testing.T) {
	handler := NewEventHandler(&eventServiceStub{
		listFn: func(ctx context.Context, userID string, filter domain.EventFilter) ([]*domain.Event, error) {
			return nil, errors.New("db error")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = withTenant(req, "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
