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

// TaxPaymentService defines the behavior needed by TaxPaymentHandler.
type TaxPaymentService interface {
	CreateTaxPayment(ctx context.Context, userID string, input usecase.CreateTaxPaymentInput) (*domain.TaxPayment, error)
	GetTaxPayment(ctx context.Context, userID, id string) (*domain.TaxPayment, error)
	ListTaxPayments(ctx context.Context, userID string) ([]*domain.TaxPayment, error)
	DeleteTaxPayment(ctx context.Context, userID, id string) (int64, error)
}

// TaxPaymentHandler handles tax payment HTTP requests.
type TaxPaymentHandler struct {
	taxUC TaxPaymentService
}

// NewTaxPaymentHandler creates a new TaxPaymentHandler.
func NewTaxPaymentHandler(taxUC TaxPaymentService) *TaxPaymentHandler {
	return &TaxPaymentHandler{taxUC: taxUC}
}

// Create records a manual tax payment.
func (h *TaxPaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req dto.CreateTaxPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, err := h.taxUC.CreateTaxPayment(r.Context(), userID, req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create tax payment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TaxPaymentFromDomain(payment))
}

// Get retrieves a tax payment by ID.
func (h *TaxPaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing tax payment ID", "")
		return
	}

	payment, err := h.taxUC.GetTaxPayment(r.Context(), userID, id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get tax payment", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TaxPaymentFromDomain(payment))
}

// List lists tax payments.
func (h *TaxPaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	payments, err := h.taxUC.ListTaxPayments(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tax payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TaxPaymentsFromDomain(payments))
}

// Delete removes a tax payment together with its source event.
func (h *TaxPaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing tax payment ID", "")
		return
	}

	deleted, err := h.taxUC.DeleteTaxPayment(r.Context(), userID, id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete tax payment", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: deleted})
}
