package handler

import (
	"context"
	"net/http"

	"github.com/iho/finbook/internal/adapter/http/dto"
	"github.com/iho/finbook/internal/domain"
)

// CreditService defines the behavior needed by CreditHandler.
type CreditService interface {
	ListCredits(ctx context.Context, userID string) ([]*domain.Credit, error)
}

// CreditHandler handles derived credit HTTP requests. Credits are read-only
// over HTTP; they exist only as long as their source events do.
type CreditHandler struct {
	creditUC CreditService
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(creditUC CreditService) *CreditHandler {
	return &CreditHandler{creditUC: creditUC}
}

// List lists derived credit records.
func (h *CreditHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	credits, err := h.creditUC.ListCredits(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list credits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditsFromDomain(credits))
}
