package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/finbook/internal/adapter/http/dto"
	"github.com/iho/finbook/internal/domain"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	ComputeBalances(ctx context.Context, userID string, asOf time.Time) (*domain.BalanceSet, error)
}

// BalanceHandler handles balance replay HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get replays the event log and returns balances as of the requested instant.
// Without an as_of parameter it uses the current time.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if t := parseTimeQuery(r, "as_of"); t != nil {
		asOf = *t
	}

	set, err := h.balanceUC.ComputeBalances(r.Context(), userID, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(set, asOf))
}
