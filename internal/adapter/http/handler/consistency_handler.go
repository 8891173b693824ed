package handler

import (
	"context"
	"net/http"

	"github.com/iho/finbook/internal/adapter/http/dto"
	"github.com/iho/finbook/internal/usecase"
)

// ConsistencyService defines the behavior needed by ConsistencyHandler.
type ConsistencyService interface {
	Check(ctx context.Context, userID string) (*usecase.ConsistencyReport, error)
}

// ConsistencyHandler handles consistency check HTTP requests.
type ConsistencyHandler struct {
	consistencyUC ConsistencyService
}

// NewConsistencyHandler creates a new ConsistencyHandler.
func NewConsistencyHandler(consistencyUC ConsistencyService) *ConsistencyHandler {
	return &ConsistencyHandler{consistencyUC: consistencyUC}
}

// Check walks the tenant's event log and reports structural warnings.
func (h *ConsistencyHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := tenantID(w, r)
	if !ok {
		return
	}

	report, err := h.consistencyUC.Check(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyReportFromUseCase(report))
}
