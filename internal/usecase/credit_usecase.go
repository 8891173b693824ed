package usecase

import (
	"context"

	"github.com/iho/finbook/internal/domain"
)

// CreditUseCase exposes derived credit records. Credits are never written
// through here; the cascade owns their lifecycle.
type CreditUseCase struct {
	creditRepo CreditRepository
}

// NewCreditUseCase creates a new CreditUseCase.
func NewCreditUseCase(creditRepo CreditRepository) *CreditUseCase {
	return &CreditUseCase{creditRepo: creditRepo}
}

// ListCredits lists a tenant's derived credit records.
func (uc *CreditUseCase) ListCredits(ctx context.Context, userID string) ([]*domain.Credit, error) {
	return uc.creditRepo.List(ctx, userID)
}
