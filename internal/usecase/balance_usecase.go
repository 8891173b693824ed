package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/finbook/internal/domain"
	"github.com/iho/finbook/internal/infrastructure/metrics"
)

// BalanceUseCase computes point-in-time balances by replaying the event
// log. Every call re-scans the qualifying events; there is no cached
// balance state to drift.
type BalanceUseCase struct {
	eventRepo   EventRepository
	catalogRepo CatalogRepository
	retailName  string
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase. retailName is the catalog
// name of the distinguished retail-customers individual. metrics may be nil.
func NewBalanceUseCase(
	eventRepo EventRepository,
	catalogRepo CatalogRepository,
	retailName string,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *BalanceUseCase {
	return &BalanceUseCase{
		eventRepo:   eventRepo,
		catalogRepo: catalogRepo,
		retailName:  retailName,
		logger:      logger,
		metrics:     m,
	}
}

// ComputeBalances replays all events dated at or before asOf into per-entity
// balances. Missing entities never error; a missing key means zero.
func (uc *BalanceUseCase) ComputeBalances(ctx context.Context, userID string, asOf time.Time) (*domain.BalanceSet, error) {
	start := time.Now()

	events, err := uc.eventRepo.ListUpTo(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}

	set := domain.ReplayBalances(events, uc.retailIndividualID(ctx, userID))

	if uc.metrics != nil {
		uc.metrics.BalanceReplays.Inc()
		uc.metrics.BalanceReplayEvents.Observe(float64(len(events)))
		uc.metrics.BalanceReplaySeconds.Observe(time.Since(start).Seconds())
	}

	return set, nil
}

// retailIndividualID resolves the tenant's retail-customers individual.
// An unresolved individual disables write-off suppression rather than
// failing the replay.
func (uc *BalanceUseCase) retailIndividualID(ctx context.Context, userID string) string {
	retail, err := uc.catalogRepo.GetByName(ctx, userID, domain.EntityKindIndividual, uc.retailName)
	if err != nil {
		if !errors.Is(err, domain.ErrEntityNotFound) {
			uc.logger.Warn().Err(err).Str("user_id", userID).Msg("retail individual lookup failed")
		}
		return ""
	}

	return retail.ID
}
