package usecase

import (
	"context"
	"time"

	"github.com/iho/finbook/internal/domain"
)

// Consistency warning kinds.
const (
	WarningOrphanTransferLeg = "orphan_transfer_leg"
	WarningDanglingWorkAct   = "dangling_work_act"
)

// ConsistencyWarning flags a detectable but non-fatal inconsistency in the
// log, typically left behind by a crash between the legs of a multi-event
// write.
type ConsistencyWarning struct {
	Kind    string
	EventID string
	Detail  string
}

// ConsistencyReport is the result of one consistency pass.
type ConsistencyReport struct {
	CheckedEvents int
	Warnings      []ConsistencyWarning
}

// Consistent reports whether the pass found nothing to flag.
func (r *ConsistencyReport) Consistent() bool {
	return len(r.Warnings) == 0
}

// ConsistencyUseCase scans a tenant's log for orphaned inter-company legs
// and dangling work-act references. Read-only: the replay engine already
// tolerates these, so nothing is repaired here.
type ConsistencyUseCase struct {
	eventRepo EventRepository
}

// NewConsistencyUseCase creates a new ConsistencyUseCase.
func NewConsistencyUseCase(eventRepo EventRepository) *ConsistencyUseCase {
	return &ConsistencyUseCase{eventRepo: eventRepo}
}

// Check runs a full consistency pass over the tenant's event log.
func (uc *ConsistencyUseCase) Check(ctx context.Context, userID string) (*ConsistencyReport, error) {
	events, err := uc.eventRepo.ListUpTo(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{CheckedEvents: len(events)}

	byID := make(map[string]*domain.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	// Inter-company legs are income/expense events sharing a transfer
	// group; a group with a single such leg lost its pair. A lone
	// transfer-type event in a group is a complete generic transfer.
	groups := make(map[string][]*domain.Event)
	for _, e := range events {
		if e.TransferGroupID != "" && e.Type != domain.EventTypeTransfer {
			groups[e.TransferGroupID] = append(groups[e.TransferGroupID], e)
		}
	}
	for groupID, legs := range groups {
		if len(legs) == 1 {
			report.Warnings = append(report.Warnings, ConsistencyWarning{
				Kind:    WarningOrphanTransferLeg,
				EventID: legs[0].ID,
				Detail:  "transfer group " + groupID + " has a single leg",
			})
		}
	}

	for _, e := range events {
		if e.IsWorkAct && e.RelatedEventID != "" {
			if _, ok := byID[e.RelatedEventID]; !ok {
				report.Warnings = append(report.Warnings, ConsistencyWarning{
					Kind:    WarningDanglingWorkAct,
					EventID: e.ID,
					Detail:  "work-act references missing event " + e.RelatedEventID,
				})
			}
		}
	}

	return report, nil
}
