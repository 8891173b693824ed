package usecase

import (
	"context"
	"testing"

	"github.com/iho/finbook/internal/domain"
)

func TestConsistencyCheckCleanLog(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	uc := NewConsistencyUseCase(events)

	income := testEvent("ev-1", domain.EventTypeIncome, 500, 1)
	income.AccountID = "acc-1"
	if err := events.Create(ctx, fakeTx{}, income); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := uc.Check(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Consistent() {
		t.Errorf("expected a clean report, got %+v", report.Warnings)
	}
	if report.CheckedEvents != 1 {
		t.Errorf("expected 1 checked event, got %d", report.CheckedEvents)
	}
}

func TestConsistencyCheckFlagsOrphanLeg(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	uc := NewConsistencyUseCase(events)

	// One inter-company leg survived a crash; its pair was never written.
	orphan := testEvent("ev-1", domain.EventTypeExpense, 1000, 1)
	orphan.CompanyID = "com-1"
	orphan.TransferGroupID = "grp-1"
	if err := events.Create(ctx, fakeTx{}, orphan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := uc.Check(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(report.Warnings))
	}
	if report.Warnings[0].Kind != WarningOrphanTransferLeg {
		t.Errorf("expected %s, got %s", WarningOrphanTransferLeg, report.Warnings[0].Kind)
	}
	if report.Warnings[0].EventID != "ev-1" {
		t.Errorf("expected warning on ev-1, got %s", report.Warnings[0].EventID)
	}
}

func TestConsistencyCheckAcceptsCompleteGroup(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	uc := NewConsistencyUseCase(events)

	out := testEvent("ev-1", domain.EventTypeExpense, 1000, 1)
	out.CompanyID = "com-1"
	out.TransferGroupID = "grp-1"
	in := testEvent("ev-2", domain.EventTypeIncome, 1000, 1)
	in.CompanyID = "com-2"
	in.TransferGroupID = "grp-1"

	// A generic single-event transfer also carries a group id; it is a
	// complete operation on its own.
	generic := testEvent("ev-3", domain.EventTypeTransfer, 300, 2)
	generic.IsTransfer = true
	generic.TransferGroupID = "grp-2"
	generic.FromAccountID = "acc-1"
	generic.ToAccountID = "acc-2"

	for _, e := range []*domain.Event{out, in, generic} {
		if err := events.Create(ctx, fakeTx{}, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	report, err := uc.Check(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Consistent() {
		t.Errorf("expected a clean report, got %+v", report.Warnings)
	}
}

func TestConsistencyCheckFlagsDanglingWorkAct(t *testing.T) {
	ctx := context.Background()
	events := newFakeEventRepo()
	uc := NewConsistencyUseCase(events)

	act := testEvent("wa-1", domain.EventTypeIncome, 0, 1)
	act.IsWorkAct = true
	act.RelatedEventID = "gone"
	if err := events.Create(ctx, fakeTx{}, act); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := uc.Check(ctx, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(report.Warnings))
	}
	if report.Warnings[0].Kind != WarningDanglingWorkAct {
		t.Errorf("expected %s, got %s", WarningDanglingWorkAct, report.Warnings[0].Kind)
	}
}
