package domain

import "github.com/shopspring/decimal"

// Impact is a derived (entityID, signedDelta) pair produced from one event
// for one balance dimension. Impacts on untracked endpoints carry an empty
// entity id and are dropped by the accumulator.
type Impact struct {
	EntityID string
	Delta    decimal.Decimal
}

// CategoryTotals holds the per-category income and expense buckets.
// Categories are never netted from transfers.
type CategoryTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// BalanceSet is the full per-entity balance view as of a cutoff instant.
// A missing key means zero.
type BalanceSet struct {
	Accounts    map[string]decimal.Decimal
	Companies   map[string]decimal.Decimal
	Individuals map[string]decimal.Decimal
	Contractors map[string]decimal.Decimal
	Projects    map[string]decimal.Decimal
	Categories  map[string]CategoryTotals
}

// NewBalanceSet returns an empty balance set.
func NewBalanceSet() *BalanceSet {
	return &BalanceSet{
		Accounts:    make(map[string]decimal.Decimal),
		Companies:   make(map[string]decimal.Decimal),
		Individuals: make(map[string]decimal.Decimal),
		Contractors: make(map[string]decimal.Decimal),
		Projects:    make(map[string]decimal.Decimal),
		Categories:  make(map[string]CategoryTotals),
	}
}

// ReplayBalances folds a qualifying event set into per-entity balances.
// It is a pure function of its inputs: no incremental state, no caching,
// so every call re-derives the same maps for the same log. Events flagged
// ExcludeFromTotals contribute nothing in any dimension.
func ReplayBalances(events []*Event, retailIndividualID string) *BalanceSet {
	set := NewBalanceSet()

	for _, e := range events {
		if e.ExcludeFromTotals {
			continue
		}

		accumulate(set.Accounts, AccountImpacts(e))
		accumulate(set.Companies, CompanyImpacts(e, retailIndividualID))
		accumulate(set.Individuals, IndividualImpacts(e, retailIndividualID))
		accumulate(set.Contractors, ContractorImpacts(e, retailIndividualID))
		accumulate(set.Projects, ProjectImpacts(e, retailIndividualID))
		applyCategory(set.Categories, e, retailIndividualID)
	}

	return set
}

// AccountImpacts derives the account-dimension impacts of one event.
// Transfers move magnitude from one endpoint to the other; either side may
// be untracked. Work-acts record revenue recognition, not cash movement,
// and must not touch the account that will receive the real payment.
func AccountImpacts(e *Event) []Impact {
	if e.IsTransferEvent() {
		return transferImpacts(e.FromAccountID, e.ToAccountID, e.Amount)
	}

	if e.IsWorkAct || e.AccountID == "" {
		return nil
	}

	return []Impact{{EntityID: e.AccountID, Delta: signedMagnitude(e)}}
}

// CompanyImpacts derives the company-dimension impacts of one event.
// Write-offs and work-acts are accounting-only entries with no cash
// meaning in this dimension.
func CompanyImpacts(e *Event, retailIndividualID string) []Impact {
	if e.IsTransferEvent() {
		return transferImpacts(e.FromCompanyID, e.ToCompanyID, e.Amount)
	}

	if e.IsWorkAct || e.IsWriteOff(retailIndividualID) || e.CompanyID == "" {
		return nil
	}

	return []Impact{{EntityID: e.CompanyID, Delta: signedMagnitude(e)}}
}

// IndividualImpacts derives the individual-dimension impacts of one event.
func IndividualImpacts(e *Event, retailIndividualID string) []Impact {
	if e.IsTransferEvent() {
		return transferImpacts(e.FromIndividualID, e.ToIndividualID, e.Amount)
	}

	if e.IsWorkAct || e.IsWriteOff(retailIndividualID) || e.IndividualID == "" {
		return nil
	}

	return []Impact{{EntityID: e.IndividualID, Delta: signedMagnitude(e)}}
}

// ContractorImpacts derives the contractor-dimension impacts of one event.
// Contractors never receive transfer impacts; transfers are tenant-internal
// account/company/individual movements only.
func ContractorImpacts(e *Event, retailIndividualID string) []Impact {
	if e.IsTransferEvent() || e.IsWorkAct || e.IsWriteOff(retailIndividualID) || e.ContractorID == "" {
		return nil
	}

	return []Impact{{EntityID: e.ContractorID, Delta: signedMagnitude(e)}}
}

// ProjectImpacts derives the project-dimension impacts of one event.
func ProjectImpacts(e *Event, retailIndividualID string) []Impact {
	if e.IsTransferEvent() || e.IsWorkAct || e.IsWriteOff(retailIndividualID) || e.ProjectID == "" {
		return nil
	}

	return []Impact{{EntityID: e.ProjectID, Delta: signedMagnitude(e)}}
}

// applyCategory accumulates income and expense buckets per category.
// Transfer-type events and write-offs are skipped; work-acts are not,
// because categories track recognized revenue.
func applyCategory(categories map[string]CategoryTotals, e *Event, retailIndividualID string) {
	if e.IsTransferEvent() || e.IsWriteOff(retailIndividualID) || e.CategoryID == "" {
		return
	}

	totals := categories[e.CategoryID]

	switch e.Type {
	case EventTypeIncome:
		totals.Income = totals.Income.Add(e.Amount.Abs())
	case EventTypeExpense:
		totals.Expense = totals.Expense.Add(e.Amount.Abs())
	default:
		return
	}

	totals.Net = totals.Income.Sub(totals.Expense)
	categories[e.CategoryID] = totals
}

// signedMagnitude returns +|amount| for income and -|amount| for expense.
func signedMagnitude(e *Event) decimal.Decimal {
	if e.Type == EventTypeExpense {
		return e.Amount.Abs().Neg()
	}
	return e.Amount.Abs()
}

// transferImpacts builds the two legs of a transfer in one dimension.
// An orphaned leg (one endpoint untracked) degrades to a single-sided impact.
func transferImpacts(fromID, toID string, amount decimal.Decimal) []Impact {
	magnitude := amount.Abs()

	impacts := make([]Impact, 0, 2)
	if fromID != "" {
		impacts = append(impacts, Impact{EntityID: fromID, Delta: magnitude.Neg()})
	}
	if toID != "" {
		impacts = append(impacts, Impact{EntityID: toID, Delta: magnitude})
	}

	return impacts
}

func accumulate(balances map[string]decimal.Decimal, impacts []Impact) {
	for _, impact := range impacts {
		if impact.EntityID == "" {
			continue
		}
		balances[impact.EntityID] = balances[impact.EntityID].Add(impact.Delta)
	}
}
