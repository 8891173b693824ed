package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/domain"
	"github.com/iho/finbook/internal/usecase"
)

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	DateKey   string          `json:"date_key"`
	DayOfYear int             `json:"day_of_year"`
	CellIndex int             `json:"cell_index"`

	IsTransfer        bool `json:"is_transfer,omitempty"`
	IsWithdrawal      bool `json:"is_withdrawal,omitempty"`
	IsWorkAct         bool `json:"is_work_act,omitempty"`
	IsDealTranche     bool `json:"is_deal_tranche,omitempty"`
	IsClosed          bool `json:"is_closed,omitempty"`
	ExcludeFromTotals bool `json:"exclude_from_totals,omitempty"`

	AccountID                string `json:"account_id,omitempty"`
	CompanyID                string `json:"company_id,omitempty"`
	IndividualID             string `json:"individual_id,omitempty"`
	ContractorID             string `json:"contractor_id,omitempty"`
	CounterpartyIndividualID string `json:"counterparty_individual_id,omitempty"`
	CategoryID               string `json:"category_id,omitempty"`
	ProjectID                string `json:"project_id,omitempty"`
	PrepaymentID             string `json:"prepayment_id,omitempty"`

	FromAccountID    string `json:"from_account_id,omitempty"`
	ToAccountID      string `json:"to_account_id,omitempty"`
	FromCompanyID    string `json:"from_company_id,omitempty"`
	ToCompanyID      string `json:"to_company_id,omitempty"`
	FromIndividualID string `json:"from_individual_id,omitempty"`
	ToIndividualID   string `json:"to_individual_id,omitempty"`

	TotalDealAmount decimal.Decimal `json:"total_deal_amount,omitempty"`
	RelatedEventID  string          `json:"related_event_id,omitempty"`
	TransferGroupID string          `json:"transfer_group_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// EventFromDomain converts a domain event to a response.
func EventFromDomain(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:                       e.ID,
		Type:                     string(e.Type),
		Amount:                   e.Amount,
		Date:                     e.Date,
		DateKey:                  e.DateKey,
		DayOfYear:                e.DayOfYear,
		CellIndex:                e.CellIndex,
		IsTransfer:               e.IsTransfer,
		IsWithdrawal:             e.IsWithdrawal,
		IsWorkAct:                e.IsWorkAct,
		IsDealTranche:            e.IsDealTranche,
		IsClosed:                 e.IsClosed,
		ExcludeFromTotals:        e.ExcludeFromTotals,
		AccountID:                e.AccountID,
		CompanyID:                e.CompanyID,
		IndividualID:             e.IndividualID,
		ContractorID:             e.ContractorID,
		CounterpartyIndividualID: e.CounterpartyIndividualID,
		CategoryID:               e.CategoryID,
		ProjectID:                e.ProjectID,
		PrepaymentID:             e.PrepaymentID,
		FromAccountID:            e.FromAccountID,
		ToAccountID:              e.ToAccountID,
		FromCompanyID:            e.FromCompanyID,
		ToCompanyID:              e.ToCompanyID,
		FromIndividualID:         e.FromIndividualID,
		ToIndividualID:           e.ToIndividualID,
		TotalDealAmount:          e.TotalDealAmount,
		RelatedEventID:           e.RelatedEventID,
		TransferGroupID:          e.TransferGroupID,
		CreatedAt:                e.CreatedAt,
	}
}

// EventsFromDomain converts domain events to responses.
func EventsFromDomain(events []*domain.Event) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = EventFromDomain(e)
	}
	return result
}

// ListEventsResponse wraps an event list.
type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
}

// DeleteResponse reports how many records a delete removed.
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// EntityResponse represents a catalog entity in API responses.
type EntityResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Retail    bool      `json:"retail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EntityFromDomain converts a domain entity to a response.
func EntityFromDomain(e *domain.Entity) *EntityResponse {
	return &EntityResponse{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Name:      e.Name,
		Retail:    e.Retail,
		CreatedAt: e.CreatedAt,
	}
}

// EntitiesFromDomain converts domain entities to responses.
func EntitiesFromDomain(entities []*domain.Entity) []*EntityResponse {
	result := make([]*EntityResponse, len(entities))
	for i, e := range entities {
		result[i] = EntityFromDomain(e)
	}
	return result
}

// CategoryTotalsResponse represents per-category totals.
type CategoryTotalsResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// BalancesResponse represents a full replayed balance set.
type BalancesResponse struct {
	AsOf        time.Time                         `json:"as_of"`
	Accounts    map[string]decimal.Decimal        `json:"accounts"`
	Companies   map[string]decimal.Decimal        `json:"companies"`
	Individuals map[string]decimal.Decimal        `json:"individuals"`
	Contractors map[string]decimal.Decimal        `json:"contractors"`
	Projects    map[string]decimal.Decimal        `json:"projects"`
	Categories  map[string]CategoryTotalsResponse `json:"categories"`
}

// BalancesFromDomain converts a replayed balance set to a response.
func BalancesFromDomain(set *domain.BalanceSet, asOf time.Time) *BalancesResponse {
	categories := make(map[string]CategoryTotalsResponse, len(set.Categories))
	for id, totals := range set.Categories {
		categories[id] = CategoryTotalsResponse{
			Income:  totals.Income,
			Expense: totals.Expense,
			Net:     totals.Net,
		}
	}

	return &BalancesResponse{
		AsOf:        asOf,
		Accounts:    set.Accounts,
		Companies:   set.Companies,
		Individuals: set.Individuals,
		Contractors: set.Contractors,
		Projects:    set.Projects,
		Categories:  categories,
	}
}

// CreditResponse represents a derived credit record.
type CreditResponse struct {
	ID              string          `json:"id"`
	ContractorID    string          `json:"contractor_id,omitempty"`
	IndividualID    string          `json:"individual_id,omitempty"`
	ProjectID       string          `json:"project_id,omitempty"`
	CategoryID      string          `json:"category_id,omitempty"`
	TargetAccountID string          `json:"target_account_id,omitempty"`
	TotalDebt       decimal.Decimal `json:"total_debt"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreditFromDomain converts a domain credit to a response.
func CreditFromDomain(c *domain.Credit) *CreditResponse {
	return &CreditResponse{
		ID:              c.ID,
		ContractorID:    c.ContractorID,
		IndividualID:    c.IndividualID,
		ProjectID:       c.ProjectID,
		CategoryID:      c.CategoryID,
		TargetAccountID: c.TargetAccountID,
		TotalDebt:       c.TotalDebt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// CreditsFromDomain converts domain credits to responses.
func CreditsFromDomain(credits []*domain.Credit) []*CreditResponse {
	result := make([]*CreditResponse, len(credits))
	for i, c := range credits {
		result[i] = CreditFromDomain(c)
	}
	return result
}

// TaxPaymentResponse represents a tax payment in API responses.
type TaxPaymentResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	RelatedEventID string          `json:"related_event_id,omitempty"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TaxPaymentFromDomain converts a domain tax payment to a response.
func TaxPaymentFromDomain(p *domain.TaxPayment) *TaxPaymentResponse {
	return &TaxPaymentResponse{
		ID:             p.ID,
		CompanyID:      p.CompanyID,
		Amount:         p.Amount,
		RelatedEventID: p.RelatedEventID,
		Date:           p.Date,
		CreatedAt:      p.CreatedAt,
	}
}

// TaxPaymentsFromDomain converts domain tax payments to responses.
func TaxPaymentsFromDomain(payments []*domain.TaxPayment) []*TaxPaymentResponse {
	result := make([]*TaxPaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = TaxPaymentFromDomain(p)
	}
	return result
}

// ConsistencyWarningResponse represents one consistency warning.
type ConsistencyWarningResponse struct {
	Kind    string `json:"kind"`
	EventID string `json:"event_id"`
	Detail  string `json:"detail"`
}

// ConsistencyReportResponse represents the result of a consistency pass.
type ConsistencyReportResponse struct {
	CheckedEvents int                          `json:"checked_events"`
	Consistent    bool                         `json:"consistent"`
	Warnings      []ConsistencyWarningResponse `json:"warnings"`
}

// ConsistencyReportFromUseCase converts a consistency report to a response.
func ConsistencyReportFromUseCase(report *usecase.ConsistencyReport) *ConsistencyReportResponse {
	warnings := make([]ConsistencyWarningResponse, len(report.Warnings))
	for i, w := range report.Warnings {
		warnings[i] = ConsistencyWarningResponse{
			Kind:    w.Kind,
			EventID: w.EventID,
			Detail:  w.Detail,
		}
	}

	return &ConsistencyReportResponse{
		CheckedEvents: report.CheckedEvents,
		Consistent:    report.Consistent(),
		Warnings:      warnings,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
