package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finbook/internal/usecase"
)

// CreateEventRequest represents a request to record an event. One of date,
// date_key or day_of_year must be present.
type CreateEventRequest struct {
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date,omitempty"`
	DateKey   string          `json:"date_key,omitempty"`
	DayOfYear int             `json:"day_of_year,omitempty"`
	CellIndex *int            `json:"cell_index,omitempty"`

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
}

// ToUseCaseInput converts to use case input.
func (r *CreateEventRequest) ToUseCaseInput() usecase.CreateEventInput {
	return usecase.CreateEventInput{
		Type:                     r.Type,
		Amount:                   r.Amount,
		Date:                     r.Date,
		DateKey:                  r.DateKey,
		DayOfYear:                r.DayOfYear,
		CellIndex:                r.CellIndex,
		IsTransfer:               r.IsTransfer,
		IsWithdrawal:             r.IsWithdrawal,
		IsWorkAct:                r.IsWorkAct,
		IsDealTranche:            r.IsDealTranche,
		IsClosed:                 r.IsClosed,
		ExcludeFromTotals:        r.ExcludeFromTotals,
		AccountID:                r.AccountID,
		CompanyID:                r.CompanyID,
		IndividualID:             r.IndividualID,
		ContractorID:             r.ContractorID,
		CounterpartyIndividualID: r.CounterpartyIndividualID,
		CategoryID:               r.CategoryID,
		ProjectID:                r.ProjectID,
		PrepaymentID:             r.PrepaymentID,
		FromAccountID:            r.FromAccountID,
		ToAccountID:              r.ToAccountID,
		FromCompanyID:            r.FromCompanyID,
		ToCompanyID:              r.ToCompanyID,
		FromIndividualID:         r.FromIndividualID,
		ToIndividualID:           r.ToIndividualID,
		TotalDealAmount:          r.TotalDealAmount,
		RelatedEventID:           r.RelatedEventID,
		TransferGroupID:          r.TransferGroupID,
	}
}

// UpdateEventRequest represents a patch on an event. Absent fields are left
// untouched; explicit empty strings clear links.
type UpdateEventRequest struct {
	Date              *time.Time       `json:"date,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	AccountID         *string          `json:"account_id,omitempty"`
	CompanyID         *string          `json:"company_id,omitempty"`
	IndividualID      *string          `json:"individual_id,omitempty"`
	ContractorID      *string          `json:"contractor_id,omitempty"`
	CategoryID        *string          `json:"category_id,omitempty"`
	ProjectID         *string          `json:"project_id,omitempty"`
	ExcludeFromTotals *bool            `json:"exclude_from_totals,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEventRequest) ToUseCaseInput() usecase.UpdateEventInput {
	return usecase.UpdateEventInput{
		Date:              r.Date,
		Amount:            r.Amount,
		AccountID:         r.AccountID,
		CompanyID:         r.CompanyID,
		IndividualID:      r.IndividualID,
		ContractorID:      r.ContractorID,
		CategoryID:        r.CategoryID,
		ProjectID:         r.ProjectID,
		ExcludeFromTotals: r.ExcludeFromTotals,
	}
}

// CreateTransferRequest represents a request to create a transfer. Purpose
// selects the sub-case: empty, "personal" or "inter_company".
type CreateTransferRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Date    *time.Time      `json:"date,omitempty"`
	DateKey string          `json:"date_key,omitempty"`
	Purpose string          `json:"purpose,omitempty"`
	Reason  string          `json:"reason,omitempty"`

	FromAccountID    string `json:"from_account_id,omitempty"`
	ToAccountID      string `json:"to_account_id,omitempty"`
	FromCompanyID    string `json:"from_company_id,omitempty"`
	ToCompanyID      string `json:"to_company_id,omitempty"`
	FromIndividualID string `json:"from_individual_id,omitempty"`
	ToIndividualID   string `json:"to_individual_id,omitempty"`

	CategoryID string `json:"category_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		Amount:           r.Amount,
		Date:             r.Date,
		DateKey:          r.DateKey,
		Purpose:          r.Purpose,
		Reason:           r.Reason,
		FromAccountID:    r.FromAccountID,
		ToAccountID:      r.ToAccountID,
		FromCompanyID:    r.FromCompanyID,
		ToCompanyID:      r.ToCompanyID,
		FromIndividualID: r.FromIndividualID,
		ToIndividualID:   r.ToIndividualID,
		CategoryID:       r.CategoryID,
	}
}

// CreateEntityRequest represents a find-or-create catalog request.
type CreateEntityRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// CreateTaxPaymentRequest represents a manual tax payment entry.
type CreateTaxPaymentRequest struct {
	CompanyID      string          `json:"company_id"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	RelatedEventID string          `json:"related_event_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTaxPaymentRequest) ToUseCaseInput() usecase.CreateTaxPaymentInput {
	return usecase.CreateTaxPaymentInput{
		CompanyID:      r.CompanyID,
		Amount:         r.Amount,
		Date:           r.Date,
		RelatedEventID: r.RelatedEventID,
	}
}
