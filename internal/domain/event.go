package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType classifies a financial event.
type EventType string

const (
	EventTypeIncome   EventType = "income"
	EventTypeExpense  EventType = "expense"
	EventTypeTransfer EventType = "transfer"
)

// DateKeyLayout is the tenant-local calendar-day bucket format.
const DateKeyLayout = "2006-01-02"

// Event is the single source of truth: an append-only record of money
// movement or an accounting fact. Empty string link fields mean "not set".
type Event struct {
	ID     string
	UserID string
	Type   EventType
	Amount decimal.Decimal

	IsTransfer        bool
	IsWithdrawal      bool
	IsWorkAct         bool
	IsDealTranche     bool
	IsClosed          bool
	ExcludeFromTotals bool

	Date      time.Time
	DateKey   string
	DayOfYear int
	CellIndex int

	AccountID                string
	CompanyID                string
	IndividualID             string
	ContractorID             string
	CounterpartyIndividualID string
	CategoryID               string
	ProjectID                string
	PrepaymentID             string

	FromAccountID    string
	ToAccountID      string
	FromCompanyID    string
	ToCompanyID      string
	FromIndividualID string
	ToIndividualID   string

	TotalDealAmount decimal.Decimal
	RelatedEventID  string
	TransferGroupID string

	CreatedAt time.Time
}

// IsTransferEvent reports whether the event moves money between tracked
// endpoints rather than in or out of the tenant's entity graph.
func (e *Event) IsTransferEvent() bool {
	return e.Type == EventTypeTransfer || e.IsTransfer
}

// IsWriteOff reports whether the event is an accounting-only write-off:
// an expense with no account, linked to the distinguished retail-customers
// individual. Write-offs carry no cash-balance meaning.
func (e *Event) IsWriteOff(retailIndividualID string) bool {
	return e.Type == EventTypeExpense &&
		e.AccountID == "" &&
		retailIndividualID != "" &&
		e.CounterpartyIndividualID == retailIndividualID
}

// IsDealAnchor reports whether the event opens a deal.
func (e *Event) IsDealAnchor() bool {
	return e.TotalDealAmount.IsPositive()
}

// DealKey is the identity of a multi-tranche deal. The anchor, its tranches
// and its work-acts all share the same key.
type DealKey struct {
	ProjectID                string
	CategoryID               string
	ContractorID             string
	CounterpartyIndividualID string
}

// Zero reports whether the key carries no identity. A zero key would
// match every event whose link fields are all unset, so key-driven
// operations must never run with one.
func (k DealKey) Zero() bool {
	return k.ProjectID == "" && k.CategoryID == "" &&
		k.ContractorID == "" && k.CounterpartyIndividualID == ""
}

// DealKey returns the deal identity tuple of the event.
func (e *Event) DealKey() DealKey {
	return DealKey{
		ProjectID:                e.ProjectID,
		CategoryID:               e.CategoryID,
		ContractorID:             e.ContractorID,
		CounterpartyIndividualID: e.CounterpartyIndividualID,
	}
}

// Validate validates event invariants that hold regardless of storage.
func (e *Event) Validate() error {
	switch e.Type {
	case EventTypeIncome, EventTypeExpense, EventTypeTransfer:
	default:
		return ErrInvalidEventType
	}

	if e.Type == EventTypeTransfer && !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if e.IsWorkAct && e.RelatedEventID == "" {
		return ErrWorkActWithoutRelated
	}

	if e.DateKey == "" {
		return ErrMissingDate
	}

	return nil
}

// EventFilter selects events for listing. Exactly one selector is used;
// precedence is DateKey, DayOfYear, then the [Start, End] range.
type EventFilter struct {
	DateKey   string
	DayOfYear int
	Start     *time.Time
	End       *time.Time
}

// Empty reports whether the filter selects nothing in particular.
func (f EventFilter) Empty() bool {
	return f.DateKey == "" && f.DayOfYear == 0 && f.Start == nil && f.End == nil
}
