package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// creditCategoryPattern matches category names that mark credit income.
var creditCategoryPattern = regexp.MustCompile(`(?i)кредит|credit`)

// IsCreditCategoryName reports whether a category name marks credit income.
func IsCreditCategoryName(name string) bool {
	return creditCategoryPattern.MatchString(name)
}

// Credit is a derived aggregate: "is there an open credit line for this
// counterparty". It is never written independently; the cascade engine
// creates it lazily from matching income events and removes it whole when
// any matching event is deleted.
type Credit struct {
	ID              string
	UserID          string
	ContractorID    string
	IndividualID    string
	ProjectID       string
	CategoryID      string
	TargetAccountID string
	TotalDebt       decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreditKey identifies a credit line: the counterparty (contractor wins
// over individual) plus an optional project.
type CreditKey struct {
	ContractorID string
	IndividualID string
	ProjectID    string
}

// Zero reports whether the key has no counterparty at all.
func (k CreditKey) Zero() bool {
	return k.ContractorID == "" && k.IndividualID == ""
}

// CreditKeyForEvent derives the credit key of an income event.
func CreditKeyForEvent(e *Event) CreditKey {
	if e.ContractorID != "" {
		return CreditKey{ContractorID: e.ContractorID, ProjectID: e.ProjectID}
	}
	if e.IndividualID != "" {
		return CreditKey{IndividualID: e.IndividualID, ProjectID: e.ProjectID}
	}
	return CreditKey{}
}

// Key returns the identity key of the credit record.
func (c *Credit) Key() CreditKey {
	if c.ContractorID != "" {
		return CreditKey{ContractorID: c.ContractorID, ProjectID: c.ProjectID}
	}
	return CreditKey{IndividualID: c.IndividualID, ProjectID: c.ProjectID}
}
