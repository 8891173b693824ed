package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxPayment is a derived record 1:1 with a source expense event via
// RelatedEventID. Deleting the event deletes the payment; deleting the
// payment deletes the event with the reverse cascade suppressed.
type TaxPayment struct {
	ID             string
	UserID         string
	CompanyID      string
	Amount         decimal.Decimal
	RelatedEventID string
	Date           time.Time
	CreatedAt      time.Time
}

// Validate validates a manual tax payment entry.
func (p *TaxPayment) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}
