package domain

import "errors"

var (
	// Event errors
	ErrEventNotFound         = errors.New("event not found")
	ErrInvalidEventType      = errors.New("invalid event type")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrMissingDate           = errors.New("event requires a date, date key or day of year")
	ErrWorkActWithoutRelated = errors.New("work-act must reference the event it closes")

	// Catalog errors
	ErrEntityNotFound    = errors.New("entity not found")
	ErrInvalidEntityKind = errors.New("invalid entity kind")
	ErrEmptyEntityName   = errors.New("entity name cannot be empty")

	// Transfer errors
	ErrSameEndpoint       = errors.New("cannot transfer to the same endpoint")
	ErrMissingEndpoint    = errors.New("transfer requires at least one from/to endpoint pair")
	ErrInvalidPurpose     = errors.New("unknown transfer purpose")
	ErrMissingFromAccount = errors.New("withdrawal requires a source account")
	ErrMissingCompanyPair = errors.New("inter-company transfer requires both companies")

	// Derived record errors
	ErrCreditNotFound     = errors.New("credit not found")
	ErrTaxPaymentNotFound = errors.New("tax payment not found")
)
