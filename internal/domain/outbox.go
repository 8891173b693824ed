package domain

import "time"

// Change types recorded for the external push-notification layer.
const (
	ChangeTypeEventCreated      = "event.created"
	ChangeTypeEventDeleted      = "event.deleted"
	ChangeTypeTaxPaymentDeleted = "tax_payment.deleted"
)

// Aggregate types
const (
	AggregateTypeEvent      = "event"
	AggregateTypeTaxPayment = "tax_payment"
)

// OutboxEvent is a pending broadcast record. Delivery is external; the
// engine only guarantees the row is written with the primary mutation.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	ChangeType    string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EventChangePayload is the outbox payload for event mutations.
type EventChangePayload struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Amount  string `json:"amount"`
	DateKey string `json:"date_key"`
}

// NewEventChange builds the outbox record for an event mutation.
func NewEventChange(id, changeType string, e *Event, now time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   e.ID,
		AggregateType: AggregateTypeEvent,
		ChangeType:    changeType,
		Payload: map[string]any{
			"event_id": e.ID,
			"user_id":  e.UserID,
			"type":     string(e.Type),
			"amount":   e.Amount.String(),
			"date_key": e.DateKey,
		},
		CreatedAt: now,
	}
}
