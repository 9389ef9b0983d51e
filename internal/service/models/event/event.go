package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pizzanova/order/internal/service/models/order"
)

const (
	TypeOrderCreated  = "order.created"
	TypeOrderCanceled = "order.canceled"
)

// OrderEvent is the envelope published for order lifecycle changes.
type OrderEvent struct {
	EventID    string      `json:"event_id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Order      order.Order `json:"order"`
}

func newOrderEvent(eventType string, o order.Order) OrderEvent {
	return OrderEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Order:      o,
	}
}

// NewOrderCreated builds an order.created event for the given aggregate.
func NewOrderCreated(o order.Order) OrderEvent {
	return newOrderEvent(TypeOrderCreated, o)
}

// NewOrderCanceled builds an order.canceled event for the given aggregate.
func NewOrderCanceled(o order.Order) OrderEvent {
	return newOrderEvent(TypeOrderCanceled, o)
}

// Marshal serializes the event for the outbox payload.
func (e OrderEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
