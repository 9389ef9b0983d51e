package order

import "errors"

// Status is the lifecycle state of an order. Line items may only be mutated
// while the order is pending.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCanceled   Status = "canceled"
)

var (
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrNotEditable is returned by any line mutation against an order that
	// has left the pending state.
	ErrNotEditable = errors.New("order is not editable")

	ErrInvalidTransition = errors.New("invalid status transition")
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCanceled:   {},
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus validates and converts a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled:
		return Status(raw), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Editable reports whether line items may be added, updated or removed.
func (s Status) Editable() bool {
	return s == StatusPending
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}
