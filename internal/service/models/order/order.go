package order

import (
	"time"

	"github.com/pizzanova/order/internal/service/models/orderline"
)

// Order is the aggregate root: the order row plus its lines. TotalCents is
// persisted and must equal the sum of line subtotals after every mutation.
type Order struct {
	ID              int64                 `json:"id"`
	ClientID        *int64                `json:"clientId,omitempty"`
	Status          Status                `json:"status"`
	TotalCents      int64                 `json:"totalCents"`
	DeliveryAddress string                `json:"deliveryAddress,omitempty"`
	ContactPhone    string                `json:"contactPhone"`
	PaymentMethod   string                `json:"paymentMethod"`
	DeliveryTime    *time.Time            `json:"deliveryTime,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	IsPaid          bool                  `json:"isPaid"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	Lines           []orderline.OrderLine `json:"lines"`
}

// OwnedBy reports whether the order belongs to the given client. Anonymous
// orders belong to nobody.
func (o *Order) OwnedBy(clientID int64) bool {
	return o.ClientID != nil && *o.ClientID == clientID
}
