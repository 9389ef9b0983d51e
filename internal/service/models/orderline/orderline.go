package orderline

import (
	"time"

	"github.com/pizzanova/order/internal/service/models/menuitem"
)

// OrderLine is one (menu item, size, quantity) entry within an order.
// UnitPriceCents is a snapshot of the resolved tier price at the time the
// line was added; it is never re-derived from the menu afterwards.
type OrderLine struct {
	ID                  int64         `json:"id"`
	OrderID             int64         `json:"orderId"`
	MenuItemID          int64         `json:"menuItemId"`
	Size                menuitem.Size `json:"size"`
	Quantity            int           `json:"quantity"`
	UnitPriceCents      int64         `json:"unitPriceCents"`
	SubtotalCents       int64         `json:"subtotalCents"`
	SpecialInstructions string        `json:"specialInstructions,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// Recalculate refreshes the subtotal from the snapshot price and quantity.
func (l *OrderLine) Recalculate() {
	l.SubtotalCents = l.UnitPriceCents * int64(l.Quantity)
}
