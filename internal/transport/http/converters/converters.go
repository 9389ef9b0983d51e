package converters

import (
	"time"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/money"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
)

// OrderLineResponse is the wire form of an order line. Money travels as
// decimal strings; cents never leave the service.
type OrderLineResponse struct {
	ID                  int64     `json:"id"`
	OrderID             int64     `json:"orderId"`
	MenuItemID          int64     `json:"menuItemId"`
	Size                string    `json:"size"`
	Quantity            int       `json:"quantity"`
	UnitPrice           string    `json:"unitPrice"`
	Subtotal            string    `json:"subtotal"`
	SpecialInstructions string    `json:"specialInstructions,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// OrderLineToResponse converts an order line model to its wire form.
func OrderLineToResponse(line orderline.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		ID:                  line.ID,
		OrderID:             line.OrderID,
		MenuItemID:          line.MenuItemID,
		Size:                line.Size.String(),
		Quantity:            line.Quantity,
		UnitPrice:           money.FormatDecimal(line.UnitPriceCents),
		Subtotal:            money.FormatDecimal(line.SubtotalCents),
		SpecialInstructions: line.SpecialInstructions,
		CreatedAt:           line.CreatedAt,
		UpdatedAt:           line.UpdatedAt,
	}
}

// OrderResponse is the wire form of an order aggregate.
type OrderResponse struct {
	ID              int64               `json:"id"`
	ClientID        *int64              `json:"clientId,omitempty"`
	Status          string              `json:"status"`
	TotalAmount     string              `json:"totalAmount"`
	DeliveryAddress string              `json:"deliveryAddress,omitempty"`
	ContactPhone    string              `json:"contactPhone,omitempty"`
	PaymentMethod   string              `json:"paymentMethod,omitempty"`
	DeliveryTime    *time.Time          `json:"deliveryTime,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	IsPaid          bool                `json:"isPaid"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Lines           []OrderLineResponse `json:"lines"`
}

// OrderToResponse converts an order model to its wire form.
func OrderToResponse(o order.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineToResponse(line)
	}

	return OrderResponse{
		ID:              o.ID,
		ClientID:        o.ClientID,
		Status:          o.Status.String(),
		TotalAmount:     money.FormatDecimal(o.TotalCents),
		DeliveryAddress: o.DeliveryAddress,
		ContactPhone:    o.ContactPhone,
		PaymentMethod:   o.PaymentMethod,
		DeliveryTime:    o.DeliveryTime,
		Notes:           o.Notes,
		IsPaid:          o.IsPaid,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Lines:           lines,
	}
}

// OrdersToResponse converts a slice of orders.
func OrdersToResponse(orders []order.Order) []OrderResponse {
	result := make([]OrderResponse, len(orders))
	for i, o := range orders {
		result[i] = OrderToResponse(o)
	}

	return result
}

// MenuItemResponse is the wire form of a menu item. Unset size tiers are
// omitted.
type MenuItemResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	PriceSmall  *string `json:"priceSmall,omitempty"`
	PriceMedium *string `json:"priceMedium,omitempty"`
	PriceLarge  *string `json:"priceLarge,omitempty"`
	IsAvailable bool    `json:"isAvailable"`
}

// MenuItemToResponse converts a menu item model to its wire form.
func MenuItemToResponse(item menuitem.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category.String(),
		PriceSmall:  formatTier(item.PriceSmallCents),
		PriceMedium: formatTier(item.PriceMediumCents),
		PriceLarge:  formatTier(item.PriceLargeCents),
		IsAvailable: item.IsAvailable,
	}
}

// MenuItemsToResponse converts a slice of menu items.
func MenuItemsToResponse(items []menuitem.MenuItem) []MenuItemResponse {
	result := make([]MenuItemResponse, len(items))
	for i, item := range items {
		result[i] = MenuItemToResponse(item)
	}

	return result
}

func formatTier(cents *int64) *string {
	if cents == nil || *cents <= 0 {
		return nil
	}
	s := money.FormatDecimal(*cents)

	return &s
}
