package ordersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/pizzanova/order/internal/metrics"
	"github.com/pizzanova/order/internal/service/models/event"
	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
	"github.com/pizzanova/order/internal/service/pricing"
)

// NewLine is a requested line item before prices are resolved.
type NewLine struct {
	MenuItemID          int64
	Size                menuitem.Size
	Quantity            int
	SpecialInstructions string
}

// DeliveryInfo carries the order-level fields supplied by the client.
type DeliveryInfo struct {
	DeliveryAddress string
	ContactPhone    string
	PaymentMethod   string
	Notes           string
	DeliveryTime    *time.Time
}

// CreateOrder builds an order from a cart: resolves every line's unit price
// server-side, computes subtotals and the order total, and persists the order
// with all lines and the order.created outbox event in one transaction. Any
// unresolvable price fails the whole operation before the first write.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	clientID *int64,
	info DeliveryInfo,
	lines []NewLine,
) (*order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "CreateOrder")
	defer span.End()

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	now := time.Now()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	resolved, totalCents, err := s.resolveCart(ctx, work, lines, now)
	if err != nil {
		return nil, err
	}

	o := order.Order{
		ClientID:        clientID,
		Status:          order.StatusPending,
		TotalCents:      totalCents,
		DeliveryAddress: info.DeliveryAddress,
		ContactPhone:    info.ContactPhone,
		PaymentMethod:   info.PaymentMethod,
		DeliveryTime:    info.DeliveryTime,
		Notes:           info.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return nil, err
	}

	for i := range resolved {
		resolved[i].OrderID = inserted.ID
	}
	insertedLines, err := work.OrderLineRepository().BulkInsert(ctx, resolved)
	if err != nil {
		return nil, err
	}
	inserted.Lines = insertedLines

	if err := s.enqueueEvent(ctx, work, event.NewOrderCreated(*inserted), now); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrdersTotal.WithLabelValues(order.StatusPending.String()).Inc()

	return inserted, nil
}

// resolveCart turns requested lines into priced order lines, merging
// duplicate (menu item, size) entries the same way addLine merges later.
func (s *OrderService) resolveCart(
	ctx context.Context,
	work unitOfWork,
	lines []NewLine,
	now time.Time,
) ([]orderline.OrderLine, int64, error) {
	resolved := make([]orderline.OrderLine, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, req := range lines {
		key := fmt.Sprintf("%d/%s", req.MenuItemID, req.Size)
		if i, ok := index[key]; ok {
			resolved[i].Quantity += req.Quantity
			resolved[i].Recalculate()
			continue
		}

		item, err := work.MenuItemRepository().GetByID(ctx, req.MenuItemID)
		if err != nil {
			return nil, 0, fmt.Errorf("menu item %d: %w", req.MenuItemID, notFound(err))
		}

		unitPrice, err := pricing.Resolve(item, req.Size)
		if err != nil {
			return nil, 0, err
		}

		line := orderline.OrderLine{
			MenuItemID:          req.MenuItemID,
			Size:                req.Size,
			Quantity:            req.Quantity,
			UnitPriceCents:      unitPrice,
			SpecialInstructions: req.SpecialInstructions,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		line.Recalculate()

		index[key] = len(resolved)
		resolved = append(resolved, line)
	}

	var totalCents int64
	for _, line := range resolved {
		totalCents += line.SubtotalCents
	}

	return resolved, totalCents, nil
}
