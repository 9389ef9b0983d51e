package ordersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/pizzanova/order/internal/metrics"
	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
	"github.com/pizzanova/order/internal/service/pricing"
)

// LinePatch carries the optional fields of a line update. A nil field is
// left unchanged. The referenced menu item can never change; switching items
// is remove plus add.
type LinePatch struct {
	Size                *menuitem.Size
	Quantity            *int
	SpecialInstructions *string
}

// AddLine appends a line to a pending order. When a line with the same menu
// item and size already exists, its quantity grows instead of a duplicate
// row appearing; the existing line keeps its original price snapshot.
func (s *OrderService) AddLine(
	ctx context.Context,
	orderID int64,
	req NewLine,
) (*orderline.OrderLine, error) {
	ctx, span := s.tracer.Start(ctx, "AddLine")
	defer span.End()

	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, notFound(err))
	}
	if !o.Status.Editable() {
		return nil, order.ErrNotEditable
	}

	item, err := work.MenuItemRepository().GetByID(ctx, req.MenuItemID)
	if err != nil {
		return nil, fmt.Errorf("menu item %d: %w", req.MenuItemID, notFound(err))
	}

	// The price must be resolvable even on the merge path; a merged line
	// still keeps the snapshot it was created with.
	unitPrice, err := pricing.Resolve(item, req.Size)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	var result *orderline.OrderLine

	existing, err := work.OrderLineRepository().FindMatch(ctx, orderID, req.MenuItemID, req.Size)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += req.Quantity
		existing.Recalculate()
		existing.UpdatedAt = now
		if err := work.OrderLineRepository().Update(ctx, *existing); err != nil {
			return nil, err
		}
		result = existing
	} else {
		line := orderline.OrderLine{
			OrderID:             orderID,
			MenuItemID:          req.MenuItemID,
			Size:                req.Size,
			Quantity:            req.Quantity,
			UnitPriceCents:      unitPrice,
			SpecialInstructions: req.SpecialInstructions,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		line.Recalculate()

		result, err = work.OrderLineRepository().Insert(ctx, line)
		if err != nil {
			return nil, err
		}
	}

	if err := s.writeTotal(ctx, work, orderID, now); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrderLinesMutated.WithLabelValues("add").Inc()

	return result, nil
}

// UpdateLine changes the size, quantity or instructions of a line on a
// pending order. A size change re-resolves the unit price for the new tier;
// a pure quantity change keeps the existing snapshot.
func (s *OrderService) UpdateLine(
	ctx context.Context,
	lineID int64,
	patch LinePatch,
) (*orderline.OrderLine, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateLine")
	defer span.End()

	if patch.Quantity != nil && *patch.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	line, err := work.OrderLineRepository().GetByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("order line %d: %w", lineID, notFound(err))
	}

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, line.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", line.OrderID, notFound(err))
	}
	if !o.Status.Editable() {
		return nil, order.ErrNotEditable
	}

	if patch.Size != nil && *patch.Size != line.Size {
		item, err := work.MenuItemRepository().GetByID(ctx, line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("menu item %d: %w", line.MenuItemID, notFound(err))
		}

		unitPrice, err := pricing.Resolve(item, *patch.Size)
		if err != nil {
			return nil, err
		}

		line.Size = *patch.Size
		line.UnitPriceCents = unitPrice
	}

	if patch.Quantity != nil {
		line.Quantity = *patch.Quantity
	}
	if patch.SpecialInstructions != nil {
		line.SpecialInstructions = *patch.SpecialInstructions
	}

	now := time.Now()
	line.Recalculate()
	line.UpdatedAt = now

	if err := work.OrderLineRepository().Update(ctx, *line); err != nil {
		return nil, err
	}

	if err := s.writeTotal(ctx, work, line.OrderID, now); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrderLinesMutated.WithLabelValues("update").Inc()

	return line, nil
}

// RemoveLine deletes a line from a pending order. The last remaining line
// cannot be removed; cancel the order instead.
func (s *OrderService) RemoveLine(ctx context.Context, lineID int64) error {
	ctx, span := s.tracer.Start(ctx, "RemoveLine")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	line, err := work.OrderLineRepository().GetByID(ctx, lineID)
	if err != nil {
		return fmt.Errorf("order line %d: %w", lineID, notFound(err))
	}

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, line.OrderID)
	if err != nil {
		return fmt.Errorf("order %d: %w", line.OrderID, notFound(err))
	}
	if !o.Status.Editable() {
		return order.ErrNotEditable
	}

	count, err := work.OrderLineRepository().CountByOrder(ctx, line.OrderID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrCannotRemoveLastLine
	}

	if err := work.OrderLineRepository().Delete(ctx, lineID); err != nil {
		return err
	}

	if err := s.writeTotal(ctx, work, line.OrderID, time.Now()); err != nil {
		return err
	}

	if err := work.Commit(ctx); err != nil {
		return err
	}

	metrics.OrderLinesMutated.WithLabelValues("remove").Inc()

	return nil
}

// writeTotal re-sums the order's line subtotals and persists the result
// inside the current transaction, restoring the aggregate invariant.
func (s *OrderService) writeTotal(
	ctx context.Context,
	work unitOfWork,
	orderID int64,
	now time.Time,
) error {
	total, err := work.OrderLineRepository().SumSubtotals(ctx, orderID)
	if err != nil {
		return err
	}

	return work.OrderRepository().UpdateTotal(ctx, orderID, total, now)
}
