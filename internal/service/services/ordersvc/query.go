package ordersvc

import (
	"context"
	"fmt"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
)

// GetOrders retrieves orders with their lines based on filter.
func (s *OrderService) GetOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "GetOrders")
	defer span.End()

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	lineFilter := &orderline.QueryOrderLinesModel{}
	for _, o := range orders {
		lineFilter.OrderIds = append(lineFilter.OrderIds, o.ID)
	}
	lines, err := work.OrderLineRepository().Query(ctx, lineFilter)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, line := range lines {
			if line.OrderID == orders[i].ID {
				orders[i].Lines = append(orders[i].Lines, line)
			}
		}
	}

	return orders, nil
}

// GetOrder retrieves one order aggregate.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "GetOrder")
	defer span.End()

	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, notFound(err))
	}

	lines, err := work.OrderLineRepository().Query(ctx, &orderline.QueryOrderLinesModel{
		OrderIds: []int64{id},
	})
	if err != nil {
		return nil, err
	}
	o.Lines = lines

	return o, nil
}

// GetLine retrieves one order line.
func (s *OrderService) GetLine(ctx context.Context, id int64) (*orderline.OrderLine, error) {
	work := s.newUOW()

	line, err := work.OrderLineRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order line %d: %w", id, notFound(err))
	}

	return line, nil
}

// GetMenu retrieves menu items based on filter.
func (s *OrderService) GetMenu(
	ctx context.Context,
	filter menuitem.QueryMenuItemsModel,
) ([]menuitem.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "GetMenu")
	defer span.End()

	work := s.newUOW()

	return work.MenuItemRepository().Query(ctx, &filter)
}
