package ordersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/pizzanova/order/internal/metrics"
	"github.com/pizzanova/order/internal/service/models/event"
	"github.com/pizzanova/order/internal/service/models/order"
)

// OrderPatch carries the optional order-level fields of a staff update.
type OrderPatch struct {
	Status          *order.Status
	DeliveryAddress *string
	ContactPhone    *string
	PaymentMethod   *string
	Notes           *string
	DeliveryTime    *time.Time
	IsPaid          *bool
}

// CancelOrder transitions a pending order to canceled. The order and its
// lines stay on record; cancellation is a status change, not a deletion.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) error {
	ctx, span := s.tracer.Start(ctx, "CancelOrder")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order %d: %w", orderID, notFound(err))
	}
	if o.Status != order.StatusPending {
		return order.ErrNotEditable
	}

	now := time.Now()
	o.Status = order.StatusCanceled
	o.UpdatedAt = now

	if err := work.OrderRepository().Update(ctx, *o); err != nil {
		return err
	}

	if err := s.enqueueEvent(ctx, work, event.NewOrderCanceled(*o), now); err != nil {
		return err
	}

	if err := work.Commit(ctx); err != nil {
		return err
	}

	metrics.OrdersTotal.WithLabelValues(order.StatusCanceled.String()).Inc()

	return nil
}

// UpdateOrder applies a staff-side status transition and metadata changes.
// Transitions are validated against the state machine but are not gated on
// line-item editability.
func (s *OrderService) UpdateOrder(
	ctx context.Context,
	orderID int64,
	patch OrderPatch,
) (*order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateOrder")
	defer span.End()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, notFound(err))
	}

	statusChanged := false
	if patch.Status != nil && *patch.Status != o.Status {
		if !o.Status.CanTransitionTo(*patch.Status) {
			return nil, fmt.Errorf("%s -> %s: %w", o.Status, *patch.Status, order.ErrInvalidTransition)
		}
		o.Status = *patch.Status
		statusChanged = true
	}

	if patch.DeliveryAddress != nil {
		o.DeliveryAddress = *patch.DeliveryAddress
	}
	if patch.ContactPhone != nil {
		o.ContactPhone = *patch.ContactPhone
	}
	if patch.PaymentMethod != nil {
		o.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Notes != nil {
		o.Notes = *patch.Notes
	}
	if patch.DeliveryTime != nil {
		o.DeliveryTime = patch.DeliveryTime
	}
	if patch.IsPaid != nil {
		o.IsPaid = *patch.IsPaid
	}

	now := time.Now()
	o.UpdatedAt = now

	if err := work.OrderRepository().Update(ctx, *o); err != nil {
		return nil, err
	}

	if statusChanged && o.Status == order.StatusCanceled {
		if err := s.enqueueEvent(ctx, work, event.NewOrderCanceled(*o), now); err != nil {
			return nil, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	if statusChanged {
		metrics.OrdersTotal.WithLabelValues(o.Status.String()).Inc()
	}

	return o, nil
}
