package ordersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pizzanova/order/internal/service/models/event"
	"github.com/pizzanova/order/internal/service/models/outbox"
)

// enqueueEvent writes an order event into the outbox on the unit of work's
// connection, so it commits or rolls back with the order mutation itself.
func (s *OrderService) enqueueEvent(
	ctx context.Context,
	work unitOfWork,
	evt event.OrderEvent,
	now time.Time,
) error {
	payload, err := evt.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	msg := outbox.Message{
		QueueName:   viper.GetString("rabbitmq.orders_queue"),
		RoutingKey:  viper.GetString("rabbitmq.orders_queue"),
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}

	return work.OutboxRepository().Insert(ctx, msg)
}
