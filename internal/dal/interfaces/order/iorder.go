package iorder

import (
	"context"
	"time"

	"github.com/pizzanova/order/internal/service/models/order"
)

// PostgresRepository is an interface for the order postgres repository.
type PostgresRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	GetByID(ctx context.Context, id int64) (*order.Order, error)

	// GetByIDForUpdate locks the order row for the rest of the transaction,
	// serializing concurrent mutations of the same aggregate.
	GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error)

	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	Update(ctx context.Context, o order.Order) error
	UpdateTotal(ctx context.Context, id int64, totalCents int64, updatedAt time.Time) error
}
