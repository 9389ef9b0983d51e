package iorderline

import (
	"context"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/orderline"
)

// PostgresRepository is an interface for the order line postgres repository.
type PostgresRepository interface {
	Insert(ctx context.Context, line orderline.OrderLine) (*orderline.OrderLine, error)
	BulkInsert(ctx context.Context, lines []orderline.OrderLine) ([]orderline.OrderLine, error)
	GetByID(ctx context.Context, id int64) (*orderline.OrderLine, error)

	// FindMatch returns the line on the given order with the same menu item
	// and size, or nil when no such line exists (merge-on-match lookup).
	FindMatch(
		ctx context.Context,
		orderID, menuItemID int64,
		size menuitem.Size,
	) (*orderline.OrderLine, error)

	Update(ctx context.Context, line orderline.OrderLine) error
	Delete(ctx context.Context, id int64) error
	CountByOrder(ctx context.Context, orderID int64) (int, error)
	SumSubtotals(ctx context.Context, orderID int64) (int64, error)
	Query(ctx context.Context, filter *orderline.QueryOrderLinesModel) ([]orderline.OrderLine, error)
}
