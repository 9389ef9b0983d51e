package imenuitem

import (
	"context"

	"github.com/pizzanova/order/internal/service/models/menuitem"
)

// PostgresRepository is an interface for the menu item postgres repository.
type PostgresRepository interface {
	GetByID(ctx context.Context, id int64) (*menuitem.MenuItem, error)
	Query(ctx context.Context, filter *menuitem.QueryMenuItemsModel) ([]menuitem.MenuItem, error)
}
