package pricing

import (
	"fmt"

	"github.com/pizzanova/order/internal/service/models/menuitem"
)

// PriceUnavailableError reports that a menu item has no usable price for the
// requested size tier. Callers must not fall back to a different tier.
type PriceUnavailableError struct {
	ItemID   int64
	ItemName string
	Size     menuitem.Size
}

func (e *PriceUnavailableError) Error() string {
	return fmt.Sprintf("no price for item %q (id=%d) in size %s", e.ItemName, e.ItemID, e.Size)
}

// Resolve returns the unit price in cents for the given item and size.
// Unavailable items and unset or non-positive tiers fail with
// PriceUnavailableError. Pure function of its inputs.
func Resolve(item *menuitem.MenuItem, size menuitem.Size) (int64, error) {
	if !item.IsAvailable {
		return 0, &PriceUnavailableError{ItemID: item.ID, ItemName: item.Name, Size: size}
	}

	price, ok := item.PriceCents(size)
	if !ok {
		return 0, &PriceUnavailableError{ItemID: item.ID, ItemName: item.Name, Size: size}
	}

	return price, nil
}
