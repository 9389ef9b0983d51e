package menuitem

import (
	"errors"
	"time"
)

// Category classifies a menu item.
type Category string

const (
	CategoryPizza   Category = "pizza"
	CategoryDrink   Category = "drink"
	CategoryDessert Category = "dessert"
)

var ErrInvalidCategory = errors.New("invalid category")

func (c Category) String() string {
	return string(c)
}

// ParseCategory validates and converts a raw category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPizza, CategoryDrink, CategoryDessert:
		return Category(s), nil
	default:
		return "", ErrInvalidCategory
	}
}

// Size is one of the three price tiers of a menu item.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

var ErrInvalidSize = errors.New("invalid size")

func (s Size) String() string {
	return string(s)
}

// ParseSize validates and converts a raw size string.
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(s), nil
	default:
		return "", ErrInvalidSize
	}
}

// MenuItem represents a sellable item with independently priced size tiers.
// A nil tier price means the item is not offered in that size.
type MenuItem struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Category         Category  `json:"category"`
	PriceSmallCents  *int64    `json:"priceSmallCents,omitempty"`
	PriceMediumCents *int64    `json:"priceMediumCents,omitempty"`
	PriceLargeCents  *int64    `json:"priceLargeCents,omitempty"`
	IsAvailable      bool      `json:"isAvailable"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PriceCents returns the configured price for the given tier. The second
// return value is false when the tier is unset or non-positive.
func (m *MenuItem) PriceCents(size Size) (int64, bool) {
	var p *int64
	switch size {
	case SizeSmall:
		p = m.PriceSmallCents
	case SizeMedium:
		p = m.PriceMediumCents
	case SizeLarge:
		p = m.PriceLargeCents
	}

	if p == nil || *p <= 0 {
		return 0, false
	}

	return *p, true
}

// Orderable reports whether the item can appear on an order at all.
func (m *MenuItem) Orderable() bool {
	if !m.IsAvailable {
		return false
	}
	for _, size := range []Size{SizeSmall, SizeMedium, SizeLarge} {
		if _, ok := m.PriceCents(size); ok {
			return true
		}
	}

	return false
}
