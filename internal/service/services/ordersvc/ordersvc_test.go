package ordersvc

import (
	"context"
	"errors"
	"testing"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/pricing"
)

func ptr[T any](v T) *T {
	return &v
}

func newTestService(t *testing.T) (*OrderService, *memStore) {
	t.Helper()

	store := newMemStore()
	svc := MustNewOrderService(WithUnitOfWorkFactory(func() unitOfWork {
		return newMemUOW(store)
	}))

	return svc, store
}

func seedMenu(store *memStore) {
	store.menuItems[1] = menuitem.MenuItem{
		ID:               1,
		Name:             "Margherita",
		Category:         menuitem.CategoryPizza,
		PriceSmallCents:  ptr[int64](1099),
		PriceMediumCents: ptr[int64](1399),
		PriceLargeCents:  ptr[int64](1699),
		IsAvailable:      true,
	}
	store.menuItems[2] = menuitem.MenuItem{
		ID:              2,
		Name:            "Cola",
		Category:        menuitem.CategoryDrink,
		PriceSmallCents: ptr[int64](250),
		IsAvailable:     true,
	}
	store.menuItems[3] = menuitem.MenuItem{
		ID:               3,
		Name:             "Seasonal Special",
		Category:         menuitem.CategoryPizza,
		PriceMediumCents: ptr[int64](1599),
		IsAvailable:      false,
	}
}

// checkTotal asserts the stored order total equals the sum of its stored
// line subtotals.
func checkTotal(t *testing.T, store *memStore, orderID int64) {
	t.Helper()

	o, ok := store.orders[orderID]
	if !ok {
		t.Fatalf("order %d not in store", orderID)
	}
	var sum int64
	for _, line := range store.lines {
		if line.OrderID == orderID {
			sum += line.SubtotalCents
		}
	}
	if o.TotalCents != sum {
		t.Fatalf("order %d total = %d, sum of line subtotals = %d", orderID, o.TotalCents, sum)
	}
}

func TestCreateOrder(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)

	o, err := svc.CreateOrder(context.Background(), ptr[int64](42), DeliveryInfo{
		DeliveryAddress: "1 Main St",
		ContactPhone:    "+15550100",
		PaymentMethod:   "cash",
	}, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 2},
		{MenuItemID: 1, Size: menuitem.SizeLarge, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if o.Status != order.StatusPending {
		t.Errorf("status = %s, want %s", o.Status, order.StatusPending)
	}
	if want := int64(2*1099 + 1699); o.TotalCents != want {
		t.Errorf("total = %d, want %d", o.TotalCents, want)
	}
	if len(o.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(o.Lines))
	}
	for _, line := range o.Lines {
		if line.SubtotalCents != line.UnitPriceCents*int64(line.Quantity) {
			t.Errorf("line %d subtotal = %d, want %d",
				line.ID, line.SubtotalCents, line.UnitPriceCents*int64(line.Quantity))
		}
	}
	checkTotal(t, store, o.ID)

	if len(store.outbox) != 1 {
		t.Errorf("outbox messages = %d, want 1", len(store.outbox))
	}
}

func TestCreateOrderMergesDuplicateCartEntries(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)

	o, err := svc.CreateOrder(context.Background(), nil, DeliveryInfo{}, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
		{MenuItemID: 2, Size: menuitem.SizeSmall, Quantity: 1},
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if len(o.Lines) != 2 {
		t.Fatalf("lines = %d, want 2 after merging", len(o.Lines))
	}
	for _, line := range o.Lines {
		if line.MenuItemID == 1 && line.Quantity != 3 {
			t.Errorf("merged quantity = %d, want 3", line.Quantity)
		}
	}
	checkTotal(t, store, o.ID)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)

	_, err := svc.CreateOrder(context.Background(), nil, DeliveryInfo{}, nil)
	if !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("empty cart: err = %v, want ErrEmptyOrder", err)
	}

	_, err = svc.CreateOrder(context.Background(), nil, DeliveryInfo{}, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 0},
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: err = %v, want ErrInvalidQuantity", err)
	}

	if len(store.orders) != 0 || len(store.lines) != 0 {
		t.Errorf("rejected carts must not persist anything")
	}
}

func TestCreateOrderPriceUnavailableIsAtomic(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)

	// Cola has no large tier; the whole cart must fail, not just the line.
	_, err := svc.CreateOrder(context.Background(), nil, DeliveryInfo{}, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 2},
		{MenuItemID: 2, Size: menuitem.SizeLarge, Quantity: 1},
	})

	var priceErr *pricing.PriceUnavailableError
	if !errors.As(err, &priceErr) {
		t.Fatalf("err = %v, want PriceUnavailableError", err)
	}
	if priceErr.ItemID != 2 || priceErr.Size != menuitem.SizeLarge {
		t.Errorf("error identifies item %d size %s, want item 2 size large",
			priceErr.ItemID, priceErr.Size)
	}

	if len(store.orders) != 0 || len(store.lines) != 0 || len(store.outbox) != 0 {
		t.Errorf("failed create left state behind: %d orders, %d lines, %d outbox",
			len(store.orders), len(store.lines), len(store.outbox))
	}
}

func TestCreateOrderUnavailableItem(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)

	_, err := svc.CreateOrder(context.Background(), nil, DeliveryInfo{}, []NewLine{
		{MenuItemID: 3, Size: menuitem.SizeMedium, Quantity: 1},
	})

	var priceErr *pricing.PriceUnavailableError
	if !errors.As(err, &priceErr) {
		t.Fatalf("err = %v, want PriceUnavailableError for unavailable item", err)
	}
	if len(store.orders) != 0 {
		t.Errorf("failed create left an order behind")
	}
}

func createTestOrder(t *testing.T, svc *OrderService, lines []NewLine) *order.Order {
	t.Helper()

	o, err := svc.CreateOrder(context.Background(), ptr[int64](42), DeliveryInfo{}, lines)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	return o
}

func TestAddLine(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
	})

	line, err := svc.AddLine(context.Background(), o.ID, NewLine{
		MenuItemID: 2, Size: menuitem.SizeSmall, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if line.UnitPriceCents != 250 || line.SubtotalCents != 500 {
		t.Errorf("line priced %d/%d, want 250/500", line.UnitPriceCents, line.SubtotalCents)
	}
	if got := store.orders[o.ID].TotalCents; got != 1099+500 {
		t.Errorf("total = %d, want %d", got, 1099+500)
	}
	checkTotal(t, store, o.ID)
}

func TestAddLineMergesOnMatch(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 2},
	})

	// A later menu price change must not disturb the captured snapshot when
	// the new request merges into the existing line.
	item := store.menuItems[1]
	item.PriceSmallCents = ptr[int64](1299)
	store.menuItems[1] = item

	line, err := svc.AddLine(context.Background(), o.ID, NewLine{
		MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if line.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", line.Quantity)
	}
	if line.UnitPriceCents != 1099 {
		t.Errorf("unit price = %d, want original snapshot 1099", line.UnitPriceCents)
	}
	if count := len(store.lines); count != 1 {
		t.Errorf("lines = %d, want 1 (merged, no duplicate row)", count)
	}
	checkTotal(t, store, o.ID)
}

func TestAddLineRejectsNonPendingOrder(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
	})

	stored := store.orders[o.ID]
	stored.Status = order.StatusProcessing
	store.orders[o.ID] = stored

	_, err := svc.AddLine(context.Background(), o.ID, NewLine{
		MenuItemID: 2, Size: menuitem.SizeSmall, Quantity: 1,
	})
	if !errors.Is(err, order.ErrNotEditable) {
		t.Errorf("err = %v, want ErrNotEditable", err)
	}
	if len(store.lines) != 1 {
		t.Errorf("lines = %d, want 1 (nothing added)", len(store.lines))
	}
}

func TestAddLinePriceUnavailable(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
	})
	wantTotal := store.orders[o.ID].TotalCents

	_, err := svc.AddLine(context.Background(), o.ID, NewLine{
		MenuItemID: 2, Size: menuitem.SizeMedium, Quantity: 1,
	})

	var priceErr *pricing.PriceUnavailableError
	if !errors.As(err, &priceErr) {
		t.Fatalf("err = %v, want PriceUnavailableError", err)
	}
	if got := store.orders[o.ID].TotalCents; got != wantTotal {
		t.Errorf("total changed to %d on failed add, want %d", got, wantTotal)
	}
}

func TestUpdateLineQuantity(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
		{MenuItemID: 2, Size: menuitem.SizeSmall, Quantity: 1},
	})
	lineID := o.Lines[0].ID

	line, err := svc.UpdateLine(context.Background(), lineID, LinePatch{
		Quantity: ptr(4),
	})
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}

	if line.UnitPriceCents != 1099 {
		t.Errorf("unit price = %d, want unchanged snapshot 1099", line.UnitPriceCents)
	}
	if line.SubtotalCents != 4*1099 {
		t.Errorf("subtotal = %d, want %d", line.SubtotalCents, 4*1099)
	}
	checkTotal(t, store, o.ID)
}

func TestUpdateLineSizeRepricesLine(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 2},
	})
	lineID := o.Lines[0].ID

	line, err := svc.UpdateLine(context.Background(), lineID, LinePatch{
		Size: ptr(menuitem.SizeLarge),
	})
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}

	if line.UnitPriceCents != 1699 {
		t.Errorf("unit price = %d, want large tier 1699", line.UnitPriceCents)
	}
	if line.SubtotalCents != 2*1699 {
		t.Errorf("subtotal = %d, want %d", line.SubtotalCents, 2*1699)
	}
	checkTotal(t, store, o.ID)
}

func TestUpdateLineSizeWithoutTierFails(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 2, Size: menuitem.SizeSmall, Quantity: 1},
	})
	lineID := o.Lines[0].ID

	_, err := svc.UpdateLine(context.Background(), lineID, LinePatch{
		Size: ptr(menuitem.SizeLarge),
	})

	var priceErr *pricing.PriceUnavailableError
	if !errors.As(err, &priceErr) {
		t.Fatalf("err = %v, want PriceUnavailableError", err)
	}
	if got := store.lines[lineID].Size; got != menuitem.SizeSmall {
		t.Errorf("size changed to %s on failed update", got)
	}
	checkTotal(t, store, o.ID)
}

func TestRemoveLine(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
		{MenuItemID: 2, Size: menuitem.SizeSmall, Quantity: 1},
	})

	if err := svc.RemoveLine(context.Background(), o.Lines[1].ID); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}

	if len(store.lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(store.lines))
	}
	if got := store.orders[o.ID].TotalCents; got != 1099 {
		t.Errorf("total = %d, want 1099", got)
	}
	checkTotal(t, store, o.ID)
}

func TestRemoveLastLineRejected(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
	})

	err := svc.RemoveLine(context.Background(), o.Lines[0].ID)
	if !errors.Is(err, ErrCannotRemoveLastLine) {
		t.Fatalf("err = %v, want ErrCannotRemoveLastLine", err)
	}
	if len(store.lines) != 1 {
		t.Errorf("last line was deleted")
	}
	checkTotal(t, store, o.ID)
}

func TestCancelOrder(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
	})

	if err := svc.CancelOrder(context.Background(), o.ID); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}

	if got := store.orders[o.ID].Status; got != order.StatusCanceled {
		t.Errorf("status = %s, want canceled", got)
	}
	if len(store.lines) != 1 {
		t.Errorf("cancellation must keep lines on record")
	}
	if len(store.outbox) != 2 {
		t.Errorf("outbox messages = %d, want 2 (created + canceled)", len(store.outbox))
	}
}

func TestCancelOrderRejectsNonPending(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
	})

	stored := store.orders[o.ID]
	stored.Status = order.StatusShipped
	store.orders[o.ID] = stored

	err := svc.CancelOrder(context.Background(), o.ID)
	if !errors.Is(err, order.ErrNotEditable) {
		t.Errorf("err = %v, want ErrNotEditable", err)
	}
	if got := store.orders[o.ID].Status; got != order.StatusShipped {
		t.Errorf("status = %s, want shipped untouched", got)
	}
}

func TestUpdateOrderTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		to      order.Status
		wantErr error
	}{
		{"pending to processing", order.StatusPending, order.StatusProcessing, nil},
		{"processing to shipped", order.StatusProcessing, order.StatusShipped, nil},
		{"shipped to delivered", order.StatusShipped, order.StatusDelivered, nil},
		{"pending to canceled", order.StatusPending, order.StatusCanceled, nil},
		{"pending to delivered", order.StatusPending, order.StatusDelivered, order.ErrInvalidTransition},
		{"delivered to pending", order.StatusDelivered, order.StatusPending, order.ErrInvalidTransition},
		{"shipped to canceled", order.StatusShipped, order.StatusCanceled, order.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			seedMenu(store)
			o := createTestOrder(t, svc, []NewLine{
				{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
			})

			stored := store.orders[o.ID]
			stored.Status = tt.from
			store.orders[o.ID] = stored

			updated, err := svc.UpdateOrder(context.Background(), o.ID, OrderPatch{
				Status: &tt.to,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if got := store.orders[o.ID].Status; got != tt.from {
					t.Errorf("status = %s, want %s untouched", got, tt.from)
				}

				return
			}
			if err != nil {
				t.Fatalf("UpdateOrder: %v", err)
			}
			if updated.Status != tt.to {
				t.Errorf("status = %s, want %s", updated.Status, tt.to)
			}
		})
	}
}

func TestUpdateOrderMetadata(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
	})

	updated, err := svc.UpdateOrder(context.Background(), o.ID, OrderPatch{
		DeliveryAddress: ptr("9 Elm St"),
		IsPaid:          ptr(true),
	})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	if updated.DeliveryAddress != "9 Elm St" || !updated.IsPaid {
		t.Errorf("metadata patch not applied: %+v", updated)
	}
	if updated.Status != order.StatusPending {
		t.Errorf("status = %s, want pending untouched", updated.Status)
	}
	if got := store.orders[o.ID].DeliveryAddress; got != "9 Elm St" {
		t.Errorf("stored address = %q, want persisted patch", got)
	}
}

func TestGetOrderAttachesLines(t *testing.T) {
	svc, store := newTestService(t)
	seedMenu(store)
	o := createTestOrder(t, svc, []NewLine{
		{MenuItemID: 1, Size: menuitem.SizeSmall, Quantity: 1},
		{MenuItemID: 2, Size: menuitem.SizeSmall, Quantity: 2},
	})

	got, err := svc.GetOrder(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if len(got.Lines) != 2 {
		t.Errorf("lines = %d, want 2", len(got.Lines))
	}

	_, err = svc.GetOrder(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing order: err = %v, want ErrNotFound", err)
	}
}
