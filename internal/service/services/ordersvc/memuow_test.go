package ordersvc

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	imenuitem "github.com/pizzanova/order/internal/dal/interfaces/menuitem"
	iorder "github.com/pizzanova/order/internal/dal/interfaces/order"
	iorderline "github.com/pizzanova/order/internal/dal/interfaces/orderline"
	ioutbox "github.com/pizzanova/order/internal/dal/interfaces/outbox"
	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
	"github.com/pizzanova/order/internal/service/models/outbox"
)

// memStore is an in-memory stand-in for the database, shared by all units of
// work a test service hands out.
type memStore struct {
	nextOrderID int64
	nextLineID  int64
	menuItems   map[int64]menuitem.MenuItem
	orders      map[int64]order.Order
	lines       map[int64]orderline.OrderLine
	outbox      []outbox.Message
}

func newMemStore() *memStore {
	return &memStore{
		nextOrderID: 1,
		nextLineID:  1,
		menuItems:   make(map[int64]menuitem.MenuItem),
		orders:      make(map[int64]order.Order),
		lines:       make(map[int64]orderline.OrderLine),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.nextOrderID = s.nextOrderID
	c.nextLineID = s.nextLineID
	for k, v := range s.menuItems {
		c.menuItems[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	c.outbox = append([]outbox.Message(nil), s.outbox...)

	return c
}

// memUOW implements the unitOfWork interface with snapshot rollback, so
// atomicity tests can observe that failed operations leave no trace.
type memUOW struct {
	store     *memStore
	snapshot  *memStore
	committed bool
}

func newMemUOW(store *memStore) *memUOW {
	return &memUOW{store: store}
}

func (u *memUOW) Begin(ctx context.Context) error {
	u.snapshot = u.store.clone()

	return nil
}

func (u *memUOW) Commit(ctx context.Context) error {
	u.committed = true
	u.snapshot = nil

	return nil
}

func (u *memUOW) Rollback(ctx context.Context) error {
	if u.committed || u.snapshot == nil {
		return nil
	}
	*u.store = *u.snapshot
	u.snapshot = nil

	return nil
}

func (u *memUOW) OrderRepository() iorder.PostgresRepository {
	return &memOrderRepo{store: u.store}
}

func (u *memUOW) OrderLineRepository() iorderline.PostgresRepository {
	return &memOrderLineRepo{store: u.store}
}

func (u *memUOW) MenuItemRepository() imenuitem.PostgresRepository {
	return &memMenuItemRepo{store: u.store}
}

func (u *memUOW) OutboxRepository() ioutbox.Repository {
	return &memOutboxRepo{store: u.store}
}

type memMenuItemRepo struct {
	store *memStore
}

func (r *memMenuItemRepo) GetByID(ctx context.Context, id int64) (*menuitem.MenuItem, error) {
	item, ok := r.store.menuItems[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := item

	return &cp, nil
}

func (r *memMenuItemRepo) Query(
	ctx context.Context,
	filter *menuitem.QueryMenuItemsModel,
) ([]menuitem.MenuItem, error) {
	var result []menuitem.MenuItem
	for _, item := range r.store.menuItems {
		if filter.OnlyAvailable && !item.IsAvailable {
			continue
		}
		result = append(result, item)
	}

	return result, nil
}

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	o.ID = r.store.nextOrderID
	r.store.nextOrderID++
	stored := o
	stored.Lines = nil
	r.store.orders[o.ID] = stored

	return &o, nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := o

	return &cp, nil
}

func (r *memOrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrderRepo) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	var result []order.Order
	for _, o := range r.store.orders {
		result = append(result, o)
	}

	return result, nil
}

func (r *memOrderRepo) Update(ctx context.Context, o order.Order) error {
	if _, ok := r.store.orders[o.ID]; !ok {
		return pgx.ErrNoRows
	}
	o.Lines = nil
	r.store.orders[o.ID] = o

	return nil
}

func (r *memOrderRepo) UpdateTotal(
	ctx context.Context,
	id int64,
	totalCents int64,
	updatedAt time.Time,
) error {
	o, ok := r.store.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.TotalCents = totalCents
	o.UpdatedAt = updatedAt
	r.store.orders[id] = o

	return nil
}

type memOrderLineRepo struct {
	store *memStore
}

func (r *memOrderLineRepo) Insert(
	ctx context.Context,
	line orderline.OrderLine,
) (*orderline.OrderLine, error) {
	line.ID = r.store.nextLineID
	r.store.nextLineID++
	r.store.lines[line.ID] = line

	return &line, nil
}

func (r *memOrderLineRepo) BulkInsert(
	ctx context.Context,
	lines []orderline.OrderLine,
) ([]orderline.OrderLine, error) {
	result := make([]orderline.OrderLine, 0, len(lines))
	for _, line := range lines {
		inserted, err := r.Insert(ctx, line)
		if err != nil {
			return nil, err
		}
		result = append(result, *inserted)
	}

	return result, nil
}

func (r *memOrderLineRepo) GetByID(ctx context.Context, id int64) (*orderline.OrderLine, error) {
	line, ok := r.store.lines[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := line

	return &cp, nil
}

func (r *memOrderLineRepo) FindMatch(
	ctx context.Context,
	orderID, menuItemID int64,
	size menuitem.Size,
) (*orderline.OrderLine, error) {
	for _, line := range r.store.lines {
		if line.OrderID == orderID && line.MenuItemID == menuItemID && line.Size == size {
			cp := line

			return &cp, nil
		}
	}

	return nil, nil
}

func (r *memOrderLineRepo) Update(ctx context.Context, line orderline.OrderLine) error {
	if _, ok := r.store.lines[line.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.store.lines[line.ID] = line

	return nil
}

func (r *memOrderLineRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.store.lines[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.lines, id)

	return nil
}

func (r *memOrderLineRepo) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	count := 0
	for _, line := range r.store.lines {
		if line.OrderID == orderID {
			count++
		}
	}

	return count, nil
}

func (r *memOrderLineRepo) SumSubtotals(ctx context.Context, orderID int64) (int64, error) {
	var total int64
	for _, line := range r.store.lines {
		if line.OrderID == orderID {
			total += line.SubtotalCents
		}
	}

	return total, nil
}

func (r *memOrderLineRepo) Query(
	ctx context.Context,
	filter *orderline.QueryOrderLinesModel,
) ([]orderline.OrderLine, error) {
	var result []orderline.OrderLine
	for _, line := range r.store.lines {
		for _, orderID := range filter.OrderIds {
			if line.OrderID == orderID {
				result = append(result, line)
			}
		}
	}

	return result, nil
}

type memOutboxRepo struct {
	store *memStore
}

func (r *memOutboxRepo) Insert(ctx context.Context, msg outbox.Message) error {
	msg.ID = int64(len(r.store.outbox) + 1)
	r.store.outbox = append(r.store.outbox, msg)

	return nil
}

func (r *memOutboxRepo) GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error) {
	return append([]outbox.Message(nil), r.store.outbox...), nil
}

func (r *memOutboxRepo) Delete(ctx context.Context, id int64) error {
	for i, msg := range r.store.outbox {
		if msg.ID == id {
			r.store.outbox = append(r.store.outbox[:i], r.store.outbox[i+1:]...)

			return nil
		}
	}

	return pgx.ErrNoRows
}

func (r *memOutboxRepo) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	for i := range r.store.outbox {
		if r.store.outbox[i].ID == id {
			r.store.outbox[i].RetryCount = retryCount
			r.store.outbox[i].LastError = lastError
			r.store.outbox[i].NextRetryAt = nextRetryAt

			return nil
		}
	}

	return pgx.ErrNoRows
}
