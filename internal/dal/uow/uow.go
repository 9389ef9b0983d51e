package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	imenuitem "github.com/pizzanova/order/internal/dal/interfaces/menuitem"
	iorder "github.com/pizzanova/order/internal/dal/interfaces/order"
	iorderline "github.com/pizzanova/order/internal/dal/interfaces/orderline"
	ioutbox "github.com/pizzanova/order/internal/dal/interfaces/outbox"
	"github.com/pizzanova/order/internal/dal/postgres"
	menuitemrepo "github.com/pizzanova/order/internal/dal/repositories/menuitem/postgres"
	orderrepo "github.com/pizzanova/order/internal/dal/repositories/order/postgres"
	orderlinerepo "github.com/pizzanova/order/internal/dal/repositories/orderline/postgres"
	outboxrepo "github.com/pizzanova/order/internal/dal/repositories/outbox/postgres"
)

// unitOfWork groups the repositories behind one connection. After Begin, all
// repositories run on the same transaction until Commit or Rollback.
type unitOfWork struct {
	client *postgres.Client
	tx     pgx.Tx

	orderRepo     iorder.PostgresRepository
	orderLineRepo iorderline.PostgresRepository
	menuItemRepo  imenuitem.PostgresRepository
	outboxRepo    ioutbox.Repository
}

// NewUnitOfWork creates a unit of work running on the pool until Begin is
// called.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	u := &unitOfWork{client: client}
	u.bind(client.Pool())

	return u
}

func (u *unitOfWork) bind(conn postgres.GenericConn) {
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderLineRepo = orderlinerepo.NewPostgresOrderLineRepository(conn)
	u.menuItemRepo = menuitemrepo.NewPostgresMenuItemRepository(conn)
	u.outboxRepo = outboxrepo.NewOutboxRepository(conn)
}

func (u *unitOfWork) OrderRepository() iorder.PostgresRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderLineRepository() iorderline.PostgresRepository {
	return u.orderLineRepo
}

func (u *unitOfWork) MenuItemRepository() imenuitem.PostgresRepository {
	return u.menuItemRepo
}

func (u *unitOfWork) OutboxRepository() ioutbox.Repository {
	return u.outboxRepo
}

// Begin starts a transaction and rebinds all repositories onto it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

// Rollback aborts the transaction. Safe to defer after Commit: pgx reports
// ErrTxClosed, which is swallowed here.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	if err := u.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return err
	}

	return nil
}
