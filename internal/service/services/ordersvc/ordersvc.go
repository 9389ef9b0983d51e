package ordersvc

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	imenuitem "github.com/pizzanova/order/internal/dal/interfaces/menuitem"
	iorder "github.com/pizzanova/order/internal/dal/interfaces/order"
	iorderline "github.com/pizzanova/order/internal/dal/interfaces/orderline"
	ioutbox "github.com/pizzanova/order/internal/dal/interfaces/outbox"
	"github.com/pizzanova/order/internal/dal/postgres"
	"github.com/pizzanova/order/internal/dal/uow"
)

var (
	// ErrNotFound is returned when a referenced order, line or menu item
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyOrder is returned when an order is created without lines.
	ErrEmptyOrder = errors.New("order must contain at least one line")

	// ErrInvalidQuantity is returned for quantities below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrCannotRemoveLastLine is returned when removing the sole remaining
	// line of an order; the caller must cancel the order instead.
	ErrCannotRemoveLastLine = errors.New("cannot remove the last line of an order")
)

// OrderService owns the order aggregate: it is the only writer of orders and
// their lines, and keeps total_amount equal to the sum of line subtotals
// inside every transaction it commits.
type OrderService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
	tracer   trace.Tracer
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorder.PostgresRepository
	OrderLineRepository() iorderline.PostgresRepository
	MenuItemRepository() imenuitem.PostgresRepository
	OutboxRepository() ioutbox.Repository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		tracer: otel.Tracer("ordersvc"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("ordersvc: no unit of work source configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit of work source. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// notFound converts storage-level row absence into the service sentinel.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	return err
}
