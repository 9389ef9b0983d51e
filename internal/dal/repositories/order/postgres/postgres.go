package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pizzanova/order/internal/dal/postgres"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/models/orderline"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id              int64      `db:"id"`
	ClientId        *int64     `db:"client_id"`
	Status          string     `db:"status"`
	TotalCents      int64      `db:"total_amount_cents"`
	DeliveryAddress string     `db:"delivery_address"`
	ContactPhone    string     `db:"contact_phone"`
	PaymentMethod   string     `db:"payment_method"`
	DeliveryTime    *time.Time `db:"delivery_time"`
	Notes           string     `db:"notes"`
	IsPaid          bool       `db:"is_paid"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:              o.Id,
		ClientID:        o.ClientId,
		Status:          status,
		TotalCents:      o.TotalCents,
		DeliveryAddress: o.DeliveryAddress,
		ContactPhone:    o.ContactPhone,
		PaymentMethod:   o.PaymentMethod,
		DeliveryTime:    o.DeliveryTime,
		Notes:           o.Notes,
		IsPaid:          o.IsPaid,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Lines:           []orderline.OrderLine{}, // populated separately
	}, nil
}

var orderColumns = []string{
	"id",
	"client_id",
	"status",
	"total_amount_cents",
	"delivery_address",
	"contact_phone",
	"payment_method",
	"delivery_time",
	"notes",
	"is_paid",
	"created_at",
	"updated_at",
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.ClientId,
		&dal.Status,
		&dal.TotalCents,
		&dal.DeliveryAddress,
		&dal.ContactPhone,
		&dal.PaymentMethod,
		&dal.DeliveryTime,
		&dal.Notes,
		&dal.IsPaid,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// Insert stores a new order and returns it with the generated id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns(
			"client_id",
			"status",
			"total_amount_cents",
			"delivery_address",
			"contact_phone",
			"payment_method",
			"delivery_time",
			"notes",
			"is_paid",
			"created_at",
			"updated_at",
		).
		Values(
			o.ClientID,
			o.Status.String(),
			o.TotalCents,
			o.DeliveryAddress,
			o.ContactPhone,
			o.PaymentMethod,
			o.DeliveryTime,
			o.Notes,
			o.IsPaid,
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return inserted, nil
}

func (r *PostgresOrderRepository) getByID(ctx context.Context, id int64, forUpdate bool) (*order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id})

	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	o, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

// GetByID retrieves a single order without its lines.
// Returns pgx.ErrNoRows when absent.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves the order and locks its row until the enclosing
// transaction finishes.
func (r *PostgresOrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	return r.getByID(ctx, id, true)
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.ClientIds) > 0 {
		query = query.Where(sq.Eq{"client_id": filter.ClientIds})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		query = query.Where(sq.Eq{"status": statuses})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Update persists status and metadata changes of an existing order.
func (r *PostgresOrderRepository) Update(ctx context.Context, o order.Order) error {
	sql, args, err := r.sb.
		Update("orders").
		Set("status", o.Status.String()).
		Set("delivery_address", o.DeliveryAddress).
		Set("contact_phone", o.ContactPhone).
		Set("payment_method", o.PaymentMethod).
		Set("delivery_time", o.DeliveryTime).
		Set("notes", o.Notes).
		Set("is_paid", o.IsPaid).
		Set("updated_at", o.UpdatedAt).
		Where(sq.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// UpdateTotal writes the recomputed order total.
func (r *PostgresOrderRepository) UpdateTotal(
	ctx context.Context,
	id int64,
	totalCents int64,
	updatedAt time.Time,
) error {
	sql, args, err := r.sb.
		Update("orders").
		Set("total_amount_cents", totalCents).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
