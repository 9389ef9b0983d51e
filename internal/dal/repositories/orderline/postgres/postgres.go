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
	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/orderline"
)

// OrderLineDal represents the order line data access layer model.
type OrderLineDal struct {
	Id                  int64     `db:"id"`
	OrderId             int64     `db:"order_id"`
	MenuItemId          int64     `db:"menu_item_id"`
	Size                string    `db:"size"`
	Quantity            int       `db:"quantity"`
	UnitPriceCents      int64     `db:"unit_price_cents"`
	SubtotalCents       int64     `db:"subtotal_cents"`
	SpecialInstructions string    `db:"special_instructions"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// ToModel converts OrderLineDal to the service layer OrderLine model.
func (l *OrderLineDal) ToModel() (*orderline.OrderLine, error) {
	size, err := menuitem.ParseSize(l.Size)
	if err != nil {
		return nil, err
	}

	return &orderline.OrderLine{
		ID:                  l.Id,
		OrderID:             l.OrderId,
		MenuItemID:          l.MenuItemId,
		Size:                size,
		Quantity:            l.Quantity,
		UnitPriceCents:      l.UnitPriceCents,
		SubtotalCents:       l.SubtotalCents,
		SpecialInstructions: l.SpecialInstructions,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}, nil
}

var orderLineColumns = []string{
	"id",
	"order_id",
	"menu_item_id",
	"size",
	"quantity",
	"unit_price_cents",
	"subtotal_cents",
	"special_instructions",
	"created_at",
	"updated_at",
}

// PostgresOrderLineRepository represents a Postgres order line repository.
type PostgresOrderLineRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderLineRepository creates a new Postgres order line repository.
func NewPostgresOrderLineRepository(conn postgres.GenericConn) *PostgresOrderLineRepository {
	return &PostgresOrderLineRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanOrderLine(row pgx.Row) (*orderline.OrderLine, error) {
	var dal OrderLineDal
	err := row.Scan(
		&dal.Id,
		&dal.OrderId,
		&dal.MenuItemId,
		&dal.Size,
		&dal.Quantity,
		&dal.UnitPriceCents,
		&dal.SubtotalCents,
		&dal.SpecialInstructions,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

func (r *PostgresOrderLineRepository) insertBuilder(line orderline.OrderLine) sq.InsertBuilder {
	return r.sb.
		Insert("order_lines").
		Columns(
			"order_id",
			"menu_item_id",
			"size",
			"quantity",
			"unit_price_cents",
			"subtotal_cents",
			"special_instructions",
			"created_at",
			"updated_at",
		).
		Values(
			line.OrderID,
			line.MenuItemID,
			line.Size.String(),
			line.Quantity,
			line.UnitPriceCents,
			line.SubtotalCents,
			line.SpecialInstructions,
			line.CreatedAt,
			line.UpdatedAt,
		)
}

// Insert stores a new order line and returns it with the generated id.
func (r *PostgresOrderLineRepository) Insert(
	ctx context.Context,
	line orderline.OrderLine,
) (*orderline.OrderLine, error) {
	sql, args, err := r.insertBuilder(line).
		Suffix("RETURNING " + strings.Join(orderLineColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := scanOrderLine(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order line: %w", err)
	}

	return inserted, nil
}

// BulkInsert inserts multiple order lines and returns them with generated ids.
func (r *PostgresOrderLineRepository) BulkInsert(
	ctx context.Context,
	lines []orderline.OrderLine,
) ([]orderline.OrderLine, error) {
	if len(lines) == 0 {
		return []orderline.OrderLine{}, nil
	}

	builder := r.insertBuilder(lines[0])
	for _, line := range lines[1:] {
		builder = builder.Values(
			line.OrderID,
			line.MenuItemID,
			line.Size.String(),
			line.Quantity,
			line.UnitPriceCents,
			line.SubtotalCents,
			line.SpecialInstructions,
			line.CreatedAt,
			line.UpdatedAt,
		)
	}

	sql, args, err := builder.
		Suffix("RETURNING " + strings.Join(orderLineColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order lines: %w", err)
	}
	defer rows.Close()

	var result []orderline.OrderLine
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		result = append(result, *line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetByID retrieves a single order line. Returns pgx.ErrNoRows when absent.
func (r *PostgresOrderLineRepository) GetByID(ctx context.Context, id int64) (*orderline.OrderLine, error) {
	sql, args, err := r.sb.
		Select(orderLineColumns...).
		From("order_lines").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	line, err := scanOrderLine(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get order line: %w", err)
	}

	return line, nil
}

// FindMatch looks up the line with the same menu item and size on the order.
// Returns nil without error when no such line exists.
func (r *PostgresOrderLineRepository) FindMatch(
	ctx context.Context,
	orderID, menuItemID int64,
	size menuitem.Size,
) (*orderline.OrderLine, error) {
	sql, args, err := r.sb.
		Select(orderLineColumns...).
		From("order_lines").
		Where(sq.Eq{
			"order_id":     orderID,
			"menu_item_id": menuItemID,
			"size":         size.String(),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	line, err := scanOrderLine(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to find matching order line: %w", err)
	}

	return line, nil
}

// Update persists quantity, size, price and instruction changes of a line.
func (r *PostgresOrderLineRepository) Update(ctx context.Context, line orderline.OrderLine) error {
	sql, args, err := r.sb.
		Update("order_lines").
		Set("size", line.Size.String()).
		Set("quantity", line.Quantity).
		Set("unit_price_cents", line.UnitPriceCents).
		Set("subtotal_cents", line.SubtotalCents).
		Set("special_instructions", line.SpecialInstructions).
		Set("updated_at", line.UpdatedAt).
		Where(sq.Eq{"id": line.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete removes an order line.
func (r *PostgresOrderLineRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.
		Delete("order_lines").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// CountByOrder returns the number of lines on an order.
func (r *PostgresOrderLineRepository) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	sql, args, err := r.sb.
		Select("COUNT(*)").
		From("order_lines").
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count order lines: %w", err)
	}

	return count, nil
}

// SumSubtotals re-sums the line subtotals of an order in SQL.
func (r *PostgresOrderLineRepository) SumSubtotals(ctx context.Context, orderID int64) (int64, error) {
	sql, args, err := r.sb.
		Select("COALESCE(SUM(subtotal_cents), 0)").
		From("order_lines").
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var total int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum order line subtotals: %w", err)
	}

	return total, nil
}

// Query retrieves order lines based on filter criteria.
func (r *PostgresOrderLineRepository) Query(
	ctx context.Context,
	filter *orderline.QueryOrderLinesModel,
) ([]orderline.OrderLine, error) {
	query := r.sb.
		Select(orderLineColumns...).
		From("order_lines").
		OrderBy("id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.OrderIds})
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
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var result []orderline.OrderLine
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		result = append(result, *line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
