package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pizzanova/order/internal/dal/postgres"
	"github.com/pizzanova/order/internal/service/models/menuitem"
)

// MenuItemDal represents the menu item data access layer model.
type MenuItemDal struct {
	Id               int64     `db:"id"`
	Name             string    `db:"name"`
	Category         string    `db:"category"`
	PriceSmallCents  *int64    `db:"price_small_cents"`
	PriceMediumCents *int64    `db:"price_medium_cents"`
	PriceLargeCents  *int64    `db:"price_large_cents"`
	IsAvailable      bool      `db:"is_available"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ToModel converts MenuItemDal to the service layer MenuItem model.
func (m *MenuItemDal) ToModel() (*menuitem.MenuItem, error) {
	category, err := menuitem.ParseCategory(m.Category)
	if err != nil {
		return nil, err
	}

	return &menuitem.MenuItem{
		ID:               m.Id,
		Name:             m.Name,
		Category:         category,
		PriceSmallCents:  m.PriceSmallCents,
		PriceMediumCents: m.PriceMediumCents,
		PriceLargeCents:  m.PriceLargeCents,
		IsAvailable:      m.IsAvailable,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

var menuItemColumns = []string{
	"id",
	"name",
	"category",
	"price_small_cents",
	"price_medium_cents",
	"price_large_cents",
	"is_available",
	"created_at",
	"updated_at",
}

// PostgresMenuItemRepository represents a Postgres menu item repository.
type PostgresMenuItemRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresMenuItemRepository creates a new Postgres menu item repository.
func NewPostgresMenuItemRepository(conn postgres.GenericConn) *PostgresMenuItemRepository {
	return &PostgresMenuItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanMenuItem(row pgx.Row) (*menuitem.MenuItem, error) {
	var dal MenuItemDal
	err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Category,
		&dal.PriceSmallCents,
		&dal.PriceMediumCents,
		&dal.PriceLargeCents,
		&dal.IsAvailable,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// GetByID retrieves a single menu item. Returns pgx.ErrNoRows when absent.
func (r *PostgresMenuItemRepository) GetByID(ctx context.Context, id int64) (*menuitem.MenuItem, error) {
	sql, args, err := r.sb.
		Select(menuItemColumns...).
		From("menu_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	item, err := scanMenuItem(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return item, nil
}

// Query retrieves menu items based on filter criteria.
func (r *PostgresMenuItemRepository) Query(
	ctx context.Context,
	filter *menuitem.QueryMenuItemsModel,
) ([]menuitem.MenuItem, error) {
	query := r.sb.
		Select(menuItemColumns...).
		From("menu_items").
		OrderBy("id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.Categories) > 0 {
		categories := make([]string, len(filter.Categories))
		for i, c := range filter.Categories {
			categories[i] = c.String()
		}
		query = query.Where(sq.Eq{"category": categories})
	}

	if filter.OnlyAvailable {
		query = query.Where(sq.Eq{"is_available": true})
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
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var result []menuitem.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		result = append(result, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
