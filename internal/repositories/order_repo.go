package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"padoca/internal/models"
)

type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order, afterInsert func(*models.Order) error) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderListFilter) ([]*models.Order, error)
	Count(ctx context.Context, filter models.OrderListFilter) (int, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	SoftDelete(ctx context.Context, id int64) error
	ListStaleDrafts(ctx context.Context, olderThan time.Time, limit int) ([]*models.Order, error)
	CountByStatus(ctx context.Context, status models.OrderStatus) (int, error)
}

type orderRepository struct {
	db Database
}

func NewOrderRepository(db Database) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems inserts the order and its items in one transaction. When
// afterInsert is non-nil it runs before commit with the ids already assigned;
// any error it returns rolls the whole insert back. The hook is where the
// order document gets generated, so a failed upload leaves no orphan order.
// When the hook sets PDFPath/PDFURL they are persisted before commit.
func (r *orderRepository) CreateWithItems(ctx context.Context, order *models.Order, afterInsert func(*models.Order) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO orders (client_id, status, total_value)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query, order.ClientID, order.Status, order.TotalValue).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	for _, item := range order.Items {
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, itemQuery, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal).
			Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if afterInsert != nil {
		if err := afterInsert(order); err != nil {
			return fmt.Errorf("order post-insert step failed: %w", err)
		}
		if order.PDFPath != nil {
			_, err = tx.Exec(ctx, `UPDATE orders SET pdf_path = $1, pdf_url = $2, updated_at = NOW() WHERE id = $3`,
				order.PDFPath, order.PDFURL, order.ID)
			if err != nil {
				return fmt.Errorf("failed to store order document reference: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// GetByID fetches an order with its items. Returns (nil, nil) when the order
// does not exist or is soft-deleted.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT id, client_id, status, total_value, pdf_path, pdf_url, created_at, updated_at, deleted_at
		FROM orders
		WHERE id = $1 AND deleted_at IS NULL`
	var order models.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.ClientID, &order.Status, &order.TotalValue,
		&order.PDFPath, &order.PDFURL, &order.CreatedAt, &order.UpdatedAt, &order.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	query := `SELECT id, order_id, product_id, quantity, unit_price, subtotal, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func buildOrderFilter(filter models.OrderListFilter) (string, []any) {
	conditions := []string{"deleted_at IS NULL"}
	var args []any
	argPos := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argPos))
		args = append(args, *filter.ClientID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *filter.CreatedFrom)
		argPos++
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *filter.CreatedTo)
		argPos++
	}
	return strings.Join(conditions, " AND "), args
}

// List returns a page of orders matching the filter, newest first. Items are
// not loaded here; listing is a summary view.
func (r *orderRepository) List(ctx context.Context, filter models.OrderListFilter) ([]*models.Order, error) {
	where, args := buildOrderFilter(filter)
	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`SELECT id, client_id, status, total_value, pdf_path, pdf_url, created_at, updated_at, deleted_at
		FROM orders
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(&order.ID, &order.ClientID, &order.Status, &order.TotalValue,
			&order.PDFPath, &order.PDFURL, &order.CreatedAt, &order.UpdatedAt, &order.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

// Count returns the total number of orders matching the filter, ignoring
// pagination.
func (r *orderRepository) Count(ctx context.Context, filter models.OrderListFilter) (int, error) {
	where, args := buildOrderFilter(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM orders WHERE %s`, where)

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// UpdateStatus persists a status change. The caller decides whether the
// transition is legal; last writer wins on concurrent updates.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found for status update", id)
	}
	return nil
}

// SoftDelete marks the order deleted and forces its status to CANCELADO. The
// forced cancel deliberately skips the transition rules.
func (r *orderRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE orders SET deleted_at = NOW(), status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, models.StatusCancelado, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found for deletion", id)
	}
	return nil
}

// ListStaleDrafts returns drafts untouched since the cutoff, oldest first.
// Used by the background sweep that expires abandoned drafts.
func (r *orderRepository) ListStaleDrafts(ctx context.Context, olderThan time.Time, limit int) ([]*models.Order, error) {
	query := `SELECT id, client_id, status, total_value, pdf_path, pdf_url, created_at, updated_at, deleted_at
		FROM orders
		WHERE status = $1 AND deleted_at IS NULL AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3`
	rows, err := r.db.Query(ctx, query, models.StatusRascunho, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale drafts: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(&order.ID, &order.ClientID, &order.Status, &order.TotalValue,
			&order.PDFPath, &order.PDFURL, &order.CreatedAt, &order.UpdatedAt, &order.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale draft: %w", err)
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

// CountByStatus returns how many live orders sit in the given status. Used by
// the pending-order alert job.
func (r *orderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1 AND deleted_at IS NULL`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return count, nil
}
