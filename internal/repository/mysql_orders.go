package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"techshop-backend/internal/models"
)

type MySQLOrders struct {
	DB *sql.DB
}

func NewMySQLOrders(db *sql.DB) *MySQLOrders {
	return &MySQLOrders{DB: db}
}

const orderColumns = "id, user_id, customer_name, customer_phone, customer_city, customer_address, payment_method, status, total, created_at, updated_at"

func scanOrder(row interface{ Scan(...any) error }, o *models.Order) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerCity,
		&o.CustomerAddr,
		&o.PaymentMethod,
		&o.Status,
		&o.Total,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// Checkout runs the whole order pipeline in one serializable transaction:
// lock the product rows, verify stock, snapshot prices into order items,
// decrement stock, insert the order. Any failure rolls the whole thing back.
func (r *MySQLOrders) Checkout(ctx context.Context, info CustomerInfo, lines []CheckoutLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	order := &models.Order{
		UserID:        info.UserID,
		CustomerName:  info.Name,
		CustomerPhone: info.Phone,
		CustomerCity:  info.City,
		CustomerAddr:  info.Address,
		PaymentMethod: "cash_on_delivery",
		Status:        models.StatusProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, line := range lines {
		var (
			name  string
			price float64
			stock int
		)
		err := tx.QueryRowContext(ctx,
			"SELECT name, price, stock FROM products WHERE id = ? FOR UPDATE", line.ProductID).
			Scan(&name, &price, &stock)
		if errors.Is(err, sql.ErrNoRows) {
			// Product vanished between cart-add and checkout; drop the line.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lock product %d: %w", line.ProductID, err)
		}

		if stock < line.Quantity {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, ErrInsufficientStock)
		}

		lineTotal := price * float64(line.Quantity)
		order.Total += lineTotal
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: name,
			Quantity:    line.Quantity,
			UnitPrice:   price,
			LineTotal:   lineTotal,
			CreatedAt:   now,
		})
	}

	if len(order.Items) == 0 {
		return nil, ErrEmptyCart
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, customer_name, customer_phone, customer_city, customer_address, payment_method, status, total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.UserID, order.CustomerName, order.CustomerPhone, order.CustomerCity, order.CustomerAddr,
		order.PaymentMethod, order.Status, order.Total, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	order.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		res, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, line_total, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.LineTotal, item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		item.ID, _ = res.LastInsertId()

		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ?",
			item.Quantity, now, item.ProductID); err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return order, nil
}

func (r *MySQLOrders) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	row := r.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *MySQLOrders) Track(ctx context.Context, id int64, phone string) (*models.Order, error) {
	var orderID int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM orders WHERE id = ? AND customer_phone = ?", id, phone).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("track order: %w", err)
	}
	return r.GetByID(ctx, orderID)
}

func (r *MySQLOrders) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *MySQLOrders) ListByCustomer(ctx context.Context, userID int64, phone string) ([]models.Order, error) {
	query := "SELECT " + orderColumns + ` FROM orders
		WHERE (user_id <> 0 AND user_id = ?) OR (customer_phone <> '' AND customer_phone = ?)
		ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID, phone)
}

func (r *MySQLOrders) List(ctx context.Context) ([]models.Order, error) {
	return r.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")
}

// UpdateStatus locks the order row, checks the transition graph, then writes
// the new status.
func (r *MySQLOrders) UpdateStatus(ctx context.Context, id int64, next models.OrderStatus) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback()

	var current models.OrderStatus
	err = tx.QueryRowContext(ctx, "SELECT status FROM orders WHERE id = ? FOR UPDATE", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock order: %w", err)
	}

	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", current, next, ErrInvalidTransition)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ?", next, time.Now(), id); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	return tx.Commit()
}

func (r *MySQLOrders) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var revenue sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*), SUM(total) FROM orders").Scan(&stats.TotalOrders, &revenue)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	stats.TotalRevenue = revenue.Float64 // 0.0 when there are no orders
	return &stats, nil
}

func (r *MySQLOrders) items(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, line_total, created_at
		FROM order_items
		WHERE order_id = ?
		ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
