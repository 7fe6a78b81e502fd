package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"techshop-backend/internal/models"
)

type MySQLWishlists struct {
	DB *sql.DB
}

func NewMySQLWishlists(db *sql.DB) *MySQLWishlists {
	return &MySQLWishlists{DB: db}
}

func (r *MySQLWishlists) Add(ctx context.Context, userID, productID int64) error {
	query := "INSERT INTO wishlist_items (user_id, product_id, added_at) VALUES (?, ?, ?)"
	_, err := r.DB.ExecContext(ctx, query, userID, productID, time.Now())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return fmt.Errorf("product %d: %w", productID, ErrDuplicate)
		}
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *MySQLWishlists) Remove(ctx context.Context, userID, productID int64) error {
	result, err := r.DB.ExecContext(ctx,
		"DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?", userID, productID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return nil
}

func (r *MySQLWishlists) List(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	query := `
		SELECT id, user_id, product_id, added_at
		FROM wishlist_items
		WHERE user_id = ?
		ORDER BY added_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	var items []models.WishlistItem
	for rows.Next() {
		var item models.WishlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MySQLWishlists) Count(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wishlist_items WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count wishlist: %w", err)
	}
	return count, nil
}

var _ Wishlists = (*MySQLWishlists)(nil)
var _ Orders = (*MySQLOrders)(nil)
var _ Users = (*MySQLUsers)(nil)
var _ Products = (*MySQLProducts)(nil)
