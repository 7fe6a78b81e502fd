package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/gosimple/slug"

	"techshop-backend/internal/models"
)

// MySQLProducts implements Products on the shared connection pool.
type MySQLProducts struct {
	DB *sql.DB
}

func NewMySQLProducts(db *sql.DB) *MySQLProducts {
	return &MySQLProducts{DB: db}
}

const productColumns = "id, name, slug, price, category, image, description, stock, created_at, updated_at"

func scanProduct(row interface{ Scan(...any) error }, p *models.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Price,
		&p.Category,
		&p.Image,
		&p.Description,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *MySQLProducts) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *MySQLProducts) List(ctx context.Context) ([]models.Product, error) {
	return r.queryProducts(ctx, "SELECT "+productColumns+" FROM products ORDER BY id ASC")
}

func (r *MySQLProducts) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE LOWER(category) = LOWER(?) ORDER BY id ASC"
	return r.queryProducts(ctx, query, category)
}

func (r *MySQLProducts) Search(ctx context.Context, q string) ([]models.Product, error) {
	like := "%" + q + "%"
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE name LIKE ? OR description LIKE ? OR category LIKE ?
		ORDER BY id ASC`
	return r.queryProducts(ctx, query, like, like, like)
}

func (r *MySQLProducts) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	row := r.DB.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *MySQLProducts) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT DISTINCT category FROM products ORDER BY category ASC")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *MySQLProducts) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.Slug = slug.Make(p.Name)
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO products (name, slug, price, category, image, description, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.DB.ExecContext(ctx, query,
		p.Name, p.Slug, p.Price, p.Category, p.Image, p.Description, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	p.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *MySQLProducts) Update(ctx context.Context, p *models.Product) error {
	p.Slug = slug.Make(p.Name)
	p.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = ?, slug = ?, price = ?, category = ?, image = ?, description = ?, stock = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, query,
		p.Name, p.Slug, p.Price, p.Category, p.Image, p.Description, p.Stock, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		// Either the ID is unknown or nothing changed; re-check so a no-op
		// update on an existing product is not reported as missing.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MySQLProducts) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *MySQLProducts) UpsertReview(ctx context.Context, review *models.Review) error {
	review.CreatedAt = time.Now()

	// One review per (product, user); a repeat submission replaces it.
	query := `
		INSERT INTO reviews (product_id, user_id, user_name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			user_name = VALUES(user_name),
			rating = VALUES(rating),
			comment = VALUES(comment),
			created_at = VALUES(created_at)`
	_, err := r.DB.ExecContext(ctx, query,
		review.ProductID, review.UserID, review.UserName, review.Rating, review.Comment, review.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		// 1452: the product_id foreign key failed, i.e. no such product.
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1452 {
			return fmt.Errorf("product %d: %w", review.ProductID, ErrNotFound)
		}
		return fmt.Errorf("upsert review: %w", err)
	}
	return nil
}

func (r *MySQLProducts) Reviews(ctx context.Context, productID int64) ([]models.Review, error) {
	query := `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at
		FROM reviews
		WHERE product_id = ?
		ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.UserName, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
