// Package repository is the storage layer: one interface per entity type,
// a MySQL implementation of each, and in-memory fakes for tests. The old
// read-whole-file/write-whole-file discipline is gone; every operation is a
// per-record statement, and checkout runs in a single serializable
// transaction so stock can never go negative.
package repository

import (
	"context"
	"errors"

	"techshop-backend/internal/models"
)

var (
	// ErrNotFound covers unknown product/order/user IDs.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate covers repeat wishlist entries and already-registered emails.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInsufficientStock is returned when an order asks for more units than
	// are on hand. The caller's cart is left untouched.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrEmptyCart rejects checkout with no resolvable lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition rejects an order status change the transition
	// graph does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Products is the catalog. Create and Update replace every field the admin
// console exposes; Delete removes the product and cascades its reviews.
type Products interface {
	List(ctx context.Context) ([]models.Product, error)
	ByCategory(ctx context.Context, category string) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
	UpsertReview(ctx context.Context, review *models.Review) error
	Reviews(ctx context.Context, productID int64) ([]models.Review, error)
}

type Users interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByLogin matches email first, then phone, the way the login form
	// accepts either.
	GetByLogin(ctx context.Context, emailOrPhone string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	// HasAdmin reports whether any admin account exists yet.
	HasAdmin(ctx context.Context) (bool, error)
}

// CheckoutLine is one cart line handed to Orders.Checkout. Prices are
// resolved from the catalog inside the checkout transaction.
type CheckoutLine struct {
	ProductID int64
	Quantity  int
}

// CustomerInfo is the shipping form captured at checkout.
type CustomerInfo struct {
	UserID  int64
	Name    string
	Phone   string
	City    string
	Address string
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalOrders  int     `json:"totalOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type Orders interface {
	// Checkout atomically resolves each line at the current catalog price,
	// verifies and decrements stock, and persists the order with snapshotted
	// items. Lines whose product has vanished are dropped; if nothing
	// remains it fails with ErrEmptyCart. On ErrInsufficientStock nothing is
	// persisted.
	Checkout(ctx context.Context, info CustomerInfo, lines []CheckoutLine) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	// Track finds an order only when both the ID and the customer phone match.
	Track(ctx context.Context, id int64, phone string) (*models.Order, error)
	// ListByCustomer matches orders by owning user ID or customer phone,
	// newest first. Items are not attached.
	ListByCustomer(ctx context.Context, userID int64, phone string) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	// UpdateStatus enforces the transition graph and fails with
	// ErrInvalidTransition otherwise.
	UpdateStatus(ctx context.Context, id int64, next models.OrderStatus) error
	Stats(ctx context.Context) (*Stats, error)
}

type Wishlists interface {
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
	List(ctx context.Context, userID int64) ([]models.WishlistItem, error)
	Count(ctx context.Context, userID int64) (int, error)
}
