package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"

	"techshop-backend/internal/models"
)

// In-memory implementations of the repository interfaces. They back the test
// suite and mirror the MySQL semantics: copied values in and out, duplicate
// and not-found sentinels, atomic checkout.

type MemoryProducts struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]models.Product
	reviews  map[int64][]models.Review // by product ID
}

func NewMemoryProducts() *MemoryProducts {
	return &MemoryProducts{
		nextID:   1,
		products: map[int64]models.Product{},
		reviews:  map[int64][]models.Review{},
	}
}

func (r *MemoryProducts) sorted() []models.Product {
	products := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

func (r *MemoryProducts) List(context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(), nil
}

func (r *MemoryProducts) ByCategory(_ context.Context, category string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []models.Product
	for _, p := range r.sorted() {
		if strings.EqualFold(p.Category, category) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *MemoryProducts) Search(_ context.Context, query string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var products []models.Product
	for _, p := range r.sorted() {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *MemoryProducts) GetByID(_ context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (r *MemoryProducts) Categories(context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	var categories []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *MemoryProducts) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	p.ID = r.nextID
	r.nextID++
	p.Slug = slug.Make(p.Name)
	p.CreatedAt = now
	p.UpdatedAt = now
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryProducts) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return fmt.Errorf("product %d: %w", p.ID, ErrNotFound)
	}
	p.Slug = slug.Make(p.Name)
	p.UpdatedAt = time.Now()
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryProducts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	delete(r.reviews, id)
	return nil
}

func (r *MemoryProducts) UpsertReview(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[review.ProductID]; !ok {
		return fmt.Errorf("product %d: %w", review.ProductID, ErrNotFound)
	}

	review.CreatedAt = time.Now()
	reviews := r.reviews[review.ProductID]
	for i, existing := range reviews {
		if existing.UserID == review.UserID {
			review.ID = existing.ID
			reviews[i] = *review
			return nil
		}
	}
	review.ID = int64(len(reviews) + 1)
	r.reviews[review.ProductID] = append(reviews, *review)
	return nil
}

func (r *MemoryProducts) Reviews(_ context.Context, productID int64) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Review(nil), r.reviews[productID]...), nil
}

type MemoryUsers struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{nextID: 1, users: map[int64]models.User{}}
}

func (r *MemoryUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryUsers) GetByLogin(_ context.Context, emailOrPhone string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == emailOrPhone || (u.Phone != "" && u.Phone == emailOrPhone) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", emailOrPhone, ErrNotFound)
}

func (r *MemoryUsers) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
		}
	}

	now := time.Now()
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUsers) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user %d: %w", u.ID, ErrNotFound)
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Email == u.Email {
			return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
		}
	}
	u.UpdatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUsers) HasAdmin(context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

// MemoryOrders needs the product fake to resolve prices and decrement stock
// the way the MySQL checkout transaction does.
type MemoryOrders struct {
	mu       sync.Mutex
	nextID   int64
	orders   map[int64]models.Order
	Products *MemoryProducts
}

func NewMemoryOrders(products *MemoryProducts) *MemoryOrders {
	return &MemoryOrders{nextID: 1, orders: map[int64]models.Order{}, Products: products}
}

func (r *MemoryOrders) Checkout(_ context.Context, info CustomerInfo, lines []CheckoutLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Products.mu.Lock()
	defer r.Products.mu.Unlock()

	now := time.Now()
	order := models.Order{
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

	// First pass verifies every line so a failure leaves stock untouched.
	for _, line := range lines {
		p, ok := r.Products.products[line.ProductID]
		if !ok {
			continue
		}
		if p.Stock < line.Quantity {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, ErrInsufficientStock)
		}
		lineTotal := p.Price * float64(line.Quantity)
		order.Total += lineTotal
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			LineTotal:   lineTotal,
			CreatedAt:   now,
		})
	}

	if len(order.Items) == 0 {
		return nil, ErrEmptyCart
	}

	order.ID = r.nextID
	r.nextID++
	for i := range order.Items {
		item := &order.Items[i]
		item.ID = int64(i + 1)
		item.OrderID = order.ID

		p := r.Products.products[item.ProductID]
		p.Stock -= item.Quantity
		p.UpdatedAt = now
		r.Products.products[item.ProductID] = p
	}

	r.orders[order.ID] = order
	return &order, nil
}

func (r *MemoryOrders) GetByID(_ context.Context, id int64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return &o, nil
}

func (r *MemoryOrders) Track(ctx context.Context, id int64, phone string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.CustomerPhone != phone {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return &o, nil
}

func (r *MemoryOrders) sorted() []models.Order {
	orders := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders
}

func (r *MemoryOrders) ListByCustomer(_ context.Context, userID int64, phone string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []models.Order
	for _, o := range r.sorted() {
		if (userID != 0 && o.UserID == userID) || (phone != "" && o.CustomerPhone == phone) {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (r *MemoryOrders) List(context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *MemoryOrders) UpdateStatus(_ context.Context, id int64, next models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", o.Status, next, ErrInvalidTransition)
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	r.orders[id] = o
	return nil
}

func (r *MemoryOrders) Stats(context.Context) (*Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{TotalOrders: len(r.orders)}
	for _, o := range r.orders {
		stats.TotalRevenue += o.Total
	}
	return &stats, nil
}

type MemoryWishlists struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64][]models.WishlistItem // by user ID
}

func NewMemoryWishlists() *MemoryWishlists {
	return &MemoryWishlists{nextID: 1, items: map[int64][]models.WishlistItem{}}
}

func (r *MemoryWishlists) Add(_ context.Context, userID, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items[userID] {
		if item.ProductID == productID {
			return fmt.Errorf("product %d: %w", productID, ErrDuplicate)
		}
	}

	r.items[userID] = append(r.items[userID], models.WishlistItem{
		ID:        r.nextID,
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now(),
	})
	r.nextID++
	return nil
}

func (r *MemoryWishlists) Remove(_ context.Context, userID, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.items[userID]
	for i, item := range items {
		if item.ProductID == productID {
			r.items[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("product %d: %w", productID, ErrNotFound)
}

func (r *MemoryWishlists) List(_ context.Context, userID int64) ([]models.WishlistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.WishlistItem(nil), r.items[userID]...), nil
}

func (r *MemoryWishlists) Count(_ context.Context, userID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items[userID]), nil
}

var _ Products = (*MemoryProducts)(nil)
var _ Users = (*MemoryUsers)(nil)
var _ Orders = (*MemoryOrders)(nil)
var _ Wishlists = (*MemoryWishlists)(nil)
