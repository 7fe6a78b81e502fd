// Package cart implements the session cart: accumulation against live
// stock, line totals at current catalog prices, and the flat shipping rule.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"techshop-backend/internal/models"
	"techshop-backend/internal/repository"
	"techshop-backend/internal/session"
)

// Shipping is a fixed business rule: a flat 45 below the free-shipping
// threshold of 500, nothing at or above it.
const (
	FlatShippingFee       = 45.0
	FreeShippingThreshold = 500.0
)

// ShippingFee returns the shipping charge for a cart total.
func ShippingFee(total float64) float64 {
	if total < FreeShippingThreshold {
		return FlatShippingFee
	}
	return 0
}

// Line is one resolved cart row: the product joined with the session
// quantity, priced at the product's *current* price.
type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Total    float64        `json:"total"`
}

// Summary is the fully-resolved cart view handed to the rendering layer.
type Summary struct {
	Items             []Line  `json:"items"`
	Total             float64 `json:"total"`
	Shipping          float64 `json:"shipping"`
	TotalWithShipping float64 `json:"totalWithShipping"`
}

// Service mutates the session cart against the product catalog.
type Service struct {
	Products repository.Products
	Sessions session.Store
}

func NewService(products repository.Products, sessions session.Store) *Service {
	return &Service{Products: products, Sessions: sessions}
}

// Add puts quantity units of a product into the session cart, accumulating
// with any existing line. If the accumulated quantity would exceed current
// stock the cart is left unchanged and ErrInsufficientStock is returned.
// It returns the new total item count.
func (s *Service) Add(ctx context.Context, sessionID string, productID int64, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	product, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	if sess.Cart[productID]+quantity > product.Stock {
		return 0, fmt.Errorf("product %d: %w", productID, repository.ErrInsufficientStock)
	}

	sess.Cart[productID] += quantity
	if err := s.Sessions.Save(ctx, sessionID, sess); err != nil {
		return 0, err
	}
	return sess.CartCount(), nil
}

// Update sets a line's quantity outright. Zero or negative removes the line.
func (s *Service) Update(ctx context.Context, sessionID string, productID int64, quantity int) error {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if quantity <= 0 {
		delete(sess.Cart, productID)
		return s.Sessions.Save(ctx, sessionID, sess)
	}

	if _, ok := sess.Cart[productID]; !ok {
		return fmt.Errorf("product %d not in cart: %w", productID, repository.ErrNotFound)
	}

	product, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return fmt.Errorf("product %d: %w", productID, repository.ErrInsufficientStock)
	}

	sess.Cart[productID] = quantity
	return s.Sessions.Save(ctx, sessionID, sess)
}

// Remove drops a line entirely. Removing an absent line is a no-op.
func (s *Service) Remove(ctx context.Context, sessionID string, productID int64) error {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	delete(sess.Cart, productID)
	return s.Sessions.Save(ctx, sessionID, sess)
}

// Details resolves the cart against the catalog. Lines whose product no
// longer exists are skipped, matching how the storefront always rendered
// them.
func (s *Service) Details(ctx context.Context, sessionID string) (*Summary, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(sess.Cart))
	for id := range sess.Cart {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	summary := &Summary{Items: []Line{}}
	for _, id := range ids {
		product, err := s.Products.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}

		quantity := sess.Cart[id]
		lineTotal := product.Price * float64(quantity)
		summary.Total += lineTotal
		summary.Items = append(summary.Items, Line{
			Product:  *product,
			Quantity: quantity,
			Total:    lineTotal,
		})
	}

	summary.Shipping = ShippingFee(summary.Total)
	summary.TotalWithShipping = summary.Total + summary.Shipping
	return summary, nil
}

// Count returns the total quantity across all lines.
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return sess.CartCount(), nil
}

// Lines converts the session cart into checkout input.
func (s *Service) Lines(ctx context.Context, sessionID string) ([]repository.CheckoutLine, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]repository.CheckoutLine, 0, len(sess.Cart))
	for id, quantity := range sess.Cart {
		lines = append(lines, repository.CheckoutLine{ProductID: id, Quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// Clear empties the session cart, keeping the rest of the session intact.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.Cart = map[int64]int{}
	return s.Sessions.Save(ctx, sessionID, sess)
}
