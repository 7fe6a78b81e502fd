package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techshop-backend/internal/models"
)

func seedCatalog(t *testing.T) *MemoryProducts {
	t.Helper()
	products := NewMemoryProducts()
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, &models.Product{
		Name: "Gaming Laptop", Price: 1299.99, Category: "Electronics", Stock: 15,
	}))
	require.NoError(t, products.Create(ctx, &models.Product{
		Name: "Wireless Mouse", Price: 49.99, Category: "Electronics", Stock: 50,
	}))
	require.NoError(t, products.Create(ctx, &models.Product{
		Name: "Coffee Mug", Price: 14.99, Category: "Home", Stock: 100,
	}))
	return products
}

func testCustomer() CustomerInfo {
	return CustomerInfo{Name: "Sara", Phone: "0600000001", City: "Rabat", Address: "12 Rue A"}
}

func TestCheckoutDecrementsStockAndSnapshotsTotals(t *testing.T) {
	ctx := context.Background()
	products := seedCatalog(t)
	orders := NewMemoryOrders(products)

	order, err := orders.Checkout(ctx, testCustomer(), []CheckoutLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, "cash_on_delivery", order.PaymentMethod)

	// Aggregate total equals the sum of captured line totals.
	var sum float64
	for _, item := range order.Items {
		assert.InDelta(t, item.UnitPrice*float64(item.Quantity), item.LineTotal, 0.001)
		sum += item.LineTotal
	}
	assert.InDelta(t, sum, order.Total, 0.001)
	assert.InDelta(t, 2*1299.99+3*49.99, order.Total, 0.001)

	// Stock went down by exactly the ordered quantities.
	laptop, err := products.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 13, laptop.Stock)
	mouse, err := products.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 47, mouse.Stock)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	ctx := context.Background()
	products := seedCatalog(t)
	orders := NewMemoryOrders(products)

	_, err := orders.Checkout(ctx, testCustomer(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCheckoutInsufficientStockLeavesEverythingUntouched(t *testing.T) {
	ctx := context.Background()
	products := seedCatalog(t)
	orders := NewMemoryOrders(products)

	_, err := orders.Checkout(ctx, testCustomer(), []CheckoutLine{
		{ProductID: 2, Quantity: 3},
		{ProductID: 1, Quantity: 16}, // stock is 15
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing persisted, no partial stock decrement.
	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	mouse, err := products.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 50, mouse.Stock)
}

func TestCheckoutDropsVanishedProducts(t *testing.T) {
	ctx := context.Background()
	products := seedCatalog(t)
	orders := NewMemoryOrders(products)

	order, err := orders.Checkout(ctx, testCustomer(), []CheckoutLine{
		{ProductID: 999, Quantity: 1},
		{ProductID: 3, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(3), order.Items[0].ProductID)

	// A cart made only of vanished products is an empty cart.
	_, err = orders.Checkout(ctx, testCustomer(), []CheckoutLine{{ProductID: 999, Quantity: 1}})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestTrackRequiresMatchingPhone(t *testing.T) {
	ctx := context.Background()
	products := seedCatalog(t)
	orders := NewMemoryOrders(products)

	order, err := orders.Checkout(ctx, testCustomer(), []CheckoutLine{{ProductID: 3, Quantity: 1}})
	require.NoError(t, err)

	found, err := orders.Track(ctx, order.ID, "0600000001")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = orders.Track(ctx, order.ID, "0699999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	ctx := context.Background()
	products := seedCatalog(t)
	orders := NewMemoryOrders(products)

	order, err := orders.Checkout(ctx, testCustomer(), []CheckoutLine{{ProductID: 3, Quantity: 1}})
	require.NoError(t, err)

	// processing -> delivered skips shipped and must be rejected.
	err = orders.UpdateStatus(ctx, order.ID, models.StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, models.StatusShipped))
	require.NoError(t, orders.UpdateStatus(ctx, order.ID, models.StatusDelivered))

	// Terminal state: no way out.
	err = orders.UpdateStatus(ctx, order.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)
}

func TestUsersDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers()

	require.NoError(t, users.Create(ctx, &models.User{Name: "A", Email: "a@example.com"}))
	err := users.Create(ctx, &models.User{Name: "B", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestWishlistDuplicateAdd(t *testing.T) {
	ctx := context.Background()
	wishlists := NewMemoryWishlists()

	require.NoError(t, wishlists.Add(ctx, 1, 42))
	err := wishlists.Add(ctx, 1, 42)
	assert.True(t, errors.Is(err, ErrDuplicate))

	count, err := wishlists.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The same product is fine on another user's list.
	require.NoError(t, wishlists.Add(ctx, 2, 42))
}

func TestReviewUpsertReplacesOwnReview(t *testing.T) {
	ctx := context.Background()
	products := seedCatalog(t)

	require.NoError(t, products.UpsertReview(ctx, &models.Review{ProductID: 1, UserID: 7, UserName: "Sara", Rating: 4}))
	require.NoError(t, products.UpsertReview(ctx, &models.Review{ProductID: 1, UserID: 8, UserName: "Yassine", Rating: 5}))
	require.NoError(t, products.UpsertReview(ctx, &models.Review{ProductID: 1, UserID: 7, UserName: "Sara", Rating: 2, Comment: "changed my mind"}))

	reviews, err := products.Reviews(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	for _, rev := range reviews {
		if rev.UserID == 7 {
			assert.Equal(t, 2, rev.Rating)
			assert.Equal(t, "changed my mind", rev.Comment)
		}
	}
}
