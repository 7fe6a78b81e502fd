package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techshop-backend/internal/models"
	"techshop-backend/internal/repository"
	"techshop-backend/internal/session"
)

func newService(t *testing.T) (*Service, *repository.MemoryProducts) {
	t.Helper()
	products := repository.NewMemoryProducts()
	ctx := context.Background()

	require.NoError(t, products.Create(ctx, &models.Product{
		Name: "Gaming Laptop", Price: 1299.99, Category: "Electronics", Stock: 15,
	}))
	require.NoError(t, products.Create(ctx, &models.Product{
		Name: "Wireless Mouse", Price: 49.99, Category: "Electronics", Stock: 50,
	}))
	require.NoError(t, products.Create(ctx, &models.Product{
		Name: "Coffee Mug", Price: 14.99, Category: "Home", Stock: 0,
	}))

	return NewService(products, session.NewMemoryStore()), products
}

const sid = "test-session"

func TestAddAccumulates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	count, err := svc.Add(ctx, sid, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.Add(ctx, sid, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	summary, err := svc.Details(ctx, sid)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 5, summary.Items[0].Quantity)
}

func TestAddRejectsWhenCumulativeExceedsStock(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// Stock is 15: add(1,5) then add(1,11) -> 16 > 15, second call rejected.
	_, err := svc.Add(ctx, sid, 1, 5)
	require.NoError(t, err)

	_, err = svc.Add(ctx, sid, 1, 11)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	// Cart unchanged by the rejected call.
	summary, err := svc.Details(ctx, sid)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 5, summary.Items[0].Quantity)
}

func TestAddUnknownProduct(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Add(context.Background(), sid, 999, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Add(context.Background(), sid, 1, 0)
	assert.Error(t, err)
	_, err = svc.Add(context.Background(), sid, 1, -3)
	assert.Error(t, err)
}

func TestUpdateToZeroRemovesLine(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, 1, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, sid, 2, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, sid, 1, 0))

	summary, err := svc.Details(ctx, sid)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int64(2), summary.Items[0].Product.ID)
}

func TestUpdateChecksStock(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, 1, 2)
	require.NoError(t, err)

	err = svc.Update(ctx, sid, 1, 16)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	require.NoError(t, svc.Update(ctx, sid, 1, 10))
	summary, err := svc.Details(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Items[0].Quantity)
}

func TestRemove(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, 1, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, sid, 1))
	require.NoError(t, svc.Remove(ctx, sid, 1)) // absent line is a no-op

	count, err := svc.Count(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDetailsUsesCurrentPrices(t *testing.T) {
	svc, products := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, 2, 4)
	require.NoError(t, err)

	// Price change after cart-add shows up in the cart view.
	mouse, err := products.GetByID(ctx, 2)
	require.NoError(t, err)
	mouse.Price = 60.00
	require.NoError(t, products.Update(ctx, mouse))

	summary, err := svc.Details(ctx, sid)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.InDelta(t, 240.00, summary.Items[0].Total, 0.001)
	assert.InDelta(t, 240.00, summary.Total, 0.001)
}

func TestDetailsSkipsDeletedProducts(t *testing.T) {
	svc, products := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, 1, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, sid, 2, 1)
	require.NoError(t, err)

	require.NoError(t, products.Delete(ctx, 1))

	summary, err := svc.Details(ctx, sid)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int64(2), summary.Items[0].Product.ID)
}

func TestShippingFee(t *testing.T) {
	tests := []struct {
		total    float64
		shipping float64
	}{
		{0, 45},
		{480, 45},
		{499.99, 45},
		{500, 0},
		{525, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.shipping, ShippingFee(tt.total), "total %.2f", tt.total)
	}
}

func TestSummaryShipping(t *testing.T) {
	svc, products := newService(t)
	ctx := context.Background()

	// 480 worth of product -> 45 shipping, 525 all in.
	require.NoError(t, products.Create(ctx, &models.Product{Name: "Headset", Price: 480, Category: "Electronics", Stock: 5}))
	_, err := svc.Add(ctx, sid, 4, 1)
	require.NoError(t, err)

	summary, err := svc.Details(ctx, sid)
	require.NoError(t, err)
	assert.InDelta(t, 480.0, summary.Total, 0.001)
	assert.InDelta(t, 45.0, summary.Shipping, 0.001)
	assert.InDelta(t, 525.0, summary.TotalWithShipping, 0.001)

	// Exactly 500 -> free shipping.
	require.NoError(t, products.Create(ctx, &models.Product{Name: "Monitor", Price: 20, Category: "Electronics", Stock: 5}))
	_, err = svc.Add(ctx, sid, 5, 1)
	require.NoError(t, err)

	summary, err = svc.Details(ctx, sid)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, summary.Total, 0.001)
	assert.InDelta(t, 0.0, summary.Shipping, 0.001)
	assert.InDelta(t, 500.0, summary.TotalWithShipping, 0.001)
}

func TestLinesAndClear(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, 2, 3)
	require.NoError(t, err)
	_, err = svc.Add(ctx, sid, 1, 1)
	require.NoError(t, err)

	lines, err := svc.Lines(ctx, sid)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, repository.CheckoutLine{ProductID: 1, Quantity: 1}, lines[0])
	assert.Equal(t, repository.CheckoutLine{ProductID: 2, Quantity: 3}, lines[1])

	require.NoError(t, svc.Clear(ctx, sid))
	lines, err = svc.Lines(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
