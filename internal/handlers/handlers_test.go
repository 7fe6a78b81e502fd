package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techshop-backend/internal/auth"
	"techshop-backend/internal/cart"
	"techshop-backend/internal/handlers"
	"techshop-backend/internal/logger"
	"techshop-backend/internal/models"
	"techshop-backend/internal/repository"
	"techshop-backend/internal/routes"
	"techshop-backend/internal/session"
)

type testEnv struct {
	router    *gin.Engine
	products  *repository.MemoryProducts
	users     *repository.MemoryUsers
	orders    *repository.MemoryOrders
	wishlists *repository.MemoryWishlists
	sessions  *session.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Initialize("development")
	auth.Init("test-secret")

	products := repository.NewMemoryProducts()
	users := repository.NewMemoryUsers()
	orders := repository.NewMemoryOrders(products)
	wishlists := repository.NewMemoryWishlists()
	sessions := session.NewMemoryStore()

	app := &handlers.Handlers{
		Products:  products,
		Users:     users,
		Orders:    orders,
		Wishlists: wishlists,
		Cart:      cart.NewService(products, sessions),
		Sessions:  sessions,
	}

	return &testEnv{
		router:    routes.SetupRouter(app),
		products:  products,
		users:     users,
		orders:    orders,
		wishlists: wishlists,
		sessions:  sessions,
	}
}

func (e *testEnv) addProduct(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Category: "Electronics", Stock: stock}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *testEnv) addUser(t *testing.T, email string, admin bool) (*models.User, string) {
	t.Helper()
	var password models.Password
	require.NoError(t, password.Set("secret-password"))
	u := &models.User{Name: "Test User", Email: email, Phone: "0550000000", PasswordHash: password.Hash, IsAdmin: admin}
	require.NoError(t, e.users.Create(context.Background(), u))

	role := auth.RoleCustomer
	if admin {
		role = auth.RoleAdmin
	}
	token, err := auth.GenerateToken(u.ID, role)
	require.NoError(t, err)
	return u, token
}

// do sends a request with a fixed session cookie and optional bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "shop_session", Value: "test-session"})
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAddToCartAndCheckout(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Gaming Laptop", 1299.99, 15)

	w := env.do(t, http.MethodPost, "/v1/cart/items", gin.H{"product_id": p.ID, "quantity": 2}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decode(t, w)["cartCount"])

	// The badge endpoint reports the same key as the cart mutations.
	w = env.do(t, http.MethodGet, "/v1/cart/count", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["cartCount"])

	w = env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"full_name": "Sara B",
		"phone":     "0551234567",
		"city":      "Algiers",
		"address":   "12 Rue Didouche",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "processing", body["status"])
	assert.InDelta(t, 2*1299.99, body["total"], 0.001)
	// Order is over the free-shipping threshold.
	assert.InDelta(t, 0, body["shipping"], 0.001)

	// Stock was decremented and the cart emptied.
	stored, err := env.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 13, stored.Stock)

	w = env.do(t, http.MethodGet, "/v1/cart/count", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["cartCount"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"full_name": "Sara B",
		"phone":     "0551234567",
		"city":      "Algiers",
		"address":   "12 Rue Didouche",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddToCartInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Wireless Mouse", 49.99, 3)

	w := env.do(t, http.MethodPost, "/v1/cart/items", gin.H{"product_id": p.ID, "quantity": 2}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// A second add that would exceed stock across the whole cart fails.
	w = env.do(t, http.MethodPost, "/v1/cart/items", gin.H{"product_id": p.ID, "quantity": 2}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTrackOrderRequiresMatchingPhone(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Smartphone", 799.99, 5)

	order, err := env.orders.Checkout(context.Background(),
		repository.CustomerInfo{Name: "Sara B", Phone: "0551234567", City: "Algiers", Address: "12 Rue Didouche"},
		[]repository.CheckoutLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/v1/orders/track", gin.H{"order_id": order.ID, "phone": "0660000000"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/v1/orders/track", gin.H{"order_id": order.ID, "phone": "0551234567"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWishlistMoveToCart(t *testing.T) {
	env := newTestEnv(t)
	inStock := env.addProduct(t, "Mechanical Keyboard", 89.99, 30)
	outOfStock := env.addProduct(t, "Coffee Mug", 14.99, 0)
	_, token := env.addUser(t, "sara@example.com", false)

	for _, p := range []*models.Product{inStock, outOfStock} {
		w := env.do(t, http.MethodPost, "/v1/wishlist", gin.H{"product_id": p.ID}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// In-stock product lands in the cart.
	w := env.do(t, http.MethodPost, fmt.Sprintf("/v1/wishlist/%d/move-to-cart", inStock.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["moved"])
	assert.EqualValues(t, 1, body["cartCount"])

	// Out-of-stock product leaves the wishlist but never reaches the cart.
	w = env.do(t, http.MethodPost, fmt.Sprintf("/v1/wishlist/%d/move-to-cart", outOfStock.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["moved"])
	assert.EqualValues(t, 1, body["cartCount"])

	w = env.do(t, http.MethodGet, "/v1/wishlist", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["count"])
}

func TestWishlistDuplicateAdd(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "T-Shirt", 24.99, 75)
	_, token := env.addUser(t, "sara@example.com", false)

	w := env.do(t, http.MethodPost, "/v1/wishlist", gin.H{"product_id": p.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/v1/wishlist", gin.H{"product_id": p.ID}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWishlistRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/wishlist", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/register", gin.H{
		"name":     "Sara B",
		"email":    "sara@example.com",
		"password": "secret-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["token"])

	// Duplicate registration is rejected.
	w = env.do(t, http.MethodPost, "/v1/register", gin.H{
		"name":     "Sara B",
		"email":    "sara@example.com",
		"password": "secret-password",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/v1/login", gin.H{
		"email_phone": "sara@example.com",
		"password":    "secret-password",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/v1/login", gin.H{
		"email_phone": "sara@example.com",
		"password":    "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginRejectsCustomers(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "customer@example.com", false)

	w := env.do(t, http.MethodPost, "/v1/admin/login", gin.H{
		"email_phone": "customer@example.com",
		"password":    "secret-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Smartphone", 799.99, 5)
	_, adminToken := env.addUser(t, "admin@example.com", true)

	order, err := env.orders.Checkout(context.Background(),
		repository.CustomerInfo{Name: "Sara B", Phone: "0551234567", City: "Algiers", Address: "12 Rue Didouche"},
		[]repository.CheckoutLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	path := fmt.Sprintf("/v1/admin/orders/%d/status", order.ID)

	// Skipping straight to delivered is not allowed.
	w := env.do(t, http.MethodPatch, path, gin.H{"status": "delivered"}, adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPatch, path, gin.H{"status": "shipped"}, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPatch, path, gin.H{"status": "delivered"}, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	// Delivered is terminal.
	w = env.do(t, http.MethodPatch, path, gin.H{"status": "cancelled"}, adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "customer@example.com", false)

	w := env.do(t, http.MethodGet, "/v1/admin/dashboard", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminProductCRUD(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.addUser(t, "admin@example.com", true)

	w := env.do(t, http.MethodPost, "/v1/admin/products", gin.H{
		"name":     "USB Hub",
		"price":    34.99,
		"category": "Electronics",
		"stock":    12,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode(t, w)["product"].(map[string]any)
	id := int64(created["id"].(float64))

	w = env.do(t, http.MethodPut, fmt.Sprintf("/v1/admin/products/%d", id), gin.H{
		"name":     "USB-C Hub",
		"price":    39.99,
		"category": "Electronics",
		"stock":    10,
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "USB-C Hub", stored.Name)
	assert.Equal(t, 10, stored.Stock)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/v1/admin/products/%d", id), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = env.products.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPreferences(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/prefs/language", gin.H{"language": "fr"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/v1/prefs/theme", gin.H{"theme": "dark"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/v1/prefs/language", gin.H{"language": "klingon"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/v1/prefs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "fr", body["language"])
	assert.Equal(t, "dark", body["theme"])
}
