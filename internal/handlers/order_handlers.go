package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/cart"
	"techshop-backend/internal/logger"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/repository"
)

//
// --- Order Handlers ---
//

// CheckoutInput defines the shipping form. Payment is cash on delivery only.
type CheckoutInput struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	City     string `json:"city" binding:"required"`
	Address  string `json:"address" binding:"required"`
}

// Checkout is the handler for POST /v1/checkout
// It turns the session cart into a persisted order, decrements stock and
// clears the cart. An empty cart is rejected without side effects.
func (h *Handlers) Checkout(c *gin.Context) {
	sid := middleware.SessionID(c)

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	lines, err := h.Cart.Lines(c, sid)
	if err != nil {
		logger.Log.Error("checkout: load cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	info := repository.CustomerInfo{
		UserID:  middleware.UserID(c),
		Name:    input.FullName,
		Phone:   input.Phone,
		City:    input.City,
		Address: input.Address,
	}

	order, err := h.Orders.Checkout(c, info, lines)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		case errors.Is(err, repository.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
		default:
			logger.Log.Error("checkout", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	// The order is committed; a cart-clear failure must not fail the request.
	if err := h.Cart.Clear(c, sid); err != nil {
		logger.Log.Warn("checkout: clear cart", zap.Int64("order", order.ID), zap.Error(err))
	}

	shipping := cart.ShippingFee(order.Total)
	c.JSON(http.StatusCreated, gin.H{
		"message":           "Order created successfully",
		"orderId":           order.ID,
		"status":            order.Status,
		"total":             order.Total,
		"shipping":          shipping,
		"totalWithShipping": order.Total + shipping,
	})
}

// GetOrder is the handler for GET /v1/orders/:id
// It backs the thank-you / order confirmation page.
func (h *Handlers) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Orders.GetByID(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Log.Error("get order", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// TrackOrderInput defines the JSON for the public order tracking form.
type TrackOrderInput struct {
	OrderID int64  `json:"order_id" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

// TrackOrder is the handler for POST /v1/orders/track
// Both the order ID and the phone used at checkout must match.
func (h *Handlers) TrackOrder(c *gin.Context) {
	var input TrackOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order id and phone are required"})
		return
	}

	order, err := h.Orders.Track(c, input.OrderID, input.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Log.Error("track order", zap.Int64("id", input.OrderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetMyOrders is the handler for GET /v1/profile/orders
// Orders are matched by owning user or by the phone on the account.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.Users.GetByID(c, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	orders, err := h.Orders.ListByCustomer(c, userID, user.Phone)
	if err != nil {
		logger.Log.Error("list orders", zap.Int64("user", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
