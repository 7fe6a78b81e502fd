package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/logger"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/repository"
)

//
// --- Cart Handlers (Session-Scoped) ---
//

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items
// Quantities accumulate; the accumulated quantity may never exceed current
// stock, in which case the cart is left exactly as it was.
func (h *Handlers) AddToCart(c *gin.Context) {
	sid := middleware.SessionID(c)

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	count, err := h.Cart.Add(c, sid, input.ProductID, input.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, repository.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
		default:
			logger.Log.Error("add to cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart", "cartCount": count})
}

// GetCart is the handler for GET /v1/cart
// It returns fully-resolved lines at current prices plus the shipping rule.
func (h *Handlers) GetCart(c *gin.Context) {
	summary, err := h.Cart.Details(c, middleware.SessionID(c))
	if err != nil {
		logger.Log.Error("get cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateCartItemInput defines the JSON for updating an item's quantity.
type UpdateCartItemInput struct {
	// gte=0 allows setting quantity to 0, which removes the line
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:product_id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	sid := middleware.SessionID(c)

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Cart.Update(c, sid, productID, *input.Quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
		case errors.Is(err, repository.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Not enough stock available for this quantity"})
		default:
			logger.Log.Error("update cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item quantity updated"})
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:product_id
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.Cart.Remove(c, middleware.SessionID(c), productID); err != nil {
		logger.Log.Error("remove cart item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
}

// GetCartCount is the handler for GET /v1/cart/count
// The storefront header polls this for its cart badge.
func (h *Handlers) GetCartCount(c *gin.Context) {
	count, err := h.Cart.Count(c, middleware.SessionID(c))
	if err != nil {
		logger.Log.Error("cart count", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cartCount": count})
}
