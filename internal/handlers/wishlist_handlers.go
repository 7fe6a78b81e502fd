package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/logger"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/repository"
)

//
// --- Wishlist Handlers (Account-Scoped) ---
//

// GetWishlist is the handler for GET /v1/wishlist
// Items whose product has since been deleted are dropped from the response.
func (h *Handlers) GetWishlist(c *gin.Context) {
	userID := middleware.UserID(c)

	items, err := h.Wishlists.List(c, userID)
	if err != nil {
		logger.Log.Error("list wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist"})
		return
	}

	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		product, err := h.Products.GetByID(c, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			logger.Log.Error("load wishlist product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist"})
			return
		}
		products = append(products, *product)
	}

	c.JSON(http.StatusOK, gin.H{"items": products, "count": len(products)})
}

// AddToWishlistInput defines the JSON for adding a wishlist item.
type AddToWishlistInput struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// AddToWishlist is the handler for POST /v1/wishlist
func (h *Handlers) AddToWishlist(c *gin.Context) {
	var input AddToWishlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)

	// Verify the product exists before recording the item.
	if _, err := h.Products.GetByID(c, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Log.Error("load product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist"})
		return
	}

	if err := h.Wishlists.Add(c, userID, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Product already in wishlist"})
			return
		}
		logger.Log.Error("add to wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist"})
		return
	}

	count, err := h.Wishlists.Count(c, userID)
	if err != nil {
		logger.Log.Error("wishlist count", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Added to wishlist", "wishlistCount": count})
}

// RemoveFromWishlist is the handler for DELETE /v1/wishlist/:productId
func (h *Handlers) RemoveFromWishlist(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	userID := middleware.UserID(c)

	if err := h.Wishlists.Remove(c, userID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not in wishlist"})
			return
		}
		logger.Log.Error("remove from wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist"})
		return
	}

	count, err := h.Wishlists.Count(c, userID)
	if err != nil {
		logger.Log.Error("wishlist count", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist", "wishlistCount": count})
}

// MoveToCart is the handler for POST /v1/wishlist/:productId/move-to-cart
// The item always leaves the wishlist. It only enters the cart when the
// product is still in stock; an out-of-stock product is dropped quietly.
func (h *Handlers) MoveToCart(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	userID := middleware.UserID(c)

	if err := h.Wishlists.Remove(c, userID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not in wishlist"})
			return
		}
		logger.Log.Error("remove from wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move to cart"})
		return
	}

	moved := false
	product, err := h.Products.GetByID(c, productID)
	if err == nil && product.Stock > 0 {
		sid := middleware.SessionID(c)
		if _, err := h.Cart.Add(c, sid, productID, 1); err == nil {
			moved = true
		} else {
			logger.Log.Warn("move to cart", zap.Int64("productID", productID), zap.Error(err))
		}
	}

	count, err := h.Cart.Count(c, middleware.SessionID(c))
	if err != nil {
		logger.Log.Error("cart count", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"moved": moved, "cartCount": count})
}
