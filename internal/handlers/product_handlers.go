package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"techshop-backend/internal/logger"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/repository"
)

//
// --- Catalog Handlers (Public) ---
//

// GetProducts is the handler for GET /v1/products
// An optional ?category= filter narrows the list (case-insensitive).
func (h *Handlers) GetProducts(c *gin.Context) {
	var (
		products []models.Product
		err      error
	)

	if category := c.Query("category"); category != "" {
		products, err = h.Products.ByCategory(c, category)
	} else {
		products, err = h.Products.List(c)
	}
	if err != nil {
		logger.Log.Error("list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SearchProducts is the handler for GET /v1/products/search?q=
// It matches against name, description and category.
func (h *Handlers) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	products, err := h.Products.Search(c, query)
	if err != nil {
		logger.Log.Error("search products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"products":     products,
		"query":        query,
		"resultsCount": len(products),
	})
}

// GetFeaturedProducts is the handler for GET /v1/products/featured
// The storefront home page shows the first four catalog entries.
func (h *Handlers) GetFeaturedProducts(c *gin.Context) {
	products, err := h.Products.List(c)
	if err != nil {
		logger.Log.Error("list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}

	if len(products) > 4 {
		products = products[:4]
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct is the handler for GET /v1/products/:id
// The response includes the product's reviews.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.Products.GetByID(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Log.Error("get product", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}

	reviews, err := h.Products.Reviews(c, id)
	if err != nil {
		logger.Log.Error("get reviews", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	product.Reviews = reviews

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetCategories is the handler for GET /v1/categories
func (h *Handlers) GetCategories(c *gin.Context) {
	names, err := h.Products.Categories(c)
	if err != nil {
		logger.Log.Error("list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}

	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{Name: name, Slug: slug.Make(name)})
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// AddReviewInput defines the JSON for posting a product review.
type AddReviewInput struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// AddReview is the handler for POST /v1/products/:id/reviews
// One review per user per product; posting again replaces the old one.
func (h *Handlers) AddReview(c *gin.Context) {
	userID := middleware.UserID(c)

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var input AddReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	user, err := h.Users.GetByID(c, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  user.Name,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := h.Products.UpsertReview(c, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Log.Error("upsert review", zap.Int64("product", productID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Review added", "review": review})
}
