package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/auth"
	"techshop-backend/internal/logger"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/repository"
)

//
// --- User Registration & Login ---
//

// RegisterInput is separate from models.User so callers cannot smuggle in an
// id or admin flag.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register is the handler for POST /v1/register
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: password.Hash,
	}
	if err := h.Users.Create(c, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Log.Error("register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := auth.GenerateToken(user.ID, auth.RoleCustomer)
	if err != nil {
		logger.Log.Error("generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.rememberUser(c, user)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// LoginInput accepts an email or a phone number as the identifier.
type LoginInput struct {
	EmailPhone string `json:"email_phone" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByLogin(c, input.EmailPhone)
	if err != nil {
		// Same response as a bad password so identifiers cannot be probed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, auth.RoleCustomer)
	if err != nil {
		logger.Log.Error("generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.rememberUser(c, user)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// AdminLogin is the handler for POST /v1/admin/login
// Same credentials check as Login but only admin accounts pass, and the
// token carries the admin role.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByLogin(c, input.EmailPhone)
	if err != nil || !user.IsAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, auth.RoleAdmin)
	if err != nil {
		logger.Log.Error("generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// rememberUser mirrors the signed-in identity onto the session so the
// storefront can greet the user without decoding the token.
func (h *Handlers) rememberUser(c *gin.Context, user *models.User) {
	sid := middleware.SessionID(c)
	if sid == "" {
		return
	}
	sess, err := h.Sessions.Get(c, sid)
	if err != nil {
		logger.Log.Warn("session load", zap.Error(err))
		return
	}
	sess.UserID = user.ID
	sess.UserName = user.Name
	if err := h.Sessions.Save(c, sid, sess); err != nil {
		logger.Log.Warn("session save", zap.Error(err))
	}
}

//
// --- Profile ---
//

// GetProfile is the handler for GET /v1/profile/me
func (h *Handlers) GetProfile(c *gin.Context) {
	user, err := h.Users.GetByID(c, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Log.Error("get profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	count, err := h.Wishlists.Count(c, user.ID)
	if err != nil {
		logger.Log.Error("wishlist count", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "wishlistCount": count})
}

// UpdateProfileInput defines the JSON for editing the profile.
type UpdateProfileInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// UpdateProfile is the handler for PUT /v1/profile/me
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByID(c, middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Phone = input.Phone
	if err := h.Users.Update(c, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Log.Error("update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	h.rememberUser(c, user)
	c.JSON(http.StatusOK, gin.H{"user": user})
}
