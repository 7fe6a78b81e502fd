package handlers

import (
	"techshop-backend/internal/cart"
	"techshop-backend/internal/repository"
	"techshop-backend/internal/session"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Products  repository.Products
	Users     repository.Users
	Orders    repository.Orders
	Wishlists repository.Wishlists
	Cart      *cart.Service
	Sessions  session.Store
}
