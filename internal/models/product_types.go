package models

import (
	"time"
)

// Product is the model for the 'products' table.
// Every column is NOT NULL, so plain values serialize cleanly without
// pointer gymnastics.
type Product struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Slug        string  `json:"slug" db:"slug"`
	Price       float64 `json:"price" db:"price"`
	Category    string  `json:"category" db:"category"`
	Image       string  `json:"image" db:"image"`
	Description string  `json:"description" db:"description"`
	Stock       int     `json:"stock" db:"stock"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (not in the products table, populated manually)
	Reviews []Review `json:"reviews,omitempty" db:"-"`
}

// Review is the model for the 'reviews' table.
// One review per (product, user); a second submission replaces the first.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"productId" db:"product_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	UserName  string    `json:"userName" db:"user_name"`
	Rating    int       `json:"rating" db:"rating"` // 1..5, validated at the handler
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Category is a distinct product category with a URL-safe slug.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
