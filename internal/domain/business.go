package domain

import (
	"context"
	"time"
)

// Business represents a service shop listed in the directory.
type Business struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	District    string    `json:"district,omitempty"`
	Category    string    `json:"category,omitempty"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BusinessRepository defines persistence operations for businesses.
type BusinessRepository interface {
	// Create inserts a new business.
	Create(ctx context.Context, b *Business) error

	// GetByID returns a business by its UUID.
	GetByID(ctx context.Context, id string) (*Business, error)

	// GetBySlug returns a business by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*Business, error)

	// Exists reports whether a business with the given ID exists.
	Exists(ctx context.Context, id string) (bool, error)

	// List returns a page of businesses ordered by name, plus the total count.
	List(ctx context.Context, page, perPage int) ([]Business, int, error)

	// SetRating overwrites the denormalized rating and review count on the
	// business row and bumps updated_at.
	SetRating(ctx context.Context, businessID string, rating float64, reviewCount int) error
}
