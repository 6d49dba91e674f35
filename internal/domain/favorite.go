package domain

import (
	"context"
	"time"
)

// Favorite represents a business saved in a user's favorite set.
type Favorite struct {
	UserID     string    `json:"user_id"`
	BusinessID string    `json:"business_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FavoriteRepository defines persistence operations for favorites.
type FavoriteRepository interface {
	// Add inserts a business into the user's favorite set (idempotent).
	Add(ctx context.Context, userID, businessID string) error

	// Remove deletes a business from the user's favorite set. Removing an
	// absent member is a no-op.
	Remove(ctx context.Context, userID, businessID string) error

	// ListBusinesses resolves the user's favorite set against the business
	// table, newest favorite first. Stale members are omitted.
	ListBusinesses(ctx context.Context, userID string) ([]Business, error)

	// Exists reports whether the business is in the user's favorite set.
	Exists(ctx context.Context, userID, businessID string) (bool, error)
}
