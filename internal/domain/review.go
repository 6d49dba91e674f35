package domain

import (
	"context"
	"time"
)

// Review represents a review submitted by a user for a business.
type Review struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Likes      int       `json:"likes"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewSummary contains the aggregate rating statistics for a business.
type ReviewSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalCount    int     `json:"total_count"`
}

// ReviewPatch holds the mutable review fields for an update. Nil fields are
// left untouched.
type ReviewPatch struct {
	Rating  *int
	Comment *string
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create inserts a new review.
	Create(ctx context.Context, review *Review) error

	// GetByID returns a review by its UUID.
	GetByID(ctx context.Context, id string) (*Review, error)

	// Update persists the rating, comment, and updated_at of the review.
	Update(ctx context.Context, review *Review) error

	// Delete removes a review by ID.
	Delete(ctx context.Context, id string) error

	// IncrementLikes atomically increments the like counter and returns the
	// updated review.
	IncrementLikes(ctx context.Context, id string) (*Review, error)

	// ListByBusinessID returns a page of reviews for a business, newest
	// first, plus the total count.
	ListByBusinessID(ctx context.Context, businessID string, page, perPage int) ([]Review, int, error)

	// AggregateByBusiness computes the average rating and review count over
	// all reviews of a business. An empty review set yields {0, 0}.
	AggregateByBusiness(ctx context.Context, businessID string) (*ReviewSummary, error)

	// HasReviewSince reports whether the user has any review created at or
	// after the given instant, across all businesses.
	HasReviewSince(ctx context.Context, userID string, since time.Time) (bool, error)
}
