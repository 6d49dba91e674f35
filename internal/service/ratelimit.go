package service

import (
	"context"
	"fmt"
	"time"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
)

// reviewWindow is the rolling window within which a user may submit at most
// one review, across all businesses.
const reviewWindow = 7 * 24 * time.Hour

// ReviewRateLimiter enforces the one-review-per-user-per-week policy.
type ReviewRateLimiter struct {
	reviews domain.ReviewRepository
}

// NewReviewRateLimiter creates a limiter backed by the review store.
func NewReviewRateLimiter(reviews domain.ReviewRepository) *ReviewRateLimiter {
	return &ReviewRateLimiter{reviews: reviews}
}

// MayReview reports whether the user is allowed to submit a review at the
// given instant. A review created exactly at the window boundary still
// counts against the user; the window opens one instant later.
//
// The check and the subsequent insert are not composed atomically; two
// concurrent submissions can both pass. The window is a policy guard, not a
// hard uniqueness constraint.
func (l *ReviewRateLimiter) MayReview(ctx context.Context, userID string, now time.Time) (bool, error) {
	has, err := l.reviews.HasReviewSince(ctx, userID, now.Add(-reviewWindow))
	if err != nil {
		return false, fmt.Errorf("check review window: %w", err)
	}
	return !has, nil
}
