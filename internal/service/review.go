package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/silentc1/mobileotosanayi-sub000/internal/cache"
	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	"github.com/silentc1/mobileotosanayi-sub000/internal/event"
	apperrors "github.com/silentc1/mobileotosanayi-sub000/pkg/errors"
)

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	BusinessID string
	UserID     string
	Rating     int
	Comment    string
}

// ReviewListResult contains one page of reviews and their aggregate summary.
type ReviewListResult struct {
	Reviews    []domain.Review       `json:"reviews"`
	Summary    *domain.ReviewSummary `json:"summary"`
	TotalCount int                   `json:"total_count"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalPages int                   `json:"total_pages"`
}

// ReviewService implements the review lifecycle and keeps the denormalized
// business rating in step with the review set.
type ReviewService struct {
	reviews    domain.ReviewRepository
	businesses domain.BusinessRepository
	limiter    *ReviewRateLimiter
	cache      *cache.Cache
	producer   *event.Producer
	logger     *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews domain.ReviewRepository,
	businesses domain.BusinessRepository,
	limiter *ReviewRateLimiter,
	cache *cache.Cache,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		businesses: businesses,
		limiter:    limiter,
		cache:      cache,
		producer:   producer,
		logger:     logger,
	}
}

// CreateReview creates a review for a business. The weekly limiter is
// consulted before anything else; a denied user learns about the policy, not
// about validation problems.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}

	now := time.Now().UTC()
	allowed, err := s.limiter.MayReview(ctx, input.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("consult review limiter: %w", err)
	}
	if !allowed {
		return nil, apperrors.RateLimited("you can share one review per week, your limit resets seven days after your last review")
	}

	if input.BusinessID == "" {
		return nil, apperrors.InvalidInput("business_id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, apperrors.InvalidInput("comment is required")
	}

	exists, err := s.businesses.Exists(ctx, input.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("check business: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("business", input.BusinessID)
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		BusinessID: input.BusinessID,
		UserID:     input.UserID,
		Rating:     input.Rating,
		Comment:    comment,
		Likes:      0,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.recomputeRating(ctx, review.BusinessID)
	s.cache.InvalidateBusinessReviews(ctx, review.BusinessID)

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("business_id", review.BusinessID),
		slog.String("user_id", review.UserID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// UpdateReview applies a partial update to a review owned by authorID. The
// business rating is recomputed only when the patch touches the rating.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, authorID string, patch *domain.ReviewPatch) (*domain.Review, error) {
	if patch == nil || (patch.Rating == nil && patch.Comment == nil) {
		return nil, apperrors.InvalidInput("at least one of rating or comment must be provided")
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("load review: %w", err)
	}
	if review.UserID != authorID {
		return nil, apperrors.Forbidden("you can only modify your own reviews")
	}

	ratingChanged := false
	if patch.Rating != nil {
		if *patch.Rating < 1 || *patch.Rating > 5 {
			return nil, apperrors.InvalidInput("rating must be between 1 and 5")
		}
		ratingChanged = review.Rating != *patch.Rating
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		comment := strings.TrimSpace(*patch.Comment)
		if comment == "" {
			return nil, apperrors.InvalidInput("comment cannot be empty")
		}
		review.Comment = comment
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if ratingChanged {
		s.recomputeRating(ctx, review.BusinessID)
	}
	s.cache.InvalidateBusinessReviews(ctx, review.BusinessID)

	if err := s.producer.PublishReviewUpdated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.updated event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.String("business_id", review.BusinessID),
		slog.Bool("rating_changed", ratingChanged),
	)

	return review, nil
}

// DeleteReview removes a review owned by authorID and recomputes the
// business rating. Deleting the last review persists rating 0, count 0.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, authorID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("load review: %w", err)
	}
	if review.UserID != authorID {
		return apperrors.Forbidden("you can only delete your own reviews")
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.recomputeRating(ctx, review.BusinessID)
	s.cache.InvalidateBusinessReviews(ctx, review.BusinessID)

	if err := s.producer.PublishReviewDeleted(ctx, review.ID, review.BusinessID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("business_id", review.BusinessID),
	)

	return nil
}

// LikeReview increments the like counter of a review. The increment is a
// single atomic UPDATE in the store; concurrent likes from different users
// never lose counts.
func (s *ReviewService) LikeReview(ctx context.Context, reviewID string) (*domain.Review, error) {
	review, err := s.reviews.IncrementLikes(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("like review: %w", err)
	}

	s.cache.InvalidateBusinessReviews(ctx, review.BusinessID)

	if err := s.producer.PublishReviewLiked(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.liked event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	return review, nil
}

// ListByBusiness returns one page of a business's reviews, newest first,
// along with the unrounded aggregate summary. Pages of hot businesses are
// served from the cache until a mutation invalidates them.
func (s *ReviewService) ListByBusiness(ctx context.Context, businessID string, page, perPage int) (*ReviewListResult, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	key := cache.BusinessReviewsKey(businessID, page, perPage)
	var cached ReviewListResult
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	reviews, total, err := s.reviews.ListByBusinessID(ctx, businessID, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	summary, err := s.reviews.AggregateByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	result := &ReviewListResult{
		Reviews:    reviews,
		Summary:    summary,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}

	s.cache.Set(ctx, key, result)

	return result, nil
}

// recomputeRating reads the aggregate over the business's current review set
// and writes it onto the business row. There is no per-business lock;
// concurrent recomputes may interleave and the last writer wins, which is
// acceptable because every mutation recomputes from the full review set.
//
// Failures are logged, never propagated: the triggering review write has
// already succeeded and the next mutation repairs the aggregate.
func (s *ReviewService) recomputeRating(ctx context.Context, businessID string) {
	summary, err := s.reviews.AggregateByBusiness(ctx, businessID)
	if err != nil {
		s.logger.ErrorContext(ctx, "rating recompute failed at aggregation",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.businesses.SetRating(ctx, businessID, summary.AverageRating, summary.TotalCount); err != nil {
		s.logger.ErrorContext(ctx, "rating recompute failed at write",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.producer.PublishBusinessRatingUpdated(ctx, businessID, summary.AverageRating, summary.TotalCount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish business.rating_updated event",
			slog.String("business_id", businessID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.DebugContext(ctx, "business rating recomputed",
		slog.String("business_id", businessID),
		slog.Float64("rating", summary.AverageRating),
		slog.Int("review_count", summary.TotalCount),
	)
}
