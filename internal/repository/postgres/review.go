package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	apperrors "github.com/silentc1/mobileotosanayi-sub000/pkg/errors"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/database"
)

// ReviewRepository implements domain.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, business_id, user_id, rating, comment, likes, is_verified, created_at, updated_at`

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, business_id, user_id, rating, comment, likes, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.BusinessID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.Likes,
		review.IsVerified,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return wrapStoreErr("insert review", err)
	}
	return nil
}

// GetByID returns a review by its UUID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID, &rv.BusinessID, &rv.UserID, &rv.Rating, &rv.Comment,
		&rv.Likes, &rv.IsVerified, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, wrapStoreErr("get review", err)
	}
	return &rv, nil
}

// Update persists the rating, comment, and updated_at of the review.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = $4
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, review.ID, review.Rating, review.Comment, review.UpdatedAt)
	if err != nil {
		return wrapStoreErr("update review", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", review.ID)
	}
	return nil
}

// Delete removes a review by ID.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM reviews WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return wrapStoreErr("delete review", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}
	return nil
}

// IncrementLikes atomically increments the like counter and returns the
// updated review.
func (r *ReviewRepository) IncrementLikes(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		UPDATE reviews
		SET likes = likes + 1
		WHERE id = $1
		RETURNING ` + reviewColumns

	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID, &rv.BusinessID, &rv.UserID, &rv.Rating, &rv.Comment,
		&rv.Likes, &rv.IsVerified, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, wrapStoreErr("increment review likes", err)
	}
	return &rv, nil
}

// ListByBusinessID returns a page of reviews for a business, newest first,
// plus the total count.
func (r *ReviewRepository) ListByBusinessID(ctx context.Context, businessID string, page, perPage int) ([]domain.Review, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT ` + reviewColumns + `, count(*) OVER() AS total_count
		FROM reviews
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, 0, wrapStoreErr("list reviews", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID, &rv.BusinessID, &rv.UserID, &rv.Rating, &rv.Comment,
			&rv.Likes, &rv.IsVerified, &rv.CreatedAt, &rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// AggregateByBusiness computes the average rating and review count over all
// reviews of a business. An empty review set yields {0, 0}.
func (r *ReviewRepository) AggregateByBusiness(ctx context.Context, businessID string) (*domain.ReviewSummary, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE business_id = $1`

	var summary domain.ReviewSummary
	err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&summary.AverageRating,
		&summary.TotalCount,
	)
	if err != nil {
		return nil, wrapStoreErr("aggregate reviews", err)
	}
	return &summary, nil
}

// HasReviewSince reports whether the user has any review created at or
// after the given instant, across all businesses.
func (r *ReviewRepository) HasReviewSince(ctx context.Context, userID string, since time.Time) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND created_at >= $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, since).Scan(&exists); err != nil {
		return false, wrapStoreErr("check recent review", err)
	}
	return exists, nil
}
