package postgres

import (
	"context"
	"fmt"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/database"
)

// FavoriteRepository implements domain.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	pool database.DBTX
}

// NewFavoriteRepository creates a new PostgreSQL-backed favorite repository.
func NewFavoriteRepository(pool database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

// Add inserts a business into the user's favorite set.
// Uses ON CONFLICT DO NOTHING for idempotent behavior.
func (r *FavoriteRepository) Add(ctx context.Context, userID, businessID string) error {
	query := `
		INSERT INTO favorites (user_id, business_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, business_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, userID, businessID)
	if err != nil {
		return wrapStoreErr("add favorite", err)
	}
	return nil
}

// Remove deletes a business from the user's favorite set. Removing an
// absent member is a no-op success.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, businessID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND business_id = $2`

	_, err := r.pool.Exec(ctx, query, userID, businessID)
	if err != nil {
		return wrapStoreErr("remove favorite", err)
	}
	return nil
}

// ListBusinesses resolves the user's favorite set against the business
// table, newest favorite first. Favorites table carries no FK, so members
// whose business no longer exists simply drop out of the join.
func (r *FavoriteRepository) ListBusinesses(ctx context.Context, userID string) ([]domain.Business, error) {
	query := `
		SELECT b.id, b.name, b.slug, b.description, b.phone, b.address, b.city, b.district,
		       b.category, b.rating, b.review_count, b.created_at, b.updated_at
		FROM favorites f
		JOIN businesses b ON b.id = f.business_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapStoreErr("list favorites", err)
	}
	defer rows.Close()

	var businesses []domain.Business
	for rows.Next() {
		var b domain.Business
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Slug, &b.Description, &b.Phone, &b.Address, &b.City, &b.District,
			&b.Category, &b.Rating, &b.ReviewCount, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan favorite row: %w", err)
		}
		businesses = append(businesses, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite rows: %w", err)
	}

	if businesses == nil {
		businesses = []domain.Business{}
	}

	return businesses, nil
}

// Exists reports whether the business is in the user's favorite set.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, businessID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND business_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, businessID).Scan(&exists); err != nil {
		return false, wrapStoreErr("check favorite exists", err)
	}
	return exists, nil
}
