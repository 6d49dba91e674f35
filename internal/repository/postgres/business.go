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

// BusinessRepository implements domain.BusinessRepository using PostgreSQL.
type BusinessRepository struct {
	pool database.DBTX
}

// NewBusinessRepository creates a new PostgreSQL-backed business repository.
func NewBusinessRepository(pool database.DBTX) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

const businessColumns = `id, name, slug, description, phone, address, city, district, category,
	       rating, review_count, created_at, updated_at`

// Create inserts a new business.
func (r *BusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	query := `
		INSERT INTO businesses (id, name, slug, description, phone, address, city, district, category,
		                        rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.Name, b.Slug, b.Description, b.Phone, b.Address, b.City, b.District, b.Category,
		b.Rating, b.ReviewCount, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return wrapStoreErr("insert business", err)
	}
	return nil
}

// GetByID returns a business by its UUID.
func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetBySlug returns a business by its URL slug.
func (r *BusinessRepository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE slug = $1`
	return r.scanOne(ctx, query, slug)
}

func (r *BusinessRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Business, error) {
	var b domain.Business
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&b.ID, &b.Name, &b.Slug, &b.Description, &b.Phone, &b.Address, &b.City, &b.District,
		&b.Category, &b.Rating, &b.ReviewCount, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("business", fmt.Sprint(arg))
		}
		return nil, wrapStoreErr("get business", err)
	}
	return &b, nil
}

// Exists reports whether a business with the given ID exists.
func (r *BusinessRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM businesses WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, wrapStoreErr("check business exists", err)
	}
	return exists, nil
}

// List returns a page of businesses ordered by name, plus the total count.
func (r *BusinessRepository) List(ctx context.Context, page, perPage int) ([]domain.Business, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT ` + businessColumns + `, count(*) OVER() AS total_count
		FROM businesses
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, wrapStoreErr("list businesses", err)
	}
	defer rows.Close()

	var (
		businesses []domain.Business
		totalCount int
	)

	for rows.Next() {
		var b domain.Business
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Slug, &b.Description, &b.Phone, &b.Address, &b.City, &b.District,
			&b.Category, &b.Rating, &b.ReviewCount, &b.CreatedAt, &b.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan business row: %w", err)
		}
		businesses = append(businesses, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate business rows: %w", err)
	}

	if businesses == nil {
		businesses = []domain.Business{}
	}

	return businesses, totalCount, nil
}

// SetRating overwrites the denormalized rating and review count on the
// business row.
func (r *BusinessRepository) SetRating(ctx context.Context, businessID string, rating float64, reviewCount int) error {
	query := `
		UPDATE businesses
		SET rating = $2, review_count = $3, updated_at = $4
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, businessID, rating, reviewCount, time.Now().UTC())
	if err != nil {
		return wrapStoreErr("set business rating", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("business", businessID)
	}
	return nil
}
