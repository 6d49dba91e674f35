package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/silentc1/mobileotosanayi-sub000/internal/cache"
	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	apperrors "github.com/silentc1/mobileotosanayi-sub000/pkg/errors"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/slug"
)

// CreateBusinessInput holds the parameters for registering a business.
type CreateBusinessInput struct {
	Name        string
	Description string
	Phone       string
	Address     string
	City        string
	District    string
	Category    string
}

// BusinessListResult contains one page of the business directory.
type BusinessListResult struct {
	Businesses []domain.Business `json:"businesses"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

// BusinessService serves the business directory reads and registration.
type BusinessService struct {
	businesses domain.BusinessRepository
	cache      *cache.Cache
	logger     *slog.Logger
}

// NewBusinessService creates a new business service.
func NewBusinessService(businesses domain.BusinessRepository, cache *cache.Cache, logger *slog.Logger) *BusinessService {
	return &BusinessService{
		businesses: businesses,
		cache:      cache,
		logger:     logger,
	}
}

// CreateBusiness registers a business with a slug derived from its name.
// Rating and review count start at zero and are owned by the aggregator.
func (s *BusinessService) CreateBusiness(ctx context.Context, input *CreateBusinessInput) (*domain.Business, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	businessSlug := slug.Generate(input.Name)
	if businessSlug == "" {
		return nil, apperrors.InvalidInput("name must contain at least one alphanumeric character")
	}

	now := time.Now().UTC()
	business := &domain.Business{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        businessSlug,
		Description: input.Description,
		Phone:       input.Phone,
		Address:     input.Address,
		City:        input.City,
		District:    input.District,
		Category:    input.Category,
		Rating:      0,
		ReviewCount: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.businesses.Create(ctx, business); err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}

	s.logger.InfoContext(ctx, "business created",
		slog.String("business_id", business.ID),
		slog.String("slug", business.Slug),
	)

	return business, nil
}

// Get fetches a business by UUID or slug. Slug lookups are normalized the
// same way slugs are generated, so "Usta Oto Servis" and "usta-oto-servis"
// resolve to the same row.
func (s *BusinessService) Get(ctx context.Context, idOrSlug string) (*domain.Business, error) {
	key := cache.BusinessKey(idOrSlug)
	var cached domain.Business
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		business *domain.Business
		err      error
	)
	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		business, err = s.businesses.GetByID(ctx, idOrSlug)
	} else {
		business, err = s.businesses.GetBySlug(ctx, slug.Generate(idOrSlug))
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	s.cache.Set(ctx, key, business)

	return business, nil
}

// List returns one page of the business directory, ordered by name.
func (s *BusinessService) List(ctx context.Context, page, perPage int) (*BusinessListResult, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	key := cache.BusinessListKey(page, perPage)
	var cached BusinessListResult
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	businesses, total, err := s.businesses.List(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	result := &BusinessListResult{
		Businesses: businesses,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}

	s.cache.Set(ctx, key, result)

	return result, nil
}
