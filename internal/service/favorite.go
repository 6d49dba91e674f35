package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	apperrors "github.com/silentc1/mobileotosanayi-sub000/pkg/errors"
)

// FavoriteService manages each user's favorite-business set.
type FavoriteService struct {
	favorites  domain.FavoriteRepository
	businesses domain.BusinessRepository
	logger     *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favorites domain.FavoriteRepository, businesses domain.BusinessRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites:  favorites,
		businesses: businesses,
		logger:     logger,
	}
}

// Add puts a business into the user's favorite set. Adding a member that is
// already present succeeds without change; adding an unknown business fails.
func (s *FavoriteService) Add(ctx context.Context, userID, businessID string) error {
	if businessID == "" {
		return apperrors.InvalidInput("business_id is required")
	}

	// A member already in the set needs no business lookup and no insert.
	already, err := s.favorites.Exists(ctx, userID, businessID)
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	if already {
		return nil
	}

	exists, err := s.businesses.Exists(ctx, businessID)
	if err != nil {
		return fmt.Errorf("check business: %w", err)
	}
	if !exists {
		return apperrors.NotFound("business", businessID)
	}

	if err := s.favorites.Add(ctx, userID, businessID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	s.logger.InfoContext(ctx, "favorite added",
		slog.String("user_id", userID),
		slog.String("business_id", businessID),
	)

	return nil
}

// Remove takes a business out of the user's favorite set. Removing an absent
// member is a no-op success, so retried removals stay safe.
func (s *FavoriteService) Remove(ctx context.Context, userID, businessID string) error {
	if businessID == "" {
		return apperrors.InvalidInput("business_id is required")
	}

	if err := s.favorites.Remove(ctx, userID, businessID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	s.logger.InfoContext(ctx, "favorite removed",
		slog.String("user_id", userID),
		slog.String("business_id", businessID),
	)

	return nil
}

// List resolves the user's favorite set to businesses. Members whose
// business no longer exists drop out of the join silently.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]domain.Business, error) {
	businesses, err := s.favorites.ListBusinesses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return businesses, nil
}
