package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
)

// recentReviewStub answers HasReviewSince from a single recorded review
// time, mirroring the repository's created_at >= since comparison.
type recentReviewStub struct {
	domain.ReviewRepository
	lastReviewAt time.Time
}

func (s *recentReviewStub) HasReviewSince(_ context.Context, _ string, since time.Time) (bool, error) {
	return !s.lastReviewAt.Before(since), nil
}

func TestMayReview_NoPriorReview(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	limiter := NewReviewRateLimiter(&recentReviewStub{})

	allowed, err := limiter.MayReview(context.Background(), "user-1", now)

	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMayReview_ReviewJustOutsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	// Last review seven days and one second ago.
	stub := &recentReviewStub{lastReviewAt: now.Add(-(7*24*time.Hour + time.Second))}
	limiter := NewReviewRateLimiter(stub)

	allowed, err := limiter.MayReview(context.Background(), "user-1", now)

	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMayReview_ReviewInsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	// Last review six days and 23 hours ago.
	stub := &recentReviewStub{lastReviewAt: now.Add(-(6*24*time.Hour + 23*time.Hour))}
	limiter := NewReviewRateLimiter(stub)

	allowed, err := limiter.MayReview(context.Background(), "user-1", now)

	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMayReview_ReviewExactlyAtBoundary(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	// A review created exactly 168h ago still counts: the window is
	// inclusive at its start.
	stub := &recentReviewStub{lastReviewAt: now.Add(-7 * 24 * time.Hour)}
	limiter := NewReviewRateLimiter(stub)

	allowed, err := limiter.MayReview(context.Background(), "user-1", now)

	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMayReview_WindowStartPassedToStore(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	repo := new(mockReviewRepository)
	limiter := NewReviewRateLimiter(repo)

	repo.On("HasReviewSince", mock.Anything, "user-1", now.Add(-7*24*time.Hour)).Return(false, nil)

	allowed, err := limiter.MayReview(context.Background(), "user-1", now)

	require.NoError(t, err)
	assert.True(t, allowed)
	repo.AssertExpectations(t)
}

func TestMayReview_StoreError(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	repo := new(mockReviewRepository)
	limiter := NewReviewRateLimiter(repo)

	repo.On("HasReviewSince", mock.Anything, "user-1", mock.AnythingOfType("time.Time")).
		Return(false, fmt.Errorf("connection reset"))

	allowed, err := limiter.MayReview(context.Background(), "user-1", now)

	assert.False(t, allowed)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "check review window")
}
