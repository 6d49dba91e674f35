package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	apperrors "github.com/silentc1/mobileotosanayi-sub000/pkg/errors"
)

func newTestBusinessService(t *testing.T, businesses *mockBusinessRepository) *BusinessService {
	t.Helper()
	return NewBusinessService(businesses, newTestCache(t), newTestLogger())
}

// --- CreateBusiness ---

func TestCreateBusiness_Success(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)
	ctx := context.Background()

	businesses.On("Create", ctx, mock.AnythingOfType("*domain.Business")).Return(nil)

	business, err := svc.CreateBusiness(ctx, &CreateBusinessInput{
		Name:     "Çelik Kaporta Dövme",
		City:     "Istanbul",
		District: "Maltepe",
		Category: "kaporta",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, business.ID)
	assert.Equal(t, "celik-kaporta-dovme", business.Slug)
	assert.Equal(t, 0.0, business.Rating)
	assert.Equal(t, 0, business.ReviewCount)
	businesses.AssertExpectations(t)
}

func TestCreateBusiness_MissingName(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)

	business, err := svc.CreateBusiness(context.Background(), &CreateBusinessInput{})

	assert.Nil(t, business)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	businesses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Get ---

func TestBusinessGet_ByUUID(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)
	ctx := context.Background()

	id := "70a9f734-1bb4-4bb1-8c3b-02e6b86f028f"
	expected := &domain.Business{ID: id, Name: "Usta Oto Servis", Slug: "usta-oto-servis"}
	businesses.On("GetByID", ctx, id).Return(expected, nil)

	got, err := svc.Get(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, expected.Name, got.Name)
	businesses.AssertNotCalled(t, "GetBySlug", mock.Anything, mock.Anything)
}

func TestBusinessGet_BySlug(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)
	ctx := context.Background()

	expected := &domain.Business{ID: "biz-1", Name: "Usta Oto Servis", Slug: "usta-oto-servis"}
	businesses.On("GetBySlug", ctx, "usta-oto-servis").Return(expected, nil)

	got, err := svc.Get(ctx, "usta-oto-servis")

	require.NoError(t, err)
	assert.Equal(t, "biz-1", got.ID)
	businesses.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBusinessGet_SlugLookupIsNormalized(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)
	ctx := context.Background()

	expected := &domain.Business{ID: "biz-1", Slug: "celik-kaporta-dovme"}
	businesses.On("GetBySlug", ctx, "celik-kaporta-dovme").Return(expected, nil)

	// Raw Turkish text resolves through the same normalization slugs are
	// generated with.
	got, err := svc.Get(ctx, "Çelik Kaporta Dövme")

	require.NoError(t, err)
	assert.Equal(t, "biz-1", got.ID)
	businesses.AssertExpectations(t)
}

func TestBusinessGet_NotFound(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)
	ctx := context.Background()

	businesses.On("GetBySlug", ctx, "yok-boyle-bir-yer").
		Return(nil, apperrors.NotFound("business", "yok-boyle-bir-yer"))

	got, err := svc.Get(ctx, "yok-boyle-bir-yer")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBusinessGet_SecondCallServedFromCache(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)
	ctx := context.Background()

	expected := &domain.Business{ID: "biz-1", Name: "Usta Oto Servis", Slug: "usta-oto-servis"}
	businesses.On("GetBySlug", ctx, "usta-oto-servis").Return(expected, nil).Once()

	first, err := svc.Get(ctx, "usta-oto-servis")
	require.NoError(t, err)

	second, err := svc.Get(ctx, "usta-oto-servis")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	businesses.AssertExpectations(t)
}

// --- List ---

func TestBusinessList_Success(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)
	ctx := context.Background()

	expected := []domain.Business{
		{ID: "biz-2", Name: "Sahin Egzoz"},
		{ID: "biz-1", Name: "Usta Oto Servis"},
	}
	businesses.On("List", ctx, 1, 20).Return(expected, 5, nil)

	result, err := svc.List(ctx, 1, 20)

	require.NoError(t, err)
	assert.Len(t, result.Businesses, 2)
	assert.Equal(t, 5, result.TotalCount)
	assert.Equal(t, 1, result.TotalPages)
	businesses.AssertExpectations(t)
}

func TestBusinessList_ClampsPagination(t *testing.T) {
	businesses := new(mockBusinessRepository)
	svc := newTestBusinessService(t, businesses)
	ctx := context.Background()

	businesses.On("List", ctx, 1, 100).Return([]domain.Business{}, 0, nil)

	result, err := svc.List(ctx, -3, 9999)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.PerPage)
	businesses.AssertExpectations(t)
}
