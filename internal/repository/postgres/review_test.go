package postgres

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	apperrors "github.com/silentc1/mobileotosanayi-sub000/pkg/errors"
)

func newReviewTestFixture(t *testing.T) (*ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewReviewRepository(mock)
	return repo, mock
}

func reviewTestColumns() []string {
	return []string{
		"id", "business_id", "user_id", "rating", "comment", "likes", "is_verified",
		"created_at", "updated_at",
	}
}

func testReview() *domain.Review {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Review{
		ID:         "rev-1",
		BusinessID: "biz-1",
		UserID:     "user-1",
		Rating:     4,
		Comment:    "Hizli ve temiz is cikardilar",
		Likes:      0,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestReviewRepository_Create_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.BusinessID, rv.UserID, rv.Rating, rv.Comment,
			rv.Likes, rv.IsVerified, rv.CreatedAt, rv.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), rv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_ExecError(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.BusinessID, rv.UserID, rv.Rating, rv.Comment,
			rv.Likes, rv.IsVerified, rv.CreatedAt, rv.UpdatedAt).
		WillReturnError(errors.New("permission denied for table reviews"))

	err := repo.Create(context.Background(), rv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert review")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_Timeout(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.BusinessID, rv.UserID, rv.Rating, rv.Comment,
			rv.Likes, rv.IsVerified, rv.CreatedAt, rv.UpdatedAt).
		WillReturnError(context.DeadlineExceeded)

	err := repo.Create(context.Background(), rv)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_ConnRefused(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.BusinessID, rv.UserID, rv.Rating, rv.Comment,
			rv.Likes, rv.IsVerified, rv.CreatedAt, rv.UpdatedAt).
		WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED})

	err := repo.Create(context.Background(), rv)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestReviewRepository_GetByID_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	rows := pgxmock.NewRows(reviewTestColumns()).
		AddRow(rv.ID, rv.BusinessID, rv.UserID, rv.Rating, rv.Comment,
			rv.Likes, rv.IsVerified, rv.CreatedAt, rv.UpdatedAt)

	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE id =").
		WithArgs("rev-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "rev-1")
	require.NoError(t, err)
	assert.Equal(t, rv.ID, got.ID)
	assert.Equal(t, rv.Rating, got.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE id =").
		WithArgs("rev-missing").
		WillReturnRows(pgxmock.NewRows(reviewTestColumns()))

	got, err := repo.GetByID(context.Background(), "rev-missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestReviewRepository_Update_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	rv.Rating = 5
	mock.ExpectExec("UPDATE reviews").
		WithArgs(rv.ID, rv.Rating, rv.Comment, rv.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), rv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_NotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	mock.ExpectExec("UPDATE reviews").
		WithArgs(rv.ID, rv.Rating, rv.Comment, rv.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), rv)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM reviews WHERE id =").
		WithArgs("rev-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "rev-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM reviews WHERE id =").
		WithArgs("rev-missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "rev-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// IncrementLikes
// ---------------------------------------------------------------------------

func TestReviewRepository_IncrementLikes_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	rows := pgxmock.NewRows(reviewTestColumns()).
		AddRow(rv.ID, rv.BusinessID, rv.UserID, rv.Rating, rv.Comment,
			3, rv.IsVerified, rv.CreatedAt, rv.UpdatedAt)

	mock.ExpectQuery("UPDATE reviews").
		WithArgs("rev-1").
		WillReturnRows(rows)

	got, err := repo.IncrementLikes(context.Background(), "rev-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_IncrementLikes_NotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE reviews").
		WithArgs("rev-missing").
		WillReturnRows(pgxmock.NewRows(reviewTestColumns()))

	got, err := repo.IncrementLikes(context.Background(), "rev-missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListByBusinessID
// ---------------------------------------------------------------------------

func TestReviewRepository_ListByBusinessID_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := testReview()
	columns := append(reviewTestColumns(), "total_count")
	rows := pgxmock.NewRows(columns).
		AddRow("rev-2", rv.BusinessID, "user-2", 5, "Cok memnun kaldim",
			1, false, rv.CreatedAt.Add(time.Hour), rv.UpdatedAt.Add(time.Hour), 2).
		AddRow(rv.ID, rv.BusinessID, rv.UserID, rv.Rating, rv.Comment,
			rv.Likes, rv.IsVerified, rv.CreatedAt, rv.UpdatedAt, 2)

	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs("biz-1", 20, 0).
		WillReturnRows(rows)

	reviews, total, err := repo.ListByBusinessID(context.Background(), "biz-1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, reviews, 2)
	assert.Equal(t, "rev-2", reviews[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByBusinessID_Empty(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	columns := append(reviewTestColumns(), "total_count")
	mock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs("biz-quiet", 20, 0).
		WillReturnRows(pgxmock.NewRows(columns))

	reviews, total, err := repo.ListByBusinessID(context.Background(), "biz-quiet", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, reviews)
	assert.Len(t, reviews, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// AggregateByBusiness
// ---------------------------------------------------------------------------

func TestReviewRepository_AggregateByBusiness_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"avg", "count"}).
		AddRow(3.8333333333333335, 6)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("biz-1").
		WillReturnRows(rows)

	summary, err := repo.AggregateByBusiness(context.Background(), "biz-1")
	require.NoError(t, err)
	// The unrounded average is preserved.
	assert.InDelta(t, 3.8333333333333335, summary.AverageRating, 1e-12)
	assert.Equal(t, 6, summary.TotalCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_AggregateByBusiness_NoReviews(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("biz-quiet").
		WillReturnRows(rows)

	summary, err := repo.AggregateByBusiness(context.Background(), "biz-quiet")
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Equal(t, 0, summary.TotalCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// HasReviewSince
// ---------------------------------------------------------------------------

func TestReviewRepository_HasReviewSince(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	since := time.Date(2025, 5, 25, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1", since).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	has, err := repo.HasReviewSince(context.Background(), "user-1", since)
	require.NoError(t, err)
	assert.True(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_HasReviewSince_QueryError(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	since := time.Date(2025, 5, 25, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1", since).
		WillReturnError(errors.New("permission denied for table reviews"))

	_, err := repo.HasReviewSince(context.Background(), "user-1", since)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check recent review")
	assert.NoError(t, mock.ExpectationsWereMet())
}
