package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantUserID != "" {
			assert.Equal(t, wantUserID, UserIDFromContext(r.Context()))
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingHeader(t *testing.T) {
	mw := Auth(func(token string) (*Claims, error) {
		t.Fatal("validator should not be called")
		return nil, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/favorites", nil)
	mw(okHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	mw := Auth(func(token string) (*Claims, error) { return nil, nil })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/favorites", nil)
	req.Header.Set("Authorization", "Token abc")
	mw(okHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	mw := Auth(func(token string) (*Claims, error) {
		return nil, errors.New("expired")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/favorites", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	mw(okHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidToken_InjectsClaims(t *testing.T) {
	mw := Auth(func(token string) (*Claims, error) {
		assert.Equal(t, "good-token", token)
		return &Claims{UserID: "user-1", Role: "user"}, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/favorites", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	mw(okHandler(t, "user-1")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_BearerCaseInsensitive(t *testing.T) {
	mw := Auth(func(token string) (*Claims, error) {
		return &Claims{UserID: "user-1"}, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/favorites", nil)
	req.Header.Set("Authorization", "bearer good-token")
	mw(okHandler(t, "user-1")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	handler := Auth(func(token string) (*Claims, error) {
		return &Claims{UserID: "user-1", Role: "user"}, nil
	})(RequireRole("admin")(okHandler(t, "")))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/businesses/x", nil)
	req.Header.Set("Authorization", "Bearer tok")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	handler := Auth(func(token string) (*Claims, error) {
		return &Claims{UserID: "admin-1", Role: "admin"}, nil
	})(RequireRole("admin")(okHandler(t, "")))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/businesses/x", nil)
	req.Header.Set("Authorization", "Bearer tok")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", UserIDFromContext(req.Context()))
}
