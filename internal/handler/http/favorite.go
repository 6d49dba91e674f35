package http

import (
	"log/slog"
	"net/http"

	"github.com/silentc1/mobileotosanayi-sub000/internal/domain"
	"github.com/silentc1/mobileotosanayi-sub000/internal/service"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/httputil"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/middleware"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/validator"
)

// FavoriteHandler handles HTTP requests for the favorites endpoints.
type FavoriteHandler struct {
	service *service.FavoriteService
	logger  *slog.Logger
}

// NewFavoriteHandler creates a new favorites HTTP handler.
func NewFavoriteHandler(svc *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: svc,
		logger:  logger,
	}
}

// FavoriteRequest is the JSON request body for adding or removing a favorite.
type FavoriteRequest struct {
	BusinessID string `json:"business_id" validate:"required,uuid"`
}

// FavoriteListResponse wraps the resolved favorite businesses.
type FavoriteListResponse struct {
	Favorites []domain.Business `json:"favorites"`
}

// List handles GET /api/v1/auth/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	businesses, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: FavoriteListResponse{Favorites: businesses},
	})
}

// Add handles POST /api/v1/auth/favorites/add
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req FavoriteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.Add(r.Context(), userID, req.BusinessID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"business_id": req.BusinessID, "status": "added"},
	})
}

// Remove handles POST /api/v1/auth/favorites/remove
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req FavoriteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), userID, req.BusinessID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"business_id": req.BusinessID, "status": "removed"},
	})
}
