package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/silentc1/mobileotosanayi-sub000/internal/service"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/httputil"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/pagination"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/validator"
)

// BusinessHandler handles HTTP requests for the business directory.
type BusinessHandler struct {
	service *service.BusinessService
	logger  *slog.Logger
}

// NewBusinessHandler creates a new business HTTP handler.
func NewBusinessHandler(svc *service.BusinessService, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateBusinessRequest is the JSON request body for registering a business.
type CreateBusinessRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	City        string `json:"city" validate:"omitempty,max=100"`
	District    string `json:"district" validate:"omitempty,max=100"`
	Category    string `json:"category" validate:"omitempty,max=100"`
}

// Create handles POST /api/v1/businesses
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateBusinessRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	business, err := h.service.CreateBusiness(r.Context(), &service.CreateBusinessInput{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		District:    req.District,
		Category:    req.Category,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: business})
}

// List handles GET /api/v1/businesses
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)

	result, err := h.service.List(r.Context(), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Get handles GET /api/v1/businesses/{idOrSlug}
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "business id or slug is required"},
		})
		return
	}

	business, err := h.service.Get(r.Context(), idOrSlug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: business})
}
