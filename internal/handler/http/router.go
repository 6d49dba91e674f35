package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/silentc1/mobileotosanayi-sub000/internal/auth"
	"github.com/silentc1/mobileotosanayi-sub000/internal/service"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/health"
	"github.com/silentc1/mobileotosanayi-sub000/pkg/middleware"
)

// RouterConfig carries the transport-level knobs for the router.
type RouterConfig struct {
	ServiceName       string
	CORS              middleware.CORSConfig
	RateLimitRPS      int
	RateLimitBurst    int
	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	reviewService *service.ReviewService,
	businessService *service.BusinessService,
	favoriteService *service.FavoriteService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Profiling endpoints, gated by an IP allowlist. An empty allowlist
	// rejects every caller.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	// Token validator that bridges to the internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	reviewHandler := NewReviewHandler(reviewService, logger)
	businessHandler := NewBusinessHandler(businessService, logger)
	favoriteHandler := NewFavoriteHandler(favoriteService, logger)

	// Public directory and review reads. Directory pages change rarely, so
	// let intermediaries cache them briefly.
	r.Route("/api/v1/businesses", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(60))
			r.Get("/", businessHandler.List)
			r.Get("/{idOrSlug}", businessHandler.Get)
		})

		// Directory registration is an operator action.
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole("admin"))
			r.Post("/", businessHandler.Create)
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/business/{businessId}", reviewHandler.ListByBusiness)

		// Mutations require authentication
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))

			r.Post("/", reviewHandler.Create)
			r.Put("/{id}", reviewHandler.Update)
			r.Delete("/{id}", reviewHandler.Delete)
			r.Post("/{id}/like", reviewHandler.Like)
		})
	})

	// Favorites (auth required; the mobile client calls these under /auth)
	r.Route("/api/v1/auth/favorites", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", favoriteHandler.List)
		r.Post("/add", favoriteHandler.Add)
		r.Post("/remove", favoriteHandler.Remove)
	})

	return r
}
