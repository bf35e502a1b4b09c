package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fieldworks/fieldworks-api/internal/auth"
	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/metrics"
	"github.com/fieldworks/fieldworks-api/internal/ratelimit"
)

// RouterConfig collects everything the router needs.
type RouterConfig struct {
	Auth          *AuthHandler
	Products      *ProductHandler
	KnowledgeBase *KnowledgeBaseHandler
	Orders        *OrderHandler
	Weather       *WeatherHandler

	AuthMiddleware *auth.Middleware
	Limiter        ratelimit.Limiter
	Metrics        *metrics.Metrics
	Responder      *Responder
	Logger         zerolog.Logger

	// UploadsDir, when set, is served statically under /uploads/.
	UploadsDir string
}

// NewRouter wires every endpoint onto a chi router.
//
// Route-level role gates are coarse: products mutations require admin,
// knowledge base mutations require publisher or admin, order
// administration requires admin. Ownership of individual documents is
// enforced inside the services.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Recoverer(cfg.Responder, cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	if cfg.Limiter != nil {
		r.Use(ratelimit.Middleware(cfg.Limiter, cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		cfg.Responder.Data(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", cfg.Auth.Register)
		r.Post("/login", cfg.Auth.Login)
		r.With(cfg.AuthMiddleware.Require).Get("/me", cfg.Auth.Me)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", cfg.Products.List)
		r.Get("/{id}", cfg.Products.Get)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware.Require)
			r.Use(auth.RequireRoles(domain.RoleAdmin))
			r.Post("/", cfg.Products.Create)
			r.Put("/{id}", cfg.Products.Update)
			r.Delete("/{id}", cfg.Products.Delete)
			r.Put("/{id}/photo", cfg.Products.UploadPhoto)
		})
	})

	r.Route("/api/knowledge-base", func(r chi.Router) {
		r.Get("/", cfg.KnowledgeBase.List)
		r.Get("/search", cfg.KnowledgeBase.Search)
		r.Get("/{id}", cfg.KnowledgeBase.Get)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware.Require)
			r.Use(auth.RequireRoles(domain.RolePublisher, domain.RoleAdmin))
			r.Post("/", cfg.KnowledgeBase.Create)
			r.Put("/{id}", cfg.KnowledgeBase.Update)
			r.Delete("/{id}", cfg.KnowledgeBase.Delete)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(cfg.AuthMiddleware.Require)

		r.Post("/", cfg.Orders.Create)
		r.Get("/myorders", cfg.Orders.ListMine)
		r.Get("/{id}", cfg.Orders.Get)
		r.Put("/{id}/pay", cfg.Orders.Pay)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(domain.RoleAdmin))
			r.Get("/", cfg.Orders.ListAll)
			r.Put("/{id}/deliver", cfg.Orders.Deliver)
			r.Put("/{id}/updatestock", cfg.Orders.UpdateStock)
			r.Delete("/{id}", cfg.Orders.Delete)
		})
	})

	r.Route("/api/weather", func(r chi.Router) {
		r.Get("/forecast/{city}", cfg.Weather.Forecast)
		r.Get("/{city}", cfg.Weather.Current)
	})

	return r
}
