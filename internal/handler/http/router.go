package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NozadzeJaba/restorani/internal/view"
	"github.com/NozadzeJaba/restorani/pkg/health"
	"github.com/NozadzeJaba/restorani/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	storefront *StorefrontHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	sessionTTL time.Duration,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Static assets
	r.Handle("/static/*", view.StaticHandler())

	// Storefront pages and actions
	r.Group(func(r chi.Router) {
		r.Use(VisitorSession(sessionTTL))
		r.Use(middleware.RequestLogger(logger))

		r.Get("/", storefront.Menu)
		r.Post("/category/{id}", storefront.SetCategory)
		r.Post("/filters", storefront.SetFilters)
		r.Post("/filters/reset", storefront.ResetFilters)
		r.Post("/theme", storefront.ToggleTheme)

		r.Get("/basket", storefront.Basket)
		r.Post("/basket/items", storefront.AddItem)
		r.Post("/basket/items/{id}/increment", storefront.IncrementItem)
		r.Post("/basket/items/{id}/decrement", storefront.DecrementItem)
		r.Post("/basket/items/{id}/delete", storefront.RemoveItem)
	})

	return r
}
