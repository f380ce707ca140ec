package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(storefront *handler.StorefrontHandler, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Correlation ID first so recovery and logging can report it.
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(chimw.StripSlashes)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", storefront.View)
		r.Post("/filters", storefront.ChangeFilters)
		r.Post("/page", storefront.ChangePage)

		r.Route("/cart", func(r chi.Router) {
			r.Delete("/", storefront.ClearCart)
			r.Post("/items", storefront.AddItem)
			r.Post("/items/{id}/increment", storefront.IncrementItem)
			r.Post("/items/{id}/decrement", storefront.DecrementItem)
			r.Delete("/items/{id}", storefront.RemoveItem)
		})

		r.Post("/catalog/reload", storefront.ReloadCatalog)
		r.Post("/checkout", storefront.Checkout)
		r.Delete("/storage", storefront.ResetStorage)
	})

	return r
}
