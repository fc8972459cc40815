// Package router sets up all HTTP routes and middleware chains for the
// storefront server. It organizes routes into the admin theme API, the
// rate-limited public storefront and the static bundle tree.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tiendazo/internal/handlers"
	"tiendazo/internal/middleware"
)

// Options configure the router.
type Options struct {
	// SitesRoot is the directory holding generated bundles.
	SitesRoot string
	// HSTS enables Strict-Transport-Security on every response.
	HSTS bool
	// Limiter throttles public storefront routes. Nil disables limiting.
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, themes *handlers.Themes, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.HSTS))

	r.Get("/health", healthHandler)

	// Admin theme API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/templates", themes.Templates)

		r.Route("/stores/{storeID}/theme", func(r chi.Router) {
			r.Get("/", themes.Get)
			r.Post("/", themes.Create)
			r.Put("/", themes.Update)
			r.Patch("/", themes.Update)
			r.Delete("/", themes.Delete)

			r.Post("/verify-domain", themes.VerifyDomain)
			r.Get("/cache-log", themes.CacheLog)
			r.Get("/render", themes.RenderHTML)
			r.Post("/render", themes.Render)
			r.Post("/preview", themes.Preview)
		})
	})

	// Public storefront, one page per store slug.
	r.Route("/public/stores/{slug}", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}
		r.Get("/theme", public.Theme)
		r.Get("/render", public.Render)
		r.Get("/styles.css", public.SiteFile)
		r.Get("/app.js", public.SiteFile)
	})

	// Generated bundles as plain static files.
	if opts.SitesRoot != "" {
		r.Handle("/sites/*", handlers.Sites(opts.SitesRoot))
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
