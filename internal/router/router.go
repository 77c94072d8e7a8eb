// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// portfolio API. Reads are public; writes require a session.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
)

// Handlers bundles the handler groups mounted under /api.
type Handlers struct {
	Auth       *handlers.Auth
	Categories *handlers.Categories
	Projects   *handlers.Projects
	Blog       *handlers.Blog
	Experience *handlers.Experience
	Skills     *handlers.Skills
	Site       *handlers.Site
}

// Options carries the cross-cutting pieces of the middleware chain.
type Options struct {
	Sessions      middleware.SessionLoader
	LoginLimiter  *middleware.RateLimiter
	SecureCookies bool
}

// New creates the chi router with all middleware and route groups wired up.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(opts.Sessions))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	// Health check, no auth and no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		// Public reads.
		r.Get("/content-categories", h.Categories.List)
		r.Get("/content-categories/tree", h.Categories.Tree)
		r.Get("/categories", h.Skills.ListCategories)
		r.Get("/projects", h.Projects.List)
		r.Get("/projects/{id}", h.Projects.Get)
		r.Get("/blog", h.Blog.List)
		r.Get("/blog/{ref}", h.Blog.Get)
		r.Get("/experience", h.Experience.List)
		r.Get("/experience/{id}", h.Experience.Get)
		r.Get("/skills", h.Skills.List)
		r.Get("/profile", h.Site.Profile)

		r.Route("/auth", func(r chi.Router) {
			r.With(limit(opts.LoginLimiter)).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
		})

		// Signed-in users only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/stats", h.Site.Stats)

			r.Post("/content-categories", h.Categories.Create)
			r.Put("/content-categories/reorder", h.Categories.Reorder)
			r.Put("/content-categories/{id}", h.Categories.Update)
			r.Delete("/content-categories/{id}", h.Categories.Delete)

			r.Post("/categories", h.Skills.CreateCategory)
			r.Put("/categories/{id}", h.Skills.UpdateCategory)
			r.Delete("/categories/{id}", h.Skills.DeleteCategory)

			r.Post("/projects", h.Projects.Create)
			r.Put("/projects/{id}", h.Projects.Update)
			r.Delete("/projects/{id}", h.Projects.Delete)

			r.Post("/blog", h.Blog.Create)
			r.Put("/blog/{ref}", h.Blog.Update)
			r.Delete("/blog/{ref}", h.Blog.Delete)

			r.Post("/experience", h.Experience.Create)
			r.Put("/experience/{id}", h.Experience.Update)
			r.Delete("/experience/{id}", h.Experience.Delete)

			r.Post("/skills", h.Skills.Create)
			r.Put("/skills/{id}", h.Skills.Update)
			r.Delete("/skills/{id}", h.Skills.Delete)

			r.Post("/upload", h.Site.Upload)
			r.Delete("/upload", h.Site.DeleteUpload)

			// Site-wide profile, admin only.
			r.With(middleware.RequireAdmin).Put("/profile", h.Site.UpdateProfile)
		})
	})

	return r
}

// limit returns the limiter's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not found."}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":"Method not allowed."}`))
}
