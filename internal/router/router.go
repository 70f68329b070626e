// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains: the
// editor API under /api and the public wedding pages under /sites.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vowsite/internal/handlers"
	"vowsite/internal/middleware"
)

// Upload rate limit: a burst of page saves is normal while editing, but
// each request can carry tens of megabytes.
const (
	uploadLimit  = 30
	uploadWindow = time.Minute
)

// New creates the configured chi router. The returned limiter must be
// stopped on shutdown.
func New(api *handlers.API, public *handlers.Public) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	limiter := middleware.NewRateLimiter(uploadLimit, uploadWindow)

	r.Route("/api", func(r chi.Router) {
		r.Get("/themes", api.ListThemes)
		r.Get("/sites", api.ListSites)
		r.Get("/sites/{siteID}", api.GetSite)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/upload", api.Upload)
		})
	})

	r.Get("/sites/{siteID}/{page}", public.SitePage)

	return r, limiter
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
