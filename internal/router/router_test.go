// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, the
// middleware chain, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vowsite/internal/form"
	"vowsite/internal/handlers"
	"vowsite/internal/models"
	"vowsite/internal/render"
	"vowsite/internal/themes"
)

type stubSaver struct{}

func (stubSaver) SavePage(ctx context.Context, sub *form.Submission) error { return nil }

type stubSites struct{}

func (stubSites) FindBySiteID(siteID string) (*models.Site, error) { return nil, nil }
func (stubSites) List() ([]models.Site, error)                     { return nil, nil }
func (stubSites) Count() (int, error)                              { return 0, nil }

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	reg, err := themes.Load()
	if err != nil {
		t.Fatalf("themes.Load: %v", err)
	}
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	api := handlers.NewAPI(stubSaver{}, stubSites{}, reg, nil)
	public := handlers.NewPublic(stubSites{}, reg, renderer, nil)

	r, limiter := New(api, public)
	t.Cleanup(limiter.Stop)
	return r
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRoutes(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/themes", http.StatusOK},
		{"GET", "/api/sites", http.StatusOK},
		{"GET", "/api/sites/unknown", http.StatusNotFound},
		{"GET", "/sites/unknown/home", http.StatusNotFound},
		{"GET", "/api/upload", http.StatusMethodNotAllowed},
		{"GET", "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestSecureHeadersApplied(t *testing.T) {
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
}
