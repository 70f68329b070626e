// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers wires HTTP requests to the save pipeline, the site
// store, and the public page renderer.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vowsite/internal/cache"
	"vowsite/internal/form"
	"vowsite/internal/models"
	"vowsite/internal/site"
	"vowsite/internal/themes"
)

// maxUploadSize caps one editor submission, all attachments included.
const maxUploadSize = 50 << 20

// memoryLimit is how much of a parsed multipart form is kept in memory
// before spilling to temp files.
const memoryLimit = 32 << 20

// PageSaver runs the save pipeline for one decoded submission.
type PageSaver interface {
	SavePage(ctx context.Context, sub *form.Submission) error
}

// SiteReader is the read-only store surface the handlers need.
type SiteReader interface {
	FindBySiteID(siteID string) (*models.Site, error)
	List() ([]models.Site, error)
	Count() (int, error)
}

// API groups the JSON endpoints used by the site editor.
type API struct {
	saver     PageSaver
	sites     SiteReader
	themes    *themes.Registry
	pageCache *cache.PageCache
}

// NewAPI creates the editor API handler group. pageCache may be nil.
func NewAPI(saver PageSaver, sites SiteReader, reg *themes.Registry, pageCache *cache.PageCache) *API {
	return &API{saver: saver, sites: sites, themes: reg, pageCache: pageCache}
}

// Upload accepts one multipart page submission and runs the save
// pipeline. The response body is always JSON with a success flag.
func (a *API) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	sub, err := form.Decode(r.MultipartForm)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.saver.SavePage(r.Context(), sub); err != nil {
		var ve *form.ValidationError
		var ue *site.UploadError
		var se *site.StoreError
		switch {
		case errors.As(err, &ve):
			writeJSONError(w, http.StatusBadRequest, ve.Error())
		case errors.As(err, &ue):
			slog.Error("upload failed", "site_id", sub.SiteID, "page", sub.Page, "error", err)
			writeJSONError(w, http.StatusBadGateway, "failed to store uploaded file")
		case errors.As(err, &se):
			slog.Error("save failed", "site_id", sub.SiteID, "page", sub.Page, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to save page")
		default:
			slog.Error("save failed", "site_id", sub.SiteID, "page", sub.Page, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to save page")
		}
		return
	}

	// The save may have changed navigation on every page of the site.
	a.pageCache.InvalidateSite(r.Context(), sub.SiteID)

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListThemes returns the theme registry: every theme with its pages and
// editable fields. The editor builds its forms from this.
func (a *API) ListThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"themes": a.themes.Themes()})
}

// ListSites returns every site document, ordered by slug, with the
// total count as a dashboard stat.
func (a *API) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := a.sites.List()
	if err != nil {
		slog.Error("list sites failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list sites")
		return
	}
	count, err := a.sites.Count()
	if err != nil {
		slog.Error("count sites failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list sites")
		return
	}
	if sites == nil {
		sites = []models.Site{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sites": sites, "count": count})
}

// GetSite returns one site document by its slug.
func (a *API) GetSite(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")

	s, err := a.sites.FindBySiteID(siteID)
	if err != nil {
		slog.Error("find site failed", "site_id", siteID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load site")
		return
	}
	if s == nil {
		writeJSONError(w, http.StatusNotFound, "site not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
