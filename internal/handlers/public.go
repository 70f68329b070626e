// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"vowsite/internal/cache"
	"vowsite/internal/models"
	"vowsite/internal/render"
	"vowsite/internal/themes"
)

// Public serves the rendered wedding pages. It checks the Valkey page
// cache before touching the database and caches rendered HTML on miss.
type Public struct {
	sites     SiteReader
	themes    *themes.Registry
	renderer  *render.Renderer
	pageCache *cache.PageCache
}

// NewPublic creates the public handler group. pageCache may be nil.
func NewPublic(sites SiteReader, reg *themes.Registry, renderer *render.Renderer, pageCache *cache.PageCache) *Public {
	return &Public{sites: sites, themes: reg, renderer: renderer, pageCache: pageCache}
}

// SitePage renders one page of one wedding site. Unknown sites, inactive
// pages, and pages the site's theme cannot render all answer 404; a
// visitor cannot tell an unpublished page from a nonexistent one.
func (p *Public) SitePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID := chi.URLParam(r, "siteID")
	page := chi.URLParam(r, "page")

	if cached, ok := p.pageCache.Get(ctx, siteID, page); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	s, err := p.sites.FindBySiteID(siteID)
	if err != nil {
		slog.Error("find site failed", "site_id", siteID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if s == nil {
		http.NotFound(w, r)
		return
	}

	rec, ok := s.Data[page]
	if !ok || !rec.Active {
		http.NotFound(w, r)
		return
	}

	// A page saved under a theme that cannot render it is as good as
	// absent for visitors.
	if !p.renderer.HasPage(s.Template, page) {
		http.NotFound(w, r)
		return
	}

	view := &render.PageView{
		SiteID: siteID,
		Page:   page,
		Title:  rec.DisplayName,
		Data:   rec,
		Nav:    p.navigation(s.Template, siteID, page, s.Data),
	}

	html, err := p.renderer.Page(s.Template, page, view)
	if err != nil {
		slog.Warn("page render failed", "site_id", siteID, "page", page, "template", s.Template, "error", err)
		http.NotFound(w, r)
		return
	}

	p.pageCache.Set(ctx, siteID, page, html)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// navigation builds the nav bar entries: every active page of the site,
// in the theme's declaration order. Active pages saved under names the
// theme does not declare are appended after the declared ones, sorted.
func (p *Public) navigation(template, siteID, current string, data models.SiteData) []render.NavItem {
	var order []string
	if t, ok := p.themes.Theme(template); ok {
		order = t.PageOrder()
	}

	declared := make(map[string]bool, len(order))
	for _, name := range order {
		declared[name] = true
	}
	var extra []string
	for name := range data {
		if !declared[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	items := make([]render.NavItem, 0, len(order))
	for _, name := range data.ActivePages(order) {
		items = append(items, render.NavItem{
			Page:        name,
			DisplayName: data[name].DisplayName,
			URL:         "/sites/" + siteID + "/" + name,
			Current:     name == current,
		})
	}
	return items
}
