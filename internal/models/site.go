// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the persisted data shapes of the wedding site
// builder: one Site document per slug, holding one Page record per page.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Site is the persisted document for one wedding site. SiteID is the
// URL-safe slug chosen by the operator and is immutable once created.
// Template names the active theme and is rewritten on every page save
// (last writer wins).
type Site struct {
	ID        uuid.UUID `json:"id"`
	SiteID    string    `json:"siteId"`
	Template  string    `json:"template"`
	Data      SiteData  `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteData maps page names ("home", "our-story", ...) to their records.
type SiteData map[string]Page

// Clone returns a deep copy of the site data. Page saves merge into a
// copy so a failed write never leaves a half-mutated document in memory.
func (d SiteData) Clone() SiteData {
	out := make(SiteData, len(d))
	for name, page := range d {
		out[name] = page.Clone()
	}
	return out
}

// ActivePages returns the names of publicly servable pages, in the order
// given by pageOrder. Pages not present in the data are skipped.
func (d SiteData) ActivePages(pageOrder []string) []string {
	var out []string
	for _, name := range pageOrder {
		if page, ok := d[name]; ok && page.Active {
			out = append(out, name)
		}
	}
	return out
}
