// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the database access layer. SiteStore keeps one
// JSONB document per wedding site, filterable by the site slug.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"vowsite/internal/models"
)

// SiteStore handles all wedding-site document operations.
type SiteStore struct {
	db *sql.DB
}

// NewSiteStore creates a new SiteStore with the given database connection.
func NewSiteStore(db *sql.DB) *SiteStore {
	return &SiteStore{db: db}
}

// siteColumns lists the columns selected in site queries.
const siteColumns = `id, site_id, template, data, created_at, updated_at`

// scanSite scans a site row from the result set, decoding the JSONB
// document into the page map.
func scanSite(scanner interface{ Scan(...any) error }) (*models.Site, error) {
	var s models.Site
	var raw []byte
	err := scanner.Scan(&s.ID, &s.SiteID, &s.Template, &raw, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.Data); err != nil {
		return nil, fmt.Errorf("decode site data: %w", err)
	}
	return &s, nil
}

// FindBySiteID retrieves a site document by its slug. Returns (nil, nil)
// when no document exists — the implicit create path of the save pipeline.
func (s *SiteStore) FindBySiteID(siteID string) (*models.Site, error) {
	row := s.db.QueryRow(`SELECT `+siteColumns+` FROM wedding_sites WHERE site_id = $1`, siteID)
	site, err := scanSite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find site by site_id: %w", err)
	}
	return site, nil
}

// Create inserts a new site document and returns it with the generated ID.
func (s *SiteStore) Create(site *models.Site) (*models.Site, error) {
	raw, err := json.Marshal(site.Data)
	if err != nil {
		return nil, fmt.Errorf("encode site data: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO wedding_sites (site_id, template, data)
		VALUES ($1, $2, $3)
		RETURNING `+siteColumns,
		site.SiteID, site.Template, raw,
	)
	created, err := scanSite(row)
	if err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	return created, nil
}

// Update rewrites the template and document of an existing site,
// identified by its store-assigned ID. The document write is a single
// statement; concurrent saves to the same site are last-writer-wins.
func (s *SiteStore) Update(id uuid.UUID, template string, data models.SiteData) (*models.Site, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode site data: %w", err)
	}

	row := s.db.QueryRow(`
		UPDATE wedding_sites
		SET template = $1, data = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+siteColumns,
		template, raw, id,
	)
	updated, err := scanSite(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("update site: %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update site: %w", err)
	}
	return updated, nil
}

// List returns all site documents ordered by slug. Used to enumerate
// servable pages and to populate the editor's site picker.
func (s *SiteStore) List() ([]models.Site, error) {
	rows, err := s.db.Query(`SELECT ` + siteColumns + ` FROM wedding_sites ORDER BY site_id`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, *site)
	}
	return sites, rows.Err()
}

// Count returns the total number of site documents.
func (s *SiteStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM wedding_sites`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sites: %w", err)
	}
	return count, nil
}
