package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// demoSiteID is the slug of the development demo site.
const demoSiteID = "jane-and-john"

// demoData is a minimal site document so the public renderer and the
// editor have something to show on a fresh database.
const demoData = `{
  "home": {
    "active": true,
    "displayName": "Home",
    "title": "Jane & John",
    "welcomeText": "We are getting married! Join us on **June 14th** in the old orchard."
  },
  "our-story": {
    "active": true,
    "displayName": "Our Story",
    "title": "How it started",
    "text": "We met at a pottery class neither of us meant to sign up for."
  }
}`

// Seed populates the database with initial development data.
// It creates a demo wedding site if no sites exist yet.
func Seed(db *sql.DB) error {
	// Check if any sites exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM wedding_sites").Scan(&count); err != nil {
		return fmt.Errorf("seed check sites: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO wedding_sites (site_id, template, data)
		VALUES ($1, $2, $3)
	`, demoSiteID, "minimalist", demoData)
	if err != nil {
		return fmt.Errorf("seed insert demo site: %w", err)
	}

	slog.Info("database seeded with demo site", "site_id", demoSiteID)
	return nil
}
