package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN(), 25)
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed creates data only when the table is empty; calling it twice
	// must not duplicate the demo site.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM wedding_sites WHERE site_id = $1", demoSiteID).Scan(&count); err != nil {
		t.Fatalf("count demo sites: %v", err)
	}
	if count > 1 {
		t.Errorf("expected at most 1 demo site, got %d", count)
	}

	// The demo document must be valid JSON with an active home page.
	var active bool
	err = db.QueryRow(
		"SELECT (data->'home'->>'active')::bool FROM wedding_sites WHERE site_id = $1", demoSiteID,
	).Scan(&active)
	if err != nil {
		t.Skipf("demo site not present (another run seeded first): %v", err)
	}
	if !active {
		t.Error("demo home page should be active")
	}
}
