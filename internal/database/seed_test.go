package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Other packages may share the database, so only idempotency is checked.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var stores int
	if err := db.QueryRow("SELECT COUNT(*) FROM stores").Scan(&stores); err != nil {
		t.Fatalf("count stores: %v", err)
	}
	if stores < 1 {
		t.Errorf("expected at least 1 store, got %d", stores)
	}
}
