// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"tiendazo/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "tiendazo")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "tiendazo")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestStore inserts a store and removes it (with its products and
// theme) when the test finishes.
func createTestStore(t *testing.T, db *sql.DB, name, slug string, public bool) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO stores (name, description, address, slug, is_public)
		VALUES ($1, 'Tienda creada por las pruebas de integración', 'Calle 10 # 5-20', NULLIF($2, ''), $3)
		RETURNING id
	`, name, slug, public).Scan(&id)
	if err != nil {
		t.Fatalf("create test store: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM stores WHERE id = $1", id)
	})
	return id
}

// createTestProduct inserts a product for storeID.
func createTestProduct(t *testing.T, db *sql.DB, storeID int64, name string, price float64, featured bool) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO products (store_id, name, sell_price, featured)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, storeID, name, price, featured).Scan(&id)
	if err != nil {
		t.Fatalf("create test product: %v", err)
	}
	return id
}
