package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"tiendazo/internal/slug"
)

// demoProduct is a catalog row inserted by Seed.
type demoProduct struct {
	name        string
	description string
	price       float64
	featured    bool
}

// Seed populates the database with a public demo store and a small
// catalog so the storefront can be browsed in development. It is a no-op
// when any store already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM stores").Scan(&count); err != nil {
		return fmt.Errorf("seed check stores: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	name := "Tienda Demo"
	var storeID int64
	err = tx.QueryRow(`
		INSERT INTO stores (name, description, address, phone, email, slug, currency, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, 'COP', TRUE)
		RETURNING id
	`, name,
		"Productos artesanales hechos a mano en Medellín, con envíos a todo el país.",
		"Calle 10 # 43-12, Medellín", "+57 300 123 4567", "hola@tiendademo.co",
		slug.Generate(name),
	).Scan(&storeID)
	if err != nil {
		return fmt.Errorf("seed insert store: %w", err)
	}

	products := []demoProduct{
		{"Mochila Wayuu", "Mochila tejida a mano por artesanas de La Guajira.", 185000, true},
		{"Café de origen 500g", "Café especial de Huila, tostión media, notas a panela.", 42000, true},
		{"Sombrero vueltiao", "Sombrero tradicional en caña flecha de 19 vueltas.", 230000, false},
		{"Hamaca de algodón", "Hamaca doble tejida en telar, ideal para exteriores.", 310000, false},
	}
	for _, p := range products {
		_, err := tx.Exec(`
			INSERT INTO products (store_id, name, description, sell_price, featured)
			VALUES ($1, $2, $3, $4, $5)
		`, storeID, p.name, p.description, p.price, p.featured)
		if err != nil {
			return fmt.Errorf("seed insert product %q: %w", p.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo store",
		"store_id", storeID,
		"slug", slug.Generate(name),
		"products", len(products),
	)
	return nil
}
