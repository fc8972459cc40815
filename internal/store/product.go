// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"tiendazo/internal/models"
)

// ProductStore reads the catalog shown on storefronts.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// List returns the active products of a store, newest first.
func (s *ProductStore) List(ctx context.Context, storeID int64) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(image, ''), sell_price::float8
		FROM products
		WHERE store_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC, id DESC
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return scanProducts(rows)
}

// ListFeatured returns up to limit featured products of a store.
func (s *ProductStore) ListFeatured(ctx context.Context, storeID int64, limit int) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(image, ''), sell_price::float8
		FROM products
		WHERE store_id = $1 AND is_active = TRUE AND featured = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.SellPrice); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
