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

// The stores table is owned by the retail back office. ShopStore only reads it.
const shopColumns = `
	id, name, COALESCE(description, ''), COALESCE(address, ''),
	COALESCE(phone, ''), COALESCE(email, ''), COALESCE(logo, ''),
	COALESCE(banner, ''), COALESCE(slug, ''), currency,
	is_active, is_public, created_at`

// ShopStore reads retail store records.
type ShopStore struct {
	db *sql.DB
}

// NewShopStore creates a new ShopStore with the given database connection.
func NewShopStore(db *sql.DB) *ShopStore {
	return &ShopStore{db: db}
}

// FindByID retrieves a store by its ID. Returns nil if not found.
func (s *ShopStore) FindByID(ctx context.Context, id int64) (*models.Store, error) {
	st, err := scanShop(s.db.QueryRowContext(ctx,
		`SELECT `+shopColumns+` FROM stores WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find store by id: %w", err)
	}
	return st, nil
}

// FindBySlug retrieves an active public store by slug. Returns nil if not
// found, private or inactive.
func (s *ShopStore) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	st, err := scanShop(s.db.QueryRowContext(ctx, `
		SELECT `+shopColumns+` FROM stores
		WHERE slug = $1 AND is_public = TRUE AND is_active = TRUE
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find store by slug: %w", err)
	}
	return st, nil
}

func scanShop(row *sql.Row) (*models.Store, error) {
	st := &models.Store{}
	err := row.Scan(
		&st.ID, &st.Name, &st.Description, &st.Address,
		&st.Phone, &st.Email, &st.Logo,
		&st.Banner, &st.Slug, &st.Currency,
		&st.IsActive, &st.IsPublic, &st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return st, nil
}
