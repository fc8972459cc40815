// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"tiendazo/internal/models"
)

var (
	// ErrThemeExists is returned when a store already has a theme.
	ErrThemeExists = errors.New("store already has a theme")

	// ErrDomainTaken is returned when another store uses the custom domain.
	ErrDomainTaken = errors.New("custom domain already in use")
)

const (
	uniqueViolation = "23505"

	themeStoreConstraint  = "store_themes_store_id_key"
	themeDomainConstraint = "idx_store_themes_custom_domain"
)

// themeColumns is the SELECT list matching scanTheme. Nullable text
// columns are read as empty strings and JSON columns as text.
const themeColumns = `
	id, store_id, template,
	COALESCE(primary_color, ''), COALESCE(secondary_color, ''), COALESCE(accent_color, ''),
	COALESCE(background_color, ''), COALESCE(text_color, ''),
	COALESCE(font_family, ''), COALESCE(heading_font, ''), COALESCE(body_font, ''),
	COALESCE(favicon, ''), COALESCE(custom_banner, ''),
	show_reviews, show_featured, show_categories, show_contact, show_blog,
	layout_config::text,
	COALESCE(custom_domain, ''), COALESCE(subdomain, ''), domain_verified,
	COALESCE(domain_config::text, ''),
	COALESCE(google_analytics_id, ''), COALESCE(facebook_pixel_id, ''), COALESCE(mailchimp_list_id, ''),
	COALESCE(site_path, ''), COALESCE(index_path, ''),
	created_at, updated_at`

// ThemeStore handles all store theme database operations.
type ThemeStore struct {
	db *sql.DB
}

// NewThemeStore creates a new ThemeStore with the given database connection.
func NewThemeStore(db *sql.DB) *ThemeStore {
	return &ThemeStore{db: db}
}

// FindByStoreID returns the theme of a store. Returns nil if not found.
func (s *ThemeStore) FindByStoreID(ctx context.Context, storeID int64) (*models.StoreTheme, error) {
	t, err := scanTheme(s.db.QueryRowContext(ctx,
		`SELECT `+themeColumns+` FROM store_themes WHERE store_id = $1`, storeID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find theme by store: %w", err)
	}
	return t, nil
}

// FindOrCreate returns the theme of a store, inserting the defaults first
// when the store has none. Concurrent callers all end up with the same row.
func (s *ThemeStore) FindOrCreate(ctx context.Context, storeID int64) (*models.StoreTheme, error) {
	d := models.NewDefaultTheme(storeID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO store_themes (
			store_id, template, primary_color, secondary_color, accent_color,
			background_color, text_color, font_family, heading_font, body_font,
			show_reviews, show_featured, show_categories, show_contact, show_blog,
			layout_config
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16::jsonb)
		ON CONFLICT (store_id) DO NOTHING
	`, d.StoreID, d.Template, d.PrimaryColor, d.SecondaryColor, d.AccentColor,
		d.BackgroundColor, d.TextColor, d.FontFamily, d.HeadingFont, d.BodyFont,
		d.ShowReviews, d.ShowFeatured, d.ShowCategories, d.ShowContact, d.ShowBlog,
		string(d.LayoutConfig),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert default theme: %w", err)
	}

	t, err := s.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("upsert default theme: row for store %d vanished", storeID)
	}
	return t, nil
}

// Create inserts a new theme. Returns ErrThemeExists when the store
// already has one and ErrDomainTaken when the custom domain is in use.
func (s *ThemeStore) Create(ctx context.Context, t *models.StoreTheme) (*models.StoreTheme, error) {
	result, err := scanTheme(s.db.QueryRowContext(ctx, `
		INSERT INTO store_themes (
			store_id, template, primary_color, secondary_color, accent_color,
			background_color, text_color, font_family, heading_font, body_font,
			favicon, custom_banner,
			show_reviews, show_featured, show_categories, show_contact, show_blog,
			layout_config, custom_domain, subdomain, domain_verified, domain_config,
			google_analytics_id, facebook_pixel_id, mailchimp_list_id
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17,
			$18::jsonb, NULLIF($19, ''), NULLIF($20, ''), $21, NULLIF($22, '')::jsonb,
			$23, $24, $25
		)
		RETURNING `+themeColumns,
		t.StoreID, t.Template, t.PrimaryColor, t.SecondaryColor, t.AccentColor,
		t.BackgroundColor, t.TextColor, t.FontFamily, t.HeadingFont, t.BodyFont,
		t.Favicon, t.CustomBanner,
		t.ShowReviews, t.ShowFeatured, t.ShowCategories, t.ShowContact, t.ShowBlog,
		layoutText(t.LayoutConfig), t.CustomDomain, t.Subdomain, t.DomainVerified, string(t.DomainConfig),
		t.GoogleAnalyticsID, t.FacebookPixelID, t.MailchimpListID,
	))
	if err != nil {
		return nil, fmt.Errorf("create theme: %w", mapUniqueViolation(err))
	}
	return result, nil
}

// Update writes every configuration field of t and clears the cached site
// pointers in the same statement. Returns nil if the theme does not exist.
func (s *ThemeStore) Update(ctx context.Context, t *models.StoreTheme) (*models.StoreTheme, error) {
	result, err := scanTheme(s.db.QueryRowContext(ctx, `
		UPDATE store_themes SET
			template = $2, primary_color = $3, secondary_color = $4, accent_color = $5,
			background_color = $6, text_color = $7, font_family = $8, heading_font = $9,
			body_font = $10, favicon = $11, custom_banner = $12,
			show_reviews = $13, show_featured = $14, show_categories = $15,
			show_contact = $16, show_blog = $17,
			layout_config = $18::jsonb,
			custom_domain = NULLIF($19, ''), subdomain = NULLIF($20, ''),
			domain_verified = $21, domain_config = NULLIF($22, '')::jsonb,
			google_analytics_id = $23, facebook_pixel_id = $24, mailchimp_list_id = $25,
			site_path = NULL, index_path = NULL,
			updated_at = NOW()
		WHERE store_id = $1
		RETURNING `+themeColumns,
		t.StoreID, t.Template, t.PrimaryColor, t.SecondaryColor, t.AccentColor,
		t.BackgroundColor, t.TextColor, t.FontFamily, t.HeadingFont,
		t.BodyFont, t.Favicon, t.CustomBanner,
		t.ShowReviews, t.ShowFeatured, t.ShowCategories,
		t.ShowContact, t.ShowBlog,
		layoutText(t.LayoutConfig),
		t.CustomDomain, t.Subdomain,
		t.DomainVerified, string(t.DomainConfig),
		t.GoogleAnalyticsID, t.FacebookPixelID, t.MailchimpListID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update theme: %w", mapUniqueViolation(err))
	}
	return result, nil
}

// SetSitePaths records where the generated bundle of a store lives. The
// pointers are only stored when the theme was not modified since
// updatedAt, so a bundle rendered from a stale configuration is never
// cached. Reports whether the row was updated.
func (s *ThemeStore) SetSitePaths(ctx context.Context, storeID int64, updatedAt time.Time, sitePath, indexPath string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE store_themes SET site_path = NULLIF($3, ''), index_path = NULLIF($4, '')
		WHERE store_id = $1 AND updated_at = $2
	`, storeID, updatedAt, sitePath, indexPath)
	if err != nil {
		return false, fmt.Errorf("set site paths: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set site paths: %w", err)
	}
	return n > 0, nil
}

// SetDomainVerified stores the outcome of a domain verification.
func (s *ThemeStore) SetDomainVerified(ctx context.Context, storeID int64, verified bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE store_themes SET domain_verified = $2, updated_at = NOW()
		WHERE store_id = $1
	`, storeID, verified)
	if err != nil {
		return fmt.Errorf("set domain verified: %w", err)
	}
	return nil
}

// Delete removes the theme of a store and returns the deleted row, or nil
// when there was none.
func (s *ThemeStore) Delete(ctx context.Context, storeID int64) (*models.StoreTheme, error) {
	t, err := scanTheme(s.db.QueryRowContext(ctx,
		`DELETE FROM store_themes WHERE store_id = $1 RETURNING `+themeColumns, storeID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete theme: %w", err)
	}
	return t, nil
}

func scanTheme(row *sql.Row) (*models.StoreTheme, error) {
	t := &models.StoreTheme{}
	var layout, domain string
	err := row.Scan(
		&t.ID, &t.StoreID, &t.Template,
		&t.PrimaryColor, &t.SecondaryColor, &t.AccentColor,
		&t.BackgroundColor, &t.TextColor,
		&t.FontFamily, &t.HeadingFont, &t.BodyFont,
		&t.Favicon, &t.CustomBanner,
		&t.ShowReviews, &t.ShowFeatured, &t.ShowCategories, &t.ShowContact, &t.ShowBlog,
		&layout,
		&t.CustomDomain, &t.Subdomain, &t.DomainVerified,
		&domain,
		&t.GoogleAnalyticsID, &t.FacebookPixelID, &t.MailchimpListID,
		&t.SitePath, &t.IndexPath,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.LayoutConfig = json.RawMessage(layout)
	if domain != "" {
		t.DomainConfig = json.RawMessage(domain)
	}
	return t, nil
}

func layoutText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

// mapUniqueViolation turns unique constraint failures into sentinel errors.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case themeStoreConstraint:
		return ErrThemeExists
	case themeDomainConstraint:
		return ErrDomainTaken
	}
	return err
}
