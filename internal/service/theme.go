// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service coordinates storefront themes: loading and editing the
// configuration of a store, rendering it with the matching template and
// keeping the generated static bundle in sync with the configuration.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tiendazo/internal/engine"
	"tiendazo/internal/models"
	"tiendazo/internal/sitegen"
	"tiendazo/internal/slug"
	"tiendazo/internal/store"
)

var (
	// ErrStoreNotFound is returned when the store does not exist or is
	// not publicly visible.
	ErrStoreNotFound = errors.New("store not found")

	// ErrSiteFileNotFound is returned for unknown bundle files.
	ErrSiteFileNotFound = errors.New("site file not found")

	// Store errors surfaced by the service.
	ErrThemeExists = store.ErrThemeExists
	ErrDomainTaken = store.ErrDomainTaken
)

// Deps groups the collaborators of a ThemeService. Locker, Verifier,
// CacheLog and Publisher are optional.
type Deps struct {
	Shops     ShopReader
	Products  ProductReader
	Themes    ThemeRepository
	Registry  *engine.Registry
	Sites     SiteWriter
	Locker    Locker
	Verifier  DomainVerifier
	CacheLog  InvalidationLog
	Publisher SitePublisher
}

// ThemeService is the entry point for every theme operation.
type ThemeService struct {
	shops     ShopReader
	products  ProductReader
	themes    ThemeRepository
	registry  *engine.Registry
	sites     SiteWriter
	locker    Locker
	verifier  DomainVerifier
	cacheLog  InvalidationLog
	publisher SitePublisher
}

// NewThemeService creates a ThemeService. Without a Locker, generation is
// serialized in-process; without a Verifier, PresenceVerifier is used.
func NewThemeService(d Deps) *ThemeService {
	s := &ThemeService{
		shops:     d.Shops,
		products:  d.Products,
		themes:    d.Themes,
		registry:  d.Registry,
		sites:     d.Sites,
		locker:    d.Locker,
		verifier:  d.Verifier,
		cacheLog:  d.CacheLog,
		publisher: d.Publisher,
	}
	if s.locker == nil {
		s.locker = &LocalLocker{}
	}
	if s.verifier == nil {
		s.verifier = PresenceVerifier{}
	}
	return s
}

// FindOne returns the theme of a store, or nil when it has none.
func (s *ThemeService) FindOne(ctx context.Context, storeID int64) (*models.StoreTheme, error) {
	return s.themes.FindByStoreID(ctx, storeID)
}

// FindOneOrCreate returns the theme of a store, creating the default theme
// when the store has none.
func (s *ThemeService) FindOneOrCreate(ctx context.Context, storeID int64) (*models.StoreTheme, error) {
	_, theme, err := s.load(ctx, storeID)
	return theme, err
}

// FindBySlug resolves a public store and its theme.
func (s *ThemeService) FindBySlug(ctx context.Context, raw string) (*models.Store, *models.StoreTheme, error) {
	normalized := slug.Generate(raw)
	if normalized == "" {
		return nil, nil, ErrStoreNotFound
	}

	st, err := s.shops.FindBySlug(ctx, normalized)
	if err != nil {
		return nil, nil, err
	}
	if st == nil {
		return nil, nil, ErrStoreNotFound
	}

	theme, err := s.themes.FindOrCreate(ctx, st.ID)
	if err != nil {
		return nil, nil, err
	}
	return st, theme, nil
}

// Create stores the first theme of a store: the defaults overlaid with in.
func (s *ThemeService) Create(ctx context.Context, storeID int64, in *models.ThemeInput) (*models.StoreTheme, error) {
	if _, err := s.store(ctx, storeID); err != nil {
		return nil, err
	}

	existing, err := s.themes.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrThemeExists
	}

	theme := models.NewDefaultTheme(storeID)
	if in != nil {
		in.ApplyTo(theme)
	}

	created, err := s.themes.Create(ctx, theme)
	if err != nil {
		return nil, err
	}

	slog.Info("store theme created", "store_id", storeID, "template", created.Template)
	return created, nil
}

// Update applies the provided fields of in to the theme of a store,
// creating the theme first when needed. The cached bundle is invalidated
// and regenerated on the next read.
func (s *ThemeService) Update(ctx context.Context, storeID int64, in *models.ThemeInput) (*models.StoreTheme, error) {
	_, theme, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if in != nil {
		in.ApplyTo(theme)
	}

	updated, err := s.themes.Update(ctx, theme)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("update theme: theme of store %d was deleted concurrently", storeID)
	}

	s.logInvalidation(ctx, updated, store.ActionUpdate)
	slog.Info("store theme updated", "store_id", storeID, "template", updated.Template)
	return updated, nil
}

// Delete removes the theme of a store together with its generated bundle.
// Deleting a store without theme is a no-op.
func (s *ThemeService) Delete(ctx context.Context, storeID int64) error {
	deleted, err := s.themes.Delete(ctx, storeID)
	if err != nil {
		return err
	}
	if deleted == nil {
		return nil
	}

	if err := s.sites.Remove(storeID); err != nil {
		slog.Warn("failed to remove site bundle", "store_id", storeID, "error", err)
	}
	if s.publisher != nil {
		if err := s.publisher.RemoveSite(ctx, storeID); err != nil {
			slog.Warn("failed to remove mirrored site", "store_id", storeID, "error", err)
		}
	}

	s.logInvalidation(ctx, deleted, store.ActionDelete)
	slog.Info("store theme deleted", "store_id", storeID)
	return nil
}

// VerifyDomain checks the custom domain of a store and records a positive
// result. Stores without theme or custom domain are never verified.
func (s *ThemeService) VerifyDomain(ctx context.Context, storeID int64) (bool, error) {
	theme, err := s.themes.FindByStoreID(ctx, storeID)
	if err != nil {
		return false, err
	}
	if theme == nil || theme.CustomDomain == "" {
		return false, nil
	}

	ok, err := s.verifier.Verify(ctx, theme.CustomDomain)
	if err != nil {
		return false, fmt.Errorf("verify domain %s: %w", theme.CustomDomain, err)
	}
	if !ok {
		return false, nil
	}

	if err := s.themes.SetDomainVerified(ctx, storeID, true); err != nil {
		return false, err
	}
	slog.Info("custom domain verified", "store_id", storeID, "domain", theme.CustomDomain)
	return true, nil
}

// CacheHistory returns the latest cache invalidation events of the theme
// of a store, newest first. Stores without theme have no history.
func (s *ThemeService) CacheHistory(ctx context.Context, storeID int64, limit int) ([]store.CacheLogEntry, error) {
	if _, err := s.store(ctx, storeID); err != nil {
		return nil, err
	}
	theme, err := s.themes.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if theme == nil || s.cacheLog == nil {
		return []store.CacheLogEntry{}, nil
	}

	entries, err := s.cacheLog.RecentEntries(ctx, store.EntityStoreTheme, theme.ID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []store.CacheLogEntry{}
	}
	return entries, nil
}

// Templates lists every available template.
func (s *ThemeService) Templates() []engine.Descriptor {
	all := s.registry.All()
	out := make([]engine.Descriptor, 0, len(all))
	for _, t := range all {
		out = append(out, engine.Describe(t))
	}
	return out
}

// RenderStorePage renders the storefront of a store without touching the
// bundle on disk. A nil data loads the catalog from the database.
func (s *ThemeService) RenderStorePage(ctx context.Context, storeID int64, data *engine.RenderData) (*engine.RenderResult, error) {
	st, theme, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, st, theme, data)
}

// Preview renders the storefront of a store with another template.
func (s *ThemeService) Preview(ctx context.Context, storeID int64, kind models.TemplateKind, data *engine.RenderData) (*engine.RenderResult, error) {
	st, theme, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}

	preview := *theme
	preview.Template = kind
	return s.render(ctx, st, &preview, data)
}

// GetRenderedHTML returns the storefront HTML of a store. Without data the
// cached bundle is served when valid; otherwise the page is rendered and
// the bundle regenerated.
func (s *ThemeService) GetRenderedHTML(ctx context.Context, storeID int64, data *engine.RenderData) (string, error) {
	st, theme, err := s.load(ctx, storeID)
	if err != nil {
		return "", err
	}
	return s.renderedHTML(ctx, st, theme, data)
}

// GetRenderedHTMLBySlug is GetRenderedHTML for public storefront URLs.
func (s *ThemeService) GetRenderedHTMLBySlug(ctx context.Context, raw string) (string, error) {
	st, theme, err := s.FindBySlug(ctx, raw)
	if err != nil {
		return "", err
	}
	return s.renderedHTML(ctx, st, theme, nil)
}

// SiteFile returns the path of a bundle file of a public store, generating
// the bundle first when it is missing.
func (s *ThemeService) SiteFile(ctx context.Context, raw, name string) (string, error) {
	switch name {
	case sitegen.IndexFile, sitegen.StylesFile, sitegen.ScriptFile:
	default:
		return "", ErrSiteFileNotFound
	}

	st, theme, err := s.FindBySlug(ctx, raw)
	if err != nil {
		return "", err
	}

	if path, ok := s.sites.File(st.ID, name); ok && theme.HasCachedSite() {
		return path, nil
	}
	if _, err := s.renderedHTML(ctx, st, theme, nil); err != nil {
		return "", err
	}

	path, ok := s.sites.File(st.ID, name)
	if !ok {
		return "", ErrSiteFileNotFound
	}
	return path, nil
}

func (s *ThemeService) renderedHTML(ctx context.Context, st *models.Store, theme *models.StoreTheme, data *engine.RenderData) (string, error) {
	if data == nil {
		if html, ok := s.cached(theme); ok {
			return html, nil
		}
	}

	release, err := s.locker.Acquire(ctx, st.ID)
	if err != nil {
		return "", fmt.Errorf("lock site %d: %w", st.ID, err)
	}
	defer release()

	// Another request may have generated the bundle while we waited.
	fresh, err := s.themes.FindByStoreID(ctx, st.ID)
	if err != nil {
		return "", err
	}
	if fresh != nil {
		theme = fresh
	}
	if data == nil {
		if html, ok := s.cached(theme); ok {
			return html, nil
		}
	}

	result, err := s.render(ctx, st, theme, data)
	if err != nil {
		return "", err
	}

	paths, err := s.sites.Generate(ctx, sitegen.Site{Store: st, Theme: theme, Result: result})
	if err != nil {
		return "", err
	}

	stored, err := s.themes.SetSitePaths(ctx, st.ID, theme.UpdatedAt, paths.SitePath, paths.IndexPath)
	if err != nil {
		return "", err
	}
	if stored {
		s.logInvalidation(ctx, theme, store.ActionRegenerate)
	} else {
		slog.Debug("theme changed during generation, bundle not cached", "store_id", st.ID)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSite(ctx, st.ID, paths.SitePath); err != nil {
			slog.Warn("failed to mirror site", "store_id", st.ID, "error", err)
		} else {
			slog.Info("site mirrored", "store_id", st.ID, "url", s.publisher.SiteURL(st.ID))
		}
	}

	html, ok := s.sites.ReadIndex(paths.IndexPath)
	if !ok {
		return "", fmt.Errorf("read generated site %s: %w", paths.IndexPath, sitegen.ErrSitesUnavailable)
	}
	return html, nil
}

func (s *ThemeService) cached(theme *models.StoreTheme) (string, bool) {
	if !theme.HasCachedSite() {
		slog.Debug("site cache miss", "store_id", theme.StoreID)
		return "", false
	}
	html, ok := s.sites.ReadIndex(theme.IndexPath)
	if !ok {
		slog.Debug("site cache stale", "store_id", theme.StoreID, "path", theme.IndexPath)
		return "", false
	}
	slog.Debug("site cache hit", "store_id", theme.StoreID)
	return html, true
}

func (s *ThemeService) render(ctx context.Context, st *models.Store, theme *models.StoreTheme, data *engine.RenderData) (*engine.RenderResult, error) {
	if data == nil {
		var err error
		if data, err = s.catalog(ctx, st.ID); err != nil {
			return nil, err
		}
	}
	return s.registry.Template(theme.Template).Render(st, theme, data)
}

func (s *ThemeService) catalog(ctx context.Context, storeID int64) (*engine.RenderData, error) {
	products, err := s.products.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	featured, err := s.products.ListFeatured(ctx, storeID, engine.FeaturedLimit)
	if err != nil {
		return nil, err
	}
	return &engine.RenderData{Products: products, FeaturedProducts: featured}, nil
}

// load returns a store and its theme, creating the default theme if needed.
func (s *ThemeService) load(ctx context.Context, storeID int64) (*models.Store, *models.StoreTheme, error) {
	st, err := s.store(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}
	theme, err := s.themes.FindOrCreate(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}
	return st, theme, nil
}

func (s *ThemeService) store(ctx context.Context, storeID int64) (*models.Store, error) {
	st, err := s.shops.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrStoreNotFound
	}
	return st, nil
}

func (s *ThemeService) logInvalidation(ctx context.Context, theme *models.StoreTheme, action string) {
	if s.cacheLog != nil {
		s.cacheLog.Log(ctx, store.EntityStoreTheme, theme.ID, action)
	}
}
