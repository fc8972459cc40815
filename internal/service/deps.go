// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tiendazo/internal/models"
	"tiendazo/internal/sitegen"
	"tiendazo/internal/store"
)

// ShopReader loads retail stores. Implemented by store.ShopStore.
type ShopReader interface {
	FindByID(ctx context.Context, id int64) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

// ProductReader loads a store catalog. Implemented by store.ProductStore.
type ProductReader interface {
	List(ctx context.Context, storeID int64) ([]models.Product, error)
	ListFeatured(ctx context.Context, storeID int64, limit int) ([]models.Product, error)
}

// ThemeRepository persists store themes. Implemented by store.ThemeStore.
type ThemeRepository interface {
	FindByStoreID(ctx context.Context, storeID int64) (*models.StoreTheme, error)
	FindOrCreate(ctx context.Context, storeID int64) (*models.StoreTheme, error)
	Create(ctx context.Context, t *models.StoreTheme) (*models.StoreTheme, error)
	Update(ctx context.Context, t *models.StoreTheme) (*models.StoreTheme, error)
	SetSitePaths(ctx context.Context, storeID int64, updatedAt time.Time, sitePath, indexPath string) (bool, error)
	SetDomainVerified(ctx context.Context, storeID int64, verified bool) error
	Delete(ctx context.Context, storeID int64) (*models.StoreTheme, error)
}

// SiteWriter writes and reads generated bundles. Implemented by
// sitegen.Generator.
type SiteWriter interface {
	Generate(ctx context.Context, site sitegen.Site) (*sitegen.Paths, error)
	ReadIndex(indexPath string) (string, bool)
	File(storeID int64, name string) (string, bool)
	Remove(storeID int64) error
}

// Locker serializes bundle generation per store. Implemented by
// cache.SiteLock and LocalLocker.
type Locker interface {
	Acquire(ctx context.Context, storeID int64) (func(), error)
}

// InvalidationLog records and lists cache invalidation events. Implemented
// by store.CacheLogStore.
type InvalidationLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
	RecentEntries(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]store.CacheLogEntry, error)
}

// SitePublisher mirrors bundles to object storage. Implemented by
// storage.Client.
type SitePublisher interface {
	PublishSite(ctx context.Context, storeID int64, dir string) error
	RemoveSite(ctx context.Context, storeID int64) error
	SiteURL(storeID int64) string
}
