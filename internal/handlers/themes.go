// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"tiendazo/internal/engine"
	"tiendazo/internal/models"
	"tiendazo/internal/store"
)

// Cache history page size.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ThemeService is the subset of service.ThemeService used by the handlers.
type ThemeService interface {
	Templates() []engine.Descriptor
	FindOneOrCreate(ctx context.Context, storeID int64) (*models.StoreTheme, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, *models.StoreTheme, error)
	Create(ctx context.Context, storeID int64, in *models.ThemeInput) (*models.StoreTheme, error)
	Update(ctx context.Context, storeID int64, in *models.ThemeInput) (*models.StoreTheme, error)
	Delete(ctx context.Context, storeID int64) error
	VerifyDomain(ctx context.Context, storeID int64) (bool, error)
	CacheHistory(ctx context.Context, storeID int64, limit int) ([]store.CacheLogEntry, error)
	RenderStorePage(ctx context.Context, storeID int64, data *engine.RenderData) (*engine.RenderResult, error)
	Preview(ctx context.Context, storeID int64, kind models.TemplateKind, data *engine.RenderData) (*engine.RenderResult, error)
	GetRenderedHTML(ctx context.Context, storeID int64, data *engine.RenderData) (string, error)
	GetRenderedHTMLBySlug(ctx context.Context, slug string) (string, error)
	SiteFile(ctx context.Context, slug, name string) (string, error)
}

// Themes groups the admin JSON handlers for store themes.
type Themes struct {
	svc ThemeService
}

// NewThemes creates the admin theme handler group.
func NewThemes(svc ThemeService) *Themes {
	return &Themes{svc: svc}
}

// Templates lists the available templates.
func (h *Themes) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Templates())
}

// Get returns the theme of a store, creating the default one if needed.
func (h *Themes) Get(w http.ResponseWriter, r *http.Request) {
	storeID, err := storeIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	theme, err := h.svc.FindOneOrCreate(r.Context(), storeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

// Create stores the first theme of a store.
func (h *Themes) Create(w http.ResponseWriter, r *http.Request) {
	storeID, in, err := h.themeInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	theme, err := h.svc.Create(r.Context(), storeID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, theme)
}

// Update applies a partial change to the theme of a store.
func (h *Themes) Update(w http.ResponseWriter, r *http.Request) {
	storeID, in, err := h.themeInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	theme, err := h.svc.Update(r.Context(), storeID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

// Delete removes the theme of a store.
func (h *Themes) Delete(w http.ResponseWriter, r *http.Request) {
	storeID, err := storeIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), storeID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VerifyDomain runs the custom domain check of a store.
func (h *Themes) VerifyDomain(w http.ResponseWriter, r *http.Request) {
	storeID, err := storeIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ok, err := h.svc.VerifyDomain(r.Context(), storeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": ok})
}

// CacheLog lists the latest cache invalidation events of a store theme.
// ?limit= bounds the result, 1 to 100.
func (h *Themes) CacheLog(w http.ResponseWriter, r *http.Request) {
	storeID, err := storeIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, r, fmt.Errorf("%w: invalid limit %q", errBadRequest, raw))
			return
		}
		limit = n
	}

	entries, err := h.svc.CacheHistory(r.Context(), storeID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Render returns the rendered page of a store as JSON. The optional body
// replaces the catalog loaded from the database. With ?persist=1 the page
// is written to the storefront bundle and returned as HTML instead.
func (h *Themes) Render(w http.ResponseWriter, r *http.Request) {
	storeID, data, err := h.renderInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("persist") == "1" {
		page, err := h.svc.GetRenderedHTML(r.Context(), storeID, data)
		if err != nil {
			writeError(w, r, err)
			return
		}
		slog.Info("storefront regenerated from admin", "store_id", storeID)
		writeHTML(w, page)
		return
	}

	result, err := h.svc.RenderStorePage(r.Context(), storeID, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RenderHTML serves the storefront page of a store, from the cached bundle
// when it is current.
func (h *Themes) RenderHTML(w http.ResponseWriter, r *http.Request) {
	storeID, err := storeIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.svc.GetRenderedHTML(r.Context(), storeID, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeHTML(w, page)
}

// Preview renders a store with the template named by ?template= without
// saving anything.
func (h *Themes) Preview(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("template")
	kind, ok := models.ParseTemplateKind(raw)
	if !ok {
		writeError(w, r, fmt.Errorf("%w: unknown template %q", errBadRequest, raw))
		return
	}

	storeID, data, err := h.renderInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.svc.Preview(r.Context(), storeID, kind, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Themes) themeInput(w http.ResponseWriter, r *http.Request) (int64, *models.ThemeInput, error) {
	storeID, err := storeIDParam(r)
	if err != nil {
		return 0, nil, err
	}

	var in models.ThemeInput
	if _, err := decodeJSON(w, r, &in); err != nil {
		return 0, nil, err
	}
	if err := validateThemeInput(&in); err != nil {
		return 0, nil, err
	}
	return storeID, &in, nil
}

// renderInput returns a nil catalog when the request has no body.
func (h *Themes) renderInput(w http.ResponseWriter, r *http.Request) (int64, *engine.RenderData, error) {
	storeID, err := storeIDParam(r)
	if err != nil {
		return 0, nil, err
	}

	var data engine.RenderData
	present, err := decodeJSON(w, r, &data)
	if err != nil {
		return 0, nil, err
	}
	if !present {
		return storeID, nil, nil
	}
	if err := validateRenderData(&data); err != nil {
		return 0, nil, err
	}
	return storeID, &data, nil
}
