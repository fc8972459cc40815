// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"tiendazo/internal/models"
	"tiendazo/internal/sitegen"
)

// Public groups handlers for the public storefront of every store. Pages
// come from the generated bundle and are rendered again only after the
// theme changed.
type Public struct {
	svc ThemeService
}

// NewPublic creates a new Public handler group.
func NewPublic(svc ThemeService) *Public {
	return &Public{svc: svc}
}

// publicTheme is the part of a theme visible to storefront visitors.
type publicTheme struct {
	StoreName string              `json:"store_name"`
	StoreSlug string              `json:"store_slug"`
	Template  models.TemplateKind `json:"template"`
	Theme     *models.StoreTheme  `json:"theme"`
}

// Theme returns the theme of a public store.
func (p *Public) Theme(w http.ResponseWriter, r *http.Request) {
	st, theme, err := p.svc.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Bundle locations stay server side.
	visible := *theme
	visible.SitePath, visible.IndexPath = "", ""

	writeJSON(w, http.StatusOK, publicTheme{
		StoreName: st.Name,
		StoreSlug: st.Slug,
		Template:  theme.Template,
		Theme:     &visible,
	})
}

// Render serves the storefront page of a public store.
func (p *Public) Render(w http.ResponseWriter, r *http.Request) {
	page, err := p.svc.GetRenderedHTMLBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeHTML(w, page)
}

// SiteFile serves one file of the bundle of a public store. The file name
// comes from the last path segment, so styles.css and app.js resolve next
// to the render URL.
func (p *Public) SiteFile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path[strings.LastIndexByte(r.URL.Path, '/')+1:]

	path, err := p.svc.SiteFile(r.Context(), chi.URLParam(r, "slug"), name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeFile(w, r, path)
}

// Sites serves generated bundles straight from the sites root under
// /sites/{storeID}/. Paths with dot-prefixed segments, such as the
// staging directory, are not served, and directories are never listed.
func Sites(root string) http.Handler {
	files := http.StripPrefix("/sites/", http.FileServer(bundleFS{http.Dir(root)}))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, seg := range strings.Split(r.URL.Path, "/") {
			if strings.HasPrefix(seg, ".") {
				http.NotFound(w, r)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

// bundleFS hides directories without an index.html.
type bundleFS struct {
	http.FileSystem
}

func (b bundleFS) Open(name string) (http.File, error) {
	f, err := b.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := b.FileSystem.Open(path.Join(name, sitegen.IndexFile))
	if err != nil {
		f.Close()
		return nil, fs.ErrNotExist
	}
	index.Close()
	return f, nil
}
