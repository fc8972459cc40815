// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders storefront pages. Each supported template kind is
// a Strategy that turns a store, its theme and a product catalog into a
// complete HTML document, its stylesheet and SEO metadata. Strategies do
// no I/O and are safe for concurrent use, so a single Registry shares one
// instance per kind across every store and request.
package engine

import (
	"time"

	"golang.org/x/text/language"

	"tiendazo/internal/models"
)

// Strategy renders a storefront with one fixed visual template.
type Strategy interface {
	Kind() models.TemplateKind
	Name() string
	Description() string

	// Render produces the full page. data may be nil for an empty catalog.
	Render(store *models.Store, theme *models.StoreTheme, data *RenderData) (*RenderResult, error)

	// GenerateCSS returns the stylesheet embedded by Render for theme.
	GenerateCSS(theme *models.StoreTheme) string
}

// RenderData is the per-request catalog a page is rendered from.
type RenderData struct {
	Products         []models.Product  `json:"products"`
	FeaturedProducts []models.Product  `json:"featured_products"`
	Categories       []models.Category `json:"categories,omitempty"`
}

// Metadata populates the SEO tags of a rendered page.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// RenderResult is the output of a Strategy. HTML carries CSS inline in a
// single <style> element.
type RenderResult struct {
	HTML     string   `json:"html"`
	CSS      string   `json:"css"`
	Metadata Metadata `json:"metadata"`
}

// Descriptor summarizes a template for admin listings.
type Descriptor struct {
	Kind        models.TemplateKind `json:"kind"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
}

// Describe returns the listing entry for s.
func Describe(s Strategy) Descriptor {
	return Descriptor{Kind: s.Kind(), Name: s.Name(), Description: s.Description()}
}

// Options configure every strategy built by a Registry.
type Options struct {
	// Locale controls number grouping in prices and the page lang attribute.
	// Defaults to es-CO.
	Locale language.Tag
	// Now supplies the footer year. Defaults to time.Now.
	Now func() time.Time
}

// DefaultLocale is used when Options.Locale is unset.
var DefaultLocale = language.MustParse("es-CO")

func (o Options) withDefaults() Options {
	if o.Locale == language.Und {
		o.Locale = DefaultLocale
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
