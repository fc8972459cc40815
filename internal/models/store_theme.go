// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TemplateKind selects the visual template a storefront is rendered with.
type TemplateKind string

const (
	TemplateModern     TemplateKind = "MODERN"
	TemplateMinimalist TemplateKind = "MINIMALIST"
	TemplateElegant    TemplateKind = "ELEGANT"
)

// TemplateKinds lists every supported template in display order.
var TemplateKinds = []TemplateKind{TemplateModern, TemplateMinimalist, TemplateElegant}

// ParseTemplateKind normalizes s and reports whether it names a known template.
func ParseTemplateKind(s string) (TemplateKind, bool) {
	k := TemplateKind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case TemplateModern, TemplateMinimalist, TemplateElegant:
		return k, true
	}
	return "", false
}

// Default theme values applied when a store gets its first theme.
const (
	DefaultPrimaryColor    = "#3B82F6"
	DefaultSecondaryColor  = "#8B5CF6"
	DefaultAccentColor     = "#10B981"
	DefaultBackgroundColor = "#FFFFFF"
	DefaultTextColor       = "#1F2937"
	DefaultFont            = "Inter"
)

// StoreTheme is the storefront configuration of a single store. Color and
// font fields may be empty, in which case each template uses its own default.
// SitePath and IndexPath point at the last generated bundle on disk and are
// cleared whenever the configuration changes.
type StoreTheme struct {
	ID       uuid.UUID    `json:"id"`
	StoreID  int64        `json:"store_id"`
	Template TemplateKind `json:"template"`

	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	AccentColor     string `json:"accent_color"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	FontFamily      string `json:"font_family"`
	HeadingFont     string `json:"heading_font"`
	BodyFont        string `json:"body_font"`
	Favicon         string `json:"favicon"`
	CustomBanner    string `json:"custom_banner"`

	ShowReviews    bool `json:"show_reviews"`
	ShowFeatured   bool `json:"show_featured"`
	ShowCategories bool `json:"show_categories"`
	ShowContact    bool `json:"show_contact"`
	ShowBlog       bool `json:"show_blog"`

	LayoutConfig json.RawMessage `json:"layout_config"`

	CustomDomain   string          `json:"custom_domain"`
	Subdomain      string          `json:"subdomain"`
	DomainVerified bool            `json:"domain_verified"`
	DomainConfig   json.RawMessage `json:"domain_config"`

	GoogleAnalyticsID string `json:"google_analytics_id"`
	FacebookPixelID   string `json:"facebook_pixel_id"`
	MailchimpListID   string `json:"mailchimp_list_id"`

	SitePath  string `json:"site_path,omitempty"`
	IndexPath string `json:"index_path,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDefaultTheme returns the theme a store receives when none exists yet.
func NewDefaultTheme(storeID int64) *StoreTheme {
	return &StoreTheme{
		StoreID:         storeID,
		Template:        TemplateModern,
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		AccentColor:     DefaultAccentColor,
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		FontFamily:      DefaultFont,
		HeadingFont:     DefaultFont,
		BodyFont:        DefaultFont,
		ShowReviews:     true,
		ShowFeatured:    true,
		ShowCategories:  true,
		ShowContact:     true,
		ShowBlog:        false,
		LayoutConfig:    json.RawMessage(`{}`),
	}
}

// HasCachedSite reports whether the theme points at a generated bundle.
func (t *StoreTheme) HasCachedSite() bool {
	return t.IndexPath != ""
}

// ThemeInput carries a partial theme change. Nil fields are left untouched.
type ThemeInput struct {
	Template *string `json:"template,omitempty"`

	PrimaryColor    *string `json:"primary_color,omitempty"`
	SecondaryColor  *string `json:"secondary_color,omitempty"`
	AccentColor     *string `json:"accent_color,omitempty"`
	BackgroundColor *string `json:"background_color,omitempty"`
	TextColor       *string `json:"text_color,omitempty"`
	FontFamily      *string `json:"font_family,omitempty"`
	HeadingFont     *string `json:"heading_font,omitempty"`
	BodyFont        *string `json:"body_font,omitempty"`
	Favicon         *string `json:"favicon,omitempty"`
	CustomBanner    *string `json:"custom_banner,omitempty"`

	ShowReviews    *bool `json:"show_reviews,omitempty"`
	ShowFeatured   *bool `json:"show_featured,omitempty"`
	ShowCategories *bool `json:"show_categories,omitempty"`
	ShowContact    *bool `json:"show_contact,omitempty"`
	ShowBlog       *bool `json:"show_blog,omitempty"`

	LayoutConfig json.RawMessage `json:"layout_config,omitempty"`

	CustomDomain *string         `json:"custom_domain,omitempty"`
	Subdomain    *string         `json:"subdomain,omitempty"`
	DomainConfig json.RawMessage `json:"domain_config,omitempty"`

	GoogleAnalyticsID *string `json:"google_analytics_id,omitempty"`
	FacebookPixelID   *string `json:"facebook_pixel_id,omitempty"`
	MailchimpListID   *string `json:"mailchimp_list_id,omitempty"`
}

// ApplyTo copies every provided field onto t. A custom domain that differs
// from the stored one clears DomainVerified.
func (in *ThemeInput) ApplyTo(t *StoreTheme) {
	if in.Template != nil {
		if k, ok := ParseTemplateKind(*in.Template); ok {
			t.Template = k
		}
	}

	setString(&t.PrimaryColor, in.PrimaryColor)
	setString(&t.SecondaryColor, in.SecondaryColor)
	setString(&t.AccentColor, in.AccentColor)
	setString(&t.BackgroundColor, in.BackgroundColor)
	setString(&t.TextColor, in.TextColor)
	setString(&t.FontFamily, in.FontFamily)
	setString(&t.HeadingFont, in.HeadingFont)
	setString(&t.BodyFont, in.BodyFont)
	setString(&t.Favicon, in.Favicon)
	setString(&t.CustomBanner, in.CustomBanner)

	setBool(&t.ShowReviews, in.ShowReviews)
	setBool(&t.ShowFeatured, in.ShowFeatured)
	setBool(&t.ShowCategories, in.ShowCategories)
	setBool(&t.ShowContact, in.ShowContact)
	setBool(&t.ShowBlog, in.ShowBlog)

	if len(in.LayoutConfig) > 0 {
		t.LayoutConfig = in.LayoutConfig
	}

	if in.CustomDomain != nil {
		domain := strings.ToLower(strings.TrimSpace(*in.CustomDomain))
		if domain != t.CustomDomain {
			t.DomainVerified = false
		}
		t.CustomDomain = domain
	}
	setString(&t.Subdomain, in.Subdomain)
	if len(in.DomainConfig) > 0 {
		t.DomainConfig = in.DomainConfig
	}

	setString(&t.GoogleAnalyticsID, in.GoogleAnalyticsID)
	setString(&t.FacebookPixelID, in.FacebookPixelID)
	setString(&t.MailchimpListID, in.MailchimpListID)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
