package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"tiendazo/internal/engine"
	"tiendazo/internal/models"
	"tiendazo/internal/slug"
)

// Validation limits for theme fields.
const (
	maxFontLen       = 100
	maxURLLen        = 2048
	maxDomainLen     = 253
	maxSubdomainLen  = 63
	maxTrackingIDLen = 64
	maxProducts      = 500
	maxProductName   = 300
)

// templateRule accepts any known template kind, case-insensitively.
var templateRule = validation.By(func(v any) error {
	value, isNil := validation.Indirect(v)
	if isNil || validation.IsEmpty(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return errors.New("must be a string")
	}
	if _, ok := models.ParseTemplateKind(s); !ok {
		return fmt.Errorf("must be one of %v", models.TemplateKinds)
	}
	return nil
})

// subdomainRule accepts lowercase slugs usable as a DNS label.
var subdomainRule = validation.By(func(v any) error {
	value, isNil := validation.Indirect(v)
	if isNil || validation.IsEmpty(value) {
		return nil
	}
	if s, _ := value.(string); !slug.Valid(s) {
		return errors.New("must contain only lowercase letters, digits and hyphens")
	}
	return nil
})

// jsonObjectRule accepts raw JSON holding an object.
var jsonObjectRule = validation.By(func(v any) error {
	raw, _ := v.(json.RawMessage)
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return errors.New("must be a JSON object")
	}
	return nil
})

// validateThemeInput checks a partial theme change. Nil fields are skipped.
func validateThemeInput(in *models.ThemeInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Template, templateRule),
		validation.Field(&in.PrimaryColor, is.HexColor),
		validation.Field(&in.SecondaryColor, is.HexColor),
		validation.Field(&in.AccentColor, is.HexColor),
		validation.Field(&in.BackgroundColor, is.HexColor),
		validation.Field(&in.TextColor, is.HexColor),
		validation.Field(&in.FontFamily, validation.Length(0, maxFontLen)),
		validation.Field(&in.HeadingFont, validation.Length(0, maxFontLen)),
		validation.Field(&in.BodyFont, validation.Length(0, maxFontLen)),
		validation.Field(&in.Favicon, validation.Length(0, maxURLLen), is.URL),
		validation.Field(&in.CustomBanner, validation.Length(0, maxURLLen), is.URL),
		validation.Field(&in.LayoutConfig, jsonObjectRule),
		validation.Field(&in.CustomDomain, validation.Length(0, maxDomainLen), is.Domain),
		validation.Field(&in.Subdomain, validation.Length(0, maxSubdomainLen), subdomainRule),
		validation.Field(&in.DomainConfig, jsonObjectRule),
		validation.Field(&in.GoogleAnalyticsID, validation.Length(0, maxTrackingIDLen)),
		validation.Field(&in.FacebookPixelID, validation.Length(0, maxTrackingIDLen), is.Digit),
		validation.Field(&in.MailchimpListID, validation.Length(0, maxTrackingIDLen), is.Alphanumeric),
	)
}

// validateRenderData checks a catalog supplied by the admin for rendering.
func validateRenderData(data *engine.RenderData) error {
	errs := validation.Errors{}
	if len(data.Products) > maxProducts {
		errs["products"] = validation.NewError("render_products_too_many",
			fmt.Sprintf("must contain at most %d products", maxProducts))
	}
	for _, list := range []struct {
		key   string
		items []models.Product
	}{
		{"products", data.Products},
		{"featured_products", data.FeaturedProducts},
	} {
		for i, p := range list.items {
			if err := validation.ValidateStruct(&p,
				validation.Field(&p.Name, validation.Required, validation.Length(1, maxProductName)),
				validation.Field(&p.SellPrice, validation.Min(0.0)),
			); err != nil {
				errs[fmt.Sprintf("%s.%d", list.key, i)] = err
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
