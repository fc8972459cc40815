package engine

import "tiendazo/internal/models"

// Elegant is a premium storefront with serif typography and gold accents.
type Elegant struct{ renderer }

var elegantLayout = layout{
	kind:        models.TemplateElegant,
	name:        "Elegante",
	description: "Tipografía serif, acentos dorados y presentación de colección exclusiva.",
	page:        "elegant.html",
	style:       "elegant.css",
	defaults: Palette{
		Primary:     "#1a1a1a",
		Secondary:   "#8B7355",
		Accent:      "#D4AF37",
		Background:  "#FAFAFA",
		Text:        "#2C2C2C",
		Font:        "Georgia, serif",
		HeadingFont: "Georgia, serif",
		BodyFont:    "Georgia, serif",
	},
	tagline:     "%s - Colección exclusiva de productos premium",
	keywords:    []string{"productos premium", "colección exclusiva", "alta calidad"},
	productDesc: productDescriptionLimit,
	featured:    true,
}

// NewElegant builds the Elegant template.
func NewElegant(opts Options) *Elegant {
	return &Elegant{renderer: newRenderer(elegantLayout, opts)}
}
