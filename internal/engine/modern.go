package engine

import "tiendazo/internal/models"

// Modern is a bold storefront with a gradient header, a hero call to
// action and card-based product grids.
type Modern struct{ renderer }

var modernLayout = layout{
	kind:        models.TemplateModern,
	name:        "Moderno",
	description: "Cabecera con degradado, tarjetas de producto y llamados a la acción destacados.",
	page:        "modern.html",
	style:       "modern.css",
	defaults: Palette{
		Primary:     "#3B82F6",
		Secondary:   "#8B5CF6",
		Accent:      "#10B981",
		Background:  "#FFFFFF",
		Text:        "#1F2937",
		Font:        "Inter, sans-serif",
		HeadingFont: "Inter, sans-serif",
		BodyFont:    "Inter, sans-serif",
	},
	tagline:     "%s - Compra en línea los mejores productos",
	keywords:    []string{"compra online", "productos", "tienda"},
	productDesc: 80,
	featured:    true,
}

// NewModern builds the Modern template.
func NewModern(opts Options) *Modern {
	return &Modern{renderer: newRenderer(modernLayout, opts)}
}
