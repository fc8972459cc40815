package engine

import "tiendazo/internal/models"

// Minimalist is a monochrome storefront with generous whitespace and no
// featured block.
type Minimalist struct{ renderer }

var minimalistLayout = layout{
	kind:        models.TemplateMinimalist,
	name:        "Minimalista",
	description: "Diseño monocromático, tipografía limpia y mucho espacio en blanco.",
	page:        "minimalist.html",
	style:       "minimalist.css",
	defaults: Palette{
		Primary:     "#000000",
		Secondary:   "#666666",
		Accent:      "#000000",
		Background:  "#FFFFFF",
		Text:        "#000000",
		Font:        "Helvetica, Arial, sans-serif",
		HeadingFont: "Helvetica, Arial, sans-serif",
		BodyFont:    "Helvetica, Arial, sans-serif",
	},
	tagline:     "%s - Productos seleccionados",
	keywords:    []string{"compra", "productos", "selección"},
	productDesc: productDescriptionLimit,
	featured:    false,
}

// NewMinimalist builds the Minimalist template.
func NewMinimalist(opts Options) *Minimalist {
	return &Minimalist{renderer: newRenderer(minimalistLayout, opts)}
}
