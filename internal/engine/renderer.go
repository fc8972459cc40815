package engine

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"tiendazo/internal/models"
)

//go:embed assets
var assets embed.FS

// FeaturedLimit caps how many featured products a page shows.
const FeaturedLimit = 4

// layout holds everything that distinguishes one template from another.
type layout struct {
	kind        models.TemplateKind
	name        string
	description string
	page        string // file under assets/templates
	style       string // file under assets/styles
	defaults    Palette
	tagline     string // fmt pattern taking the store name
	keywords    []string
	productDesc int
	featured    bool // whether the template has a featured block
}

// renderer implements Strategy for a layout. The concrete templates embed
// it and only contribute their layout.
type renderer struct {
	layout layout
	page   *template.Template
	style  string
	prices *PriceFormatter
	lang   string
	now    func() time.Time
}

func newRenderer(l layout, opts Options) renderer {
	opts = opts.withDefaults()

	page := template.Must(template.New(l.page).ParseFS(assets,
		"assets/templates/partials.html",
		"assets/templates/"+l.page,
	))

	style, err := fs.ReadFile(assets, "assets/styles/"+l.style)
	if err != nil {
		panic(fmt.Sprintf("engine: missing stylesheet %s: %v", l.style, err))
	}

	base, _ := opts.Locale.Base()

	return renderer{
		layout: l,
		page:   page,
		style:  string(style),
		prices: NewPriceFormatter(opts.Locale),
		lang:   base.String(),
		now:    opts.Now,
	}
}

// Kind returns the template kind this renderer serves.
func (r *renderer) Kind() models.TemplateKind { return r.layout.kind }

// Name returns the human-readable template name.
func (r *renderer) Name() string { return r.layout.name }

// Description returns a one-line summary of the template look.
func (r *renderer) Description() string { return r.layout.description }

// GenerateCSS builds the stylesheet: a :root block with the resolved
// palette followed by the static rules of the template.
func (r *renderer) GenerateCSS(theme *models.StoreTheme) string {
	p := r.layout.defaults.resolve(theme)

	var b strings.Builder
	b.WriteString(":root {\n")
	fmt.Fprintf(&b, "  --primary-color: %s;\n", p.Primary)
	fmt.Fprintf(&b, "  --secondary-color: %s;\n", p.Secondary)
	fmt.Fprintf(&b, "  --accent-color: %s;\n", p.Accent)
	fmt.Fprintf(&b, "  --background-color: %s;\n", p.Background)
	fmt.Fprintf(&b, "  --text-color: %s;\n", p.Text)
	fmt.Fprintf(&b, "  --font-family: %s;\n", p.Font)
	fmt.Fprintf(&b, "  --heading-font: %s;\n", p.HeadingFont)
	fmt.Fprintf(&b, "  --body-font: %s;\n", p.BodyFont)
	b.WriteString("}\n\n")
	b.WriteString(r.style)
	return b.String()
}

// Render executes the page template for store and theme.
func (r *renderer) Render(store *models.Store, theme *models.StoreTheme, data *RenderData) (*RenderResult, error) {
	if store == nil {
		return nil, fmt.Errorf("render %s: store is required", r.layout.page)
	}
	if theme == nil {
		theme = models.NewDefaultTheme(store.ID)
	}
	if data == nil {
		data = &RenderData{}
	}

	css := r.GenerateCSS(theme)
	meta := r.metadata(store)

	view := pageView{
		Lang:            r.lang,
		Store:           store,
		Description:     SanitizeDescription(store.Description, storeDescriptionLimit),
		Meta:            meta,
		Keywords:        strings.Join(meta.Keywords, ", "),
		CSS:             template.CSS(css),
		Favicon:         theme.Favicon,
		Banner:          firstNonEmpty(theme.CustomBanner, store.Banner),
		Products:        r.products(store, data.Products),
		ShowContact:     theme.ShowContact && store.HasContactInfo(),
		Year:            r.now().Year(),
		AnalyticsID:     theme.GoogleAnalyticsID,
		PixelID:         theme.FacebookPixelID,
		MailchimpListID: theme.MailchimpListID,
	}
	if r.layout.featured && theme.ShowFeatured {
		featured := data.FeaturedProducts
		if len(featured) > FeaturedLimit {
			featured = featured[:FeaturedLimit]
		}
		view.Featured = r.products(store, featured)
	}

	var buf bytes.Buffer
	if err := r.page.ExecuteTemplate(&buf, r.layout.page, view); err != nil {
		return nil, fmt.Errorf("render %s: %w", r.layout.page, err)
	}

	return &RenderResult{HTML: buf.String(), CSS: css, Metadata: meta}, nil
}

func (r *renderer) metadata(store *models.Store) Metadata {
	desc := SanitizeDescription(store.Description, storeDescriptionLimit)
	if desc == "" {
		desc = fmt.Sprintf(r.layout.tagline, store.Name)
	}

	keywords := make([]string, 0, len(r.layout.keywords)+1)
	keywords = append(keywords, r.layout.keywords...)
	keywords = append(keywords, store.Name)

	return Metadata{Title: store.Name, Description: desc, Keywords: keywords}
}

func (r *renderer) products(store *models.Store, items []models.Product) []productView {
	if len(items) == 0 {
		return nil
	}
	out := make([]productView, 0, len(items))
	for _, p := range items {
		out = append(out, productView{
			Name:        p.Name,
			Image:       strings.TrimSpace(p.Image),
			Description: SanitizeDescription(p.Description, r.layout.productDesc),
			Price:       r.prices.Format(p.SellPrice, store.CurrencyCode()),
		})
	}
	return out
}

// pageView is the data every page template executes against.
type pageView struct {
	Lang        string
	Store       *models.Store
	Description string
	Meta        Metadata
	Keywords    string
	CSS         template.CSS
	Favicon     string
	Banner      string
	Featured    []productView
	Products    []productView
	ShowContact bool
	Year        int

	AnalyticsID     string
	PixelID         string
	MailchimpListID string
}

type productView struct {
	Name        string
	Image       string
	Description string
	Price       string
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
