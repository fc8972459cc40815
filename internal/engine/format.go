package engine

import (
	"html"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"tiendazo/internal/models"
)

// minDescriptionLen is the shortest description worth showing. Anything
// shorter is treated as noise.
const minDescriptionLen = 10

// Truncation limits for sanitized descriptions.
const (
	storeDescriptionLimit   = 150
	productDescriptionLimit = 100
)

var (
	// stripAll removes every tag and the content of script/style elements.
	stripAll = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	fontName = regexp.MustCompile(`^[A-Za-z0-9 ,'"-]{1,100}$`)

	defaultCurrency = currency.MustParseISO(models.DefaultCurrency)
)

// SanitizeDescription turns free text into a short plain-text blurb.
// Markup is stripped and whitespace collapsed. Results shorter than 10
// characters become empty, and results longer than max are cut to max
// characters followed by an ellipsis.
func SanitizeDescription(desc string, max int) string {
	if strings.TrimSpace(desc) == "" {
		return ""
	}

	text := plainText(desc)
	text = strings.Join(strings.Fields(text), " ")

	n := utf8.RuneCountInString(text)
	if n < minDescriptionLen {
		return ""
	}
	if max <= 0 || n <= max {
		return text
	}

	runes := []rune(text)
	return strings.TrimRight(string(runes[:max]), " ") + "…"
}

// plainText strips markup and decodes entities. Escaped markup decodes to
// tags, so the strip runs again until none are left.
func plainText(s string) string {
	text := html.UnescapeString(stripAll.Sanitize(s))
	for i := 0; i < 3 && strings.ContainsRune(text, '<'); i++ {
		next := html.UnescapeString(stripAll.Sanitize(text))
		if next == text {
			break
		}
		text = next
	}
	return text
}

// PriceFormatter formats catalog prices for one locale.
type PriceFormatter struct {
	locale language.Tag
}

// NewPriceFormatter returns a formatter grouping digits the way locale does.
func NewPriceFormatter(locale language.Tag) *PriceFormatter {
	return &PriceFormatter{locale: locale}
}

// Format renders amount in the given ISO currency with no fraction digits.
// Unknown currency codes fall back to COP.
func (f *PriceFormatter) Format(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = defaultCurrency
	}

	// Printers carry per-call state, so one is built per call.
	p := message.NewPrinter(f.locale)
	symbol := p.Sprint(currency.Symbol(unit))
	value := p.Sprint(number.Decimal(math.Round(amount), number.MaxFractionDigits(0)))
	return symbol + " " + value
}

// Palette holds the resolved visual properties a stylesheet is built from.
type Palette struct {
	Primary     string
	Secondary   string
	Accent      string
	Background  string
	Text        string
	Font        string
	HeadingFont string
	BodyFont    string
}

// resolve overlays the valid values of theme onto the template defaults.
func (d Palette) resolve(theme *models.StoreTheme) Palette {
	if theme == nil {
		return d
	}
	p := Palette{
		Primary:    colorOr(theme.PrimaryColor, d.Primary),
		Secondary:  colorOr(theme.SecondaryColor, d.Secondary),
		Accent:     colorOr(theme.AccentColor, d.Accent),
		Background: colorOr(theme.BackgroundColor, d.Background),
		Text:       colorOr(theme.TextColor, d.Text),
		Font:       fontOr(theme.FontFamily, d.Font),
	}
	p.HeadingFont = fontOr(theme.HeadingFont, p.Font)
	p.BodyFont = fontOr(theme.BodyFont, p.Font)
	return p
}

// ValidColor reports whether s is a CSS hex color.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

// ValidFont reports whether s is safe to place in a font-family declaration.
func ValidFont(s string) bool {
	if !fontName.MatchString(s) || strings.Contains(s, "--") {
		return false
	}
	return strings.Count(s, "'")%2 == 0 && strings.Count(s, `"`)%2 == 0
}

func colorOr(v, fallback string) string {
	v = strings.TrimSpace(v)
	if ValidColor(v) {
		return v
	}
	return fallback
}

func fontOr(v, fallback string) string {
	v = strings.TrimSpace(v)
	if ValidFont(v) {
		return v
	}
	return fallback
}
