package sitegen

import "tiendazo/internal/models"

// SiteMetadata is published to the page as window.__SITE_METADATA__ so the
// client script can read store and theme details without another request.
type SiteMetadata struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Keywords    []string      `json:"keywords"`
	Store       StoreSnapshot `json:"store"`
	Theme       ThemeSnapshot `json:"theme"`
}

// StoreSnapshot holds the store fields shown on the page.
type StoreSnapshot struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// ThemeSnapshot holds the theme colors and toggles.
type ThemeSnapshot struct {
	Template        models.TemplateKind `json:"template"`
	PrimaryColor    string              `json:"primaryColor"`
	SecondaryColor  string              `json:"secondaryColor"`
	AccentColor     string              `json:"accentColor"`
	BackgroundColor string              `json:"backgroundColor"`
	TextColor       string              `json:"textColor"`
	ShowContact     bool                `json:"showContact"`
	ShowFeatured    bool                `json:"showFeatured"`
}

func buildMetadata(site Site) SiteMetadata {
	meta := SiteMetadata{
		Title:       site.Result.Metadata.Title,
		Description: site.Result.Metadata.Description,
		Keywords:    site.Result.Metadata.Keywords,
		Store: StoreSnapshot{
			Name:        site.Store.Name,
			Description: site.Store.Description,
			Logo:        site.Store.Logo,
			Address:     site.Store.Address,
			Phone:       site.Store.Phone,
			Email:       site.Store.Email,
		},
	}
	if t := site.Theme; t != nil {
		meta.Theme = ThemeSnapshot{
			Template:        t.Template,
			PrimaryColor:    t.PrimaryColor,
			SecondaryColor:  t.SecondaryColor,
			AccentColor:     t.AccentColor,
			BackgroundColor: t.BackgroundColor,
			TextColor:       t.TextColor,
			ShowContact:     t.ShowContact,
			ShowFeatured:    t.ShowFeatured,
		}
	}
	return meta
}
