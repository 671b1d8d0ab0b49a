package seo

import (
	"html/template"

	"github.com/tieubaoca/aquaevents/types"
)

// Head is everything a page contributes to its <head> element.
type Head struct {
	Lang        string
	Title       string
	Description string
	Canonical   string
	Alternates  []types.Alternate
	Structured  *Registry
}

// NewHead prepares the head of the page at path for locale, with canonical
// and hreflang links already filled in.
func (l *Localizer) NewHead(locale, path, title, description string) *Head {
	return &Head{
		Lang:        locale,
		Title:       title,
		Description: description,
		Canonical:   l.URL(locale, path),
		Alternates:  l.Alternates(path),
		Structured:  NewRegistry(),
	}
}

func (h *Head) StructuredData() template.HTML {
	return h.Structured.HTML()
}
