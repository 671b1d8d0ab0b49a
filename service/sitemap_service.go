package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tieubaoca/aquaevents/seo"
	"github.com/tieubaoca/aquaevents/types"
)

const (
	eventChangeFreq = "weekly"
	eventPriority   = 0.7
)

// EventLister is the part of the event store the sitemap needs.
type EventLister interface {
	Find(ctx context.Context, filter types.EventFilter) ([]*types.Event, error)
}

type SitemapService struct {
	localizer *seo.Localizer
	routes    []types.Route
	events    EventLister
	now       func() time.Time
}

// NewSitemapService builds sitemaps from static routes; events may be nil to
// leave event pages out.
func NewSitemapService(localizer *seo.Localizer, routes []types.Route, events EventLister) *SitemapService {
	return &SitemapService{
		localizer: localizer,
		routes:    routes,
		events:    events,
		now:       time.Now,
	}
}

func (s *SitemapService) Build(ctx context.Context) (*types.URLSet, error) {
	set := &types.URLSet{
		Xmlns: types.SitemapNamespace,
		XHTML: types.XHTMLNamespace,
	}
	for _, route := range s.routes {
		set.URLs = append(set.URLs, s.localizedURLs(route.Path, "", route.ChangeFreq, route.Priority)...)
	}

	if s.events == nil {
		return set, nil
	}
	events, err := s.events.Find(ctx, types.EventFilter{Sort: types.SortDateAsc})
	if err != nil {
		return nil, fmt.Errorf("list events for sitemap: %w", err)
	}
	today := s.now().UTC().Format(time.DateOnly)
	for _, e := range events {
		if e.Slug == "" {
			continue
		}
		// upcoming events have no lastmod, a future date would be rejected
		var lastMod string
		if date := e.Date.UTC().Format(time.DateOnly); !e.Date.IsZero() && date <= today {
			lastMod = date
		}
		set.URLs = append(set.URLs, s.localizedURLs(EventPath(e.Slug), lastMod, eventChangeFreq, eventPriority)...)
	}
	return set, nil
}

func (s *SitemapService) localizedURLs(path, lastMod, changeFreq string, priority float64) []types.SitemapURL {
	alternates := s.localizer.Alternates(path)
	links := make([]types.XHTMLLink, 0, len(alternates))
	for _, a := range alternates {
		links = append(links, types.XHTMLLink{Rel: "alternate", Hreflang: a.Hreflang, Href: a.Href})
	}

	var prio string
	if priority > 0 {
		prio = strconv.FormatFloat(priority, 'f', 1, 64)
	}
	locales := s.localizer.Locales()
	urls := make([]types.SitemapURL, 0, len(locales))
	for _, locale := range locales {
		urls = append(urls, types.SitemapURL{
			Loc:        s.localizer.URL(locale, path),
			LastMod:    lastMod,
			ChangeFreq: changeFreq,
			Priority:   prio,
			Alternates: links,
		})
	}
	return urls
}

// Write renders the sitemap as an XML document.
func (s *SitemapService) Write(ctx context.Context, w io.Writer) error {
	set, err := s.Build(ctx)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	return err
}
