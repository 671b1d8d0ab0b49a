package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/aquaevents/seo"
	"github.com/tieubaoca/aquaevents/types"
)

func newSitemapService(t *testing.T, events EventLister) *SitemapService {
	t.Helper()
	localizer, err := seo.NewLocalizer("https://aquaevents.club", "es", []string{"es", "en"})
	require.NoError(t, err)
	routes := []types.Route{
		{Path: "/", ChangeFreq: "daily", Priority: 1},
		{Path: "/preguntas-frecuentes", ChangeFreq: "monthly", Priority: 0.6},
	}
	svc := NewSitemapService(localizer, routes, events)
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestSitemapService_BuildRoutesOnly(t *testing.T) {
	svc := newSitemapService(t, nil)

	set, err := svc.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, set.URLs, 4)

	locs := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{
		"https://aquaevents.club/",
		"https://aquaevents.club/en",
		"https://aquaevents.club/preguntas-frecuentes",
		"https://aquaevents.club/en/preguntas-frecuentes",
	}, locs)

	home := set.URLs[0]
	assert.Equal(t, "1.0", home.Priority)
	assert.Equal(t, "daily", home.ChangeFreq)
	assert.Equal(t, []types.XHTMLLink{
		{Rel: "alternate", Hreflang: "es", Href: "https://aquaevents.club/"},
		{Rel: "alternate", Hreflang: "en", Href: "https://aquaevents.club/en"},
		{Rel: "alternate", Hreflang: "x-default", Href: "https://aquaevents.club/"},
	}, home.Alternates)
	assert.Equal(t, "0.6", set.URLs[2].Priority)
}

func TestSitemapService_BuildWithEvents(t *testing.T) {
	repo := &fakeEventRepo{events: []*types.Event{
		{ID: "1", Name: types.LocalizedText{"es": "Travesía"}, Date: time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC), Slug: "travesia-2026-07-12"},
		{ID: "2", Name: types.LocalizedText{"es": "Sin slug"}, Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := newSitemapService(t, repo)

	set, err := svc.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, set.URLs, 6)

	event := set.URLs[4]
	assert.Equal(t, "https://aquaevents.club/eventos/travesia-2026-07-12", event.Loc)
	assert.Equal(t, "2026-07-12", event.LastMod)
	assert.Equal(t, "weekly", event.ChangeFreq)
	assert.Equal(t, "0.7", event.Priority)
	assert.Equal(t, "https://aquaevents.club/en/eventos/travesia-2026-07-12", set.URLs[5].Loc)

	repo.err = errors.New("connection refused")
	_, err = svc.Build(context.Background())
	assert.Error(t, err)
}

func TestSitemapService_UpcomingEventHasNoLastMod(t *testing.T) {
	repo := &fakeEventRepo{events: []*types.Event{
		{ID: "1", Date: time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC), Slug: "hoy"},
		{ID: "2", Date: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), Slug: "manana"},
		{ID: "3", Slug: "sin-fecha"},
	}}
	svc := newSitemapService(t, repo)

	set, err := svc.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, set.URLs, 10)

	lastMods := make(map[string]string, len(set.URLs))
	for _, u := range set.URLs {
		lastMods[u.Loc] = u.LastMod
	}
	assert.Equal(t, "2026-08-01", lastMods["https://aquaevents.club/eventos/hoy"])
	assert.Equal(t, "2026-08-01", lastMods["https://aquaevents.club/en/eventos/hoy"])
	assert.Empty(t, lastMods["https://aquaevents.club/eventos/manana"])
	assert.Empty(t, lastMods["https://aquaevents.club/en/eventos/manana"])
	assert.Empty(t, lastMods["https://aquaevents.club/eventos/sin-fecha"])

	var buf bytes.Buffer
	require.NoError(t, svc.Write(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "<lastmod>2026-08-02</lastmod>")
}

func TestSitemapService_Write(t *testing.T) {
	svc := newSitemapService(t, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Write(context.Background(), &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:xhtml="http://www.w3.org/1999/xhtml">`)
	assert.Contains(t, out, "<loc>https://aquaevents.club/en/preguntas-frecuentes</loc>")
	assert.Contains(t, out, `<xhtml:link rel="alternate" hreflang="x-default" href="https://aquaevents.club/"></xhtml:link>`)
	assert.NotContains(t, out, "<lastmod>")

	var decoded struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.URLs, 4)
}
