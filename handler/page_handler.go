package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/aquaevents/i18n"
	"github.com/tieubaoca/aquaevents/seo"
	"github.com/tieubaoca/aquaevents/service"
	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
)

const localeKey = "locale"

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templatesFS, "templates/*.html")
}

// page is the data every template receives.
type page struct {
	Head        *seo.Head
	Locale      string
	SiteName    string
	Breadcrumbs []types.BreadcrumbItem
	Events      []types.EventView
	Event       *types.EventView
	FAQ         []types.FAQEntry
	Total       int64
	PrevURL     string
	NextURL     string

	catalog   *i18n.Catalog
	localizer *seo.Localizer
}

func (p *page) T(key string) string {
	return p.catalog.T(p.Locale, key)
}

// Link localizes a site-relative path.
func (p *page) Link(path string) string {
	return p.localizer.Path(p.Locale, path)
}

type PageHandler struct {
	events        service.EventService
	catalog       *i18n.Catalog
	localizer     *seo.Localizer
	siteName      string
	upcomingLimit int64
	pageSize      int64
}

func NewPageHandler(events service.EventService, catalog *i18n.Catalog, localizer *seo.Localizer, siteName string, upcomingLimit, pageSize int64) *PageHandler {
	if upcomingLimit <= 0 {
		upcomingLimit = 6
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &PageHandler{
		events:        events,
		catalog:       catalog,
		localizer:     localizer,
		siteName:      siteName,
		upcomingLimit: upcomingLimit,
		pageSize:      pageSize,
	}
}

// Register mounts the pages once per locale: unprefixed for the default
// locale and under /<locale> for the others.
func (h *PageHandler) Register(r gin.IRouter) {
	for _, locale := range h.localizer.Locales() {
		prefix := ""
		if locale != h.localizer.Default() {
			prefix = "/" + locale
		}
		g := r.Group(prefix, withLocale(locale))
		g.GET("", h.HandleHome)
		g.GET(service.EventsPath, h.HandleEvents)
		g.GET(service.EventsPath+"/:slug", h.HandleEvent)
		g.GET(service.FAQPath, h.HandleFAQ)
		g.GET(service.CapsPath, h.HandleCaps)
	}
}

func withLocale(locale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(localeKey, locale)
		c.Next()
	}
}

func (h *PageHandler) locale(c *gin.Context) string {
	if locale := c.GetString(localeKey); locale != "" {
		return locale
	}
	locale, _ := h.localizer.Split(c.Request.URL.Path)
	return locale
}

func (h *PageHandler) newPage(locale, path, titleKey, descriptionKey string) *page {
	title := h.catalog.T(locale, titleKey)
	if path != service.HomePath {
		title += " | " + h.siteName
	}
	return &page{
		Head:      h.localizer.NewHead(locale, path, title, h.catalog.T(locale, descriptionKey)),
		Locale:    locale,
		SiteName:  h.siteName,
		catalog:   h.catalog,
		localizer: h.localizer,
	}
}

// trail publishes the breadcrumb schema for the page. Items carry localized
// paths; the first one is always the home page.
func (h *PageHandler) trail(p *page, items ...types.BreadcrumbItem) error {
	crumbs := append([]types.BreadcrumbItem{{Name: p.T("nav.home"), URL: service.HomePath}}, items...)
	for i := range crumbs {
		crumbs[i].URL = p.Link(crumbs[i].URL)
	}
	p.Breadcrumbs = crumbs
	return p.Head.Structured.Bind(seo.SlotBreadcrumb).SyncBreadcrumb(h.localizer.Origin(), crumbs)
}

func (h *PageHandler) HandleHome(c *gin.Context) {
	locale := h.locale(c)
	p := h.newPage(locale, service.HomePath, "home.title", "home.description")

	events, err := h.events.Upcoming(c.Request.Context(), h.upcomingLimit)
	if err != nil {
		h.renderError(c, locale, err)
		return
	}
	p.Events = eventViews(h.localizer, locale, events)

	if err := h.trail(p); err != nil {
		h.renderError(c, locale, err)
		return
	}
	c.HTML(http.StatusOK, "home.html", p)
}

func (h *PageHandler) HandleEvents(c *gin.Context) {
	locale := h.locale(c)
	p := h.newPage(locale, service.EventsPath, "events.title", "events.description")

	var query types.EventQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.renderError(c, locale, errors.Join(types.ErrInvalidFilter, err))
		return
	}
	if query.From == "" && query.To == "" {
		query.From = time.Now().UTC().Format(time.DateOnly)
	}
	filter, page, limit, err := eventFilterFromQuery(query, h.pageSize)
	if err != nil {
		h.renderError(c, locale, err)
		return
	}
	events, total, err := h.events.Search(c.Request.Context(), filter)
	if err != nil {
		h.renderError(c, locale, err)
		return
	}
	p.Events = eventViews(h.localizer, locale, events)
	p.Total = total
	if page > 1 {
		p.PrevURL = pageURL(c, page-1)
	}
	if page*limit < total {
		p.NextURL = pageURL(c, page+1)
	}

	if err := h.trail(p, types.BreadcrumbItem{Name: p.T("nav.events"), URL: service.EventsPath}); err != nil {
		h.renderError(c, locale, err)
		return
	}
	c.HTML(http.StatusOK, "events.html", p)
}

func pageURL(c *gin.Context, page int64) string {
	q := c.Request.URL.Query()
	q.Set("page", strconv.FormatInt(page, 10))
	return c.Request.URL.Path + "?" + q.Encode()
}

func (h *PageHandler) HandleEvent(c *gin.Context) {
	locale := h.locale(c)
	event, err := h.events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, locale, err)
		return
	}

	path := service.EventPath(event.Slug)
	view := eventView(h.localizer, locale, event)
	p := h.newPage(locale, path, "event.title", "event.description")
	p.Head.Title = view.Name + " | " + h.siteName
	p.Event = &view

	structured := p.Head.Structured
	if err := h.trail(p,
		types.BreadcrumbItem{Name: p.T("nav.events"), URL: service.EventsPath},
		types.BreadcrumbItem{Name: view.Name, URL: path},
	); err != nil {
		h.renderError(c, locale, err)
		return
	}
	sportsEvent := seo.NewSportsEvent(view.Name, h.localizer.URL(locale, path), locale, event)
	if err := structured.Bind(seo.SlotEvent).Sync(sportsEvent); err != nil {
		h.renderError(c, locale, err)
		return
	}
	c.HTML(http.StatusOK, "event.html", p)
}

func (h *PageHandler) HandleFAQ(c *gin.Context) {
	locale := h.locale(c)
	p := h.newPage(locale, service.FAQPath, "faq.title", "faq.description")
	p.FAQ = h.catalog.FAQ(locale)

	if err := h.trail(p, types.BreadcrumbItem{Name: p.T("nav.faq"), URL: service.FAQPath}); err != nil {
		h.renderError(c, locale, err)
		return
	}
	if err := p.Head.Structured.Bind(seo.SlotFAQ).SyncFAQ(p.FAQ); err != nil {
		h.renderError(c, locale, err)
		return
	}
	c.HTML(http.StatusOK, "faq.html", p)
}

func (h *PageHandler) HandleCaps(c *gin.Context) {
	locale := h.locale(c)
	p := h.newPage(locale, service.CapsPath, "caps.title", "caps.description")

	if err := h.trail(p, types.BreadcrumbItem{Name: p.T("nav.caps"), URL: service.CapsPath}); err != nil {
		h.renderError(c, locale, err)
		return
	}
	c.HTML(http.StatusOK, "caps.html", p)
}

// HandleNotFound renders the 404 page in the locale of the requested path.
func (h *PageHandler) HandleNotFound(c *gin.Context) {
	h.renderError(c, h.locale(c), types.ErrEventNotFound)
}

func (h *PageHandler) renderError(c *gin.Context, locale string, err error) {
	status := http.StatusInternalServerError
	key := "error.internal"
	switch {
	case errors.Is(err, types.ErrEventNotFound):
		status, key = http.StatusNotFound, "error.not_found"
	case errors.Is(err, types.ErrInvalidFilter):
		status, key = http.StatusBadRequest, "error.bad_request"
	default:
		_ = c.Error(err)
		zap.L().Error("page render failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	p := h.newPage(locale, c.Request.URL.Path, key, key)
	p.Head.Canonical = ""
	p.Head.Alternates = nil
	c.HTML(status, "error.html", p)
}
