package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/aquaevents/seo"
	"github.com/tieubaoca/aquaevents/service"
	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
)

const maxPageSize = 100

type EventHandler struct {
	events    service.EventService
	localizer *seo.Localizer
	pageSize  int64
}

func NewEventHandler(events service.EventService, localizer *seo.Localizer, pageSize int64) *EventHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &EventHandler{
		events:    events,
		localizer: localizer,
		pageSize:  pageSize,
	}
}

func (h *EventHandler) HandleList(c *gin.Context) {
	var query types.EventQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid query: " + err.Error(),
		})
		return
	}

	filter, page, limit, err := eventFilterFromQuery(query, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	events, total, err := h.events.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	locale := h.localizer.Match(c.GetHeader("Accept-Language"), query.Lang)
	c.Header("Content-Language", locale)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.PaginateResponse{
			Total:    total,
			Elements: eventViews(h.localizer, locale, events),
			Page:     page,
			Limit:    limit,
		},
	})
}

func (h *EventHandler) HandleGet(c *gin.Context) {
	event, err := h.events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	locale := h.localizer.Match(c.GetHeader("Accept-Language"), c.Query("lang"))
	c.Header("Content-Language", locale)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   eventView(h.localizer, locale, event),
	})
}

func (h *EventHandler) HandleDisciplines(c *gin.Context) {
	counts, err := h.events.Disciplines(c.Request.Context(), types.EventFilter{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   counts,
	})
}

// eventFilterFromQuery turns query parameters into a filter. Dates are
// YYYY-MM-DD; page is 1-based.
func eventFilterFromQuery(q types.EventQuery, pageSize int64) (types.EventFilter, int64, int64, error) {
	filter := types.EventFilter{
		Discipline: q.Discipline,
		Region:     q.Region,
		City:       q.City,
		Sort:       q.Sort,
	}

	var err error
	if filter.From, err = parseDate(q.From); err != nil {
		return filter, 0, 0, fmt.Errorf("%w: from: %v", types.ErrInvalidFilter, err)
	}
	if filter.To, err = parseDate(q.To); err != nil {
		return filter, 0, 0, fmt.Errorf("%w: to: %v", types.ErrInvalidFilter, err)
	}

	page, limit := q.Page, q.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = pageSize
	}
	limit = min(limit, maxPageSize)
	filter.Limit = limit
	filter.Skip = (page - 1) * limit

	return filter, page, limit, filter.Validate()
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

func eventView(localizer *seo.Localizer, locale string, e *types.Event) types.EventView {
	view := types.EventView{
		ID:         e.ID,
		Name:       e.Name.Get(locale, localizer.Default()),
		Location:   e.Location,
		Discipline: e.Discipline,
		Slug:       e.Slug,
	}
	if !e.Date.IsZero() {
		view.Date = e.Date.UTC().Format(time.DateOnly)
	}
	if e.Slug != "" {
		view.URL = localizer.URL(locale, service.EventPath(e.Slug))
	}
	return view
}

func eventViews(localizer *seo.Localizer, locale string, events []*types.Event) []types.EventView {
	views := make([]types.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventView(localizer, locale, e))
	}
	return views
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: false, Message: err.Error()})
	case errors.Is(err, types.ErrEventNotFound):
		c.JSON(http.StatusNotFound, types.DataResponse{Status: false, Message: err.Error()})
	default:
		_ = c.Error(err)
		zap.L().Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.DataResponse{Status: false, Message: "Internal server error"})
	}
}
