package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/aquaevents/middleware"
	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
)

type Handlers struct {
	Cors    *CorsHandler
	Events  *EventHandler
	Pages   *PageHandler
	Sitemap *SitemapHandler
	Health  *HealthHandler
}

func NewRouter(logger *zap.Logger, h Handlers) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.RequestID(), middleware.AccessLog(logger), middleware.Recovery(logger))

	router.GET("/healthz", h.Health.HandleHealth)
	router.GET("/sitemap.xml", h.Sitemap.HandleSitemap)
	router.GET("/robots.txt", h.Sitemap.HandleRobots)

	apiV1 := router.Group("/api/v1")
	apiV1.Use(h.Cors.CorsMiddleware)
	{
		apiV1.GET("/events", h.Events.HandleList)
		apiV1.GET("/events/:slug", h.Events.HandleGet)
		apiV1.GET("/disciplines", h.Events.HandleDisciplines)
		apiV1.OPTIONS("/*path", h.Cors.CorsMiddleware)
	}

	h.Pages.Register(router)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, types.DataResponse{Status: false, Message: "Not found"})
			return
		}
		h.Pages.HandleNotFound(c)
	})
	return router, nil
}
