package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/aquaevents/seo"
	"github.com/tieubaoca/aquaevents/service"
	"go.uber.org/zap"
)

type SitemapHandler struct {
	sitemap *service.SitemapService
	origin  string
}

func NewSitemapHandler(sitemap *service.SitemapService, localizer *seo.Localizer) *SitemapHandler {
	return &SitemapHandler{
		sitemap: sitemap,
		origin:  localizer.Origin(),
	}
}

func (h *SitemapHandler) HandleSitemap(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.sitemap.Write(c.Request.Context(), &buf); err != nil {
		_ = c.Error(err)
		zap.L().Error("failed to build sitemap", zap.Error(err))
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func (h *SitemapHandler) HandleRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", h.origin)
}
