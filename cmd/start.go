/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/aquaevents/database"
	"github.com/tieubaoca/aquaevents/handler"
	"github.com/tieubaoca/aquaevents/i18n"
	"github.com/tieubaoca/aquaevents/seo"
	"github.com/tieubaoca/aquaevents/service"
	"go.uber.org/zap"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the web server",
	Long:  `Serves the site pages, the events API, the sitemap and robots.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		localizer, err := seo.NewLocalizer(cfg.Site.BaseURL, cfg.Site.DefaultLocale, cfg.Site.Locales)
		if err != nil {
			return err
		}
		catalog, err := i18n.Load(cfg.Site.MessagesDir, localizer.Default(), localizer.Locales())
		if err != nil {
			return err
		}

		store, err := openEventStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.repo.EnsureIndexes(ctx); err != nil {
			log.Warn("failed to ensure event indexes", zap.Error(err))
		}

		var sitemapEvents service.EventLister
		if cfg.Sitemap.IncludeEvents {
			sitemapEvents = store.repo
		}
		sitemapService := service.NewSitemapService(localizer, cfg.Sitemap.Routes, sitemapEvents)

		if !cfg.Log.Development {
			gin.SetMode(gin.ReleaseMode)
		}
		router, err := handler.NewRouter(log, handler.Handlers{
			Cors:    handler.NewCorsHandler(),
			Events:  handler.NewEventHandler(store.service, localizer, cfg.Site.PageSize),
			Pages:   handler.NewPageHandler(store.service, catalog, localizer, cfg.Site.Name, cfg.Site.UpcomingLimit, cfg.Site.PageSize),
			Sitemap: handler.NewSitemapHandler(sitemapService, localizer),
			Health:  handler.NewHealthHandler(database.MongoPinger{Client: store.client}),
		})
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", zap.String("port", cfg.Port), zap.Strings("locales", localizer.Locales()))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
