package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/aquaevents/seo"
	"github.com/tieubaoca/aquaevents/service"
	"github.com/tieubaoca/aquaevents/utils"
	"go.uber.org/zap"
)

var sitemapFlags struct {
	output   string
	noEvents bool
	stdout   bool
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Generate sitemap.xml with hreflang alternates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		localizer, err := seo.NewLocalizer(cfg.Site.BaseURL, cfg.Site.DefaultLocale, cfg.Site.Locales)
		if err != nil {
			return err
		}

		var events service.EventLister
		if cfg.Sitemap.IncludeEvents && !sitemapFlags.noEvents {
			store, err := openEventStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			events = store.repo
		}

		var buf bytes.Buffer
		if err := writeSitemap(ctx, &buf, localizer, events); err != nil {
			return err
		}
		if sitemapFlags.stdout {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}

		output := cfg.Sitemap.Output
		if sitemapFlags.output != "" {
			output = sitemapFlags.output
		}
		if err := utils.WriteFileAtomic(output, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write sitemap: %w", err)
		}
		log.Info("sitemap written", zap.String("path", output), zap.Int("bytes", buf.Len()))
		return nil
	},
}

func writeSitemap(ctx context.Context, buf *bytes.Buffer, localizer *seo.Localizer, events service.EventLister) error {
	return service.NewSitemapService(localizer, cfg.Sitemap.Routes, events).Write(ctx, buf)
}

func init() {
	rootCmd.AddCommand(sitemapCmd)
	flags := sitemapCmd.Flags()
	flags.StringVarP(&sitemapFlags.output, "output", "o", "", "output file (default from config)")
	flags.BoolVar(&sitemapFlags.noEvents, "no-events", false, "leave event pages out and skip the database")
	flags.BoolVar(&sitemapFlags.stdout, "stdout", false, "print the sitemap instead of writing a file")
}
