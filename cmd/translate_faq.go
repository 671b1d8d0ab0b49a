package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/aquaevents/i18n"
	"github.com/tieubaoca/aquaevents/seo"
	"github.com/tieubaoca/aquaevents/service"
	"go.uber.org/zap"
)

var translateFAQFlags struct {
	locales  []string
	provider string
	dryRun   bool
}

var translateFAQCmd = &cobra.Command{
	Use:   "translate-faq",
	Short: "Translate the default-locale FAQ into the other locales",
	Long: `Translates the faq.items block of the default locale message file with an
LLM and merges the result into every other locale file. The previous file is
backed up first. A locale whose translation fails is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		localizer, err := seo.NewLocalizer(cfg.Site.BaseURL, cfg.Site.DefaultLocale, cfg.Site.Locales)
		if err != nil {
			return err
		}
		targets, err := translationTargets(localizer, translateFAQFlags.locales)
		if err != nil {
			return err
		}

		catalog, err := i18n.Load(cfg.Site.MessagesDir, localizer.Default(), targets)
		if err != nil {
			return err
		}

		provider := cfg.Translator.Provider
		if translateFAQFlags.provider != "" {
			provider = translateFAQFlags.provider
		}
		var translator service.Translator
		switch provider {
		case "openai":
			translator = service.NewOpenAITranslator(cfg.Translator.AIEndpoint, cfg.OpenAIAPIKey, cfg.Translator.Model, cfg.Translator.StructuredOutput)
		case "gemini":
			gemini, err := service.NewGeminiTranslator(ctx, cfg.Translator.GeminiAPIKeys, cfg.Translator.GeminiModel)
			if err != nil {
				return err
			}
			defer gemini.Close()
			translator = gemini
		default:
			return fmt.Errorf("unknown translator provider %q", provider)
		}

		svc := service.NewFAQTranslationService(translator, catalog, cfg.Translator.BatchSize, cfg.Translator.Concurrency, cfg.Translator.BackupDir)
		source := catalog.FAQ(catalog.DefaultLocale())
		bar := progressbar.Default(int64(len(source)*len(targets)), "translating")
		svc.OnProgress(func(_ string, entries int) {
			bar.Add(entries) // nolint
		})

		log.Info("translating faq",
			zap.String("provider", provider),
			zap.Strings("locales", targets),
			zap.Int("entries", len(source)),
		)
		results, err := svc.TranslateAll(ctx, targets, translateFAQFlags.dryRun)
		_ = bar.Finish()

		rows := make([][]string, 0, len(results))
		for _, r := range results {
			status := "ok"
			if r.Err != nil {
				status = "failed: " + r.Err.Error()
			} else if translateFAQFlags.dryRun {
				status = "dry run"
			}
			rows = append(rows, []string{r.Locale, strconv.Itoa(r.Entries), r.Backup, status})
		}
		if len(rows) > 0 {
			renderTable(cmd.OutOrStdout(), []string{"Locale", "Entries", "Backup", "Status"}, rows)
		}

		if errors.Is(err, service.ErrUnrecognizedFAQShape) {
			log.Warn("the model replied in a shape that could not be read; try --provider or translator.structured_output")
		}
		return err
	},
}

// translationTargets validates the requested locales and drops the default
// locale and duplicates, since the default locale is the translation source.
// An empty request means every non-default locale.
func translationTargets(localizer *seo.Localizer, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return localizer.Locales()[1:], nil
	}
	targets := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, t := range requested {
		if !localizer.Supported(t) {
			return nil, fmt.Errorf("locale %q is not configured in site.locales", t)
		}
		if t == localizer.Default() {
			zap.L().Warn("skipping the default locale, it is the translation source", zap.String("locale", t))
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return nil, errors.New("no target locales left after removing the default locale")
	}
	return targets, nil
}

func init() {
	rootCmd.AddCommand(translateFAQCmd)
	flags := translateFAQCmd.Flags()
	flags.StringSliceVarP(&translateFAQFlags.locales, "locales", "l", nil, "target locales (default: every non-default locale)")
	flags.StringVar(&translateFAQFlags.provider, "provider", "", "translator provider, openai or gemini (default from config)")
	flags.BoolVar(&translateFAQFlags.dryRun, "dry-run", false, "translate without writing message files")
}
