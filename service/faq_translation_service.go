package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/tieubaoca/aquaevents/i18n"
	"github.com/tieubaoca/aquaevents/types"
	"github.com/tieubaoca/aquaevents/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type TranslationResult struct {
	Locale  string
	Entries int
	Backup  string
	Err     error
}

// FAQTranslationService translates the default-locale FAQ into other locales
// and merges the result into their message files.
type FAQTranslationService struct {
	translator  Translator
	catalog     *i18n.Catalog
	batchSize   int
	concurrency int
	backupDir   string
	progress    func(locale string, entries int)
}

func NewFAQTranslationService(translator Translator, catalog *i18n.Catalog, batchSize, concurrency int, backupDir string) *FAQTranslationService {
	if batchSize <= 0 {
		batchSize = 10
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &FAQTranslationService{
		translator:  translator,
		catalog:     catalog,
		batchSize:   batchSize,
		concurrency: concurrency,
		backupDir:   backupDir,
	}
}

// OnProgress registers fn to be called after every translated batch. fn may
// be called from several goroutines at once.
func (s *FAQTranslationService) OnProgress(fn func(locale string, entries int)) {
	s.progress = fn
}

// TranslateAll translates into every target locale. A failing locale is left
// untouched and reported in its result; the others still complete.
func (s *FAQTranslationService) TranslateAll(ctx context.Context, targets []string, dryRun bool) ([]TranslationResult, error) {
	source := s.catalog.DefaultLocale()
	entries := s.catalog.FAQ(source)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no FAQ items found for default locale %s", source)
	}

	locales := make([]string, 0, len(targets))
	for _, t := range targets {
		if t != source {
			locales = append(locales, t)
		}
	}

	results := make([]TranslationResult, len(locales))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, locale := range locales {
		g.Go(func() error {
			results[i] = s.translateLocale(ctx, source, locale, entries, dryRun)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Locale, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (s *FAQTranslationService) translateLocale(ctx context.Context, source, target string, entries []types.FAQEntry, dryRun bool) TranslationResult {
	result := TranslationResult{Locale: target}
	log := zap.L().With(zap.String("locale", target))

	translated := make([]types.FAQEntry, 0, len(entries))
	for start := 0; start < len(entries); start += s.batchSize {
		end := min(start+s.batchSize, len(entries))
		batch, err := s.translator.TranslateFAQ(ctx, source, target, entries[start:end])
		if err != nil {
			log.Error("faq batch translation failed", zap.Int("batch_start", start), zap.Error(err))
			result.Err = err
			return result
		}
		translated = append(translated, batch...)
		if s.progress != nil {
			s.progress(target, len(batch))
		}
	}
	result.Entries = len(translated)

	if dryRun {
		log.Info("dry run, not writing translations", zap.Int("entries", result.Entries))
		return result
	}

	if s.backupDir != "" {
		backup, err := utils.CopyFileWithTimestamp(s.catalog.Path(target), s.backupDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			result.Err = fmt.Errorf("backup messages: %w", err)
			return result
		}
		result.Backup = backup
	}

	s.catalog.SetFAQ(target, translated)
	if err := s.catalog.Save(target); err != nil {
		result.Err = err
		return result
	}
	log.Info("faq translated", zap.Int("entries", result.Entries))
	return result
}
