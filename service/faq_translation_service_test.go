package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/aquaevents/i18n"
	"github.com/tieubaoca/aquaevents/types"
)

const esMessages = `{
  "nav": {"home": "Inicio"},
  "faq": {
    "title": "Preguntas frecuentes",
    "items": [
      {"question": "¿Cuánto tarda el envío?", "answer": "De 3 a 5 días."},
      {"question": "¿Puedo devolverlo?", "answer": "Sí, en 30 días."},
      {"question": "¿Hay tallas infantiles?", "answer": "Sí."}
    ]
  }
}`

const enMessages = `{"nav": {"home": "Home"}, "faq": {"title": "FAQ"}}`

func newTestCatalog(t *testing.T) (*i18n.Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "es.json"), []byte(esMessages), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(enMessages), 0644))
	catalog, err := i18n.Load(dir, "es", []string{"en", "fr"})
	require.NoError(t, err)
	return catalog, dir
}

func TestFAQTranslationService_TranslateAll(t *testing.T) {
	catalog, dir := newTestCatalog(t)
	backups := filepath.Join(dir, "backup")
	translator := &fakeTranslator{}
	svc := NewFAQTranslationService(translator, catalog, 2, 2, backups)

	results, err := svc.TranslateAll(context.Background(), []string{"es", "en", "fr"}, false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "en", results[0].Locale)
	assert.Equal(t, 3, results[0].Entries)
	assert.NotEmpty(t, results[0].Backup)
	assert.FileExists(t, results[0].Backup)

	// fr had no file to back up
	assert.Equal(t, "fr", results[1].Locale)
	assert.Empty(t, results[1].Backup)

	// 3 entries in batches of 2
	assert.Equal(t, 2, translator.calls["en"])
	assert.Equal(t, 2, translator.calls["fr"])
	assert.Zero(t, translator.calls["es"])

	reloaded, err := i18n.Load(dir, "es", []string{"en", "fr"})
	require.NoError(t, err)
	en := reloaded.FAQ("en")
	require.Len(t, en, 3)
	assert.Equal(t, types.FAQEntry{Question: "en:¿Cuánto tarda el envío?", Answer: "en:De 3 a 5 días."}, en[0])
	assert.Equal(t, "en:¿Hay tallas infantiles?", en[2].Question)
	assert.Equal(t, "Home", reloaded.T("en", "nav.home"))
	assert.Equal(t, "FAQ", reloaded.T("en", "faq.title"))
	assert.True(t, reloaded.HasFAQ("fr"))
}

func TestFAQTranslationService_FailingLocaleUntouched(t *testing.T) {
	catalog, dir := newTestCatalog(t)
	translator := &fakeTranslator{failFor: map[string]error{"en": ErrUnrecognizedFAQShape}}
	svc := NewFAQTranslationService(translator, catalog, 10, 1, "")

	before, err := os.ReadFile(filepath.Join(dir, "en.json"))
	require.NoError(t, err)

	results, err := svc.TranslateAll(context.Background(), []string{"en", "fr"}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedFAQShape)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, ErrUnrecognizedFAQShape)
	assert.NoError(t, results[1].Err)

	after, err := os.ReadFile(filepath.Join(dir, "en.json"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.False(t, catalog.HasFAQ("en"))
	assert.True(t, catalog.HasFAQ("fr"))
}

func TestFAQTranslationService_DryRun(t *testing.T) {
	catalog, dir := newTestCatalog(t)
	svc := NewFAQTranslationService(&fakeTranslator{}, catalog, 10, 1, filepath.Join(dir, "backup"))

	results, err := svc.TranslateAll(context.Background(), []string{"en"}, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Entries)

	assert.False(t, catalog.HasFAQ("en"))
	assert.NoDirExists(t, filepath.Join(dir, "backup"))
	assert.NoFileExists(t, filepath.Join(dir, "fr.json"))
}

func TestFAQTranslationService_NoSourceFAQ(t *testing.T) {
	dir := t.TempDir()
	catalog, err := i18n.Load(dir, "es", nil)
	require.NoError(t, err)
	svc := NewFAQTranslationService(&fakeTranslator{}, catalog, 0, 0, "")

	_, err = svc.TranslateAll(context.Background(), []string{"en"}, false)
	assert.Error(t, err)
}

func TestFAQTranslationService_TranslatorError(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	boom := errors.New("rate limited")
	svc := NewFAQTranslationService(&fakeTranslator{failFor: map[string]error{"fr": boom}}, catalog, 10, 2, "")

	results, err := svc.TranslateAll(context.Background(), []string{"en", "fr"}, true)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
}

func TestFAQTranslationService_OnProgress(t *testing.T) {
	catalog, _ := newTestCatalog(t)
	svc := NewFAQTranslationService(&fakeTranslator{}, catalog, 2, 2, "")

	var mu sync.Mutex
	done := map[string]int{}
	svc.OnProgress(func(locale string, entries int) {
		mu.Lock()
		defer mu.Unlock()
		done[locale] += entries
	})

	_, err := svc.TranslateAll(context.Background(), []string{"en", "fr"}, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"en": 3, "fr": 3}, done)
}
