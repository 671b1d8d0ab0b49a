package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
)

const faqItemsKey = "faq.items"

// Catalog holds the <locale>.json message files of the site. Lookups fall
// back to the default locale.
type Catalog struct {
	mu            sync.RWMutex
	dir           string
	defaultLocale string
	messages      map[string]map[string]any
}

// Load reads <dir>/<locale>.json for every locale. A missing file yields an
// empty catalog for that locale; a malformed one is an error.
func Load(dir, defaultLocale string, locales []string) (*Catalog, error) {
	c := &Catalog{
		dir:           dir,
		defaultLocale: defaultLocale,
		messages:      make(map[string]map[string]any),
	}
	for _, locale := range append([]string{defaultLocale}, locales...) {
		if _, ok := c.messages[locale]; ok {
			continue
		}
		msgs, err := readMessages(c.Path(locale))
		if errors.Is(err, fs.ErrNotExist) {
			zap.L().Warn("message file not found", zap.String("locale", locale), zap.String("path", c.Path(locale)))
			msgs = make(map[string]any)
		} else if err != nil {
			return nil, err
		}
		c.messages[locale] = msgs
	}
	return c, nil
}

func readMessages(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	msgs := make(map[string]any)
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return msgs, nil
}

func (c *Catalog) Path(locale string) string {
	return filepath.Join(c.dir, locale+".json")
}

func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// T returns the string at a dotted key, or the key itself when neither the
// locale nor the default locale defines it.
func (c *Catalog) T(locale, key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, l := range []string{locale, c.defaultLocale} {
		if s, ok := lookup(c.messages[l], key).(string); ok && s != "" {
			return s
		}
	}
	return key
}

// FAQ returns the FAQ items for locale, or the default locale's when the
// locale has none.
func (c *Catalog) FAQ(locale string) []types.FAQEntry {
	if entries := c.ownFAQ(locale); len(entries) > 0 {
		return entries
	}
	return c.ownFAQ(c.defaultLocale)
}

// HasFAQ reports whether locale defines its own FAQ items.
func (c *Catalog) HasFAQ(locale string) bool {
	return len(c.ownFAQ(locale)) > 0
}

func (c *Catalog) ownFAQ(locale string) []types.FAQEntry {
	c.mu.RLock()
	raw := lookup(c.messages[locale], faqItemsKey)
	c.mu.RUnlock()
	if raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var entries []types.FAQEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		zap.L().Warn("malformed faq items", zap.String("locale", locale), zap.Error(err))
		return nil
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Question != "" && e.Answer != "" {
			out = append(out, e)
		}
	}
	return out
}

// SetFAQ replaces the FAQ items of locale, keeping every other key.
func (c *Catalog) SetFAQ(locale string, entries []types.FAQEntry) {
	items := make([]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, map[string]any{"question": e.Question, "answer": e.Answer})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msgs, ok := c.messages[locale]
	if !ok {
		msgs = make(map[string]any)
		c.messages[locale] = msgs
	}
	set(msgs, faqItemsKey, items)
}

// Save writes the messages of locale back to its file.
func (c *Catalog) Save(locale string) error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c.messages[locale], "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode %s messages: %w", locale, err)
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create messages directory: %w", err)
	}
	if err := os.WriteFile(c.Path(locale), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s messages: %w", locale, err)
	}
	return nil
}

func lookup(m map[string]any, key string) any {
	var cur any = m
	for _, part := range strings.Split(key, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[part]
	}
	return cur
}

func set(m map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	cur := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}
