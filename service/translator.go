package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tieubaoca/aquaevents/types"
)

var (
	ErrUnrecognizedFAQShape = errors.New("unrecognized FAQ response shape")
	ErrFAQCountMismatch     = errors.New("translated FAQ item count does not match source")
	ErrEmptyTranslation     = errors.New("no response generated")
)

// Translator turns a block of FAQ entries from one locale into another,
// keeping order and count.
type Translator interface {
	TranslateFAQ(ctx context.Context, source, target string, entries []types.FAQEntry) ([]types.FAQEntry, error)
}

// FAQResponseKind tells which JSON shape a model reply arrived in.
type FAQResponseKind int

const (
	FAQResponseUnknown FAQResponseKind = iota
	FAQResponseArray
	FAQResponseWrapped
)

func (k FAQResponseKind) String() string {
	switch k {
	case FAQResponseArray:
		return "array"
	case FAQResponseWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// wrapperKeys are the object fields a model may wrap the FAQ array in.
var wrapperKeys = []string{"faqs", "items", "faq", "questions"}

// FAQResponse is a decoded model reply: either a bare array of entries or an
// object wrapping one.
type FAQResponse struct {
	Kind       FAQResponseKind
	WrapperKey string
	items      []types.FAQEntry
}

func (r *FAQResponse) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = FAQResponse{}
	switch {
	case len(data) > 0 && data[0] == '[':
		var items []types.FAQEntry
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("%w: %v", ErrUnrecognizedFAQShape, err)
		}
		r.Kind = FAQResponseArray
		r.items = items
		return nil
	case len(data) > 0 && data[0] == '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrUnrecognizedFAQShape, err)
		}
		for _, key := range wrapperKeys {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			var items []types.FAQEntry
			if err := json.Unmarshal(raw, &items); err != nil {
				continue
			}
			r.Kind = FAQResponseWrapped
			r.WrapperKey = key
			r.items = items
			return nil
		}
	}
	return ErrUnrecognizedFAQShape
}

// Entries returns the normalized entries. Entries missing either field are
// dropped so callers can compare counts against the source.
func (r FAQResponse) Entries() []types.FAQEntry {
	out := make([]types.FAQEntry, 0, len(r.items))
	for _, e := range r.items {
		e.Question = strings.TrimSpace(e.Question)
		e.Answer = strings.TrimSpace(e.Answer)
		if e.Question == "" || e.Answer == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ParseFAQResponse normalizes a raw model reply, stripping markdown fences,
// and checks the result has exactly want entries.
func ParseFAQResponse(content string, want int) ([]types.FAQEntry, error) {
	content = stripCodeFence(content)
	var resp FAQResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		if errors.Is(err, ErrUnrecognizedFAQShape) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFAQShape, err)
	}
	entries := resp.Entries()
	if len(entries) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFAQCountMismatch, len(entries), want)
	}
	return entries, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func translationPrompt(source, target string, entries []types.FAQEntry) (string, error) {
	payload, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Translate the following FAQ entries from locale %q to locale %q.
Keep the same number of entries in the same order. Keep brand names, URLs and numbers unchanged.
Reply with JSON only, in the form {"faqs":[{"question":"...","answer":"..."}]}.

%s`, source, target, payload), nil
}

const translatorSystemPrompt = "You are a professional translator for a website about swimming and aquatic sporting events. You translate precisely and reply with JSON only."
