package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/aquaevents/types"
)

func TestFAQResponse_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    FAQResponseKind
		wrapper string
		count   int
	}{
		{"array", `[{"question":"q","answer":"a"}]`, FAQResponseArray, "", 1},
		{"wrapped faqs", `{"faqs":[{"question":"q","answer":"a"},{"question":"q2","answer":"a2"}]}`, FAQResponseWrapped, "faqs", 2},
		{"wrapped items", ` {"items":[{"question":"q","answer":"a"}]}`, FAQResponseWrapped, "items", 1},
		{"skips non-array wrapper", `{"faq":"nope","questions":[{"question":"q","answer":"a"}]}`, FAQResponseWrapped, "questions", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp FAQResponse
			require.NoError(t, json.Unmarshal([]byte(tt.input), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, tt.wrapper, resp.WrapperKey)
			assert.Len(t, resp.Entries(), tt.count)
		})
	}

	for _, input := range []string{`{"data":[]}`, `"text"`, `42`, `[{"question":1}]`} {
		var resp FAQResponse
		err := json.Unmarshal([]byte(input), &resp)
		assert.ErrorIs(t, err, ErrUnrecognizedFAQShape, input)
		assert.Equal(t, FAQResponseUnknown, resp.Kind)
	}
}

func TestFAQResponseKind_String(t *testing.T) {
	assert.Equal(t, "array", FAQResponseArray.String())
	assert.Equal(t, "wrapped", FAQResponseWrapped.String())
	assert.Equal(t, "unknown", FAQResponseUnknown.String())
}

func TestParseFAQResponse(t *testing.T) {
	t.Run("code fence", func(t *testing.T) {
		content := "```json\n{\"faqs\":[{\"question\":\" How long? \",\"answer\":\"30 days\"}]}\n```"

		entries, err := ParseFAQResponse(content, 1)
		require.NoError(t, err)
		assert.Equal(t, []types.FAQEntry{{Question: "How long?", Answer: "30 days"}}, entries)
	})

	t.Run("unknown shape fails", func(t *testing.T) {
		_, err := ParseFAQResponse(`{"translation":"..."}`, 1)
		assert.ErrorIs(t, err, ErrUnrecognizedFAQShape)

		_, err = ParseFAQResponse(`not json`, 1)
		assert.ErrorIs(t, err, ErrUnrecognizedFAQShape)
	})

	t.Run("count mismatch fails", func(t *testing.T) {
		_, err := ParseFAQResponse(`[{"question":"q","answer":"a"},{"question":"","answer":"a"}]`, 2)
		assert.ErrorIs(t, err, ErrFAQCountMismatch)
	})
}

func TestTranslationPrompt(t *testing.T) {
	prompt, err := translationPrompt("es", "en", []types.FAQEntry{{Question: "¿Cuánto dura?", Answer: "30 días"}})
	require.NoError(t, err)
	assert.Contains(t, prompt, `"es"`)
	assert.Contains(t, prompt, `"en"`)
	assert.Contains(t, prompt, `{"question":"¿Cuánto dura?","answer":"30 días"}`)
}

func newChatServer(t *testing.T, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if seen != nil {
			_ = json.Unmarshal(body, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAITranslator_TranslateFAQ(t *testing.T) {
	source := []types.FAQEntry{{Question: "¿Cuánto dura?", Answer: "30 días"}}

	t.Run("wrapped reply", func(t *testing.T) {
		var seen map[string]any
		srv := newChatServer(t, `{"faqs":[{"question":"How long?","answer":"30 days"}]}`, &seen)
		tr := NewOpenAITranslator(srv.URL+"/v1", "test-key", "test-model", true)

		got, err := tr.TranslateFAQ(context.Background(), "es", "en", source)
		require.NoError(t, err)
		assert.Equal(t, []types.FAQEntry{{Question: "How long?", Answer: "30 days"}}, got)

		assert.Equal(t, "test-model", seen["model"])
		format, ok := seen["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_schema", format["type"])
	})

	t.Run("array reply without structured output", func(t *testing.T) {
		var seen map[string]any
		srv := newChatServer(t, `[{"question":"How long?","answer":"30 days"}]`, &seen)
		tr := NewOpenAITranslator(srv.URL+"/v1", "test-key", "test-model", false)

		got, err := tr.TranslateFAQ(context.Background(), "es", "en", source)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.NotContains(t, seen, "response_format")
	})

	t.Run("unrecognized reply", func(t *testing.T) {
		srv := newChatServer(t, `Sorry, I cannot help with that.`, nil)
		tr := NewOpenAITranslator(srv.URL+"/v1", "test-key", "test-model", false)

		_, err := tr.TranslateFAQ(context.Background(), "es", "en", source)
		assert.ErrorIs(t, err, ErrUnrecognizedFAQShape)
	})

	t.Run("nothing to translate", func(t *testing.T) {
		tr := NewOpenAITranslator("http://127.0.0.1:0/v1", "test-key", "test-model", false)

		got, err := tr.TranslateFAQ(context.Background(), "es", "en", nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
