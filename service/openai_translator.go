package service

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
)

var faqTranslationSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"faqs": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"question": {Type: jsonschema.String},
					"answer":   {Type: jsonschema.String},
				},
				Required:             []string{"question", "answer"},
				AdditionalProperties: false,
			},
		},
	},
	Required:             []string{"faqs"},
	AdditionalProperties: false,
}

// OpenAITranslator talks to any OpenAI-compatible chat completion endpoint.
type OpenAITranslator struct {
	client           *openai.Client
	model            string
	structuredOutput bool
}

func NewOpenAITranslator(baseURL, apiKey, model string, structuredOutput bool) *OpenAITranslator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAITranslator{
		client:           client,
		model:            model,
		structuredOutput: structuredOutput,
	}
}

func (s *OpenAITranslator) TranslateFAQ(ctx context.Context, source, target string, entries []types.FAQEntry) ([]types.FAQEntry, error) {
	if len(entries) == 0 {
		return []types.FAQEntry{}, nil
	}
	prompt, err := translationPrompt(source, target, entries)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translatorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	}
	if s.structuredOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "faq_translation",
				Schema: &faqTranslationSchema,
				Strict: true,
			},
		}
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyTranslation
	}
	zap.L().Debug("openai translation finished",
		zap.String("target", target),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return ParseFAQResponse(resp.Choices[0].Message.Content, len(entries))
}
