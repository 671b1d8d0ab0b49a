package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// geminiClient is one API-key-bound connection to Gemini.
type geminiClient interface {
	generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

type geminiClientFactory func(ctx context.Context, apiKey string) (geminiClient, error)

type genaiClient struct {
	client    *genai.Client
	modelName string
}

func newGenaiClientFactory(modelName string) geminiClientFactory {
	return func(ctx context.Context, apiKey string) (geminiClient, error) {
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, err
		}
		return &genaiClient{client: client, modelName: modelName}, nil
	}
}

func (c *genaiClient) generate(ctx context.Context, prompt string) (string, error) {
	m := c.client.GenerativeModel(c.modelName)
	m.SetTemperature(0.2)
	m.ResponseMIMEType = "application/json"
	m.SystemInstruction = genai.NewUserContent(genai.Text(translatorSystemPrompt))

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	var content strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content.WriteString(string(text))
			}
		}
		break
	}
	return content.String(), nil
}

func (c *genaiClient) Close() error {
	return c.client.Close()
}

// GeminiTranslator uses the Gemini API, rotating to the next API key when a
// request fails.
type GeminiTranslator struct {
	apiKeys    []string
	currentKey int
	client     geminiClient
	newClient  geminiClientFactory
	mu         sync.Mutex
}

func NewGeminiTranslator(ctx context.Context, apiKeys []string, modelName string) (*GeminiTranslator, error) {
	return newGeminiTranslator(ctx, apiKeys, newGenaiClientFactory(modelName))
}

func newGeminiTranslator(ctx context.Context, apiKeys []string, factory geminiClientFactory) (*GeminiTranslator, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}
	client, err := factory(ctx, apiKeys[0])
	if err != nil {
		return nil, err
	}
	return &GeminiTranslator{
		apiKeys:   apiKeys,
		client:    client,
		newClient: factory,
	}, nil
}

func (s *GeminiTranslator) current() geminiClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// rotateFrom replaces failed with a client for the next API key. When another
// goroutine has already replaced failed, its client is returned instead and
// no key is skipped.
func (s *GeminiTranslator) rotateFrom(ctx context.Context, failed geminiClient) (geminiClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != failed {
		return s.client, nil
	}
	next := (s.currentKey + 1) % len(s.apiKeys)
	client, err := s.newClient(ctx, s.apiKeys[next])
	if err != nil {
		return nil, err
	}
	s.currentKey = next
	s.client = client
	if err := failed.Close(); err != nil {
		zap.L().Warn("failed to close gemini client", zap.Error(err))
	}
	return client, nil
}

func (s *GeminiTranslator) TranslateFAQ(ctx context.Context, source, target string, entries []types.FAQEntry) ([]types.FAQEntry, error) {
	if len(entries) == 0 {
		return []types.FAQEntry{}, nil
	}
	prompt, err := translationPrompt(source, target, entries)
	if err != nil {
		return nil, err
	}

	client := s.current()
	content, err := client.generate(ctx, prompt)
	if err != nil && len(s.apiKeys) > 1 {
		zap.L().Warn("gemini request failed, rotating API key", zap.String("target", target), zap.Error(err))
		next, rerr := s.rotateFrom(ctx, client)
		if rerr != nil {
			return nil, rerr
		}
		content, err = next.generate(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, ErrEmptyTranslation
	}
	return ParseFAQResponse(content, len(entries))
}

func (s *GeminiTranslator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Close()
}
