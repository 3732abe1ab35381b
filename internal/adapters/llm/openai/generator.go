// Package openai answers prompts through any OpenAI-compatible chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

type Generator struct {
	client openai.Client
	model  string
}

var _ ports.TextGenerator = (*Generator)(nil)

type settings struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

type Option func(*settings)

func WithModel(model string) Option {
	return func(s *settings) {
		if strings.TrimSpace(model) != "" {
			s.model = strings.TrimSpace(model)
		}
	}
}

// WithBaseURL targets Azure OpenAI, a local model server or any other compatible API.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		if strings.TrimSpace(baseURL) != "" {
			s.baseURL = strings.TrimSpace(baseURL)
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

func NewGenerator(apiKey string, opts ...Option) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrMissingAPIKey)
	}

	cfg := settings{model: DefaultModel, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.httpClient != nil {
		requestOptions = append(requestOptions, option.WithHTTPClient(cfg.httpClient))
	}

	return &Generator{
		client: openai.NewClient(requestOptions...),
		model:  cfg.model,
	}, nil
}

func (g *Generator) Model() string {
	return g.model
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	text := completion.Choices[0].Message.Content
	if text == "" {
		return "", errors.New("openai returned an empty message")
	}

	return text, nil
}
