package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel    = "gpt-4o-mini"
)

type CompleteOptions struct {
	Temperature float64
	JSONMode    bool
}

// Provider is the single capability the parser needs from an LLM backend.
// Adapters translate provider-specific payload shapes; the retry/fallback
// orchestration stays provider-agnostic.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userText string, opts CompleteOptions) (string, error)
	Name() string
}

type anthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicProvider struct {
	messages anthropicMessager
	model    string
}

type anthropicClientCreator func(apiKey string) anthropicMessager

func defaultAnthropicCreator(apiKey string) anthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient anthropicClientCreator = defaultAnthropicCreator

func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic api key not configured")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicProvider{messages: newAnthropicClient(apiKey), model: model}, nil
}

func NewAnthropicProviderFromEnv() (*AnthropicProvider, error) {
	return NewAnthropicProvider(os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("OFFERDESK_ANTHROPIC_MODEL"))
}

func (a *AnthropicProvider) Name() string { return "anthropic/" + a.model }

func (a *AnthropicProvider) Complete(ctx context.Context, systemPrompt, userText string, opts CompleteOptions) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   2048,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(userText))},
		Temperature: anthropic.Float(opts.Temperature),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// OpenAICompatProvider talks to any OpenAI-compatible chat completions
// endpoint over plain HTTP. Used as the fallback backend.
type OpenAICompatProvider struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewOpenAICompatProvider(endpoint, model, apiKey string) (*OpenAICompatProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key not configured")
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAICompatProvider{
		endpoint:   endpoint,
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *OpenAICompatProvider) Name() string { return "openai/" + c.model }

func (c *OpenAICompatProvider) Complete(ctx context.Context, systemPrompt, userText string, opts CompleteOptions) (string, error) {
	payload := map[string]any{
		"model":       c.model,
		"temperature": opts.Temperature,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userText},
		},
	}
	if opts.JSONMode {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}
