package simplifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/use-agent/focusmode/models"
)

// Attribution headers OpenRouter uses to identify the calling app.
const (
	openRouterReferer = "https://github.com/focus-mode-accessibility-tool"
	openRouterTitle   = "Focus Mode Accessibility Tool"
)

const chatTemperature = 0.7

// OpenRouterProvider calls an OpenAI-compatible chat completion endpoint.
type OpenRouterProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenRouterProvider creates a provider for baseURL (for example
// "https://openrouter.ai/api/v1") and model.
func NewOpenRouterProvider(baseURL, model string) *OpenRouterProvider {
	return &OpenRouterProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Transport: &headerTransport{
				base: http.DefaultTransport,
				headers: map[string]string{
					"HTTP-Referer": openRouterReferer,
					"X-Title":      openRouterTitle,
				},
			},
		},
	}
}

func (p *OpenRouterProvider) Name() string { return "openrouter" }

// Complete sends req.Prompt as a single user message.
func (p *OpenRouterProvider) Complete(ctx context.Context, req Request) (string, error) {
	cfg := openai.DefaultConfig(req.APIKey)
	cfg.BaseURL = p.baseURL
	cfg.HTTPClient = p.httpClient
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: chatTemperature,
		MaxTokens:   req.Profile.MaxTokens(),
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Kind: models.ErrKindAPI, Message: msgParseError + ": no choices"}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyOpenAIError maps go-openai errors to ProviderErrors. Errors without
// an HTTP status are returned as-is for the caller to classify.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return statusError(apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		detail := ""
		if reqErr.Err != nil {
			detail = reqErr.Err.Error()
		}
		return statusError(reqErr.HTTPStatusCode, detail)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ProviderError{Kind: models.ErrKindAPI, Message: fmt.Sprintf("%s: %v", msgParseError, err), Err: err}
	}

	return fmt.Errorf("openrouter: %w", err)
}

// headerTransport sets fixed headers on every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
