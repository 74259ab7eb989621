// Package simplifier truncates article text, builds the simplification
// prompt and calls the configured text-generation provider.
package simplifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/focusmode/config"
	"github.com/use-agent/focusmode/models"
)

const msgMissingKey = "No API key provided. Please enter your own API key to use AI simplification."

// Result is the outcome of one Simplify call.
type Result struct {
	SimplifiedText string
	WasTruncated   bool
	Success        bool
	Error          string
	ErrorKind      string

	// ColdStartHint is informational: the provider reported a cold start
	// or a successful call was unusually slow.
	ColdStartHint bool
}

// Simplifier holds the process-wide provider settings. It keeps no
// per-request state and is safe for concurrent use.
type Simplifier struct {
	providers          map[string]Provider
	provider           string
	apiKey             string
	timeout            time.Duration
	coldStartThreshold time.Duration
}

// New creates a Simplifier with the OpenRouter and Hugging Face providers
// registered and cfg.Provider selected.
func New(cfg config.AIConfig) *Simplifier {
	s := &Simplifier{
		providers:          make(map[string]Provider),
		provider:           cfg.Provider,
		apiKey:             cfg.APIKey,
		timeout:            cfg.Timeout,
		coldStartThreshold: cfg.ColdStartThreshold,
	}
	if s.timeout <= 0 {
		s.timeout = 60 * time.Second
	}
	if s.coldStartThreshold <= 0 {
		s.coldStartThreshold = 10 * time.Second
	}
	s.Register(NewOpenRouterProvider(cfg.OpenRouterURL, cfg.OpenRouterModel))
	s.Register(NewHuggingFaceProvider(cfg.HuggingFaceURL, cfg.HuggingFaceModel, nil))
	return s
}

// Register adds or replaces a provider under its Name.
func (s *Simplifier) Register(p Provider) {
	s.providers[p.Name()] = p
}

// HasKey reports whether a server-side provider key is configured.
func (s *Simplifier) HasKey() bool { return s.apiKey != "" }

// ProviderName is the selected provider.
func (s *Simplifier) ProviderName() string { return s.provider }

// Simplify truncates text to the profile's budget and asks the provider to
// simplify it. apiKey, when set, overrides the configured key. The call is
// never retried.
func (s *Simplifier) Simplify(ctx context.Context, text string, profile Profile, apiKey string) *Result {
	truncated, wasTruncated := Truncate(text, profile.WordBudget())

	if apiKey == "" {
		apiKey = s.apiKey
	}
	if apiKey == "" {
		return &Result{WasTruncated: wasTruncated, Error: msgMissingKey, ErrorKind: models.ErrKindMissingKey}
	}

	provider, ok := s.providers[s.provider]
	if !ok {
		return &Result{
			WasTruncated: wasTruncated,
			Error:        fmt.Sprintf("Unknown API provider: %s", s.provider),
			ErrorKind:    models.ErrKindAPI,
		}
	}

	req := Request{
		APIKey:  apiKey,
		Prompt:  BuildPrompt(truncated, profile),
		Text:    truncated,
		Profile: profile,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := provider.Complete(callCtx, req)
	elapsed := time.Since(start)

	if err != nil {
		pe := classifyCallError(err)
		slog.Warn("simplification failed",
			"provider", provider.Name(),
			"kind", pe.Kind,
			"elapsed", elapsed,
			"error", err,
		)
		return &Result{
			WasTruncated:  wasTruncated,
			Error:         pe.Message,
			ErrorKind:     pe.Kind,
			ColdStartHint: pe.ColdStart,
		}
	}

	coldStart := elapsed > s.coldStartThreshold
	slog.Info("simplified text",
		"provider", provider.Name(),
		"profile", string(profile),
		"truncated", wasTruncated,
		"prompt_tokens_est", EstimateTokens(req.Prompt),
		"elapsed", elapsed,
		"cold_start", coldStart,
	)

	return &Result{
		SimplifiedText: out,
		WasTruncated:   wasTruncated,
		Success:        true,
		ColdStartHint:  coldStart,
	}
}
