package simplifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/use-agent/focusmode/models"
)

// Provider is a text-generation backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is one simplification call.
type Request struct {
	APIKey  string
	Prompt  string // full instruction prompt, for chat models
	Text    string // bare text, for summarisation models
	Profile Profile
}

// ProviderError is a classified provider failure.
type ProviderError struct {
	Kind      string // invalid_key, rate_limit, timeout or api_error
	Message   string
	ColdStart bool
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

const (
	msgTimeout    = "AI service timeout. This may be a cold-start delay (10-30s). Please try again."
	msgColdStart  = "Service temporarily unavailable. This may be a cold-start delay. Please try again."
	msgParseError = "Failed to parse API response"
)

// statusError maps a non-200 provider status to a ProviderError.
func statusError(status int, detail string) *ProviderError {
	switch status {
	case http.StatusUnauthorized:
		return &ProviderError{Kind: models.ErrKindInvalidKey, Message: models.MessageFor(models.ErrKindInvalidKey)}
	case http.StatusTooManyRequests:
		return &ProviderError{Kind: models.ErrKindRateLimit, Message: models.MessageFor(models.ErrKindRateLimit)}
	default:
		return &ProviderError{Kind: models.ErrKindAPI, Message: fmt.Sprintf("API error: %d - %s", status, detail)}
	}
}

// classifyCallError turns any error from Provider.Complete into a
// ProviderError. Deadline and network timeouts carry the cold-start hint.
func classifyCallError(err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ProviderError{Kind: models.ErrKindTimeout, Message: msgTimeout, ColdStart: true, Err: err}
	}

	return &ProviderError{Kind: models.ErrKindAPI, Message: fmt.Sprintf("Network error: %v", err), Err: err}
}
